// Package assets embeds the default word lists so the solver runs even when
// no word files are configured.
package assets

import (
	"embed"
	"io"
)

//go:embed dictionary.txt answers.txt
var FS embed.FS

// Dictionary opens the embedded "word count" frequency list.
func Dictionary() (io.ReadCloser, error) {
	return FS.Open("dictionary.txt")
}

// Answers opens the embedded benchmark answer list.
func Answers() (io.ReadCloser, error) {
	return FS.Open("answers.txt")
}
