package game

import (
	"strings"

	"github.com/TwiN/go-color"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

// Render draws a record as tiles: green for Correct, yellow for Misplaced,
// gray for Wrong. With colored false the mask code is appended instead,
// e.g. "C R A N E  gybbg".
func Render(rec feedback.Record, colored bool) string {
	var b strings.Builder
	for i := 0; i < len(rec.Word) && i < feedback.WordLen; i++ {
		tile := " " + strings.ToUpper(rec.Word[i:i+1]) + " "
		if colored {
			b.WriteString(color.Ize(symbolColor(rec.Mask[i]), tile))
		} else {
			b.WriteString(tile)
		}
	}
	if !colored {
		b.WriteString(" " + rec.Mask.String())
	}
	return b.String()
}

func symbolColor(s feedback.Symbol) string {
	switch s {
	case feedback.Correct:
		return color.Green
	case feedback.Misplaced:
		return color.Yellow
	}
	return color.Gray
}
