// apps/go-solver/internal/words/words.go
//
// Provides word list management for the solver.
//
// Responsibilities:
//   - Load the frequency dictionary and the benchmark answer list from
//     environment-provided files or fall back to embedded defaults.
//   - Maintain a set for quick "is this a dictionary word" lookups.
//   - Supply utility functions like RandomAnswer, IsAllowed, Stats and Fingerprint.
//
// Word Lists:
//   - "dictionary": every guessable word with a positive corpus count,
//     one "word count" pair per line.
//   - "answers": words used for benchmark and daily runs (subset of dictionary).
//
// Environment variables:
//   WORDS_DICTIONARY_FILE=/path/to/dictionary.txt
//   WORDS_ANSWERS_FILE=/path/to/answers.txt
//
// Constraints:
//   • Words must be 5 alphabetic letters (a–z).
//   • Lists are normalized to lowercase.
//   • Initialization is run once (sync.Once).

package words

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/blake2b"

	"github.com/robalobadob/wordle/apps/go-solver/assets"
)

// Entry is one dictionary line.
type Entry struct {
	Word  string `json:"word"`
	Count uint64 `json:"count"`
}

var (
	initOnce    sync.Once
	dictionary  []Entry             // in file order
	answers     []string            // benchmark/daily answers
	allowedSet  map[string]struct{} // dictionary words
	fingerprint string
	initialErr  error
)

// Init loads word lists exactly once.
// Returns an error if the dictionary ends up empty or malformed.
func Init() error {
	initOnce.Do(func() {
		dict, err := openAndParse(os.Getenv("WORDS_DICTIONARY_FILE"), assets.Dictionary, ParseDictionary)
		if err != nil {
			initialErr = fmt.Errorf("words: dictionary: %w", err)
			return
		}
		if len(dict) == 0 {
			initialErr = errors.New("words: dictionary is empty")
			return
		}
		ans, err := openAndParse(os.Getenv("WORDS_ANSWERS_FILE"), assets.Answers, ParseWordList)
		if err != nil {
			initialErr = fmt.Errorf("words: answers: %w", err)
			return
		}
		set(dict, ans)
	})
	return initialErr
}

// set installs the lists. Answers missing from the dictionary are dropped:
// the solver can never guess them.
func set(dict []Entry, ans []string) {
	dictionary = dict
	allowedSet = make(map[string]struct{}, len(dict))
	for _, e := range dict {
		allowedSet[e.Word] = struct{}{}
	}
	answers = answers[:0]
	for _, w := range ans {
		if _, ok := allowedSet[w]; !ok {
			log.Warn().Str("word", w).Msg("answer not in dictionary, skipped")
			continue
		}
		answers = append(answers, w)
	}
	fingerprint = FingerprintOf(dict)
}

func openAndParse[T any](path string, embedded func() (io.ReadCloser, error), parse func(io.Reader) ([]T, error)) ([]T, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	if path != "" {
		rc, err = os.Open(path)
	} else {
		rc, err = embedded()
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return parse(rc)
}

// ParseDictionary reads "word count" lines. Blank lines and lines starting
// with '#' are skipped. Words are lowercased; a word that is not 5 letters
// a–z, a missing or non-positive count, or a repeated word is an error
// naming the line.
func ParseDictionary(r io.Reader) ([]Entry, error) {
	var out []Entry
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		fields := strings.Fields(s)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: want \"word count\", got %q", line, s)
		}
		w := strings.ToLower(fields[0])
		if !IsWord(w) {
			return nil, fmt.Errorf("line %d: invalid word %q", line, fields[0])
		}
		n, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("line %d: invalid count %q", line, fields[1])
		}
		if _, dup := seen[w]; dup {
			return nil, fmt.Errorf("line %d: duplicate word %q", line, w)
		}
		seen[w] = struct{}{}
		out = append(out, Entry{Word: w, Count: n})
	}
	return out, sc.Err()
}

// ParseWordList loads one word per line, lowercases, trims, and keeps only
// valid 5-letter alphabetic words.
func ParseWordList(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := strings.TrimSpace(strings.ToLower(sc.Text()))
		if IsWord(w) {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

// IsWord reports whether s is exactly 5 lowercase ASCII letters.
func IsWord(s string) bool {
	if len(s) != 5 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

// FingerprintOf hashes the dictionary (words and counts, in order) so stored
// results can be tied to the list that produced them.
func FingerprintOf(entries []Entry) string {
	h, _ := blake2b.New256(nil)
	for _, e := range entries {
		fmt.Fprintf(h, "%s %d\n", e.Word, e.Count)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Dictionary returns the loaded dictionary in file order.
func Dictionary() []Entry { return dictionary }

// Answers returns the benchmark answer list.
func Answers() []string { return answers }

// Fingerprint returns the blake2b fingerprint of the loaded dictionary.
func Fingerprint() string { return fingerprint }

// RandomAnswer returns a cryptographically random answer from the answers list.
// If answers are not loaded yet or empty, falls back to "crane".
func RandomAnswer() string {
	if len(answers) == 0 {
		return "crane"
	}
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(answers))))
	return answers[nBig.Int64()]
}

// IsAllowed reports whether w is a dictionary word.
func IsAllowed(w string) bool {
	_, ok := allowedSet[strings.ToLower(w)]
	return ok
}

// Stats returns counts of loaded words: (dictionary, answers).
func Stats() (dictionaryCount int, answersCount int) {
	return len(dictionary), len(answers)
}
