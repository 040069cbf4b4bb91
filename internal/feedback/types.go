// apps/go-solver/internal/feedback/types.go
//
// Core type definitions for Wordle feedback.
// Defines:
//   - Symbol: per-letter verdict of a guess (correct/misplaced/wrong).
//   - Mask: the five verdicts for one guess.
//   - Record/History: the (guess, mask) pairs observed during a game.

package feedback

import "strings"

// WordLen is the number of letters in every word.
const WordLen = 5

// Symbol represents the evaluation result for a single letter in a guess.
// The numeric values double as base-3 digits for PatternIndex.
//   - Correct:   letter is in the answer at this position (green).
//   - Misplaced: letter is in the answer at another position (yellow).
//   - Wrong:     letter is not in the answer, or all copies are claimed (gray).
type Symbol uint8

const (
	Correct Symbol = iota
	Misplaced
	Wrong
)

// String returns the single-letter code used by ParseMask.
func (s Symbol) String() string {
	switch s {
	case Correct:
		return "g"
	case Misplaced:
		return "y"
	case Wrong:
		return "b"
	}
	return "?"
}

// Mask holds one Symbol per letter position of a specific guess.
type Mask [WordLen]Symbol

// AllCorrect is the mask of a solved game.
var AllCorrect = Mask{Correct, Correct, Correct, Correct, Correct}

// Solved reports whether every position is Correct.
func (m Mask) Solved() bool { return m == AllCorrect }

func (m Mask) String() string {
	var b strings.Builder
	for _, s := range m {
		b.WriteString(s.String())
	}
	return b.String()
}

// MarshalText encodes the mask as its letter code, e.g. "gybbb".
func (m Mask) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText accepts anything ParseMask accepts.
func (m *Mask) UnmarshalText(b []byte) error {
	parsed, err := ParseMask(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Record is a single turn: the word guessed and the mask observed for it.
type Record struct {
	Word string `json:"word"`
	Mask Mask   `json:"mask"`
}

// Matches reports whether observing r is possible when word is the answer.
func (r Record) Matches(word string) bool {
	return Matches(word, r.Word, r.Mask)
}

// History is the ordered sequence of turns of one game. Entries are
// appended once and never mutated.
type History []Record
