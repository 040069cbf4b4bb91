package feedback

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrMaskLength is returned when input does not reduce to WordLen symbols.
	ErrMaskLength = errors.New("mask must have exactly 5 symbols")
	// ErrMaskSymbol is returned for a character that names no Symbol.
	ErrMaskSymbol = errors.New("unrecognized mask symbol")
)

// ParseMask reads user-typed per-letter codes. Whitespace is ignored.
// Accepted codes (case-insensitive):
//
//	Correct:   g c 2 +
//	Misplaced: y m 1 ?
//	Wrong:     b w x 0 . -
//
// Malformed input is an ordinary error so interactive callers can re-prompt.
func ParseMask(s string) (Mask, error) {
	var m Mask
	n := 0
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			continue
		}
		var sym Symbol
		switch r {
		case 'g', 'c', '2', '+':
			sym = Correct
		case 'y', 'm', '1', '?':
			sym = Misplaced
		case 'b', 'w', 'x', '0', '.', '-':
			sym = Wrong
		default:
			return Mask{}, fmt.Errorf("%w: %q", ErrMaskSymbol, r)
		}
		if n == WordLen {
			return Mask{}, fmt.Errorf("%w: got more than %d", ErrMaskLength, WordLen)
		}
		m[n] = sym
		n++
	}
	if n != WordLen {
		return Mask{}, fmt.Errorf("%w: got %d", ErrMaskLength, n)
	}
	return m, nil
}
