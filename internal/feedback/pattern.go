package feedback

import (
	"fmt"
	"iter"
)

// NumPatterns is the number of distinct masks, 3^WordLen.
const NumPatterns = 243

// PatternIndex is a Mask encoded in base 3 with position 0 as the most
// significant digit. It carries no information beyond the Mask and exists
// for array indexing.
type PatternIndex uint8

// Index encodes m.
func (m Mask) Index() PatternIndex {
	var n PatternIndex
	for _, s := range m {
		n = n*3 + PatternIndex(s)
	}
	return n
}

// FromIndex decodes a PatternIndex. Values outside [0, NumPatterns) panic.
func FromIndex(p PatternIndex) Mask {
	if int(p) >= NumPatterns {
		panic(fmt.Sprintf("feedback: pattern index %d out of range", p))
	}
	var m Mask
	for i := WordLen - 1; i >= 0; i-- {
		m[i] = Symbol(p % 3)
		p /= 3
	}
	return m
}

// AllPatterns yields every mask once, lexicographically over
// {Correct, Misplaced, Wrong} per position. Each range over the returned
// sequence starts again from the first mask.
func AllPatterns() iter.Seq[Mask] {
	return func(yield func(Mask) bool) {
		for p := 0; p < NumPatterns; p++ {
			if !yield(FromIndex(PatternIndex(p))) {
				return
			}
		}
	}
}
