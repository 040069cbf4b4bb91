package solver

import (
	"math"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

// Entropy is the Shannon entropy, in bits, of the partition of set induced
// by guessing guess: candidates are bucketed by the pattern they would
// produce and each bucket's weight share is its probability. Empty buckets
// are skipped.
func Entropy(cache *PatternCache, set *CandidateSet, guess Entry) float64 {
	var buckets [feedback.NumPatterns]float64
	for _, e := range set.entries {
		buckets[cache.Get(guess.Index, e.Index)] += e.Weight
	}
	return entropyOf(buckets[:], set.total)
}

// Entropy of the set's own prior distribution: the uncertainty left about
// which candidate is the answer.
func (s *CandidateSet) Entropy() float64 {
	var h float64
	for _, e := range s.entries {
		if e.Weight == 0 {
			continue
		}
		p := e.Weight / s.total
		h -= p * math.Log2(p)
	}
	return h
}

func entropyOf(weights []float64, total float64) float64 {
	var h float64
	for _, w := range weights {
		if w == 0 {
			continue
		}
		p := w / total
		h -= p * math.Log2(p)
	}
	return h
}
