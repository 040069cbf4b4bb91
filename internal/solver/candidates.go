package solver

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

// CandidateSet is the weighted working set of words still consistent with
// every record observed so far. It only ever shrinks.
//
// Entries keep the Context order (descending frequency), so a prefix of
// Entries() is the top-ranked-by-weight part of the set.
type CandidateSet struct {
	entries []Entry
	total   float64
	alive   *bitset.BitSet
}

// NewCandidateSet returns a set holding the whole dictionary of c.
func NewCandidateSet(c *Context) *CandidateSet {
	s := &CandidateSet{
		entries: make([]Entry, len(c.entries)),
		alive:   bitset.New(uint(len(c.entries))),
	}
	copy(s.entries, c.entries)
	for _, e := range s.entries {
		s.total += e.Weight
		s.alive.Set(uint(e.Index))
	}
	return s
}

// Filter drops every entry that could not have produced rec and returns the
// new size.
func (s *CandidateSet) Filter(rec feedback.Record) int {
	kept := s.entries[:0]
	s.total = 0
	for _, e := range s.entries {
		if rec.Matches(e.Word) {
			kept = append(kept, e)
			s.total += e.Weight
		} else {
			s.alive.Clear(uint(e.Index))
		}
	}
	clear(s.entries[len(kept):])
	s.entries = kept
	return len(kept)
}

// CountMatching reports how many entries would survive Filter(rec).
func (s *CandidateSet) CountMatching(rec feedback.Record) int {
	n := 0
	for _, e := range s.entries {
		if rec.Matches(e.Word) {
			n++
		}
	}
	return n
}

// Len returns the number of remaining candidates.
func (s *CandidateSet) Len() int { return len(s.entries) }

// TotalWeight is the sum of remaining weights.
func (s *CandidateSet) TotalWeight() float64 { return s.total }

// Entries returns the remaining candidates. Callers must not modify it.
func (s *CandidateSet) Entries() []Entry { return s.entries }

// Contains reports whether the entry with the given StableIndex remains.
func (s *CandidateSet) Contains(index int) bool {
	return index >= 0 && s.alive.Test(uint(index))
}

// Words lists the remaining words in rank order.
func (s *CandidateSet) Words() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Word
	}
	return out
}
