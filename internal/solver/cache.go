package solver

import (
	"sync"
	"sync/atomic"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

// PatternCache memoizes feedback.Compute(candidate, guess) for every pair of
// dictionary words, addressed by StableIndex.
//
// A row per guess word is allocated on first use. Cells are packed four to
// an atomic.Uint32, one byte each: 0 means "not computed yet", any other
// value is PatternIndex+1. A cell is set with compare-and-swap only while it
// is still 0, so when two goroutines race on the same cell both compute the
// same pattern and exactly one write is kept. Cells are never cleared.
type PatternCache struct {
	entries []Entry
	rows    []cacheRow
	filled  atomic.Int64
}

type cacheRow struct {
	once  sync.Once
	cells []atomic.Uint32
}

// NewPatternCache sizes a cache for entries. No rows are allocated yet.
func NewPatternCache(entries []Entry) *PatternCache {
	return &PatternCache{
		entries: entries,
		rows:    make([]cacheRow, len(entries)),
	}
}

// Get returns the pattern observed when guessing entries[guess] against the
// answer entries[candidate].
func (c *PatternCache) Get(guess, candidate int) feedback.PatternIndex {
	row := &c.rows[guess]
	row.once.Do(func() {
		row.cells = make([]atomic.Uint32, (len(c.entries)+3)/4)
	})
	cell := &row.cells[candidate/4]
	shift := uint(candidate%4) * 8

	if v := (cell.Load() >> shift) & 0xff; v != 0 {
		return feedback.PatternIndex(v - 1)
	}

	p := feedback.Compute(c.entries[candidate].Word, c.entries[guess].Word).Index()
	for {
		old := cell.Load()
		if v := (old >> shift) & 0xff; v != 0 {
			return feedback.PatternIndex(v - 1)
		}
		if cell.CompareAndSwap(old, old|uint32(p+1)<<shift) {
			c.filled.Add(1)
			return p
		}
	}
}

// Filled reports how many cells have been computed so far.
func (c *PatternCache) Filled() int64 { return c.filled.Load() }

// Size is the number of addressable cells.
func (c *PatternCache) Size() int64 {
	n := int64(len(c.entries))
	return n * n
}
