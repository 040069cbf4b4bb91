// apps/go-solver/internal/solver/context.go
//
// Shared, read-mostly solver state.
//
// A Context is built once per process from the dictionary and handed by
// reference to every Solver. It owns:
//   - the interned dictionary entries, sorted by descending frequency, with
//     a StableIndex that never changes;
//   - the prior weight of every entry;
//   - the pairwise PatternCache, filled lazily and shared by all games.
//
// Nothing in a Context is mutated after NewContext except cache cells, which
// are written at most once.

package solver

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// Entry is a dictionary word with its prior weight. Index is the StableIndex
// assigned at NewContext and addresses the PatternCache.
type Entry struct {
	Word   string
	Weight float64
	Index  int
}

// Weighting selects how corpus counts become prior weights.
type Weighting string

const (
	// WeightSigmoid saturates count/sum through a steep logistic curve so rare
	// words keep a small nonzero share and common words are capped at 1.
	WeightSigmoid Weighting = "sigmoid"
	// WeightLinear uses count/sum directly.
	WeightLinear Weighting = "linear"
)

// Sigmoid parameters fitted on the full English word-frequency list.
const (
	sigmoidL  = 1.0
	sigmoidK  = 30_000_000.0
	sigmoidX0 = 0.00000497

	// MinWeight keeps every prior strictly positive.
	MinWeight = 1e-12
)

// ErrEmptyDictionary is returned by NewContext for an empty word list.
var ErrEmptyDictionary = errors.New("solver: empty dictionary")

// Context is the process-wide dictionary snapshot and pattern cache.
type Context struct {
	entries []Entry
	byWord  map[string]int
	cache   *PatternCache
}

// NewContext sorts entries by descending count (ties keep input order),
// assigns stable indices and derives weights.
func NewContext(dict []words.Entry, weighting Weighting) (*Context, error) {
	if len(dict) == 0 {
		return nil, ErrEmptyDictionary
	}
	sorted := make([]words.Entry, len(dict))
	copy(sorted, dict)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })

	var sum float64
	for _, e := range sorted {
		sum += float64(e.Count)
	}

	c := &Context{
		entries: make([]Entry, len(sorted)),
		byWord:  make(map[string]int, len(sorted)),
	}
	for i, e := range sorted {
		if !words.IsWord(e.Word) {
			return nil, fmt.Errorf("solver: invalid dictionary word %q", e.Word)
		}
		if _, dup := c.byWord[e.Word]; dup {
			return nil, fmt.Errorf("solver: duplicate dictionary word %q", e.Word)
		}
		w, err := weight(float64(e.Count)/sum, weighting)
		if err != nil {
			return nil, err
		}
		c.entries[i] = Entry{Word: e.Word, Weight: w, Index: i}
		c.byWord[e.Word] = i
	}
	c.cache = NewPatternCache(c.entries)
	return c, nil
}

func weight(p float64, weighting Weighting) (float64, error) {
	var w float64
	switch weighting {
	case WeightSigmoid, "":
		w = Sigmoid(p)
	case WeightLinear:
		w = p
	default:
		return 0, fmt.Errorf("solver: unknown weighting %q", weighting)
	}
	return math.Max(w, MinWeight), nil
}

// Sigmoid maps a relative frequency to a weight in (0, 1].
func Sigmoid(p float64) float64 {
	return sigmoidL / (1 + math.Exp(-sigmoidK*(p-sigmoidX0)))
}

// Len returns the dictionary size.
func (c *Context) Len() int { return len(c.entries) }

// Entries returns the dictionary in StableIndex order. Callers must not
// modify the returned slice.
func (c *Context) Entries() []Entry { return c.entries }

// Lookup finds a dictionary word.
func (c *Context) Lookup(word string) (Entry, bool) {
	i, ok := c.byWord[word]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Cache returns the shared pattern cache.
func (c *Context) Cache() *PatternCache { return c.cache }
