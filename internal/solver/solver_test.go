package solver

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

var testWords = []string{
	"tares", "crate", "abcde", "aacde", "bcdea", "aabbb", "ccaac", "aaccc",
	"edcba", "abced", "acbde", "badce", "zzzzz", "slate", "irate", "arise",
}

// newTestContext gives words descending counts in the order listed.
func newTestContext(t *testing.T, weighting Weighting, list ...string) *Context {
	t.Helper()
	dict := make([]words.Entry, len(list))
	for i, w := range list {
		dict[i] = words.Entry{Word: w, Count: uint64(10 * (len(list) - i))}
	}
	c, err := NewContext(dict, weighting)
	require.NoError(t, err)
	return c
}

func testConfig(opener string) Config {
	cfg := DefaultConfig()
	cfg.Opener = opener
	return cfg
}

func TestNewContextOrdersAndIndexes(t *testing.T) {
	dict := []words.Entry{{"crate", 5}, {"tares", 9}, {"slate", 5}, {"abcde", 1}}
	c, err := NewContext(dict, WeightLinear)
	require.NoError(t, err)

	var got []string
	var sum float64
	for i, e := range c.Entries() {
		got = append(got, e.Word)
		assert.Equal(t, i, e.Index)
		sum += e.Weight
	}
	assert.Equal(t, []string{"tares", "crate", "slate", "abcde"}, got)
	assert.InDelta(t, 1.0, sum, 1e-12)

	e, ok := c.Lookup("slate")
	require.True(t, ok)
	assert.Equal(t, 2, e.Index)
	_, ok = c.Lookup("zzzzz")
	assert.False(t, ok)
	assert.Equal(t, 4, c.Len())
}

func TestNewContextErrors(t *testing.T) {
	_, err := NewContext(nil, WeightSigmoid)
	assert.ErrorIs(t, err, ErrEmptyDictionary)

	_, err = NewContext([]words.Entry{{"tares", 1}, {"tares", 2}}, WeightSigmoid)
	assert.Error(t, err)

	_, err = NewContext([]words.Entry{{"tar", 1}}, WeightSigmoid)
	assert.Error(t, err)

	_, err = NewContext([]words.Entry{{"tares", 1}}, Weighting("cubic"))
	assert.Error(t, err)
}

func TestSigmoidWeights(t *testing.T) {
	assert.InDelta(t, 0.5, Sigmoid(sigmoidX0), 1e-12)
	assert.InDelta(t, 1.0, Sigmoid(0.01), 1e-9)
	assert.Less(t, Sigmoid(0), 1e-50)

	// A very rare word still gets a positive weight, a common one is capped.
	c, err := NewContext([]words.Entry{{"tares", 1_000_000_000}, {"crate", 1}}, WeightSigmoid)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c.Entries()[0].Weight, 1e-9)
	assert.Greater(t, c.Entries()[1].Weight, 0.0)
	assert.GreaterOrEqual(t, c.Entries()[1].Weight, MinWeight)
}

func TestPatternCacheMatchesCompute(t *testing.T) {
	c := newTestContext(t, WeightLinear, testWords...)
	cache := c.Cache()
	for _, g := range c.Entries() {
		for _, a := range c.Entries() {
			want := feedback.Compute(a.Word, g.Word).Index()
			assert.Equal(t, want, cache.Get(g.Index, a.Index), "%s/%s", g.Word, a.Word)
		}
	}
	assert.Equal(t, cache.Size(), cache.Filled())

	// Second pass is served from the cache.
	before := cache.Filled()
	cache.Get(0, 1)
	assert.Equal(t, before, cache.Filled())
}

func TestPatternCacheConcurrentFill(t *testing.T) {
	c := newTestContext(t, WeightLinear, testWords...)
	cache := c.Cache()
	n := c.Len()

	var wg sync.WaitGroup
	results := make([][]feedback.PatternIndex, 16)
	for w := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := make([]feedback.PatternIndex, 0, n*n)
			for g := 0; g < n; g++ {
				for a := 0; a < n; a++ {
					out = append(out, cache.Get(g, a))
				}
			}
			results[w] = out
		}()
	}
	wg.Wait()

	for _, r := range results[1:] {
		assert.Equal(t, results[0], r)
	}
	assert.Equal(t, int64(n*n), cache.Filled(), "each cell must be stored exactly once")
}

func TestCandidateSetFilterMatchesBruteForce(t *testing.T) {
	c := newTestContext(t, WeightLinear, testWords...)
	for _, answer := range []string{"abcde", "aabbb", "crate", "zzzzz"} {
		for _, guess := range []string{"aacde", "ccaac", "tares", "badce"} {
			set := NewCandidateSet(c)
			rec := feedback.Record{Word: guess, Mask: feedback.Compute(answer, guess)}

			var want []string
			var wantTotal float64
			for _, e := range c.Entries() {
				if feedback.Compute(e.Word, guess) == rec.Mask {
					want = append(want, e.Word)
					wantTotal += e.Weight
				}
			}

			assert.Equal(t, len(want), set.CountMatching(rec))
			assert.Equal(t, len(want), set.Filter(rec))
			assert.Equal(t, want, set.Words())
			assert.InDelta(t, wantTotal, set.TotalWeight(), 1e-12)
			assert.Contains(t, set.Words(), answer)
			for _, e := range c.Entries() {
				assert.Equal(t, contains(want, e.Word), set.Contains(e.Index), e.Word)
			}
		}
	}
}

func TestCandidateSetOnlyShrinks(t *testing.T) {
	c := newTestContext(t, WeightLinear, testWords...)
	set := NewCandidateSet(c)
	prev := set.Words()
	for _, guess := range []string{"tares", "aacde", "bcdea"} {
		set.Filter(feedback.Record{Word: guess, Mask: feedback.Compute("abcde", guess)})
		for _, w := range set.Words() {
			assert.Contains(t, prev, w)
		}
		prev = set.Words()
	}
	assert.Contains(t, prev, "abcde")
	assert.False(t, set.Contains(-1))
}

func contains(list []string, w string) bool {
	for _, x := range list {
		if x == w {
			return true
		}
	}
	return false
}

func TestEntropy(t *testing.T) {
	c := newTestContext(t, WeightLinear, "abcde", "zzzzz")
	set := NewCandidateSet(c)
	abcde, _ := c.Lookup("abcde")

	pA := abcde.Weight / set.TotalWeight()
	want := -(pA*math.Log2(pA) + (1-pA)*math.Log2(1-pA))
	assert.InDelta(t, want, Entropy(c.Cache(), set, abcde), 1e-12)
	assert.InDelta(t, want, set.Entropy(), 1e-12)

	set.Filter(feedback.Record{Word: "abcde", Mask: feedback.AllCorrect})
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, 0.0, Entropy(c.Cache(), set, abcde))
	assert.Equal(t, 0.0, set.Entropy())
}

func TestEntropyUniformPartition(t *testing.T) {
	dict := []words.Entry{{"aaaaa", 1}, {"bbbbb", 1}, {"ccccc", 1}, {"ddddd", 1}, {"abcdd", 1}}
	c, err := NewContext(dict, WeightLinear)
	require.NoError(t, err)
	set := NewCandidateSet(c)
	assert.InDelta(t, math.Log2(5), set.Entropy(), 1e-12)

	// abcdd gives every candidate its own pattern.
	g, _ := c.Lookup("abcdd")
	assert.InDelta(t, math.Log2(5), Entropy(c.Cache(), set, g), 1e-12)

	// aaaaa splits {aaaaa}, {abcdd} and the three words without an a.
	a, _ := c.Lookup("aaaaa")
	want := -(2*0.2*math.Log2(0.2) + 0.6*math.Log2(0.6))
	assert.InDelta(t, want, Entropy(c.Cache(), set, a), 1e-12)
}

func TestSingletonScoresTurnsPlusOne(t *testing.T) {
	c := newTestContext(t, WeightSigmoid, "tares", "abcde", "zzzzz")
	s, err := New(c, testConfig("tares"))
	require.NoError(t, err)

	history := feedback.History{{Word: "tares", Mask: feedback.Compute("abcde", "tares")}}
	ranked := s.Rank(history, 0)
	require.Len(t, ranked, 1)
	assert.Equal(t, "abcde", ranked[0].Word)
	assert.Equal(t, 0.0, ranked[0].Entropy)
	assert.InDelta(t, 1.0, ranked[0].Prior, 1e-12)
	assert.InDelta(t, float64(len(history)+1), ranked[0].Score, 1e-12)
	assert.Equal(t, "abcde", s.Guess(history))
}

func TestExpectedScore(t *testing.T) {
	assert.InDelta(t, 4.0, ExpectedScore(1, 3, 5, 2), 1e-12)
	assert.InDelta(t, 2+math.Log(stepsB), ExpectedScore(0, 2, 1.5, 1.5), 1e-12)
	assert.Less(t, EstimatedStepsRemaining(1), EstimatedStepsRemaining(2))
}

func TestOpenerOnFirstTurn(t *testing.T) {
	c := newTestContext(t, WeightSigmoid, testWords...)
	s, err := New(c, testConfig("crate"))
	require.NoError(t, err)
	assert.Equal(t, "crate", s.Guess(nil))
	assert.Equal(t, c.Len(), s.Candidates().Len())
}

func TestGuessPanicsOnInconsistentHistory(t *testing.T) {
	c := newTestContext(t, WeightSigmoid, testWords...)
	s, err := New(c, testConfig("tares"))
	require.NoError(t, err)
	// Only zzzzz avoids every letter of abcde, and the second record rules
	// zzzzz out too.
	history := feedback.History{
		{Word: "abcde", Mask: feedback.Mask{2, 2, 2, 2, 2}},
		{Word: "zzzzz", Mask: feedback.Mask{2, 2, 2, 2, 2}},
	}
	assert.Panics(t, func() { s.Guess(history) })
}

func TestSolverFindsAnswerFromEveryOpener(t *testing.T) {
	c := newTestContext(t, WeightSigmoid, testWords...)
	for _, opener := range testWords {
		t.Run(opener, func(t *testing.T) {
			s, err := New(c, testConfig(opener))
			require.NoError(t, err)
			var history feedback.History
			solved := false
			for turn := 0; turn < 20; turn++ {
				guess := s.Guess(history)
				if guess == "abcde" {
					solved = true
					break
				}
				history = append(history, feedback.Record{Word: guess, Mask: feedback.Compute("abcde", guess)})
			}
			assert.True(t, solved)
		})
	}
}

func TestEveryAnswerIsFound(t *testing.T) {
	c := newTestContext(t, WeightLinear, testWords...)
	for _, answer := range testWords {
		s, err := New(c, testConfig("tares"))
		require.NoError(t, err)
		var history feedback.History
		turns := 0
		for guess := s.Guess(history); ; guess = s.Guess(history) {
			turns++
			require.LessOrEqual(t, turns, len(testWords), answer)
			if guess == answer {
				break
			}
			history = append(history, feedback.Record{Word: guess, Mask: feedback.Compute(answer, guess)})
			assert.True(t, s.Candidates().Contains(mustIndex(t, c, answer)))
		}
	}
}

func mustIndex(t *testing.T, c *Context, w string) int {
	t.Helper()
	e, ok := c.Lookup(w)
	require.True(t, ok)
	return e.Index
}

func TestTruncation(t *testing.T) {
	cfg := Config{Opener: "tares", TruncateThreshold: 10, TruncateFraction: 0.25, TruncateFloor: 3}
	assert.Equal(t, 10, cfg.evaluated(10))
	assert.Equal(t, 3, cfg.evaluated(11))
	assert.Equal(t, 5, cfg.evaluated(20))
	cfg.TruncateThreshold = 0
	assert.Equal(t, 5000, cfg.evaluated(5000))
	cfg = Config{TruncateThreshold: 2, TruncateFraction: 0.5, TruncateFloor: 20}
	assert.Equal(t, 5, cfg.evaluated(5))

	c := newTestContext(t, WeightSigmoid, testWords...)
	s, err := New(c, Config{Opener: "tares", TruncateThreshold: 4, TruncateFraction: 0.1, TruncateFloor: 3})
	require.NoError(t, err)
	ranked := s.Rank(nil, 0)
	require.Len(t, ranked, 3)
	for _, r := range ranked {
		assert.Contains(t, testWords[:3], r.Word, "only the top-weighted prefix is scored")
	}
}

func TestRankOrdering(t *testing.T) {
	c := newTestContext(t, WeightSigmoid, testWords...)
	s, err := New(c, testConfig("tares"))
	require.NoError(t, err)
	history := feedback.History{{Word: "tares", Mask: feedback.Compute("abcde", "tares")}}

	ranked := s.Rank(history, 0)
	require.NotEmpty(t, ranked)
	for i := 1; i < len(ranked); i++ {
		assert.LessOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
	assert.Equal(t, ranked[0].Word, s.Guess(history))
	assert.Len(t, s.Rank(history, 1), 1)
}

func TestConfigValidate(t *testing.T) {
	c := newTestContext(t, WeightSigmoid, testWords...)
	assert.NoError(t, testConfig("tares").Validate(c))

	bad := []Config{
		testConfig("qqqqq"),
		{Opener: "tares", TruncateThreshold: -1, TruncateFraction: 0.5, TruncateFloor: 1},
		{Opener: "tares", TruncateFraction: 0, TruncateFloor: 1},
		{Opener: "tares", TruncateFraction: 1.5, TruncateFloor: 1},
		{Opener: "tares", TruncateFraction: 0.5, TruncateFloor: 0},
	}
	for _, cfg := range bad {
		_, err := New(c, cfg)
		assert.Error(t, err, "%+v", cfg)
	}
}

func TestBestOpener(t *testing.T) {
	c := newTestContext(t, WeightSigmoid, testWords...)
	ranked, err := BestOpener(context.Background(), c, OpenerOptions{Workers: 4})
	require.NoError(t, err)
	require.Len(t, ranked, len(testWords))
	for i := 1; i < len(ranked); i++ {
		assert.LessOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}

	// Agrees with a solver ranking the untouched set.
	s, err := New(c, testConfig("tares"))
	require.NoError(t, err)
	assert.Equal(t, s.Rank(nil, 1)[0].Word, ranked[0].Word)

	top, err := BestOpener(context.Background(), c, OpenerOptions{Top: 2})
	require.NoError(t, err)
	assert.Len(t, top, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = BestOpener(ctx, c, OpenerOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestApplyFiltersWithoutScoring(t *testing.T) {
	c := newTestContext(t, WeightSigmoid, testWords...)
	s, err := New(c, testConfig("tares"))
	require.NoError(t, err)

	rec := feedback.Record{Word: "abcde", Mask: feedback.Compute("bcdea", "abcde")}
	s.Apply(feedback.History{rec})
	assert.Equal(t, 1, s.Candidates().Len())
	assert.True(t, s.Possible("bcdea"))
	assert.False(t, s.Possible("abcde"))
	assert.False(t, s.Possible("qqqqq"), "words outside the dictionary are never possible")

	// Already applied records are not filtered again.
	assert.Equal(t, "bcdea", s.Guess(feedback.History{rec}))

	bad := feedback.Record{Word: "bcdea", Mask: feedback.Compute("zzzzz", "bcdea")}
	assert.Panics(t, func() { s.Apply(feedback.History{rec, bad}) })
}
