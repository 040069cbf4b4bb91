package bench

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/internal/database"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

var testWords = []string{
	"tares", "crate", "slate", "irate", "arise", "stare", "trace", "alert",
	"alter", "later", "crane", "abcde", "aabbb", "ccaac", "bcdea", "zzzzz",
}

func newContext(t *testing.T) *solver.Context {
	t.Helper()
	dict := make([]words.Entry, len(testWords))
	for i, w := range testWords {
		dict[i] = words.Entry{Word: w, Count: uint64(100 - i)}
	}
	c, err := solver.NewContext(dict, solver.WeightSigmoid)
	require.NoError(t, err)
	return c
}

func TestRunSolvesEveryAnswer(t *testing.T) {
	c := newContext(t)
	var progress bytes.Buffer
	rep, err := Run(context.Background(), c, solver.DefaultConfig(), testWords, Options{Workers: 4, Progress: &progress})
	require.NoError(t, err)

	require.Len(t, rep.Games, len(testWords))
	for i, g := range rep.Games {
		assert.Equal(t, testWords[i], g.Answer)
		assert.True(t, g.Won, g.Answer)
		assert.Equal(t, g.Answer, g.Guesses[len(g.Guesses)-1])
		assert.Equal(t, "tares", g.Guesses[0])
		assert.Len(t, g.Guesses, g.Turns)
	}
	assert.Equal(t, len(testWords), rep.Solved())
	assert.Equal(t, 1, rep.Histogram()[1], "only the opener's own answer is found in one turn")
	assert.GreaterOrEqual(t, rep.Average(), 1.0)
	assert.NotEmpty(t, progress.String())
}

func TestRunIsDeterministicAcrossWorkers(t *testing.T) {
	c := newContext(t)
	one, err := Run(context.Background(), c, solver.DefaultConfig(), testWords, Options{Workers: 1})
	require.NoError(t, err)
	many, err := Run(context.Background(), c, solver.DefaultConfig(), testWords, Options{Workers: 8})
	require.NoError(t, err)
	assert.Equal(t, one.Games, many.Games)
}

func TestRunRejectsUnknownAnswer(t *testing.T) {
	c := newContext(t)
	_, err := Run(context.Background(), c, solver.DefaultConfig(), []string{"qqqqq"}, Options{})
	assert.Error(t, err)

	cfg := solver.DefaultConfig()
	cfg.Opener = "qqqqq"
	_, err = Run(context.Background(), c, cfg, testWords, Options{})
	assert.Error(t, err)
}

func TestRunHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, newContext(t), solver.DefaultConfig(), testWords, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMetrics(t *testing.T) {
	rep := Report{Games: []GameResult{
		{Answer: "a", Turns: 2, Won: true},
		{Answer: "b", Turns: 3, Won: true},
		{Answer: "c", Turns: 3, Won: true},
		{Answer: "d", Turns: 8, Won: true},
		{Answer: "e", Turns: 32, Won: false},
	}}
	assert.Equal(t, []int{0, 0, 1, 2, 0, 0, 0, 0, 1}, rep.Histogram())
	assert.Equal(t, 4, rep.Solved())
	assert.Equal(t, 8, rep.Worst())
	assert.InDelta(t, 4.0, rep.Average(), 1e-12)
	assert.Equal(t, []Stat{
		{"worst", "8"},
		{"best", "2"},
		{"average", "4"},
		{"not-in-6", "25"},
	}, rep.Stats())

	empty := Report{}
	assert.Equal(t, 0, empty.Worst())
	assert.Equal(t, 0.0, empty.Average())
}

func TestStoreRoundTrip(t *testing.T) {
	db, err := database.OpenAndMigrate(filepath.Join(t.TempDir(), "bench.db"))
	require.NoError(t, err)
	defer db.Close()
	st := NewStore(db)
	ctx := context.Background()

	rep := Report{
		Opener:  "tares",
		Elapsed: 1500 * time.Millisecond,
		Games: []GameResult{
			{Answer: "crate", Turns: 2, Won: true, Guesses: []string{"tares", "crate"}},
			{Answer: "abcde", Turns: 3, Won: true, Guesses: []string{"tares", "bcdea", "abcde"}},
		},
	}
	id, err := st.Save(ctx, "fp", rep)
	require.NoError(t, err)
	_, err = st.Save(ctx, "fp2", rep)
	require.NoError(t, err)

	runs, err := st.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "fp2", runs[0].Fingerprint)
	assert.Equal(t, id, runs[1].ID)
	assert.Equal(t, 2, runs[1].Games)
	assert.Equal(t, 2, runs[1].Solved)
	assert.InDelta(t, 2.5, runs[1].Average, 1e-12)
	assert.Equal(t, 3, runs[1].Worst)
	assert.Equal(t, int64(1500), runs[1].ElapsedMs)

	games, err := st.Games(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []GameResult{rep.Games[1], rep.Games[0]}, games)
}
