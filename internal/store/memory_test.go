package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	list := []string{"tares", "crate", "slate", "irate", "abcde", "zzzzz"}
	dict := make([]words.Entry, len(list))
	for i, w := range list {
		dict[i] = words.Entry{Word: w, Count: uint64(100 - i)}
	}
	c, err := solver.NewContext(dict, solver.WeightSigmoid)
	require.NoError(t, err)
	s, err := NewSession(c, solver.DefaultConfig())
	require.NoError(t, err)
	return s
}

func TestSessionPlaysToSolution(t *testing.T) {
	s := newSession(t)
	answer := "crate"

	for turn := 0; turn < 6; turn++ {
		guess := s.Suggest()
		require.NotEmpty(t, guess)
		require.NoError(t, s.Feedback(guess, feedback.Compute(answer, guess)))
		if guess == answer {
			break
		}
	}
	hist, remaining, solved := s.Snapshot()
	assert.True(t, solved)
	assert.Equal(t, 1, remaining)
	assert.Equal(t, answer, hist[len(hist)-1].Word)
	assert.Empty(t, s.Suggest())
	assert.Nil(t, s.Hints(3))
	assert.ErrorIs(t, s.Feedback("tares", feedback.AllCorrect), ErrSolved)
}

func TestSessionRejectsBadFeedback(t *testing.T) {
	s := newSession(t)
	require.Equal(t, "tares", s.Suggest())

	assert.ErrorIs(t, s.Feedback("qqqqq", feedback.Compute("crate", "tares")), ErrNotDictionary)

	require.NoError(t, s.Feedback("tares", feedback.Compute("crate", "tares")))
	_, before, _ := s.Snapshot()

	// "crate" cannot be all wrong once "tares" showed its letters.
	bad, err := feedback.ParseMask("bbbbb")
	require.NoError(t, err)
	assert.ErrorIs(t, s.Feedback("crate", bad), ErrInconsistent)

	hist, after, solved := s.Snapshot()
	assert.Len(t, hist, 1)
	assert.Equal(t, before, after)
	assert.False(t, solved)
	assert.NotEmpty(t, s.Suggest())
}

func TestSessionHints(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Feedback("tares", feedback.Compute("crate", "tares")))
	hints := s.Hints(2)
	require.NotEmpty(t, hints)
	assert.LessOrEqual(t, len(hints), 2)
	assert.Equal(t, s.Suggest(), hints[0].Word)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	_, err := st.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	fresh, stale := newSession(t), newSession(t)
	require.NoError(t, st.Save(ctx, fresh))
	require.NoError(t, st.Save(ctx, stale))
	stale.touched = time.Now().Add(-2 * time.Hour)

	got, err := st.Get(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Same(t, fresh, got)

	assert.Equal(t, 1, st.Sweep(ctx, time.Hour))
	_, err = st.Get(ctx, stale.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestSessionPossible(t *testing.T) {
	s := newSession(t)
	assert.True(t, s.Possible("zzzzz"))

	require.NoError(t, s.Feedback("tares", feedback.Compute("irate", "tares")))
	assert.True(t, s.Possible("irate"))
	assert.True(t, s.Possible("crate"))
	assert.False(t, s.Possible("zzzzz"))
	assert.False(t, s.Possible("slate"))
	assert.False(t, s.Possible("qqqqq"))
}
