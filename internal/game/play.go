package game

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

// Guesser picks the next word from the turns played so far.
// *solver.Solver implements it.
type Guesser interface {
	Guess(history feedback.History) string
}

// Play runs guess → reveal → record until the guesser names the answer or
// the turn cap is reached. The guesser never sees the answer.
//
// The guesser is expected to play dictionary words only; anything else is a
// bug in the guesser and panics.
func Play(answer string, g Guesser, opts Options) Result {
	opts = opts.withDefaults()
	gm := New(answer, opts)

	for !gm.Finished {
		guess := g.Guess(gm.History)
		mask, state, err := gm.ApplyGuess(guess)
		if err != nil {
			panic(fmt.Sprintf("game: guesser played %q: %v", guess, err))
		}
		turn := len(gm.History)
		if opts.OnTurn != nil {
			opts.OnTurn(turn, gm.History[turn-1])
		}
		log.Trace().Str("game", gm.ID).Int("turn", turn).Str("guess", guess).
			Stringer("mask", mask).Str("state", string(state)).Msg("turn")
	}

	return Result{
		Answer:  gm.Answer,
		History: gm.History,
		Won:     gm.Won,
		Turns:   len(gm.History),
	}
}
