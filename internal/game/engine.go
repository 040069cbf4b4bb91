// apps/go-solver/internal/game/engine.go
//
// Game engine for a single game against a known answer.
// Responsibilities:
//   - Create new games with a configurable turn cap.
//   - Validate and apply guesses (length, alphabetic, dictionary).
//   - Score guesses with feedback.Compute.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - The dictionary check defaults to the words package.
//   - randomID() is a compact hex identifier for correlating log lines.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// DefaultMaxTurns is far above Wordle's six so the turn distribution of a
// benchmark is not cut off.
const DefaultMaxTurns = 32

var (
	ErrFinished     = errors.New("game finished")
	ErrInvalidGuess = errors.New("invalid guess")
	ErrNotAllowed   = errors.New("not in word list")
)

// Options configures New and Play.
type Options struct {
	// MaxTurns caps the number of guesses; zero means DefaultMaxTurns.
	MaxTurns int
	// Allowed validates guesses; nil means words.IsAllowed.
	Allowed func(string) bool
	// OnTurn, if set, observes every applied guess. turn starts at 1.
	OnTurn func(turn int, rec feedback.Record)
}

func (o Options) withDefaults() Options {
	if o.MaxTurns <= 0 {
		o.MaxTurns = DefaultMaxTurns
	}
	if o.Allowed == nil {
		o.Allowed = words.IsAllowed
	}
	return o
}

// New constructs a new game instance.
// If answer is empty, a random answer is chosen from the words package.
func New(answer string, opts Options) *Game {
	opts = opts.withDefaults()
	if answer == "" {
		answer = words.RandomAnswer()
	}
	return &Game{
		ID:      randomID(),
		Answer:  strings.ToLower(answer),
		Rows:    opts.MaxTurns,
		allowed: opts.Allowed,
	}
}

// ApplyGuess validates and scores a guess, mutating the game state.
// Returns: the mask, the new state, or an error.
//
// Validation rules:
//   - Game must not be finished.
//   - Guess must be exactly 5 letters a–z.
//   - Guess must pass the dictionary check.
//
// State transitions:
//   - If the mask is all Correct → Finished = true, Won = true.
//   - Else if the number of guesses reaches g.Rows → Finished = true (loss).
func (g *Game) ApplyGuess(guess string) (feedback.Mask, State, error) {
	if g.Finished {
		return feedback.Mask{}, g.State(), ErrFinished
	}
	guess = strings.ToLower(strings.TrimSpace(guess))
	if !words.IsWord(guess) {
		return feedback.Mask{}, g.State(), ErrInvalidGuess
	}
	if !g.allowed(guess) {
		return feedback.Mask{}, g.State(), ErrNotAllowed
	}

	mask := feedback.Compute(g.Answer, guess)
	g.History = append(g.History, feedback.Record{Word: guess, Mask: mask})

	if mask.Solved() {
		g.Finished, g.Won = true, true
	} else if len(g.History) >= g.Rows {
		g.Finished = true
	}
	return mask, g.State(), nil
}

// State reports the current game state.
func (g *Game) State() State {
	if g.Finished {
		if g.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
