// apps/go-solver/internal/game/types.go
//
// Core type definitions for the game driver.
// Defines:
//   - State: coarse game state (playing/won/lost).
//   - Game: one game against a known answer.
//   - Result: the outcome of a full solver game.

package game

import "github.com/robalobadob/wordle/apps/go-solver/internal/feedback"

// State is the coarse state of a game.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Game holds the state of a single game session.
type Game struct {
	ID       string           // Unique game identifier (random hex string).
	Answer   string           // The solution word (always lowercase).
	Rows     int              // Maximum number of guesses allowed.
	History  feedback.History // Guesses made so far with their masks.
	Finished bool             // True once the game is over (won or lost).
	Won      bool             // True if the game was finished with a win.

	allowed func(string) bool
}

// Result is the outcome of Play.
type Result struct {
	Answer  string           `json:"answer"`
	History feedback.History `json:"history"`
	Won     bool             `json:"won"`
	Turns   int              `json:"turns"`
}
