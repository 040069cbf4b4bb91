// apps/go-solver/internal/solver/solver.go
//
// Guess selection.
//
// Turn 0 always plays the configured opener. Every later turn scores the
// remaining candidates (a weight-ranked prefix of them on large sets) by
//
//	p(W)·(t+1) + (1−p(W))·(t + stepsLeft(H − H(W)))
//
// where p(W) is the word's prior share, t the number of turns played, H the
// entropy of the candidate set and H(W) the information guessing W reveals.
// The lowest score wins; the first candidate found wins ties.

package solver

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

// DefaultOpener is the first guess when none is configured. It was chosen
// offline (see BestOpener) and does not depend on the game.
const DefaultOpener = "tares"

// Regression of observed turns-to-solve against remaining entropy.
const (
	stepsA = 3.870
	stepsB = 3.679
)

// Config holds the tunable parameters of a Solver.
type Config struct {
	// Opener is played on turn 0.
	Opener string
	// TruncateThreshold is the candidate count above which only a prefix of
	// the set is evaluated as guesses. Zero disables truncation.
	TruncateThreshold int
	// TruncateFraction is the share of the set evaluated once truncated.
	TruncateFraction float64
	// TruncateFloor is the minimum number of words evaluated once truncated.
	TruncateFloor int
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Opener:            DefaultOpener,
		TruncateThreshold: 1000,
		TruncateFraction:  0.25,
		TruncateFloor:     20,
	}
}

// Validate checks cfg against the dictionary of c.
func (cfg Config) Validate(c *Context) error {
	if _, ok := c.Lookup(cfg.Opener); !ok {
		return fmt.Errorf("solver: opener %q not in dictionary", cfg.Opener)
	}
	if cfg.TruncateThreshold < 0 {
		return errors.New("solver: truncate threshold must be >= 0")
	}
	if cfg.TruncateFraction <= 0 || cfg.TruncateFraction > 1 {
		return errors.New("solver: truncate fraction must be in (0, 1]")
	}
	if cfg.TruncateFloor < 1 {
		return errors.New("solver: truncate floor must be >= 1")
	}
	return nil
}

// evaluated returns how many of n ranked candidates are scored.
func (cfg Config) evaluated(n int) int {
	if cfg.TruncateThreshold == 0 || n <= cfg.TruncateThreshold {
		return n
	}
	k := int(math.Ceil(float64(n) * cfg.TruncateFraction))
	k = max(k, cfg.TruncateFloor)
	return min(k, n)
}

// EstimatedStepsRemaining approximates how many more turns are needed when x
// bits of uncertainty remain.
func EstimatedStepsRemaining(x float64) float64 {
	return math.Log(stepsA*x + stepsB)
}

// ExpectedScore is the expected final turn count of a game after t turns
// when guessing a word with prior share p that reveals info bits out of the
// current entropy h.
func ExpectedScore(p float64, t int, h, info float64) float64 {
	tf := float64(t)
	return p*(tf+1) + (1-p)*(tf+EstimatedStepsRemaining(h-info))
}

// Scored is a candidate guess with the quantities that ranked it.
type Scored struct {
	Word    string  `json:"word"`
	Entropy float64 `json:"entropy"`
	Prior   float64 `json:"prior"`
	Score   float64 `json:"score"`
}

// Solver plays one game. It is not safe for concurrent use; separate games
// get separate Solvers sharing one Context.
type Solver struct {
	ctx        *Context
	cfg        Config
	candidates *CandidateSet
	applied    int
}

// New starts a solver over the whole dictionary of c.
func New(c *Context, cfg Config) (*Solver, error) {
	if err := cfg.Validate(c); err != nil {
		return nil, err
	}
	return &Solver{ctx: c, cfg: cfg, candidates: NewCandidateSet(c)}, nil
}

// Candidates exposes the working set, e.g. to preview a filter.
func (s *Solver) Candidates() *CandidateSet { return s.candidates }

// Guess returns the next word to play given every turn so far.
//
// Records not seen by a previous call are applied to the candidate set
// first. A history that leaves no candidate cannot come from a real game
// and panics.
func (s *Solver) Guess(history feedback.History) string {
	s.apply(history)
	if len(history) == 0 {
		return s.cfg.Opener
	}
	best, _ := s.best(len(history))
	return best.Word
}

// Apply brings the candidate set up to date with history without scoring.
// Like Guess, it panics when history leaves no candidate.
func (s *Solver) Apply(history feedback.History) { s.apply(history) }

// Possible reports whether word is still a candidate answer after the
// records applied so far.
func (s *Solver) Possible(word string) bool {
	e, ok := s.ctx.Lookup(word)
	return ok && s.candidates.Contains(e.Index)
}

// Rank scores the candidates for the turn after history and returns up to n
// of them, best first. Ties keep rank order.
func (s *Solver) Rank(history feedback.History, n int) []Scored {
	s.apply(history)
	scored := s.score(len(history))
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score < scored[j].Score })
	if n > 0 && n < len(scored) {
		scored = scored[:n]
	}
	return scored
}

func (s *Solver) apply(history feedback.History) {
	if len(history) < s.applied {
		panic(fmt.Sprintf("solver: history shrank from %d to %d records", s.applied, len(history)))
	}
	for _, rec := range history[s.applied:] {
		n := s.candidates.Filter(rec)
		log.Debug().Str("guess", rec.Word).Stringer("mask", rec.Mask).Int("remaining", n).Msg("filtered candidates")
		if n == 0 {
			panic(fmt.Sprintf("solver: no candidate is consistent with %s=%s; history is inconsistent", rec.Word, rec.Mask))
		}
	}
	s.applied = len(history)
}

func (s *Solver) best(t int) (Scored, bool) {
	var (
		best  Scored
		found bool
	)
	for _, sc := range s.score(t) {
		if !found || sc.Score < best.Score {
			best, found = sc, true
		}
	}
	return best, found
}

func (s *Solver) score(t int) []Scored {
	set := s.candidates
	h := set.Entropy()
	n := s.cfg.evaluated(set.Len())
	out := make([]Scored, 0, n)
	for _, e := range set.entries[:n] {
		info := Entropy(s.ctx.cache, set, e)
		p := e.Weight / set.total
		out = append(out, Scored{
			Word:    e.Word,
			Entropy: info,
			Prior:   p,
			Score:   ExpectedScore(p, t, h, info),
		})
	}
	return out
}
