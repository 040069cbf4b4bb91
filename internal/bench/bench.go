// apps/go-solver/internal/bench/bench.go
//
// Batch evaluation of the solver.
// Responsibilities:
//   - Play one independent game per answer, many at once, all sharing one
//     solver.Context (and so one pattern cache).
//   - Collect per-answer turn counts into a Report with histogram + metrics.
//
// Each game owns its Solver; nothing but the Context is shared.

package bench

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

// Options tunes Run.
type Options struct {
	// Workers bounds concurrent games; zero means GOMAXPROCS.
	Workers int
	// MaxTurns caps each game; zero means game.DefaultMaxTurns.
	MaxTurns int
	// Progress, if set, receives a progress bar.
	Progress io.Writer
}

// GameResult is one benchmark game.
type GameResult struct {
	Answer  string   `json:"answer"`
	Turns   int      `json:"turns"`
	Won     bool     `json:"won"`
	Guesses []string `json:"guesses"`
}

// Report is the outcome of Run. Games are in answer order.
type Report struct {
	Opener  string        `json:"opener"`
	Games   []GameResult  `json:"games"`
	Elapsed time.Duration `json:"elapsed"`
}

// Run solves every answer with a fresh Solver built from c and cfg.
// A solver panic (inconsistent state) aborts the run with an error naming
// the answer.
func Run(ctx context.Context, c *solver.Context, cfg solver.Config, answers []string, opts Options) (Report, error) {
	if err := cfg.Validate(c); err != nil {
		return Report{}, err
	}
	for _, a := range answers {
		if _, ok := c.Lookup(a); !ok {
			return Report{}, fmt.Errorf("bench: answer %q not in dictionary", a)
		}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(answers),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("solving"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	start := time.Now()
	results := make([]GameResult, len(answers))
	allowed := func(w string) bool { _, ok := c.Lookup(w); return ok }

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, answer := range answers {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() (err error) {
			if err := gctx.Err(); err != nil {
				return err
			}
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("bench: answer %q: %v", answer, r)
				}
			}()
			s, err := solver.New(c, cfg)
			if err != nil {
				return err
			}
			res := game.Play(answer, s, game.Options{MaxTurns: opts.MaxTurns, Allowed: allowed})
			results[i] = toGameResult(res)
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	rep := Report{Opener: cfg.Opener, Games: results, Elapsed: time.Since(start)}
	log.Info().Int("games", len(results)).Dur("elapsed", rep.Elapsed).
		Float64("average", rep.Average()).Msg("benchmark finished")
	return rep, nil
}

func toGameResult(res game.Result) GameResult {
	guesses := make([]string, len(res.History))
	for i, rec := range res.History {
		guesses[i] = rec.Word
	}
	return GameResult{Answer: res.Answer, Turns: res.Turns, Won: res.Won, Guesses: guesses}
}

// Histogram counts solved games by number of turns: h[n] games took n turns.
func (r Report) Histogram() []int {
	var h []int
	for _, g := range r.Games {
		if !g.Won {
			continue
		}
		for len(h) <= g.Turns {
			h = append(h, 0)
		}
		h[g.Turns]++
	}
	return h
}

// Solved counts won games.
func (r Report) Solved() int {
	n := 0
	for _, g := range r.Games {
		if g.Won {
			n++
		}
	}
	return n
}

// Average is the mean number of turns over solved games.
func (r Report) Average() float64 { return average.value(r.Histogram()) }

// Worst is the largest number of turns any solved game took.
func (r Report) Worst() int { return worst.value(r.Histogram()) }
