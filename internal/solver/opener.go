package solver

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// OpenerOptions tunes BestOpener.
type OpenerOptions struct {
	// Workers bounds parallelism; zero means GOMAXPROCS.
	Workers int
	// Top is how many ranked openers to return; zero means all.
	Top int
	// Progress, if set, is called once per scored word. It must be safe for
	// concurrent use.
	Progress func()
}

// BestOpener scores every dictionary word as a first guess against the full
// dictionary, exactly as a later turn would be scored, and returns them best
// first. This is the offline computation behind Config.Opener: it costs a
// full N² pass, fills the shared cache, and its result depends only on the
// dictionary.
func BestOpener(ctx context.Context, c *Context, opts OpenerOptions) ([]Scored, error) {
	set := NewCandidateSet(c)
	h := set.Entropy()
	out := make([]Scored, len(set.entries))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, e := range set.entries {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			info := Entropy(c.cache, set, e)
			p := e.Weight / set.total
			out[i] = Scored{Word: e.Word, Entropy: info, Prior: p, Score: ExpectedScore(p, 0, h, info)}
			if opts.Progress != nil {
				opts.Progress()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	if opts.Top > 0 && opts.Top < len(out) {
		out = out[:opts.Top]
	}
	return out, nil
}
