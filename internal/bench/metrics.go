package bench

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// wordleTurns is the real game's limit, used by the not-in-6 metric.
const wordleTurns = 6

type metricImpl[T constraints.Ordered] struct {
	name  string
	value func(h []int) T
}

func (m *metricImpl[T]) run(h []int) Stat {
	return Stat{Name: m.name, Value: fmt.Sprint(m.value(h))}
}

type metric interface {
	run(h []int) Stat
}

// Stat is one named summary of a Report.
type Stat struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

var (
	worst = &metricImpl[int]{"worst", func(h []int) int {
		for i := len(h) - 1; i >= 0; i-- {
			if h[i] > 0 {
				return i
			}
		}
		return 0
	}}
	best = &metricImpl[int]{"best", func(h []int) int {
		for i, n := range h {
			if n > 0 {
				return i
			}
		}
		return 0
	}}
	average = &metricImpl[float64]{"average", func(h []int) float64 {
		sum, ct := 0, 0
		for i, n := range h {
			sum += i * n
			ct += n
		}
		if ct == 0 {
			return 0
		}
		return float64(sum) / float64(ct)
	}}
	notIn6 = &metricImpl[float64]{"not-in-6", func(h []int) float64 {
		win, loss := 0, 0
		for i, n := range h {
			if i <= wordleTurns {
				win += n
			} else {
				loss += n
			}
		}
		if win+loss == 0 {
			return 0
		}
		return 100 * float64(loss) / float64(win+loss)
	}}
)

var metrics = []metric{worst, best, average, notIn6}

// Stats evaluates every metric on the solved-game histogram.
func (r Report) Stats() []Stat {
	h := r.Histogram()
	out := make([]Stat, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, m.run(h))
	}
	return out
}
