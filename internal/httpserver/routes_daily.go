// apps/go-solver/internal/httpserver/routes_daily.go
//
// HTTP routes for the daily solve.
// Exposes two endpoints under /daily:
//   - GET /daily         → the solver's game on today's answer
//   - GET /daily/history → stored daily runs, newest first
//
// Today's answer is picked deterministically from date + salt. The first
// request of a day plays the game and stores it; later requests read the
// stored run. Runs are keyed by dictionary fingerprint so changing the word
// lists starts a fresh history.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/daily"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv   *Server
	store *daily.Store
	salt  string
	now   func() time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:   s,
		store: daily.NewStore(s.deps.DB),
		salt:  s.deps.Config.DailySalt,
		now:   func() time.Time { return time.Now().UTC() },
	}
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", dd.handleToday)
		r.Get("/history", dd.handleHistory)
	})
}

// handleToday returns today's stored run, solving and storing it first if
// needed.
func (d *dailyServer) handleToday(w http.ResponseWriter, r *http.Request) {
	date, idx, answer := daily.Pick(d.now(), d.salt, d.srv.deps.Answers)
	if answer == "" {
		http.Error(w, `{"error":"no_answers"}`, http.StatusServiceUnavailable)
		return
	}
	fp := d.srv.deps.Fingerprint

	run, err := d.store.Get(r.Context(), date, fp)
	if err == nil {
		_ = json.NewEncoder(w).Encode(run)
		return
	}
	if !errors.Is(err, daily.ErrNotFound) {
		log.Error().Err(err).Str("date", date).Msg("load daily run")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}

	res, err := d.srv.solve(answer, nil)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("solve daily")
		http.Error(w, `{"error":"solve_failed"}`, http.StatusInternalServerError)
		return
	}
	guesses := make([]string, len(res.History))
	for i, rec := range res.History {
		guesses[i] = rec.Word
	}
	run = daily.Run{
		Date:        date,
		Fingerprint: fp,
		WordIndex:   idx,
		Answer:      res.Answer,
		Opener:      d.srv.deps.Config.Solver.Opener,
		Turns:       res.Turns,
		Won:         res.Won,
		Guesses:     guesses,
	}
	if err := d.store.Record(r.Context(), run); err != nil {
		log.Error().Err(err).Str("date", date).Msg("record daily run")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	// A concurrent request may have stored first; serve what was kept.
	if stored, err := d.store.Get(r.Context(), date, fp); err == nil {
		run = stored
	}
	log.Info().Str("date", date).Int("turns", run.Turns).Msg("daily solved")
	_ = json.NewEncoder(w).Encode(run)
}

// handleHistory lists stored runs; limit defaults to 30.
func (d *dailyServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 30)
	if err != nil {
		http.Error(w, `{"error":"bad_limit"}`, http.StatusBadRequest)
		return
	}
	runs, err := d.store.History(r.Context(), d.srv.deps.Fingerprint, limit)
	if err != nil {
		log.Error().Err(err).Msg("daily history")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(runs)
}
