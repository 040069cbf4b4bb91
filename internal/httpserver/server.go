// apps/go-solver/internal/httpserver/server.go
//
// HTTP server wiring for the solver backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Assist sessions: POST /solver/new, then (bearer token) /solver/feedback,
//     /solver/hints and /solver/state.
//   - Solver games against a known answer: POST /play and the websocket
//     stream GET /ws/play.
//   - Daily solve endpoints: mounted under /daily.
//   - Benchmark history: GET /bench/runs, GET /bench/runs/{id}.
//
// Notes:
//   - A session token is an HS256 JWT whose "sid" claim names the session.
//     It is accepted from the Authorization header or the session cookie.
//   - The websocket route sits outside the timeout group; a streamed game
//     may outlive a normal request.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/bench"
	"github.com/robalobadob/wordle/apps/go-solver/internal/config"
	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
)

const sessionCookieName = "solver_token"

// Deps are the collaborators a Server is built from.
type Deps struct {
	Config      config.Config
	Solver      *solver.Context
	Answers     []string // daily answer list
	Fingerprint string   // dictionary fingerprint keying stored runs
	Sessions    store.Store
	DB          *sql.DB
}

// Server bundles router, session store, and DB-backed stores.
type Server struct {
	r        *chi.Mux
	deps     Deps
	bench    *bench.Store
	upgrader websocket.Upgrader
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{r: chi.NewRouter(), deps: d, bench: bench.NewStore(d.DB)}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.cors)          // credentials-friendly CORS

	// Streaming game; no timeout.
	s.r.Get("/ws/play", s.handlePlayStream)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(30 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"wordle-solver","endpoints":["/health","POST /solver/new","POST /solver/feedback","GET /solver/hints","POST /play","/ws/play","/daily","/bench/runs"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/debug/words", s.handleDebugWords)

		// Assist sessions
		r.Post("/solver/new", s.handleNewSession)
		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Post("/solver/feedback", s.handleFeedback)
			r.Get("/solver/hints", s.handleHints)
			r.Get("/solver/state", s.handleState)
		})

		r.Post("/play", s.handlePlay)
		s.mountDaily(r)
		r.Get("/bench/runs", s.handleBenchRuns)
		r.Get("/bench/runs/{id}", s.handleBenchGames)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// SweepSessions drops idle sessions every interval until ctx is done.
func (s *Server) SweepSessions(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.deps.Sessions.Sweep(ctx, s.deps.Config.SessionTTL); n > 0 {
				log.Info().Int("dropped", n).Msg("swept idle sessions")
			}
		}
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.deps.Config.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkOrigin admits same-host clients (no Origin header) and the
// configured client origin.
func (s *Server) checkOrigin(r *http.Request) bool {
	o := r.Header.Get("Origin")
	return o == "" || o == s.deps.Config.ClientOrigin
}

// ctxSessionKey is the context key type for the current session.
type ctxSessionKey struct{}

// requireSession enforces a valid session token and injects the session
// into the request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := bearerOrCookie(r)
		if tokenStr == "" {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		sid, err := s.parseToken(tokenStr)
		if err != nil {
			http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
			return
		}
		sess, err := s.deps.Sessions.Get(r.Context(), sid)
		if err != nil {
			http.Error(w, `{"error":"session_expired"}`, http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *store.Session {
	sess, _ := r.Context().Value(ctxSessionKey{}).(*store.Session)
	return sess
}

// ------------------------------ JWT & cookies ------------------------------

// signToken creates an HS256 JWT naming session sid, valid for SessionTTL.
func (s *Server) signToken(sid string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.deps.Config.SessionTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.deps.Config.JWTSecret))
	return ss, exp, err
}

// parseToken validates a session token and returns its session ID.
func (s *Server) parseToken(tokenStr string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.deps.Config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errors.New("token has no session")
	}
	return sid, nil
}

// setSessionCookie writes the session token cookie.
func setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/solver",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or session cookie.
func bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// ------------------------------ SESSIONS -----------------------------------

type newSessionRes struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
	Guess     string `json:"guess"`
	Remaining int    `json:"remaining"`
}

// handleNewSession starts an assist session and returns its token and the
// opening guess.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	sess, err := store.NewSession(s.deps.Solver, s.deps.Config.Solver)
	if err != nil {
		log.Error().Err(err).Msg("new session")
		http.Error(w, `{"error":"solver_config"}`, http.StatusInternalServerError)
		return
	}
	if err := s.deps.Sessions.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	tok, exp, err := s.signToken(sess.ID)
	if err != nil {
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	setSessionCookie(w, tok, exp)
	_, remaining, _ := sess.Snapshot()
	_ = json.NewEncoder(w).Encode(newSessionRes{
		SessionID: sess.ID,
		Token:     tok,
		Guess:     sess.Suggest(),
		Remaining: remaining,
	})
}

type feedbackReq struct {
	Guess string `json:"guess"`
	Mask  string `json:"mask"`
}

type feedbackRes struct {
	Solved    bool   `json:"solved"`
	Guess     string `json:"guess,omitempty"` // next suggestion
	Remaining int    `json:"remaining"`
	Turns     int    `json:"turns"`
}

// handleFeedback records what the player saw for a guess and returns the
// next suggestion.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var req feedbackReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	mask, err := feedback.ParseMask(req.Mask)
	if err != nil {
		http.Error(w, `{"error":"bad_mask"}`, http.StatusBadRequest)
		return
	}
	guess := strings.ToLower(strings.TrimSpace(req.Guess))
	if err := sess.Feedback(guess, mask); err != nil {
		switch {
		case errors.Is(err, store.ErrNotDictionary):
			http.Error(w, `{"error":"not_in_dictionary"}`, http.StatusBadRequest)
		case errors.Is(err, store.ErrInconsistent):
			http.Error(w, `{"error":"inconsistent_feedback"}`, http.StatusConflict)
		case errors.Is(err, store.ErrSolved):
			http.Error(w, `{"error":"already_solved"}`, http.StatusConflict)
		default:
			http.Error(w, `{"error":"feedback_failed"}`, http.StatusInternalServerError)
		}
		return
	}
	next := sess.Suggest()
	hist, remaining, solved := sess.Snapshot()
	log.Debug().Str("session", sess.ID).Str("guess", guess).Stringer("mask", mask).
		Int("remaining", remaining).Msg("feedback")
	_ = json.NewEncoder(w).Encode(feedbackRes{Solved: solved, Guess: next, Remaining: remaining, Turns: len(hist)})
}

// handleHints ranks the best next guesses; n defaults to 5.
func (s *Server) handleHints(w http.ResponseWriter, r *http.Request) {
	n, err := queryInt(r, "n", 5)
	if err != nil || n < 1 {
		http.Error(w, `{"error":"bad_n"}`, http.StatusBadRequest)
		return
	}
	hints := sessionFrom(r).Hints(n)
	if hints == nil {
		hints = []solver.Scored{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"hints": hints})
}

// handleState returns the session's history so far. With ?word= it also
// reports whether that word could still be the answer.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	hist, remaining, solved := sess.Snapshot()
	res := map[string]any{
		"sessionId": sess.ID,
		"history":   hist,
		"remaining": remaining,
		"solved":    solved,
	}
	if word := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("word"))); word != "" {
		res["word"] = word
		res["possible"] = sess.Possible(word)
	}
	_ = json.NewEncoder(w).Encode(res)
}

// ------------------------------- PLAY --------------------------------------

// errUnknownAnswer is returned by solve for answers outside the dictionary.
var errUnknownAnswer = errors.New("answer not in dictionary")

// solve plays one full solver game against answer.
func (s *Server) solve(answer string, onTurn func(int, feedback.Record)) (game.Result, error) {
	answer = strings.ToLower(strings.TrimSpace(answer))
	if _, ok := s.deps.Solver.Lookup(answer); !ok {
		return game.Result{}, fmt.Errorf("%w: %q", errUnknownAnswer, answer)
	}
	sv, err := solver.New(s.deps.Solver, s.deps.Config.Solver)
	if err != nil {
		return game.Result{}, err
	}
	return game.Play(answer, sv, game.Options{
		MaxTurns: s.deps.Config.MaxTurns,
		Allowed:  s.allowed,
		OnTurn:   onTurn,
	}), nil
}

func (s *Server) allowed(w string) bool {
	_, ok := s.deps.Solver.Lookup(w)
	return ok
}

type playReq struct {
	Answer string `json:"answer"`
}

// handlePlay runs the solver against a given answer and returns every turn.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req playReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	res, err := s.solve(req.Answer, nil)
	if err != nil {
		if errors.Is(err, errUnknownAnswer) {
			http.Error(w, `{"error":"not_in_dictionary"}`, http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Msg("play")
		http.Error(w, `{"error":"solver_config"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// streamMsg is one websocket frame of a streamed game.
type streamMsg struct {
	Type  string         `json:"type"` // turn | done | error
	Turn  int            `json:"turn,omitempty"`
	Guess string         `json:"guess,omitempty"`
	Mask  *feedback.Mask `json:"mask,omitempty"`
	Won   bool           `json:"won,omitempty"`
	Error string         `json:"error,omitempty"`
}

// handlePlayStream upgrades to a websocket and sends one frame per turn of
// a solver game, then a final "done" frame.
func (s *Server) handlePlayStream(w http.ResponseWriter, r *http.Request) {
	answer := r.URL.Query().Get("answer")
	if !s.allowed(strings.ToLower(answer)) {
		http.Error(w, `{"error":"not_in_dictionary"}`, http.StatusBadRequest)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	var writeErr error
	send := func(m streamMsg) {
		if writeErr != nil {
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		writeErr = conn.WriteJSON(m)
	}

	res, err := s.solve(answer, func(turn int, rec feedback.Record) {
		send(streamMsg{Type: "turn", Turn: turn, Guess: rec.Word, Mask: &rec.Mask})
	})
	if err != nil {
		send(streamMsg{Type: "error", Error: err.Error()})
	} else {
		last := res.History[len(res.History)-1]
		send(streamMsg{Type: "done", Turn: res.Turns, Guess: last.Word, Mask: &last.Mask, Won: res.Won})
	}
	if writeErr != nil {
		log.Warn().Err(writeErr).Msg("websocket write")
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
}

// ------------------------------ DEBUG / BENCH ------------------------------

func (s *Server) handleDebugWords(w http.ResponseWriter, r *http.Request) {
	cache := s.deps.Solver.Cache()
	_ = json.NewEncoder(w).Encode(map[string]any{
		"dictionary":  s.deps.Solver.Len(),
		"answers":     len(s.deps.Answers),
		"fingerprint": s.deps.Fingerprint,
		"cacheFilled": cache.Filled(),
		"cacheSize":   cache.Size(),
	})
}

// handleBenchRuns lists recent benchmark runs; limit defaults to 20.
func (s *Server) handleBenchRuns(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		http.Error(w, `{"error":"bad_limit"}`, http.StatusBadRequest)
		return
	}
	runs, err := s.bench.Recent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("bench runs")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []bench.RunRow{}
	}
	_ = json.NewEncoder(w).Encode(runs)
}

// handleBenchGames lists the games of one benchmark run.
func (s *Server) handleBenchGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.bench.Games(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Error().Err(err).Msg("bench games")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	if len(games) == 0 {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(games)
}

// ------------------------------- small util --------------------------------

// queryInt reads an integer query parameter, def when absent.
func queryInt(r *http.Request, k string, def int) (int, error) {
	v := r.URL.Query().Get(k)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
