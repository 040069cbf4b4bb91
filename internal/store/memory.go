// apps/go-solver/internal/store/memory.go
//
// In-memory store of interactive solver sessions.
//
// A session is one game in which a remote player reports the feedback they
// see and the solver suggests the next word. Each session owns its Solver;
// all sessions share one solver.Context.
//
// Characteristics:
//   - Sessions keyed by ID (UUID) in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Each Session has its own mutex; a Solver is never used by two requests at once.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

var (
	// ErrNotFound is returned by Get for unknown or expired sessions.
	ErrNotFound = errors.New("session not found")
	// ErrInconsistent is returned when feedback contradicts earlier feedback.
	ErrInconsistent = errors.New("feedback is inconsistent with earlier turns")
	// ErrNotDictionary is returned for a reported guess outside the dictionary.
	ErrNotDictionary = errors.New("guess not in dictionary")
	// ErrSolved is returned for feedback after the game was solved.
	ErrSolved = errors.New("session already solved")
)

// Session is one interactive game.
type Session struct {
	ID      string
	Created time.Time

	mu        sync.Mutex
	ctx       *solver.Context
	solver    *solver.Solver
	history   feedback.History
	solved    bool
	remaining int
	touched   time.Time
}

// NewSession starts a session over the whole dictionary.
func NewSession(c *solver.Context, cfg solver.Config) (*Session, error) {
	s, err := solver.New(c, cfg)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Session{ID: uuid.New().String(), Created: now, ctx: c, solver: s, remaining: c.Len(), touched: now}, nil
}

// Suggest returns the solver's next word, or "" once solved.
func (s *Session) Suggest() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	if s.solved {
		return ""
	}
	return s.solver.Guess(s.history)
}

// Feedback records the mask the player observed for guess.
//
// Unlike the solver itself, a session treats contradictory feedback as a
// user error: it is rejected with ErrInconsistent and the session is left
// unchanged.
func (s *Session) Feedback(guess string, mask feedback.Mask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	if s.solved {
		return ErrSolved
	}
	if _, ok := s.ctx.Lookup(guess); !ok {
		return fmt.Errorf("%w: %q", ErrNotDictionary, guess)
	}
	rec := feedback.Record{Word: guess, Mask: mask}
	// Bring the set up to date before previewing, so the preview sees every
	// earlier record.
	s.solver.Apply(s.history)
	n := s.solver.Candidates().CountMatching(rec)
	if n == 0 {
		return ErrInconsistent
	}
	s.history = append(s.history, rec)
	s.remaining = n
	s.solved = mask.Solved()
	return nil
}

// Hints ranks the best n next guesses.
func (s *Session) Hints(n int) []solver.Scored {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	if s.solved {
		return nil
	}
	return s.solver.Rank(s.history, n)
}

// Snapshot returns a copy of the history, the remaining candidate count and
// whether the game is solved.
func (s *Session) Snapshot() (feedback.History, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := make(feedback.History, len(s.history))
	copy(h, s.history)
	return h, s.remaining, s.solved
}

// Possible reports whether word could still be the answer.
func (s *Session) Possible(word string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	s.solver.Apply(s.history)
	return s.solver.Possible(word)
}

func (s *Session) lastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// Store defines the persistence interface for sessions.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session does not exist.
	Get(ctx context.Context, id string) (*Session, error)

	// Sweep drops sessions idle for longer than maxIdle and reports how many.
	Sweep(ctx context.Context, maxIdle time.Duration) int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex        // guards sessions map
	sessions map[string]*Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

// Save adds or updates the session in the map.
func (m *memory) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

// Get looks up a session by ID.
func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Sweep(ctx context.Context, maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.lastTouched().Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
