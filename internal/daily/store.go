package daily

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by Get when no run exists for the date.
var ErrNotFound = errors.New("daily: no run for date")

// Run is the solver's game on one day's answer.
type Run struct {
	Date        string   `json:"date"`
	Fingerprint string   `json:"fingerprint"`
	WordIndex   int      `json:"wordIndex"`
	Answer      string   `json:"answer"`
	Opener      string   `json:"opener"`
	Turns       int      `json:"turns"`
	Won         bool     `json:"won"`
	Guesses     []string `json:"guesses"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record stores r. A run already stored for the same date and dictionary
// is kept; the insert is ignored.
func (s *Store) Record(ctx context.Context, r Run) error {
	guesses, err := json.Marshal(r.Guesses)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO daily_runs
            (date, fingerprint, word_index, answer, opener, turns, won, guesses)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Date, r.Fingerprint, r.WordIndex, r.Answer, r.Opener, r.Turns, r.Won, string(guesses),
	)
	return err
}

// Get loads the run for a date and dictionary fingerprint.
func (s *Store) Get(ctx context.Context, date, fingerprint string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT date, fingerprint, word_index, answer, opener, turns, won, guesses
        FROM daily_runs WHERE date=? AND fingerprint=?`, date, fingerprint)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	return r, err
}

// History lists stored runs for a dictionary, newest date first.
// Default limit is 30.
func (s *Store) History(ctx context.Context, fingerprint string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT date, fingerprint, word_index, answer, opener, turns, won, guesses
        FROM daily_runs WHERE fingerprint=?
        ORDER BY date DESC
        LIMIT ?`, fingerprint, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Run, 0, limit)
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r       Run
		guesses string
	)
	if err := sc.Scan(&r.Date, &r.Fingerprint, &r.WordIndex, &r.Answer, &r.Opener,
		&r.Turns, &r.Won, &guesses); err != nil {
		return Run{}, err
	}
	if err := json.Unmarshal([]byte(guesses), &r.Guesses); err != nil {
		return Run{}, err
	}
	return r, nil
}
