package bench

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
)

// RunRow is a stored benchmark summary.
type RunRow struct {
	ID          string  `json:"id"`
	Fingerprint string  `json:"fingerprint"`
	Opener      string  `json:"opener"`
	Games       int     `json:"games"`
	Solved      int     `json:"solved"`
	Average     float64 `json:"average"`
	Worst       int     `json:"worst"`
	ElapsedMs   int64   `json:"elapsedMs"`
	CreatedAt   string  `json:"createdAt"`
}

// Store persists benchmark runs.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Save writes the report and its games in one transaction and returns the
// new run id.
func (s *Store) Save(ctx context.Context, fingerprint string, r Report) (string, error) {
	id := uuid.New().String()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO bench_runs (id, fingerprint, opener, games, solved, average, worst, elapsed_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, fingerprint, r.Opener, len(r.Games), r.Solved(), r.Average(), r.Worst(), r.Elapsed.Milliseconds(),
	); err != nil {
		return "", err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO bench_games (run_id, answer, turns, won, guesses) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()
	for _, g := range r.Games {
		guesses, err := json.Marshal(g.Guesses)
		if err != nil {
			return "", err
		}
		if _, err := stmt.ExecContext(ctx, id, g.Answer, g.Turns, g.Won, string(guesses)); err != nil {
			return "", err
		}
	}
	return id, tx.Commit()
}

// Recent lists the latest runs, newest first. Default limit is 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, fingerprint, opener, games, solved, average, worst, elapsed_ms, created_at
        FROM bench_runs
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RunRow, 0, limit)
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.ID, &r.Fingerprint, &r.Opener, &r.Games, &r.Solved,
			&r.Average, &r.Worst, &r.ElapsedMs, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Games returns the stored games of one run in answer order.
func (s *Store) Games(ctx context.Context, runID string) ([]GameResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT answer, turns, won, guesses FROM bench_games WHERE run_id=? ORDER BY answer`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GameResult
	for rows.Next() {
		var (
			g       GameResult
			guesses string
		)
		if err := rows.Scan(&g.Answer, &g.Turns, &g.Won, &guesses); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(guesses), &g.Guesses); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
