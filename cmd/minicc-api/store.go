package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cloudcmds/minicc"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrRunNotFound is returned by Get when no run has the given id.
var ErrRunNotFound = errors.New("run not found")

const runsSchema = `
CREATE TABLE IF NOT EXISTS compilation_runs (
    id         uuid PRIMARY KEY,
    created_at timestamptz NOT NULL DEFAULT now(),
    source     text NOT NULL,
    result     jsonb NOT NULL
)`

// RunStore persists compilation runs in PostgreSQL.
type RunStore struct {
	pool *pgxpool.Pool
}

// RunSummary is one row of a run listing.
type RunSummary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Source    string    `json:"source"`
}

// Run is a persisted compilation run with its full result payload.
type Run struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Source    string          `json:"source"`
	Result    json.RawMessage `json:"result"`
}

// NewRunStore connects to the database and ensures the runs table
// exists.
func NewRunStore(ctx context.Context, databaseURL string) (*RunStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, runsSchema); err != nil {
		pool.Close()
		return nil, err
	}
	return &RunStore{pool: pool}, nil
}

// Close releases the connection pool.
func (s *RunStore) Close() {
	s.pool.Close()
}

// Save stores one compilation run keyed by the result's id.
func (s *RunStore) Save(ctx context.Context, source string, result *minicc.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO compilation_runs (id, source, result) VALUES ($1, $2, $3)`,
		result.ID, source, payload)
	return err
}

// List returns the most recent runs, newest first.
func (s *RunStore) List(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, created_at, source FROM compilation_runs
		 ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var run RunSummary
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.Source); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get fetches one run by id.
func (s *RunStore) Get(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.pool.QueryRow(ctx,
		`SELECT id, created_at, source, result FROM compilation_runs WHERE id = $1`,
		id).Scan(&run.ID, &run.CreatedAt, &run.Source, &run.Result)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}
