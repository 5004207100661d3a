// Package store persists the history of simulation runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

var ErrRunNotFound = errors.New("run not found")

const defaultListLimit = 50

// Store manages the SQLite connection and schema.
type Store struct {
	db *sql.DB
}

// NewStore opens the database at dbPath in WAL mode and creates the schema.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("schema migration failed: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		success BOOLEAN NOT NULL,
		start_node TEXT NOT NULL,
		target_prefix TEXT NOT NULL,
		shelter_count INTEGER NOT NULL,
		disaster_count INTEGER NOT NULL,
		step_count INTEGER NOT NULL,
		path_json TEXT NOT NULL,
		cost REAL NOT NULL,
		query_json TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}
	return nil
}

// SaveRun inserts a run. Ids must be unique.
func (s *Store) SaveRun(ctx context.Context, run *Run) error {
	path, err := json.Marshal(run.Path)
	if err != nil {
		return fmt.Errorf("failed to marshal path: %w", err)
	}

	var query interface{}
	if len(run.Query) > 0 {
		query = string(run.Query)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, created_at, success, start_node, target_prefix,
			shelter_count, disaster_count, step_count, path_json, cost, query_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.CreatedAt.UTC(), run.Success, run.StartNode, run.TargetPrefix,
		run.ShelterCount, run.DisasterCount, run.StepCount, string(path), run.Cost, query)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// GetRun returns the run with the given id or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, success, start_node, target_prefix,
			shelter_count, disaster_count, step_count, path_json, cost, query_json
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first. A limit of zero or less
// selects the default page size.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, success, start_node, target_prefix,
			shelter_count, disaster_count, step_count, path_json, cost, query_json
		FROM runs ORDER BY created_at DESC, id ASC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		run   Run
		path  string
		query sql.NullString
	)
	err := sc.Scan(&run.ID, &run.CreatedAt, &run.Success, &run.StartNode, &run.TargetPrefix,
		&run.ShelterCount, &run.DisasterCount, &run.StepCount, &path, &run.Cost, &query)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(path), &run.Path); err != nil {
		return nil, fmt.Errorf("failed to unmarshal path: %w", err)
	}
	if query.Valid {
		run.Query = json.RawMessage(query.String)
	}
	return &run, nil
}
