// Package store persists execution runs and their step records in SQLite so
// finished traces can be listed and reopened later. Steps are stored as JSON
// payloads keyed by run and sequence number; the tree is always rebuilt from
// the flat sequence on load, never persisted.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agentrace/agentrace/internal/trace"
)

// Run is one recorded execution.
type Run struct {
	ID          string
	Name        string
	Status      trace.Status
	StartTime   int64
	EndTime     *int64
	DurationMs  *int64
	StepCount   int
	TotalTokens int
	TotalCost   float64
	CreatedAt   time.Time
}

// Store wraps the runs database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	start_time INTEGER NOT NULL,
	end_time INTEGER,
	duration_ms INTEGER,
	step_count INTEGER NOT NULL DEFAULT 0,
	total_tokens INTEGER NOT NULL DEFAULT 0,
	total_cost REAL NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS steps (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	step_id TEXT NOT NULL,
	payload TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE INDEX IF NOT EXISTS ix_runs_start_time ON runs(start_time);
`

// Open opens (or creates) the runs database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open runs db: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set runs db journal mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set runs db busy timeout: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize runs schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun writes a run and its full step sequence in one transaction,
// replacing any previous recording under the same id.
func (s *Store) SaveRun(run Run, steps []*trace.Step) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save run: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM steps WHERE run_id = ?`, run.ID); err != nil {
		return fmt.Errorf("clear previous steps for run %q: %w", run.ID, err)
	}

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	if _, err := tx.Exec(`
INSERT INTO runs (id, name, status, start_time, end_time, duration_ms, step_count, total_tokens, total_cost, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name = excluded.name,
	status = excluded.status,
	start_time = excluded.start_time,
	end_time = excluded.end_time,
	duration_ms = excluded.duration_ms,
	step_count = excluded.step_count,
	total_tokens = excluded.total_tokens,
	total_cost = excluded.total_cost`,
		run.ID, run.Name, string(run.Status), run.StartTime, run.EndTime, run.DurationMs,
		len(steps), run.TotalTokens, run.TotalCost, createdAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("upsert run %q: %w", run.ID, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO steps (run_id, seq, step_id, payload) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare step insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, step := range steps {
		payload, err := json.Marshal(step)
		if err != nil {
			return fmt.Errorf("marshal step %q: %w", step.ID, err)
		}
		if _, err := stmt.Exec(run.ID, i, step.ID, string(payload)); err != nil {
			return fmt.Errorf("insert step %q: %w", step.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %q: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns runs newest first.
func (s *Store) ListRuns(limit, offset int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
SELECT id, name, status, start_time, end_time, duration_ms, step_count, total_tokens, total_cost, created_at
FROM runs ORDER BY start_time DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return out, nil
}

// CountRuns reports how many runs are recorded.
func (s *Store) CountRuns() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

// GetRun fetches a single run. The bool reports whether it exists.
func (s *Store) GetRun(id string) (Run, bool, error) {
	row := s.db.QueryRow(`
SELECT id, name, status, start_time, end_time, duration_ms, step_count, total_tokens, total_cost, created_at
FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, false, nil
		}
		return Run{}, false, err
	}
	return run, true, nil
}

// LatestRunID returns the id of the most recently started run, or "" when the
// store is empty.
func (s *Store) LatestRunID() (string, error) {
	var id string
	err := s.db.QueryRow(`SELECT id FROM runs ORDER BY start_time DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query latest run: %w", err)
	}
	return id, nil
}

// LoadSteps returns a run's full step sequence in recorded order.
func (s *Store) LoadSteps(runID string) ([]*trace.Step, error) {
	rows, err := s.db.Query(`SELECT payload FROM steps WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("load steps for run %q: %w", runID, err)
	}
	defer func() { _ = rows.Close() }()

	var steps []*trace.Step
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan step row: %w", err)
		}
		step := &trace.Step{}
		if err := json.Unmarshal([]byte(payload), step); err != nil {
			return nil, fmt.Errorf("unmarshal step for run %q: %w", runID, err)
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate step rows: %w", err)
	}
	return steps, nil
}

// DeleteRun removes a run and, via the foreign key cascade, its steps.
func (s *Store) DeleteRun(id string) error {
	if _, err := s.db.Exec(`DELETE FROM runs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete run %q: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var status, createdAt string
	var endTime, durationMs sql.NullInt64
	if err := row.Scan(&run.ID, &run.Name, &status, &run.StartTime, &endTime, &durationMs,
		&run.StepCount, &run.TotalTokens, &run.TotalCost, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run row: %w", err)
	}
	run.Status = trace.Status(status)
	if endTime.Valid {
		run.EndTime = &endTime.Int64
	}
	if durationMs.Valid {
		run.DurationMs = &durationMs.Int64
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		run.CreatedAt = t
	}
	return run, nil
}

// RunFromSteps derives run metadata from a step sequence, for imports that
// carry no manifest: start is the earliest start time, end the latest end
// time, status error if any step failed, running if any step never finished.
func RunFromSteps(id, name string, steps []*trace.Step) Run {
	run := Run{ID: id, Name: name, Status: trace.StatusCompleted, StepCount: len(steps)}
	if len(steps) == 0 {
		run.Status = trace.StatusPending
		return run
	}

	run.StartTime = steps[0].StartTime
	var latest int64
	unfinished := false
	for _, s := range steps {
		if s.StartTime < run.StartTime {
			run.StartTime = s.StartTime
		}
		if s.EndTime != nil {
			if *s.EndTime > latest {
				latest = *s.EndTime
			}
		} else {
			unfinished = true
		}
		if s.Status == trace.StatusError {
			run.Status = trace.StatusError
		}
		if s.Type.Kind() == trace.KindModel {
			run.TotalTokens += s.TotalTokens
			run.TotalCost += s.TotalCost
		}
	}
	if unfinished && run.Status != trace.StatusError {
		run.Status = trace.StatusRunning
	}
	if latest > 0 {
		run.EndTime = &latest
		d := latest - run.StartTime
		run.DurationMs = &d
	}
	return run
}
