// Package journal records submission runs and their per-batch outcomes in
// SQLite, so past runs, quota consumption, and failure reasons stay
// queryable after the process exits.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store manages run history using SQLite.
type Store struct {
	db *sql.DB
}

// Run is one engine invocation from start to terminal state.
type Run struct {
	RunID      uuid.UUID
	Kind       string // "push" or "generate"
	StorePath  string
	State      string
	Completed  int
	Remaining  int
	Skipped    int
	Reason     string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// BatchRecord is the outcome of one submitted batch within a run.
type BatchRecord struct {
	RunID          uuid.UUID
	Seq            int
	Size           int
	Outcome        string
	QuotaRemaining int // -1 when the sink does not track quota
	Reason         string
	RecordedAt     time.Time
}

// NewStore creates a new journal store with the given database path.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the journal tables if they don't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		store_path TEXT NOT NULL,
		state TEXT NOT NULL,
		completed INTEGER DEFAULT 0,
		remaining INTEGER DEFAULT 0,
		skipped INTEGER DEFAULT 0,
		reason TEXT,
		started_at TEXT NOT NULL,
		finished_at TEXT
	);

	CREATE TABLE IF NOT EXISTS batches (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		size INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		quota_remaining INTEGER DEFAULT -1,
		reason TEXT,
		recorded_at TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// StartRun inserts a new run in the running state and returns it.
func (s *Store) StartRun(kind, storePath string) (*Run, error) {
	run := &Run{
		RunID:     uuid.New(),
		Kind:      kind,
		StorePath: storePath,
		State:     "running",
		StartedAt: time.Now(),
	}

	query := `
		INSERT INTO runs (run_id, kind, store_path, state, started_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		run.RunID.String(),
		run.Kind,
		run.StorePath,
		run.State,
		run.StartedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	return run, nil
}

// RecordBatch appends one batch outcome to a run.
func (s *Store) RecordBatch(runID uuid.UUID, seq, size int, outcome string, quotaRemaining int, reason string) error {
	query := `
		INSERT INTO batches (run_id, seq, size, outcome, quota_remaining, reason, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		runID.String(), seq, size, outcome, quotaRemaining, reason,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert batch record: %w", err)
	}
	return nil
}

// FinishRun records a run's terminal state and final counts.
func (s *Store) FinishRun(runID uuid.UUID, state string, completed, remaining, skipped int, reason string) error {
	query := `
		UPDATE runs
		SET state = ?, completed = ?, remaining = ?, skipped = ?, reason = ?, finished_at = ?
		WHERE run_id = ?
	`
	result, err := s.db.Exec(query,
		state, completed, remaining, skipped, reason,
		time.Now().Format(time.RFC3339),
		runID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found")
	}
	return nil
}

// ListRuns lists runs, most recent first. A limit of 0 returns all runs.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT run_id, kind, store_path, state, completed, remaining, skipped,
		       reason, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var runIDStr, startedAtStr string
		var reason, finishedAtStr sql.NullString

		err := rows.Scan(
			&runIDStr, &run.Kind, &run.StorePath, &run.State,
			&run.Completed, &run.Remaining, &run.Skipped,
			&reason, &startedAtStr, &finishedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.RunID, _ = uuid.Parse(runIDStr)
		run.StartedAt = parseTime(startedAtStr)
		if reason.Valid {
			run.Reason = reason.String
		}
		if finishedAtStr.Valid {
			t := parseTime(finishedAtStr.String)
			run.FinishedAt = &t
		}

		runs = append(runs, run)
	}

	return runs, nil
}

// ListBatches returns the batch outcomes for a run in sequence order.
func (s *Store) ListBatches(runID uuid.UUID) ([]BatchRecord, error) {
	query := `
		SELECT run_id, seq, size, outcome, quota_remaining, reason, recorded_at
		FROM batches
		WHERE run_id = ?
		ORDER BY seq ASC
	`

	rows, err := s.db.Query(query, runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	var records []BatchRecord
	for rows.Next() {
		var record BatchRecord
		var runIDStr, recordedAtStr string
		var reason sql.NullString

		err := rows.Scan(
			&runIDStr, &record.Seq, &record.Size, &record.Outcome,
			&record.QuotaRemaining, &reason, &recordedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch record: %w", err)
		}

		record.RunID, _ = uuid.Parse(runIDStr)
		record.RecordedAt = parseTime(recordedAtStr)
		if reason.Valid {
			record.Reason = reason.String
		}

		records = append(records, record)
	}

	return records, nil
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
