// Package history maintains the append-only SQLite log of every job ffdash
// has ever finished, across every directory it has scanned. It is
// write-mostly from the scheduler's side and read-only from the dashboard's:
// the per-directory .enc_state file remains the sole source of truth for
// resume, never this database.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"ffdash/internal/queue"
)

//go:embed schema.sql
var schemaSQL string

const schemaVersion = 1

var ErrSchemaMismatch = errors.New("history: database schema version mismatch")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Store is the append-only job history log backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Record is one finished job as recorded in history. It is a distillation
// of queue.Job, not a live view: once written it is never updated.
type Record struct {
	JobID              string
	Directory          string
	InputPath          string
	Status             queue.Status
	Codec              string
	Backend            string
	CalibrationOutcome string
	DurationSeconds    float64
	FinishedAt         time.Time
}

// Open connects to (creating if absent) the history database at path,
// applying pragmas and verifying/creating the schema. Callers are expected
// to have created path's parent directory already (config.EnsureDirectories
// does this for the default path).
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Append writes one finished job to the history log. It never returns
// ErrSchemaMismatch; callers should treat write failures as non-fatal to
// the scheduler's own job lifecycle (see Scheduler's use of this).
func (s *Store) Append(ctx context.Context, rec Record) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO job_history (
				job_id, directory, input_path, status, codec, backend,
				calibration_outcome, duration_seconds, finished_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.JobID, rec.Directory, rec.InputPath, string(rec.Status), rec.Codec, rec.Backend,
			rec.CalibrationOutcome, rec.DurationSeconds, rec.FinishedAt.UTC().Format(time.RFC3339Nano))
		return err
	})
}

// Recent returns up to limit history records, most recently finished first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT job_id, directory, input_path, status, codec, backend,
		       calibration_outcome, duration_seconds, finished_at
		FROM job_history
		ORDER BY finished_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var status, finishedAt string
		if err := rows.Scan(&rec.JobID, &rec.Directory, &rec.InputPath, &status, &rec.Codec,
			&rec.Backend, &rec.CalibrationOutcome, &rec.DurationSeconds, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		rec.Status = queue.ParseStatus(status)
		if parsed, err := time.Parse(time.RFC3339Nano, finishedAt); err == nil {
			rec.FinishedAt = parsed
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
