// Package sqlite records batch run history in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ublkit-cli/internal/core/domain"
	"github.com/custodia-labs/ublkit-cli/internal/core/ports/driven"
)

// timeLayout is how timestamps are stored. RFC3339Nano strings sort
// chronologically, so ORDER BY works on the raw column.
const timeLayout = time.RFC3339Nano

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is a SQLite-backed implementation of driven.RunStore.
type RunStore struct {
	db   *sql.DB
	path string
}

// NewRunStore opens (or creates) the run-history database at dbPath.
// WAL mode keeps concurrent readers from blocking the writer.
func NewRunStore(dbPath string) (*RunStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &RunStore{db: db, path: dbPath}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *RunStore) Path() string {
	return s.path
}

func (s *RunStore) createSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id            TEXT PRIMARY KEY,
			output_format TEXT NOT NULL,
			total_files   INTEGER NOT NULL,
			successful    INTEGER NOT NULL,
			failed        INTEGER NOT NULL,
			start_time    TEXT NOT NULL,
			end_time      TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS run_results (
			run_id             TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			file               TEXT NOT NULL,
			success            INTEGER NOT NULL,
			output_path        TEXT,
			error_message      TEXT NOT NULL DEFAULT '',
			processing_time_ms INTEGER NOT NULL,
			file_size_bytes    INTEGER NOT NULL,
			document_type      TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_run_results_run_id ON run_results(run_id);
	`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// RecordRun stores a run and its per-file results in one transaction.
func (s *RunStore) RecordRun(ctx context.Context, summary *domain.ProcessingSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, output_format, total_files, successful, failed, start_time, end_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID,
		summary.OutputFormat.String(),
		summary.TotalFiles,
		summary.Successful,
		summary.Failed,
		summary.StartTime.UTC().Format(timeLayout),
		summary.EndTime.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, r := range summary.Results {
		var outputPath sql.NullString
		if len(r.OutputPaths) > 0 {
			outputPath = sql.NullString{String: r.OutputPaths[0], Valid: true}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_results (run_id, file, success, output_path, error_message, processing_time_ms, file_size_bytes, document_type)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			summary.RunID,
			r.File,
			r.Success,
			outputPath,
			r.ErrorMessage,
			r.ProcessingTime.Milliseconds(),
			r.FileSizeBytes,
			r.DocumentType,
		)
		if err != nil {
			return fmt.Errorf("insert run result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. A limit of 0 or
// less means no limit.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	query := `
		SELECT id, output_format, total_files, successful, failed, start_time, end_time
		FROM runs
		ORDER BY start_time DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []domain.RunRecord
	for rows.Next() {
		var rec domain.RunRecord
		var start, end string
		if err := rows.Scan(&rec.ID, &rec.OutputFormat, &rec.TotalFiles,
			&rec.Successful, &rec.Failed, &start, &end); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if rec.StartTime, err = time.Parse(timeLayout, start); err != nil {
			return nil, fmt.Errorf("parse start time: %w", err)
		}
		if rec.EndTime, err = time.Parse(timeLayout, end); err != nil {
			return nil, fmt.Errorf("parse end time: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return records, nil
}
