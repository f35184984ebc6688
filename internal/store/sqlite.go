// Package store persists jobs and extraction records in SQLite and keeps
// completed results in a TTL-bounded in-memory cache.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/vanban/internal/models"
)

// ErrNotFound reports a document ID with no registered job.
var ErrNotFound = errors.New("job not found")

// SQLiteStore implements job and extraction persistence using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and
// initializes the schema. Parent directories are created if they do not
// exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS jobs (
		document_id TEXT PRIMARY KEY,
		file_name TEXT NOT NULL,
		file_path TEXT NOT NULL,
		size INTEGER NOT NULL,
		status TEXT NOT NULL,
		error TEXT,
		uploaded_at TIMESTAMP NOT NULL,
		processed_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
	CREATE INDEX IF NOT EXISTS idx_jobs_uploaded_at ON jobs(uploaded_at);

	CREATE TABLE IF NOT EXISTS extractions (
		document_id TEXT NOT NULL,
		segment_id INTEGER NOT NULL,
		doc_type TEXT,
		title TEXT,
		start_page INTEGER NOT NULL,
		end_page INTEGER NOT NULL,
		record TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (document_id, segment_id),
		FOREIGN KEY (document_id) REFERENCES jobs(document_id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_extractions_document_id ON extractions(document_id);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateJob inserts a job, or refreshes an existing row for the same
// document so a re-upload starts from a clean uploaded state.
func (s *SQLiteStore) CreateJob(ctx context.Context, job *models.Job) error {
	if job.UploadedAt.IsZero() {
		job.UploadedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (document_id, file_name, file_path, size, status, error, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(document_id) DO UPDATE SET
		   file_name = excluded.file_name,
		   file_path = excluded.file_path,
		   size = excluded.size,
		   status = excluded.status,
		   error = '',
		   uploaded_at = excluded.uploaded_at,
		   processed_at = NULL`,
		job.DocumentID, job.FileName, job.FilePath, job.Size, job.Status, job.Error, job.UploadedAt,
	)
	return err
}

// GetJob returns a job by document ID.
func (s *SQLiteStore) GetJob(ctx context.Context, documentID string) (*models.Job, error) {
	var job models.Job
	var errMsg sql.NullString
	var processedAt sql.NullTime

	err := s.db.QueryRowContext(ctx,
		`SELECT document_id, file_name, file_path, size, status, error, uploaded_at, processed_at
		 FROM jobs WHERE document_id = ?`, documentID,
	).Scan(&job.DocumentID, &job.FileName, &job.FilePath, &job.Size, &job.Status, &errMsg, &job.UploadedAt, &processedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, documentID)
	}
	if err != nil {
		return nil, err
	}

	job.Error = errMsg.String
	if processedAt.Valid {
		job.ProcessedAt = processedAt.Time
	}
	return &job, nil
}

// UpdateStatus moves a job to the given status, recording the error
// message for failures and the completion time for terminal states.
func (s *SQLiteStore) UpdateStatus(ctx context.Context, documentID string, status models.JobStatus, errMsg string) error {
	var processedAt interface{}
	if status == models.StatusCompleted || status == models.StatusFailed {
		processedAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, error = ?, processed_at = ? WHERE document_id = ?`,
		status, errMsg, processedAt, documentID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, documentID)
	}
	return nil
}

// ListJobs returns jobs ordered by upload time, newest first.
func (s *SQLiteStore) ListJobs(ctx context.Context, offset, limit int) ([]*models.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document_id, file_name, file_path, size, status, error, uploaded_at, processed_at
		 FROM jobs ORDER BY uploaded_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		var job models.Job
		var errMsg sql.NullString
		var processedAt sql.NullTime
		if err := rows.Scan(&job.DocumentID, &job.FileName, &job.FilePath, &job.Size, &job.Status, &errMsg, &job.UploadedAt, &processedAt); err != nil {
			return nil, err
		}
		job.Error = errMsg.String
		if processedAt.Valid {
			job.ProcessedAt = processedAt.Time
		}
		jobs = append(jobs, &job)
	}
	return jobs, rows.Err()
}

// ReplaceExtractions atomically replaces all extraction rows for a
// document with the given records.
func (s *SQLiteStore) ReplaceExtractions(ctx context.Context, documentID string, records []*models.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM extractions WHERE document_id = ?`, documentID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO extractions (document_id, segment_id, doc_type, title, start_page, end_page, record, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, rec := range records {
		recordJSON, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			documentID, rec.SegmentID, rec.DocType, rec.FullTitle,
			rec.StartPage, rec.EndPage, string(recordJSON), now,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetExtractions returns all extraction records for a document ordered
// by segment ID.
func (s *SQLiteStore) GetExtractions(ctx context.Context, documentID string) ([]*models.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record FROM extractions WHERE document_id = ? ORDER BY segment_id`,
		documentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.Record
	for rows.Next() {
		var recordJSON string
		if err := rows.Scan(&recordJSON); err != nil {
			return nil, err
		}
		var rec models.Record
		if err := json.Unmarshal([]byte(recordJSON), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// CountJobs returns the total number of jobs.
func (s *SQLiteStore) CountJobs(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
