package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS job_descriptions (
	id          TEXT PRIMARY KEY,
	user_id     TEXT,
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS resume_analyses (
	id                 TEXT PRIMARY KEY,
	user_id            TEXT,
	job_description_id TEXT NOT NULL REFERENCES job_descriptions (id) ON DELETE CASCADE,
	resume_text        TEXT NOT NULL,
	match_percentage   INTEGER NOT NULL,
	analysis_details   TEXT NOT NULL,
	created_at         TEXT NOT NULL
);`

// SQLite stores records in a local database file.
type SQLite struct {
	db     *sql.DB
	logger *zap.Logger
}

func OpenSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLite, error) {
	if path == "" {
		path = "resume-match.db"
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: init schema: %w", err)
	}

	return &SQLite{db: db, logger: logger}, nil
}

func (s *SQLite) Save(ctx context.Context, record *Record) error {
	details, err := record.details()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	created := record.CreatedAt.Format(time.RFC3339)

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO job_descriptions (id, user_id, title, description, created_at)
		 VALUES (?, NULLIF(?, ''), ?, ?, ?)`,
		record.JobDescriptionID.String(), record.UserID, record.title(), record.JobDescription, created,
	); err != nil {
		return fmt.Errorf("sqlite: insert job description: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO resume_analyses (id, user_id, job_description_id, resume_text, match_percentage, analysis_details, created_at)
		 VALUES (?, NULLIF(?, ''), ?, ?, ?, ?, ?)`,
		record.ID.String(), record.UserID, record.JobDescriptionID.String(), record.ResumeText,
		record.MatchPercentage, string(details), created,
	); err != nil {
		return fmt.Errorf("sqlite: insert resume analysis: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}

	s.logger.Debug("analysis saved", zap.String("analysis_id", record.ID.String()))
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
