package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS job_descriptions (
	id          UUID PRIMARY KEY,
	user_id     TEXT,
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS resume_analyses (
	id                 UUID PRIMARY KEY,
	user_id            TEXT,
	job_description_id UUID NOT NULL REFERENCES job_descriptions (id) ON DELETE CASCADE,
	resume_text        TEXT NOT NULL,
	match_percentage   INTEGER NOT NULL,
	analysis_details   JSONB NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// Postgres stores records through a pgx connection pool.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func OpenPostgres(ctx context.Context, dsn string, logger *zap.Logger) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating postgres schema: %w", err)
	}

	return &Postgres{pool: pool, logger: logger}, nil
}

// Save inserts the job description and the analysis in one transaction.
func (p *Postgres) Save(ctx context.Context, record *Record) error {
	details, err := record.details()
	if err != nil {
		return err
	}

	err = pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO job_descriptions (id, user_id, title, description, created_at)
			 VALUES ($1, NULLIF($2, ''), $3, $4, $5)`,
			record.JobDescriptionID, record.UserID, record.title(), record.JobDescription, record.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert job description: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO resume_analyses (id, user_id, job_description_id, resume_text, match_percentage, analysis_details, created_at)
			 VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)`,
			record.ID, record.UserID, record.JobDescriptionID, record.ResumeText, record.MatchPercentage, details, record.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert resume analysis: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("saving analysis %s: %w", record.ID, err)
	}

	p.logger.Debug("analysis saved", zap.String("analysis_id", record.ID.String()))
	return nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
