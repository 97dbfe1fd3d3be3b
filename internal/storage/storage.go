// Package storage persists finished analyses.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-match/internal/analyzer"
	"github.com/spigell/resume-match/internal/secrets"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverNone     = "none"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// Saver stores analysis records.
type Saver interface {
	Save(ctx context.Context, record *Record) error
	Close() error
}

type Config struct {
	Driver string `mapstructure:"driver"`
	// DSN is the postgres connection string.
	DSN     string `mapstructure:"dsn"`
	DSNFile string `mapstructure:"dsn-file"`
	// Path is the sqlite database file.
	Path string `mapstructure:"path"`
}

// Record is one stored analysis together with the job it was run against.
type Record struct {
	ID               uuid.UUID
	JobDescriptionID uuid.UUID
	UserID           string
	JobTitle         string
	JobDescription   string
	ResumeText       string
	MatchPercentage  int
	Report           *analyzer.Report
	CreatedAt        time.Time
}

func NewRecord(userID, jobTitle, jobDescription, resumeText string, report *analyzer.Report) *Record {
	r := &Record{
		ID:               uuid.New(),
		JobDescriptionID: uuid.New(),
		UserID:           strings.TrimSpace(userID),
		JobTitle:         strings.TrimSpace(jobTitle),
		JobDescription:   jobDescription,
		ResumeText:       resumeText,
		Report:           report,
		CreatedAt:        time.Now().UTC(),
	}

	if report != nil {
		r.MatchPercentage = report.MatchPercentage
	}

	return r
}

func (r *Record) details() ([]byte, error) {
	if r.Report == nil {
		return []byte("{}"), nil
	}

	data, err := json.Marshal(r.Report)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis details: %w", err)
	}
	return data, nil
}

func (r *Record) title() string {
	if r.JobTitle == "" {
		return "Untitled position"
	}
	return r.JobTitle
}

// Open returns the saver selected by cfg.Driver. The none driver yields a nil
// Saver and a nil error: callers treat that as storage being disabled.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (Saver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	logger = logger.With(zap.String("storage_driver", driver))

	switch driver {
	case DriverPostgres:
		dsn, err := secrets.Load(secrets.Source{Name: "postgres dsn", Value: cfg.DSN, File: cfg.DSNFile})
		if err != nil {
			return nil, err
		}
		return OpenPostgres(ctx, dsn, logger)
	case DriverSQLite:
		return OpenSQLite(ctx, cfg.Path, logger)
	case DriverNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}
