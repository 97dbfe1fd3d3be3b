package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-match/internal/analyzer"
	"github.com/spigell/resume-match/internal/extract"
	"github.com/spigell/resume-match/internal/logger"
	"github.com/spigell/resume-match/internal/service"
	"github.com/spigell/resume-match/internal/storage"
	"github.com/spigell/resume-match/internal/utils"
)

type Analyzer interface {
	Analyze(ctx context.Context, req service.Request) (*analyzer.Report, error)
}

type Downloader interface {
	Download(ctx context.Context, key string) ([]byte, string, error)
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

type RetryPolicy struct {
	Attempts int           `mapstructure:"attempts"`
	Step     time.Duration `mapstructure:"step"`
}

// ProcessorDeps groups the collaborators of a Processor. Files and Saver are optional.
type ProcessorDeps struct {
	Analyzer  Analyzer
	Files     Downloader
	Saver     storage.Saver
	Publisher Publisher
	Retry     RetryPolicy
	Logger    *zap.Logger
	Now       func() time.Time
}

// Processor handles single queue messages.
type Processor struct {
	deps ProcessorDeps
}

func NewProcessor(deps ProcessorDeps) *Processor {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Retry.Attempts <= 0 {
		deps.Retry.Attempts = 3
	}
	if deps.Retry.Step <= 0 {
		deps.Retry.Step = 500 * time.Millisecond
	}

	return &Processor{deps: deps}
}

// Handle processes one message body. The returned error means the message
// could not be handled; a failed status has already been published when an id was known.
func (p *Processor) Handle(ctx context.Context, body []byte) error {
	job, err := DecodeJob(body)
	if err != nil {
		return err
	}

	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	log := logger.WithAnalysisFields(p.deps.Logger, "queue", job.ID, job.JobTitle)
	log.Info("processing analysis")

	p.publish(ctx, log, job.ID, StatusUpdate{Status: StatusProcessing, Message: "analysis started"})

	report, err := p.process(ctx, log, job)
	if err != nil {
		message := "analysis failed"
		if errors.Is(err, service.ErrValidation) {
			message = "missing required fields"
		}
		p.publish(ctx, log, job.ID, StatusUpdate{Status: StatusFailed, Message: message})
		return fmt.Errorf("analysis %s: %w", job.ID, err)
	}

	percentage := report.MatchPercentage
	p.publish(ctx, log, job.ID, StatusUpdate{Status: StatusCompleted, Message: "analysis completed", MatchPercentage: &percentage})

	log.Info("analysis completed", zap.Int("match_percentage", percentage))
	return nil
}

func (p *Processor) process(ctx context.Context, log *zap.Logger, job *Job) (*analyzer.Report, error) {
	resumeText, err := p.resumeText(ctx, job)
	if err != nil {
		return nil, err
	}

	req := service.Request{
		ResumeText:     resumeText,
		JobDescription: job.JobDescription,
		JobTitle:       job.JobTitle,
		UserID:         job.UserID,
	}

	report, err := p.deps.Analyzer.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	if p.deps.Saver != nil {
		record := storage.NewRecord(job.UserID, job.JobTitle, job.JobDescription, resumeText, report)
		_, err := utils.Retry(ctx, p.deps.Retry.Attempts, p.deps.Retry.Step, func() (struct{}, error) {
			return struct{}{}, p.deps.Saver.Save(ctx, record)
		})
		if err != nil {
			log.Warn("saving analysis failed", zap.Error(err))
		}
	}

	return report, nil
}

func (p *Processor) resumeText(ctx context.Context, job *Job) (string, error) {
	if job.ResumeText != "" || job.ResumeObjectKey == "" {
		return job.ResumeText, nil
	}

	if p.deps.Files == nil {
		return "", errors.New("resume object key given but no object store is configured")
	}

	type download struct {
		data []byte
		mime string
	}

	file, err := utils.Retry(ctx, p.deps.Retry.Attempts, p.deps.Retry.Step, func() (download, error) {
		data, mime, err := p.deps.Files.Download(ctx, job.ResumeObjectKey)
		return download{data: data, mime: mime}, err
	})
	if err != nil {
		return "", fmt.Errorf("downloading resume: %w", err)
	}

	mime := job.ResumeMime
	if mime == "" {
		mime = file.mime
	}

	text, err := extract.Text(file.data, mime)
	if err != nil {
		return "", fmt.Errorf("extracting resume text: %w", err)
	}

	return text, nil
}

func (p *Processor) publish(ctx context.Context, log *zap.Logger, id string, update StatusUpdate) {
	if p.deps.Publisher == nil {
		return
	}

	update.ID = id
	update.Timestamp = p.deps.Now().UTC()

	body, err := json.Marshal(update)
	if err != nil {
		log.Warn("encoding status update", zap.Error(err))
		return
	}

	if err := p.deps.Publisher.Publish(ctx, routingKey(id), body); err != nil {
		log.Warn("failed to publish update", zap.String("status", update.Status), zap.Error(err))
	}
}
