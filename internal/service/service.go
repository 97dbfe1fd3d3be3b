// Package service is the request boundary around the analyzer: it validates
// input, shields callers from panics and stores results on request.
package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spigell/resume-match/internal/analyzer"
	"github.com/spigell/resume-match/internal/storage"
	"github.com/spigell/resume-match/internal/utils"
)

const logPreviewLength = 120

var (
	ErrValidation     = errors.New("missing required fields")
	ErrAnalysisFailed = errors.New("analysis failed")
)

var validate = newValidator()

// Request is one resume/job comparison.
type Request struct {
	ResumeText     string `json:"resumeText" mapstructure:"resumeText" validate:"required"`
	JobDescription string `json:"jobDescription" mapstructure:"jobDescription" validate:"required"`
	JobTitle       string `json:"jobTitle,omitempty" mapstructure:"jobTitle"`
	UserID         string `json:"userId,omitempty" mapstructure:"userId"`
	Save           bool   `json:"save,omitempty" mapstructure:"save"`
}

// Validate reports ErrValidation naming every missing field. Whitespace-only
// text counts as missing.
func (r Request) Validate() error {
	r.ResumeText = strings.TrimSpace(r.ResumeText)
	r.JobDescription = strings.TrimSpace(r.JobDescription)

	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}

	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(fields, ", "))
}

type Service struct {
	analyze func(resumeText, jobText string) *analyzer.Report
	saver   storage.Saver
	logger  *zap.Logger
}

// New returns a service. A nil saver disables persistence.
func New(a *analyzer.Analyzer, saver storage.Saver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		analyze: a.Analyze,
		saver:   saver,
		logger:  logger,
	}
}

// Analyze validates req, runs the analysis and, when req.Save is set, stores
// the result. Storage failures are logged and never fail the call.
func (s *Service) Analyze(ctx context.Context, req Request) (*analyzer.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	report, err := s.run(req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("analysis finished",
		zap.String("job_title", req.JobTitle),
		zap.Int("match_percentage", report.MatchPercentage),
		zap.Int("matched", len(report.MatchedSkills)),
		zap.Int("missing", len(report.MissingSkills)),
	)
	s.logger.Debug("analysis input",
		zap.String("resume_preview", utils.TruncateForLog(req.ResumeText, logPreviewLength)),
		zap.String("job_preview", utils.TruncateForLog(req.JobDescription, logPreviewLength)),
	)

	if req.Save {
		s.save(ctx, req, report)
	}

	return report, nil
}

func (s *Service) run(req Request) (report *analyzer.Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("analysis panicked", zap.Any("panic", r))
			report = nil
			err = fmt.Errorf("%w: %v", ErrAnalysisFailed, r)
		}
	}()

	report = s.analyze(req.ResumeText, req.JobDescription)
	if report == nil {
		return nil, fmt.Errorf("%w: empty report", ErrAnalysisFailed)
	}

	return report, nil
}

func (s *Service) save(ctx context.Context, req Request, report *analyzer.Report) {
	if s.saver == nil {
		s.logger.Warn("skipping save", zap.String("reason", "storage is not configured"))
		return
	}

	record := storage.NewRecord(req.UserID, req.JobTitle, req.JobDescription, req.ResumeText, report)
	if err := s.saver.Save(ctx, record); err != nil {
		s.logger.Warn("saving analysis failed", zap.String("analysis_id", record.ID.String()), zap.Error(err))
		return
	}

	s.logger.Info("analysis saved", zap.String("analysis_id", record.ID.String()))
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
