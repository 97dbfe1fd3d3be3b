package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldAnalysisID is the structured log field key for the analysis identifier.
	FieldAnalysisID = "analysis_id"
	// FieldJobTitle is the structured log field key for the job title being matched.
	FieldJobTitle = "job_title"
	// FieldSource names the entry point that requested the analysis (cli, http, queue).
	FieldSource = "source"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger is replaced with a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// AnalysisFields returns the fields describing one analysis request.
// Empty values are skipped.
func AnalysisFields(source, analysisID, jobTitle string) []zap.Field {
	return StringFields(
		StringField{Key: FieldSource, Value: source},
		StringField{Key: FieldAnalysisID, Value: analysisID},
		StringField{Key: FieldJobTitle, Value: jobTitle},
	)
}

// WithAnalysisFields attaches the analysis fields to the provided logger.
func WithAnalysisFields(logger *zap.Logger, source, analysisID, jobTitle string) *zap.Logger {
	return WithFields(logger, AnalysisFields(source, analysisID, jobTitle)...)
}
