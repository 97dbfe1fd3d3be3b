package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Job is one queued analysis request. The resume comes either inline or as an
// object store key.
type Job struct {
	ID              string `mapstructure:"id"`
	UserID          string `mapstructure:"userId"`
	JobTitle        string `mapstructure:"jobTitle"`
	JobDescription  string `mapstructure:"jobDescription"`
	ResumeText      string `mapstructure:"resumeText"`
	ResumeObjectKey string `mapstructure:"resumeObjectKey"`
	ResumeMime      string `mapstructure:"resumeMime"`
}

// StatusUpdate is published to the updates exchange under analysis.<id>.
type StatusUpdate struct {
	ID              string    `json:"id"`
	Status          string    `json:"status"`
	Message         string    `json:"message"`
	MatchPercentage *int      `json:"matchPercentage,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// DecodeJob parses a message body. Scalar fields are weakly typed so numeric
// ids from producers are accepted.
func DecodeJob(body []byte) (*Job, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unmarshalling message body: %w", err)
	}

	var job Job
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &job,
	})
	if err != nil {
		return nil, fmt.Errorf("creating decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding job: %w", err)
	}

	return &job, nil
}

func routingKey(id string) string {
	return "analysis." + id
}
