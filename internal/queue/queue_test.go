package queue

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-match/internal/analyzer"
	"github.com/spigell/resume-match/internal/service"
	"github.com/spigell/resume-match/internal/storage"
)

type published struct {
	key    string
	update StatusUpdate
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []published
}

func (f *fakePublisher) Publish(_ context.Context, key string, body []byte) error {
	var update StatusUpdate
	if err := json.Unmarshal(body, &update); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, published{key: key, update: update})
	return nil
}

func (f *fakePublisher) statuses() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.messages))
	for _, m := range f.messages {
		out = append(out, m.update.Status)
	}
	return out
}

type fakeFiles struct {
	failures int
	calls    int
	data     string
	mime     string
}

func (f *fakeFiles) Download(context.Context, string) ([]byte, string, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, "", errors.New("connection reset")
	}
	return []byte(f.data), f.mime, nil
}

type fakeSaver struct {
	saved []*storage.Record
	err   error
}

func (f *fakeSaver) Save(_ context.Context, record *storage.Record) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, record)
	return nil
}

func (f *fakeSaver) Close() error { return nil }

type fakeAck struct {
	acked, nacked, requeued bool
}

func (f *fakeAck) Ack(bool) error { f.acked = true; return nil }

func (f *fakeAck) Nack(_ bool, requeue bool) error {
	f.nacked = true
	f.requeued = requeue
	return nil
}

func newProcessor(publisher Publisher, files Downloader, saver storage.Saver, logger *zap.Logger) *Processor {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return NewProcessor(ProcessorDeps{
		Analyzer:  service.New(analyzer.New(analyzer.Config{}), nil, nil),
		Files:     files,
		Saver:     saver,
		Publisher: publisher,
		Retry:     RetryPolicy{Attempts: 3, Step: time.Nanosecond},
		Logger:    logger,
		Now:       func() time.Time { return fixed },
	})
}

func TestDecodeJob(t *testing.T) {
	t.Parallel()

	job, err := DecodeJob([]byte(`{"id": 42, "jobTitle": "SRE", "jobDescription": "Kubernetes", "resumeObjectKey": "r/1.pdf", "unknown": true}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if job.ID != "42" || job.JobTitle != "SRE" || job.ResumeObjectKey != "r/1.pdf" {
		t.Fatalf("unexpected job %+v", job)
	}

	if _, err := DecodeJob([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for malformed body")
	}
}

func TestProcessorInlineResume(t *testing.T) {
	t.Parallel()

	publisher := &fakePublisher{}
	saver := &fakeSaver{}
	p := newProcessor(publisher, nil, saver, nil)

	body := `{"id":"a1","jobTitle":"Frontend","jobDescription":"Angular, TypeScript, Docker","resumeText":"Angular and TypeScript developer"}`
	if err := p.Handle(context.Background(), []byte(body)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := strings.Join(publisher.statuses(), ","); got != "processing,completed" {
		t.Fatalf("unexpected statuses %q", got)
	}

	last := publisher.messages[1]
	if last.key != "analysis.a1" || last.update.ID != "a1" {
		t.Fatalf("unexpected routing %+v", last)
	}
	if last.update.MatchPercentage == nil || *last.update.MatchPercentage != 67 {
		t.Fatalf("expected percentage in completed update, got %+v", last.update)
	}
	if !last.update.Timestamp.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Fatalf("unexpected timestamp %v", last.update.Timestamp)
	}

	if len(saver.saved) != 1 || saver.saved[0].JobTitle != "Frontend" {
		t.Fatalf("expected the analysis to be saved, got %+v", saver.saved)
	}
}

func TestProcessorDownloadsResume(t *testing.T) {
	t.Parallel()

	publisher := &fakePublisher{}
	files := &fakeFiles{failures: 2, data: "Go\nKubernetes", mime: "text/plain"}
	p := newProcessor(publisher, files, nil, nil)

	body := `{"id":"b2","jobDescription":"Go, Kubernetes","resumeObjectKey":"resumes/b2.txt"}`
	if err := p.Handle(context.Background(), []byte(body)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if files.calls != 3 {
		t.Fatalf("expected download to be retried, got %d calls", files.calls)
	}

	last := publisher.messages[len(publisher.messages)-1]
	if last.update.Status != StatusCompleted || *last.update.MatchPercentage != 100 {
		t.Fatalf("unexpected final update %+v", last.update)
	}
}

func TestProcessorFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		files   Downloader
		message string
	}{
		{
			name:    "missing job description",
			body:    `{"id":"c3","resumeText":"Go"}`,
			message: "missing required fields",
		},
		{
			name:    "download keeps failing",
			body:    `{"id":"c4","jobDescription":"Go","resumeObjectKey":"k"}`,
			files:   &fakeFiles{failures: 10},
			message: "analysis failed",
		},
		{
			name:    "object key without object store",
			body:    `{"id":"c5","jobDescription":"Go","resumeObjectKey":"k"}`,
			message: "analysis failed",
		},
		{
			name:    "unsupported file type",
			body:    `{"id":"c6","jobDescription":"Go","resumeObjectKey":"k","resumeMime":"image/png"}`,
			files:   &fakeFiles{data: "png"},
			message: "analysis failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			publisher := &fakePublisher{}
			p := newProcessor(publisher, tt.files, nil, nil)

			if err := p.Handle(context.Background(), []byte(tt.body)); err == nil {
				t.Fatalf("expected an error")
			}

			last := publisher.messages[len(publisher.messages)-1]
			if last.update.Status != StatusFailed || last.update.Message != tt.message {
				t.Fatalf("unexpected final update %+v", last.update)
			}
		})
	}
}

func TestProcessorSaveFailureStillCompletes(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.WarnLevel)
	publisher := &fakePublisher{}
	p := newProcessor(publisher, nil, &fakeSaver{err: errors.New("disk full")}, zap.New(core))

	if err := p.Handle(context.Background(), []byte(`{"id":"d1","jobDescription":"Go","resumeText":"Go"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := strings.Join(publisher.statuses(), ","); got != "processing,completed" {
		t.Fatalf("unexpected statuses %q", got)
	}

	entries := observed.FilterMessage("saving analysis failed").All()
	if len(entries) != 1 || entries[0].ContextMap()["analysis_id"] != "d1" {
		t.Fatalf("expected a warning tagged with the analysis id, got %v", entries)
	}
}

func TestSettle(t *testing.T) {
	t.Parallel()

	c := &Consumer{logger: zap.NewNop()}

	c.handler = func(context.Context, []byte) error { return nil }
	ok := &fakeAck{}
	c.settle(context.Background(), c.logger, ok, []byte("{}"))
	if !ok.acked || ok.nacked {
		t.Fatalf("expected ack, got %+v", ok)
	}

	c.handler = func(context.Context, []byte) error { return errors.New("bad message") }
	bad := &fakeAck{}
	c.settle(context.Background(), c.logger, bad, []byte("{}"))
	if !bad.nacked || bad.requeued || bad.acked {
		t.Fatalf("expected nack without requeue, got %+v", bad)
	}
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{}.withDefaults()
	if cfg.Queue != DefaultQueue || cfg.Exchange != DefaultExchange || cfg.Workers != DefaultWorkers || cfg.Prefetch != 1 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}
