package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestBuildWritesJSONWithComponent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "log.json")

	l, err := Build(Options{JSON: true, Debug: true, Output: path, Component: "worker"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	l.Debug("analysis finished")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}

	if entry["step"] != "analysis finished" {
		t.Fatalf("unexpected message %v", entry["step"])
	}
	if entry["level"] != "debug" {
		t.Fatalf("unexpected level %v", entry["level"])
	}
	if entry["component"] != "worker" {
		t.Fatalf("unexpected component %v", entry["component"])
	}
}

func TestBuildInfoLevelDropsDebug(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "log.txt")

	l, err := Build(Options{Output: path})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	l.Debug("hidden")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected no output at info level, got %q", data)
	}
}
