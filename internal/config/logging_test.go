package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupLoggerWithWritersFansOut(t *testing.T) {
	t.Parallel()

	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("import job completed", "job_id", "job-1")

	if strings.Contains(stderr.String(), "hidden") || strings.Contains(file.String(), "hidden") {
		t.Fatal("debug records must be filtered at info level")
	}
	if !strings.Contains(stderr.String(), "job_id=job-1") {
		t.Fatalf("expected text record on stderr, got %q", stderr.String())
	}

	var record map[string]any
	if err := json.Unmarshal(file.Bytes(), &record); err != nil {
		t.Fatalf("expected a JSON record in the file, got %q: %v", file.String(), err)
	}
	if record["msg"] != "import job completed" || record["job_id"] != "job-1" {
		t.Fatalf("unexpected JSON record: %v", record)
	}
}

func TestSetupLoggerWritesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "import.log")
	logger, closeFn := SetupLogger(path, slog.LevelInfo)
	logger.Info("hello")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("unexpected log file content: %q", data)
	}
}
