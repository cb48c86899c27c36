package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	app "github.com/mohammadpnp/moodjournal-import/internal/application/journal"
	"github.com/mohammadpnp/moodjournal-import/internal/config"
)

type stubStartImport struct{}

func (stubStartImport) Execute(ctx context.Context, in app.StartBackupImportInput) (app.StartBackupImportOutput, error) {
	return app.StartBackupImportOutput{JobID: "job-1", Status: "queued"}, nil
}

type stubGetImportJob struct{}

func (stubGetImportJob) Execute(ctx context.Context, in app.GetImportJobInput) (app.GetImportJobOutput, error) {
	return app.GetImportJobOutput{}, app.ErrImportJobNotFound
}

func testConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{Port: "0", BodyLimit: "1M", CORSOrigins: []string{"https://journal.example"}},
		Auth:   config.AuthConfig{UserHeader: "X-User-ID"},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewHTTPServerHealthz(t *testing.T) {
	t.Parallel()

	server := NewHTTPServer(testConfig(), stubStartImport{}, stubGetImportJob{}, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestNewHTTPServerProtectsImportRoutes(t *testing.T) {
	t.Parallel()

	server := NewHTTPServer(testConfig(), stubStartImport{}, stubGetImportJob{}, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/import/daylio/job-1", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without owner, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/import/daylio/job-1", nil)
	req.Header.Set("X-User-ID", "3")
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown job, got %d", rec.Code)
	}
}

func TestNewHTTPServerAnswersPreflight(t *testing.T) {
	t.Parallel()

	server := NewHTTPServer(testConfig(), stubStartImport{}, stubGetImportJob{}, discardLogger())

	req := httptest.NewRequest(http.MethodOptions, "/api/import/daylio", nil)
	req.Header.Set("Origin", "https://journal.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://journal.example" {
		t.Fatalf("unexpected allow origin: %q", got)
	}
}
