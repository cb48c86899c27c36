package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	app "github.com/mohammadpnp/moodjournal-import/internal/application/journal"
)

type scriptedGetImportJob struct {
	statuses []string
	calls    int
	err      error
}

func (s *scriptedGetImportJob) Execute(ctx context.Context, in app.GetImportJobInput) (app.GetImportJobOutput, error) {
	if s.err != nil {
		return app.GetImportJobOutput{}, s.err
	}
	status := s.statuses[min(s.calls, len(s.statuses)-1)]
	s.calls++
	return app.GetImportJobOutput{JobID: in.JobID, Status: status}, nil
}

func TestWaitForImportJobPollsUntilFinished(t *testing.T) {
	t.Parallel()

	getJob := &scriptedGetImportJob{statuses: []string{"queued", "running", "completed"}}
	job, err := waitForImportJob(context.Background(), getJob, "job-1", 7, time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != "completed" {
		t.Fatalf("expected completed, got %q", job.Status)
	}
	if getJob.calls != 3 {
		t.Fatalf("expected 3 polls, got %d", getJob.calls)
	}
}

func TestWaitForImportJobStopsOnContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	getJob := &scriptedGetImportJob{statuses: []string{"running"}}
	_, err := waitForImportJob(ctx, getJob, "job-1", 7, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWaitForImportJobReturnsLookupError(t *testing.T) {
	t.Parallel()

	getJob := &scriptedGetImportJob{err: app.ErrImportJobNotFound}
	_, err := waitForImportJob(context.Background(), getJob, "job-1", 7, time.Millisecond)
	if !errors.Is(err, app.ErrImportJobNotFound) {
		t.Fatalf("expected ErrImportJobNotFound, got %v", err)
	}
}
