package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/mohammadpnp/moodjournal-import/internal/domain/journal"
)

type GetImportJobInput struct {
	JobID   string
	OwnerID int64
}

type ImportJobStatsOutput struct {
	TotalEntries      int64 `json:"total_entries"`
	ProcessedEntries  int64 `json:"processed_entries"`
	ImportedEntries   int64 `json:"imported_entries"`
	SkippedDuplicates int64 `json:"skipped_duplicates"`
	CreatedGroups     int64 `json:"created_groups"`
	CreatedOptions    int64 `json:"created_options"`
	FailedEntries     int64 `json:"failed_entries"`
}

type ImportJobErrorOutput struct {
	Index  *int   `json:"index"`
	Reason string `json:"reason"`
}

// GetImportJobOutput is the job as pollers see it. The owner is left out.
type GetImportJobOutput struct {
	JobID      string                 `json:"job_id"`
	Filename   string                 `json:"filename"`
	Status     string                 `json:"status"`
	Progress   int                    `json:"progress"`
	DryRun     bool                   `json:"dry_run"`
	Stats      ImportJobStatsOutput   `json:"stats"`
	Errors     []ImportJobErrorOutput `json:"errors"`
	CreatedAt  string                 `json:"created_at"`
	StartedAt  *string                `json:"started_at"`
	FinishedAt *string                `json:"finished_at"`
}

func (o GetImportJobOutput) Finished() bool {
	return domain.ImportStatus(o.Status).Terminal()
}

type GetImportJob interface {
	Execute(ctx context.Context, in GetImportJobInput) (GetImportJobOutput, error)
}

type importJobReader interface {
	Get(ctx context.Context, jobID string) (domain.ImportJob, error)
}

type getImportJob struct {
	repo importJobReader
}

func NewGetImportJob(repo importJobReader) GetImportJob {
	return &getImportJob{repo: repo}
}

// Execute answers ErrImportJobNotFound both for unknown jobs and for jobs of
// another owner.
func (uc *getImportJob) Execute(ctx context.Context, in GetImportJobInput) (GetImportJobOutput, error) {
	jobID := strings.TrimSpace(in.JobID)
	if jobID == "" || in.OwnerID <= 0 {
		return GetImportJobOutput{}, ErrImportJobNotFound
	}

	job, err := uc.repo.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrImportJobNotFound) {
			return GetImportJobOutput{}, ErrImportJobNotFound
		}
		return GetImportJobOutput{}, fmt.Errorf("%w: %v", ErrGetImportJob, err)
	}
	if job.OwnerID != in.OwnerID {
		return GetImportJobOutput{}, ErrImportJobNotFound
	}

	return toImportJobOutput(job), nil
}

func toImportJobOutput(job domain.ImportJob) GetImportJobOutput {
	errs := make([]ImportJobErrorOutput, 0, len(job.Errors))
	for _, failure := range job.Errors {
		errs = append(errs, ImportJobErrorOutput{
			Index:  failure.Index,
			Reason: failure.Reason,
		})
	}

	return GetImportJobOutput{
		JobID:    job.ID,
		Filename: job.Filename,
		Status:   string(job.Status),
		Progress: job.Progress,
		DryRun:   job.DryRun,
		Stats: ImportJobStatsOutput{
			TotalEntries:      job.Stats.TotalEntries,
			ProcessedEntries:  job.Stats.ProcessedEntries,
			ImportedEntries:   job.Stats.ImportedEntries,
			SkippedDuplicates: job.Stats.SkippedDuplicates,
			CreatedGroups:     job.Stats.CreatedGroups,
			CreatedOptions:    job.Stats.CreatedOptions,
			FailedEntries:     job.Stats.FailedEntries,
		},
		Errors:     errs,
		CreatedAt:  job.CreatedAt.Format(time.RFC3339Nano),
		StartedAt:  formatOptionalTime(job.StartedAt),
		FinishedAt: formatOptionalTime(job.FinishedAt),
	}
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339Nano)
	return &formatted
}
