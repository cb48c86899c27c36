package journal

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/mohammadpnp/moodjournal-import/internal/domain/journal"
)

type StartBackupImportInput struct {
	OwnerID  int64
	Filename string
	Payload  []byte
	DryRun   bool
}

type StartBackupImportOutput struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type StartBackupImport interface {
	Execute(ctx context.Context, in StartBackupImportInput) (StartBackupImportOutput, error)
}

type importJobEnqueuer interface {
	Enqueue(ctx context.Context, job domain.NewImportJob) (string, error)
}

type startBackupImport struct {
	importJobRepo importJobEnqueuer
}

func NewStartBackupImport(importJobRepo importJobEnqueuer) StartBackupImport {
	return &startBackupImport{importJobRepo: importJobRepo}
}

// Execute only queues the upload; parsing happens on a worker.
func (uc *startBackupImport) Execute(ctx context.Context, in StartBackupImportInput) (StartBackupImportOutput, error) {
	if in.OwnerID <= 0 {
		return StartBackupImportOutput{}, ErrInvalidOwner
	}
	filename := strings.TrimSpace(in.Filename)
	if filename == "" {
		return StartBackupImportOutput{}, ErrMissingFilename
	}
	if len(in.Payload) == 0 {
		return StartBackupImportOutput{}, ErrEmptyUpload
	}

	jobID, err := uc.importJobRepo.Enqueue(ctx, domain.NewImportJob{
		OwnerID:  in.OwnerID,
		Filename: filename,
		DryRun:   in.DryRun,
		Payload:  in.Payload,
	})
	if err != nil {
		return StartBackupImportOutput{}, fmt.Errorf("%w: %v", ErrEnqueueImportJob, err)
	}

	return StartBackupImportOutput{
		JobID:  jobID,
		Status: string(domain.ImportStatusQueued),
	}, nil
}
