package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	domain "github.com/mohammadpnp/moodjournal-import/internal/domain/journal"
)

type ImportJobRegistryConfig struct {
	// Retention is how long a finished job stays pollable.
	Retention time.Duration
	// MaxRetained caps the number of jobs held; only finished jobs are evicted.
	MaxRetained int
}

type registryEntry struct {
	job     domain.ImportJob
	payload []byte
}

// ImportJobRegistry keeps import jobs in process memory. All access goes
// through one mutex and every read hands out a copy.
type ImportJobRegistry struct {
	mu    sync.Mutex
	jobs  map[string]*registryEntry
	queue []string
	wake  chan struct{}
	cfg   ImportJobRegistryConfig
	now   func() time.Time
}

func NewImportJobRegistry(cfg ImportJobRegistryConfig) *ImportJobRegistry {
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if cfg.MaxRetained <= 0 {
		cfg.MaxRetained = 500
	}
	return &ImportJobRegistry{
		jobs: make(map[string]*registryEntry),
		wake: make(chan struct{}, 1),
		cfg:  cfg,
		now:  time.Now,
	}
}

func (r *ImportJobRegistry) Enqueue(ctx context.Context, in domain.NewImportJob) (string, error) {
	_ = ctx

	r.mu.Lock()
	r.pruneLocked()
	job := domain.ImportJob{
		ID:        uuid.NewString(),
		OwnerID:   in.OwnerID,
		Filename:  in.Filename,
		Status:    domain.ImportStatusQueued,
		DryRun:    in.DryRun,
		Errors:    []domain.ImportFailure{},
		CreatedAt: r.now().UTC(),
	}
	r.jobs[job.ID] = &registryEntry{job: job, payload: in.Payload}
	r.queue = append(r.queue, job.ID)
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
	return job.ID, nil
}

// Wake fires after an enqueue so idle workers do not wait for their next poll.
func (r *ImportJobRegistry) Wake() <-chan struct{} {
	return r.wake
}

// ClaimNext moves the oldest queued job to running and hands its payload to
// the caller. It returns nil when nothing is queued.
func (r *ImportJobRegistry) ClaimNext(ctx context.Context) (*domain.ClaimedImportJob, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	for len(r.queue) > 0 {
		id := r.queue[0]
		r.queue = r.queue[1:]

		entry, ok := r.jobs[id]
		if !ok || entry.job.Status != domain.ImportStatusQueued {
			continue
		}

		startedAt := r.now().UTC()
		entry.job.Status = domain.ImportStatusRunning
		entry.job.StartedAt = &startedAt
		entry.job.Progress = 1

		claimed := &domain.ClaimedImportJob{
			ImportJob: entry.job.Clone(),
			Payload:   entry.payload,
		}
		entry.payload = nil
		return claimed, nil
	}
	return nil, nil
}

func (r *ImportJobRegistry) Get(ctx context.Context, jobID string) (domain.ImportJob, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.jobs[jobID]
	if !ok {
		return domain.ImportJob{}, domain.ErrImportJobNotFound
	}
	return entry.job.Clone(), nil
}

// UpdateProgress never lowers progress and keeps it below 100 until Complete.
func (r *ImportJobRegistry) UpdateProgress(ctx context.Context, jobID string, progress int) error {
	return r.mutateActive(jobID, func(job *domain.ImportJob) {
		progress = min(max(progress, job.Progress, 1), 99)
		job.Progress = progress
	})
}

func (r *ImportJobRegistry) BumpStats(ctx context.Context, jobID string, delta domain.ImportStats) error {
	return r.mutateActive(jobID, func(job *domain.ImportJob) {
		job.Stats = job.Stats.Add(delta)
	})
}

func (r *ImportJobRegistry) AppendError(ctx context.Context, jobID string, failure domain.ImportFailure) error {
	return r.mutateActive(jobID, func(job *domain.ImportJob) {
		job.Errors = append(job.Errors, failure)
	})
}

func (r *ImportJobRegistry) Complete(ctx context.Context, jobID string) error {
	return r.mutateActive(jobID, func(job *domain.ImportJob) {
		finishedAt := r.now().UTC()
		job.Status = domain.ImportStatusCompleted
		job.Progress = 100
		job.FinishedAt = &finishedAt
	})
}

// Fail records reason as the job-level error and finishes the job.
func (r *ImportJobRegistry) Fail(ctx context.Context, jobID string, reason string) error {
	return r.mutateActive(jobID, func(job *domain.ImportJob) {
		finishedAt := r.now().UTC()
		job.Errors = append(job.Errors, domain.ImportFailure{Reason: reason})
		job.Status = domain.ImportStatusFailed
		job.FinishedAt = &finishedAt
	})
}

func (r *ImportJobRegistry) mutateActive(jobID string, mutate func(job *domain.ImportJob)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.jobs[jobID]
	if !ok {
		return domain.ErrImportJobNotFound
	}
	if entry.job.Status.Terminal() {
		return domain.ErrImportJobFinished
	}
	mutate(&entry.job)
	return nil
}

// pruneLocked drops finished jobs past retention, then the oldest finished
// jobs while the registry is full. Queued and running jobs are never dropped.
func (r *ImportJobRegistry) pruneLocked() {
	cutoff := r.now().Add(-r.cfg.Retention)
	finished := make([]*registryEntry, 0)
	for id, entry := range r.jobs {
		if !entry.job.Status.Terminal() || entry.job.FinishedAt == nil {
			continue
		}
		if entry.job.FinishedAt.Before(cutoff) {
			delete(r.jobs, id)
			continue
		}
		finished = append(finished, entry)
	}

	if len(r.jobs) < r.cfg.MaxRetained {
		return
	}
	slices.SortFunc(finished, func(a, b *registryEntry) int {
		return a.job.FinishedAt.Compare(*b.job.FinishedAt)
	})
	for _, entry := range finished {
		if len(r.jobs) < r.cfg.MaxRetained {
			return
		}
		delete(r.jobs, entry.job.ID)
	}
}
