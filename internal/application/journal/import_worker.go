package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	domain "github.com/mohammadpnp/moodjournal-import/internal/domain/journal"
)

const maxStoredFailures = 1000

const (
	reasonUnparseableEntry = "Could not parse entry payload"
	reasonDuplicateCheck   = "could not check for duplicate entry"
	reasonSaveEntry        = "could not save entry"
	reasonUnexpectedEntry  = "unexpected error while importing entry"
	reasonLoadCategories   = "could not load existing categories"
	reasonUnexpectedJob    = "unexpected error while importing backup"
)

// BackupDecoder turns uploaded bytes into backup records. An error means the
// whole payload is unusable.
type BackupDecoder interface {
	Decode(payload []byte, filename string) (domain.Backup, error)
}

type importWorkerJobRepo interface {
	ClaimNext(ctx context.Context) (*domain.ClaimedImportJob, error)
	Wake() <-chan struct{}
	UpdateProgress(ctx context.Context, jobID string, progress int) error
	BumpStats(ctx context.Context, jobID string, delta domain.ImportStats) error
	AppendError(ctx context.Context, jobID string, failure domain.ImportFailure) error
	Complete(ctx context.Context, jobID string) error
	Fail(ctx context.Context, jobID string, reason string) error
}

type ImportWorkerConfig struct {
	Workers      int
	PollInterval time.Duration
}

type ImportWorkerDeps struct {
	Jobs       importWorkerJobRepo
	Decoder    BackupDecoder
	Categories domain.CategoryRepository
	Entries    domain.MoodEntryRepository
	Contents   domain.EntryContentFinder
}

type ImportWorker struct {
	repo       importWorkerJobRepo
	decoder    BackupDecoder
	categories domain.CategoryRepository
	entries    domain.MoodEntryRepository
	dedup      *DuplicateChecker
	cfg        ImportWorkerConfig
	logger     *slog.Logger

	once sync.Once
	wg   sync.WaitGroup
}

func NewImportWorker(deps ImportWorkerDeps, cfg ImportWorkerConfig, logger *slog.Logger) *ImportWorker {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ImportWorker{
		repo:       deps.Jobs,
		decoder:    deps.Decoder,
		categories: deps.Categories,
		entries:    deps.Entries,
		dedup:      NewDuplicateChecker(deps.Contents),
		cfg:        cfg,
		logger:     logger,
	}
}

func (w *ImportWorker) Start(ctx context.Context) {
	w.once.Do(func() {
		for i := 0; i < w.cfg.Workers; i++ {
			w.wg.Add(1)
			go func() {
				defer w.wg.Done()
				w.workerLoop(ctx)
			}()
		}
	})
}

// Wait blocks until every worker goroutine has returned. Workers return once
// the context passed to Start is done and their current job has finished.
func (w *ImportWorker) Wait() {
	w.wg.Wait()
}

func (w *ImportWorker) workerLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.repo.ClaimNext(ctx)
		if err != nil {
			w.logger.Error("claim next import job failed", "error", err)
			if !w.idle(ctx) {
				return
			}
			continue
		}

		if job == nil {
			if !w.idle(ctx) {
				return
			}
			continue
		}

		// A claimed job always runs to the end, even during shutdown.
		if err := w.runClaimed(context.WithoutCancel(ctx), *job); err != nil {
			w.logger.Error("import job failed", "job_id", job.ID, "error", err)
		}
	}
}

func (w *ImportWorker) runClaimed(ctx context.Context, job domain.ClaimedImportJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			if failErr := w.repo.Fail(ctx, job.ID, reasonUnexpectedJob); failErr != nil && !errors.Is(failErr, domain.ErrImportJobFinished) {
				err = fmt.Errorf("%v; fail update failed: %w", err, failErr)
			}
		}
	}()
	return w.ProcessJob(ctx, job)
}

// ProcessJob runs one claimed job to a terminal state. Entries are handled
// strictly in order; a bad entry is recorded and skipped, and only a payload
// that cannot be decoded at all fails the job.
func (w *ImportWorker) ProcessJob(ctx context.Context, job domain.ClaimedImportJob) error {
	logger := w.logger.With("job_id", job.ID, "filename", job.Filename, "dry_run", job.DryRun)
	started := time.Now()

	backup, err := w.decoder.Decode(job.Payload, job.Filename)
	if err != nil {
		return w.fail(ctx, job, err.Error(), fmt.Errorf("decode backup: %w", err))
	}

	resolver, err := NewEntityResolver(ctx, w.categories, job.OwnerID, job.DryRun)
	if err != nil {
		return w.fail(ctx, job, reasonLoadCategories, err)
	}

	total := len(backup.Records)
	if err := w.repo.BumpStats(ctx, job.ID, domain.ImportStats{TotalEntries: int64(total)}); err != nil {
		return fmt.Errorf("set total entries: %w", err)
	}
	logger.Info("import job started", "total_entries", total)

	storedFailures := 0
	accepted := NewAcceptedEntries()
	var summary domain.ImportStats
	for idx, rec := range backup.Records {
		outcome := w.importEntry(ctx, logger, job.ImportJob, resolver, accepted, idx, rec)
		summary = summary.Add(outcome.delta)

		if err := w.repo.BumpStats(ctx, job.ID, outcome.delta); err != nil {
			return fmt.Errorf("update stats at index %d: %w", idx, err)
		}
		if outcome.failure != nil && storedFailures < maxStoredFailures {
			storedFailures++
			if err := w.repo.AppendError(ctx, job.ID, *outcome.failure); err != nil {
				return fmt.Errorf("record error at index %d: %w", idx, err)
			}
		}
		if err := w.repo.UpdateProgress(ctx, job.ID, runningProgress(idx+1, total)); err != nil {
			return fmt.Errorf("update progress at index %d: %w", idx, err)
		}
	}

	if err := w.repo.Complete(ctx, job.ID); err != nil {
		return fmt.Errorf("complete job: %w", err)
	}

	logger.Info("import job completed",
		"total_entries", total,
		"imported_entries", summary.ImportedEntries,
		"skipped_duplicates", summary.SkippedDuplicates,
		"failed_entries", summary.FailedEntries,
		"created_groups", summary.CreatedGroups,
		"created_options", summary.CreatedOptions,
		"duration", time.Since(started),
	)
	return nil
}

type entryOutcome struct {
	delta   domain.ImportStats
	failure *domain.ImportFailure
}

func (o entryOutcome) failed(idx int, reason string) entryOutcome {
	o.delta.FailedEntries = 1
	o.delta.ProcessedEntries = 1
	o.delta.ImportedEntries = 0
	o.delta.SkippedDuplicates = 0
	o.failure = &domain.ImportFailure{Index: &idx, Reason: reason}
	return o
}

// importEntry is the per-entry error boundary: whatever happens to one entry,
// including a panic, ends up as that entry's outcome.
func (w *ImportWorker) importEntry(
	ctx context.Context,
	logger *slog.Logger,
	job domain.ImportJob,
	resolver *EntityResolver,
	accepted AcceptedEntries,
	idx int,
	rec domain.BackupRecord,
) (outcome entryOutcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("import entry panicked", "index", idx, "panic", r)
			outcome = outcome.failed(idx, reasonUnexpectedEntry)
		}
	}()

	entry, err := rec.Normalize()
	if err != nil {
		logger.Warn("could not normalize entry", "index", idx, "error", err)
		return outcome.failed(idx, reasonUnparseableEntry)
	}

	duplicate, err := w.dedup.IsDuplicate(ctx, job.OwnerID, entry, accepted)
	if err != nil {
		logger.Warn("duplicate check failed", "index", idx, "error", err)
		return outcome.failed(idx, reasonDuplicateCheck)
	}
	if duplicate {
		outcome.delta.SkippedDuplicates = 1
		outcome.delta.ProcessedEntries = 1
		return outcome
	}

	optionIDs := make([]int64, 0, len(entry.Tags))
	for _, tag := range entry.Tags {
		res, err := resolver.Resolve(ctx, tag)
		if res.CreatedCategory {
			outcome.delta.CreatedGroups++
		}
		if err != nil {
			logger.Warn("could not resolve tag", "index", idx, "tag", tag.Name, "category", tag.Category, "error", err)
			continue
		}
		if res.CreatedOption {
			outcome.delta.CreatedOptions++
		}
		if id, ok := res.Option.PersistedID(); ok {
			optionIDs = append(optionIDs, id)
		}
	}

	if !job.DryRun {
		if _, err := w.entries.AddEntry(ctx, job.OwnerID, entry, optionIDs); err != nil {
			logger.Warn("could not save entry", "index", idx, "error", err)
			return outcome.failed(idx, reasonSaveEntry)
		}
	}

	accepted.Add(entry)
	outcome.delta.ImportedEntries = 1
	outcome.delta.ProcessedEntries = 1
	return outcome
}

func (w *ImportWorker) fail(ctx context.Context, job domain.ClaimedImportJob, reason string, cause error) error {
	if err := w.repo.Fail(ctx, job.ID, truncateReason(reason)); err != nil {
		return fmt.Errorf("%v; fail update failed: %w", cause, err)
	}
	return cause
}

// runningProgress is the percentage of processed entries, kept within 1..99
// so that only completion reports 100.
func runningProgress(processed, total int) int {
	if total <= 0 {
		return 99
	}
	return min(max(processed*100/total, 1), 99)
}

func (w *ImportWorker) idle(ctx context.Context) bool {
	timer := time.NewTimer(w.cfg.PollInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-w.repo.Wake():
		return true
	case <-timer.C:
		return true
	}
}

func truncateReason(reason string) string {
	const maxLen = 1000
	reason = strings.TrimSpace(reason)
	if len(reason) <= maxLen {
		return reason
	}
	return reason[:maxLen]
}
