package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	domain "github.com/mohammadpnp/moodjournal-import/internal/domain/journal"
)

type fakeJobRepo struct {
	mu       sync.Mutex
	jobs     map[string]*domain.ImportJob
	queue    []domain.ClaimedImportJob
	progress map[string][]int
	wake     chan struct{}
	enqueued []domain.NewImportJob
	err      error
	nextID   int
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{
		jobs:     make(map[string]*domain.ImportJob),
		progress: make(map[string][]int),
		wake:     make(chan struct{}, 1),
	}
}

// running registers a job that a worker has already claimed.
func (r *fakeJobRepo) running(ownerID int64, filename string, dryRun bool, payload []byte) domain.ClaimedImportJob {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	job := domain.ImportJob{
		ID:       fmt.Sprintf("job-%d", r.nextID),
		OwnerID:  ownerID,
		Filename: filename,
		Status:   domain.ImportStatusRunning,
		Progress: 1,
		DryRun:   dryRun,
		Errors:   []domain.ImportFailure{},
	}
	r.jobs[job.ID] = &job
	return domain.ClaimedImportJob{ImportJob: job.Clone(), Payload: payload}
}

func (r *fakeJobRepo) job(id string) domain.ImportJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.jobs[id].Clone()
}

func (r *fakeJobRepo) Enqueue(ctx context.Context, in domain.NewImportJob) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	r.enqueued = append(r.enqueued, in)
	r.nextID++
	id := fmt.Sprintf("job-%d", r.nextID)
	r.jobs[id] = &domain.ImportJob{ID: id, OwnerID: in.OwnerID, Filename: in.Filename, DryRun: in.DryRun, Status: domain.ImportStatusQueued}
	return id, nil
}

func (r *fakeJobRepo) Get(ctx context.Context, jobID string) (domain.ImportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return domain.ImportJob{}, r.err
	}
	job, ok := r.jobs[jobID]
	if !ok {
		return domain.ImportJob{}, domain.ErrImportJobNotFound
	}
	return job.Clone(), nil
}

func (r *fakeJobRepo) ClaimNext(ctx context.Context) (*domain.ClaimedImportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return nil, nil
	}
	claimed := r.queue[0]
	r.queue = r.queue[1:]
	return &claimed, nil
}

func (r *fakeJobRepo) Wake() <-chan struct{} {
	return r.wake
}

func (r *fakeJobRepo) UpdateProgress(ctx context.Context, jobID string, progress int) error {
	return r.mutate(jobID, func(job *domain.ImportJob) {
		r.progress[jobID] = append(r.progress[jobID], progress)
		job.Progress = progress
	})
}

func (r *fakeJobRepo) BumpStats(ctx context.Context, jobID string, delta domain.ImportStats) error {
	return r.mutate(jobID, func(job *domain.ImportJob) {
		job.Stats = job.Stats.Add(delta)
	})
}

func (r *fakeJobRepo) AppendError(ctx context.Context, jobID string, failure domain.ImportFailure) error {
	return r.mutate(jobID, func(job *domain.ImportJob) {
		job.Errors = append(job.Errors, failure)
	})
}

func (r *fakeJobRepo) Complete(ctx context.Context, jobID string) error {
	return r.mutate(jobID, func(job *domain.ImportJob) {
		job.Status = domain.ImportStatusCompleted
		job.Progress = 100
	})
}

func (r *fakeJobRepo) Fail(ctx context.Context, jobID string, reason string) error {
	return r.mutate(jobID, func(job *domain.ImportJob) {
		job.Errors = append(job.Errors, domain.ImportFailure{Reason: reason})
		job.Status = domain.ImportStatusFailed
	})
}

func (r *fakeJobRepo) mutate(jobID string, fn func(job *domain.ImportJob)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return domain.ErrImportJobNotFound
	}
	if job.Status.Terminal() {
		return domain.ErrImportJobFinished
	}
	fn(job)
	return nil
}

type fakeCategoryRepo struct {
	mu            sync.Mutex
	categories    []domain.Category
	owners        map[int64]int64
	nextID        int64
	listErr       error
	categoryCalls int
	optionCalls   int
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{owners: make(map[int64]int64)}
}

func (r *fakeCategoryRepo) ListCategories(ctx context.Context, ownerID int64) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]domain.Category, 0, len(r.categories))
	for _, category := range r.categories {
		if r.owners[category.ID] != ownerID {
			continue
		}
		category.Options = append([]domain.CategoryOption(nil), category.Options...)
		out = append(out, category)
	}
	return out, nil
}

func (r *fakeCategoryRepo) FindOrCreateCategory(ctx context.Context, ownerID int64, name string) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categoryCalls++
	for _, category := range r.categories {
		if r.owners[category.ID] == ownerID && strings.EqualFold(category.Name, name) {
			return category.ID, false, nil
		}
	}
	r.nextID++
	r.categories = append(r.categories, domain.Category{ID: r.nextID, Name: name})
	r.owners[r.nextID] = ownerID
	return r.nextID, true, nil
}

func (r *fakeCategoryRepo) FindOrCreateOption(ctx context.Context, categoryID int64, name, icon string) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.optionCalls++
	for i := range r.categories {
		category := &r.categories[i]
		if category.ID != categoryID {
			continue
		}
		for _, option := range category.Options {
			if strings.EqualFold(option.Name, name) {
				return option.ID, false, nil
			}
		}
		r.nextID++
		category.Options = append(category.Options, domain.CategoryOption{ID: r.nextID, Name: name, Icon: icon})
		return r.nextID, true, nil
	}
	return 0, false, errors.New("category not found")
}

func (r *fakeCategoryRepo) calls() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.categoryCalls, r.optionCalls
}

type storedEntry struct {
	ownerID   int64
	entry     domain.Entry
	optionIDs []int64
}

type fakeEntryStore struct {
	mu        sync.Mutex
	entries   []storedEntry
	failOn    string
	findErr   error
	nextEntry int64
}

func (s *fakeEntryStore) AddEntry(ctx context.Context, ownerID int64, entry domain.Entry, optionIDs []int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn != "" && entry.Content == s.failOn {
		return 0, errors.New("insert failed")
	}
	s.nextEntry++
	s.entries = append(s.entries, storedEntry{ownerID: ownerID, entry: entry, optionIDs: optionIDs})
	return s.nextEntry, nil
}

func (s *fakeEntryStore) FindContents(ctx context.Context, ownerID int64, createdAt time.Time, mood int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	var out []string
	for _, stored := range s.entries {
		if stored.ownerID == ownerID && stored.entry.CreatedAt.Equal(createdAt) && stored.entry.Mood == mood {
			out = append(out, stored.entry.Content)
		}
	}
	return out, nil
}

func (s *fakeEntryStore) stored() []storedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]storedEntry(nil), s.entries...)
}

type fakeRecord struct {
	entry domain.Entry
	err   error
	panics bool
}

func (r fakeRecord) Normalize() (domain.Entry, error) {
	if r.panics {
		panic("corrupt record")
	}
	return r.entry, r.err
}

type fakeDecoder struct {
	backup domain.Backup
	err    error
}

func (d fakeDecoder) Decode(payload []byte, filename string) (domain.Backup, error) {
	return d.backup, d.err
}
