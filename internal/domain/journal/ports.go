package journal

import (
	"context"
	"time"
)

type ImportJobRepository interface {
	Enqueue(ctx context.Context, job NewImportJob) (string, error)
	Get(ctx context.Context, jobID string) (ImportJob, error)
}

type CategoryRepository interface {
	ListCategories(ctx context.Context, ownerID int64) ([]Category, error)
	FindOrCreateCategory(ctx context.Context, ownerID int64, name string) (id int64, created bool, err error)
	FindOrCreateOption(ctx context.Context, categoryID int64, name, icon string) (id int64, created bool, err error)
}

type MoodEntryRepository interface {
	AddEntry(ctx context.Context, ownerID int64, entry Entry, optionIDs []int64) (int64, error)
}

// EntryContentFinder returns the content of every stored entry of the owner
// with exactly this timestamp and mood.
type EntryContentFinder interface {
	FindContents(ctx context.Context, ownerID int64, createdAt time.Time, mood int) ([]string, error)
}
