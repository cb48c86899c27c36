package journal

import (
	"strings"
	"time"
)

const (
	MinMood     = 1
	MaxMood     = 5
	NeutralMood = 3

	DefaultCategory = "Activities"
)

// ResolvedTag is a tag reference reduced to the names needed to materialize
// a category and one of its options.
type ResolvedTag struct {
	Name     string
	Category string
	Icon     string
}

// Key identifies a tag case-insensitively within one entry.
func (t ResolvedTag) Key() string {
	return strings.ToLower(t.Category) + "\x00" + strings.ToLower(t.Name)
}

func NewResolvedTag(name, category, icon string) ResolvedTag {
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}
	return ResolvedTag{
		Name:     strings.TrimSpace(name),
		Category: category,
		Icon:     strings.TrimSpace(icon),
	}
}

type Entry struct {
	Date      string
	CreatedAt time.Time
	Mood      int
	Content   string
	Tags      []ResolvedTag
}

// ClampMood forces a score into the 1..5 range.
func ClampMood(mood int) int {
	if mood < MinMood {
		return MinMood
	}
	if mood > MaxMood {
		return MaxMood
	}
	return mood
}

type CategoryOption struct {
	ID   int64
	Name string
	Icon string
}

type Category struct {
	ID      int64
	Name    string
	Options []CategoryOption
}

// BackupRecord is one raw record of a decoded backup. Normalize is deferred so
// a garbled record fails on its own instead of failing the whole backup.
type BackupRecord interface {
	Normalize() (Entry, error)
}

type Backup struct {
	Records []BackupRecord
}
