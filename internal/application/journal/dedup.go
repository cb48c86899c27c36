package journal

import (
	"context"
	"crypto/sha256"
	"fmt"

	domain "github.com/mohammadpnp/moodjournal-import/internal/domain/journal"
)

type entryKey struct {
	createdAt int64
	mood      int
	digest    [sha256.Size]byte
}

func keyOf(entry domain.Entry) entryKey {
	return entryKey{
		createdAt: entry.CreatedAt.UnixNano(),
		mood:      entry.Mood,
		digest:    sha256.Sum256([]byte(entry.Content)),
	}
}

// AcceptedEntries holds the entries one run has already imported. A dry run
// stores nothing, so repeats inside the backup are caught here instead of by
// the stored-row lookup.
type AcceptedEntries map[entryKey]struct{}

func NewAcceptedEntries() AcceptedEntries {
	return make(AcceptedEntries)
}

func (a AcceptedEntries) Add(entry domain.Entry) {
	a[keyOf(entry)] = struct{}{}
}

func (a AcceptedEntries) Contains(entry domain.Entry) bool {
	_, ok := a[keyOf(entry)]
	return ok
}

// DuplicateChecker reports exact re-imports: same owner, timestamp and mood,
// and content with the same SHA-256 digest.
type DuplicateChecker struct {
	finder domain.EntryContentFinder
}

func NewDuplicateChecker(finder domain.EntryContentFinder) *DuplicateChecker {
	return &DuplicateChecker{finder: finder}
}

// IsDuplicate checks the run's accepted entries first, then the stored ones.
// accepted may be nil.
func (c *DuplicateChecker) IsDuplicate(ctx context.Context, ownerID int64, entry domain.Entry, accepted AcceptedEntries) (bool, error) {
	if accepted.Contains(entry) {
		return true, nil
	}

	contents, err := c.finder.FindContents(ctx, ownerID, entry.CreatedAt, entry.Mood)
	if err != nil {
		return false, fmt.Errorf("find stored contents: %w", err)
	}

	want := sha256.Sum256([]byte(entry.Content))
	for _, content := range contents {
		if sha256.Sum256([]byte(content)) == want {
			return true, nil
		}
	}
	return false, nil
}
