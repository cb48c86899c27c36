package repository

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	domain "github.com/mohammadpnp/moodjournal-import/internal/domain/journal"
	"github.com/mohammadpnp/moodjournal-import/internal/infrastructure/db/models"
	"gorm.io/gorm"
)

var (
	markdownSyntax = regexp.MustCompile("[#*_\\[\\]()!|>~`\\-]+")
	urlPattern     = regexp.MustCompile(`https?://\S+`)
)

type MoodEntryRepository struct {
	db *gorm.DB
}

func NewMoodEntryRepository(db *gorm.DB) *MoodEntryRepository {
	return &MoodEntryRepository{db: db}
}

// AddEntry stores the entry and its option selections in one transaction.
func (r *MoodEntryRepository) AddEntry(ctx context.Context, ownerID int64, entry domain.Entry, optionIDs []int64) (int64, error) {
	row := models.MoodEntry{
		UserID:    ownerID,
		Date:      entry.Date,
		Mood:      entry.Mood,
		Content:   entry.Content,
		WordCount: WordCount(entry.Content),
		CreatedAt: entry.CreatedAt,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Selections").Create(&row).Error; err != nil {
			return err
		}
		if len(optionIDs) == 0 {
			return nil
		}
		selections := make([]models.EntrySelection, 0, len(optionIDs))
		for _, optionID := range optionIDs {
			selections = append(selections, models.EntrySelection{EntryID: row.ID, OptionID: optionID})
		}
		return tx.Create(&selections).Error
	})
	if err != nil {
		return 0, fmt.Errorf("add mood entry: %w", err)
	}
	return row.ID, nil
}

// WordCount counts words after stripping markdown syntax and links.
func WordCount(content string) int {
	text := markdownSyntax.ReplaceAllString(content, " ")
	text = urlPattern.ReplaceAllString(text, "")
	return len(strings.Fields(text))
}
