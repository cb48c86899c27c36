package models

import "time"

type MoodEntry struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"not null;index:idx_mood_entries_lookup,priority:1"`
	Date      string    `gorm:"type:text;not null"`
	Mood      int       `gorm:"not null;check:mood >= 1 AND mood <= 5"`
	Content   string    `gorm:"type:text;not null"`
	WordCount int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"index:idx_mood_entries_lookup,priority:2"`
	UpdatedAt time.Time

	Selections []EntrySelection `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`
}

func (MoodEntry) TableName() string {
	return "mood_entries"
}

type EntrySelection struct {
	ID        int64 `gorm:"primaryKey"`
	EntryID   int64 `gorm:"index;not null"`
	OptionID  int64 `gorm:"index;not null"`
	CreatedAt time.Time
}

func (EntrySelection) TableName() string {
	return "entry_selections"
}
