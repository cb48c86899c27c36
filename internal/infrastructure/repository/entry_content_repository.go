package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mohammadpnp/moodjournal-import/internal/infrastructure/db/models"
	"gorm.io/gorm"
)

const findEntryContentsSQL = `
SELECT content
  FROM mood_entries
 WHERE user_id = $1 AND created_at = $2 AND mood = $3`

// EntryContentRepository is the duplicate lookup for Postgres. It runs on the
// pgx pool so the hot per-entry query skips the ORM.
type EntryContentRepository struct {
	pool *pgxpool.Pool
}

func NewEntryContentRepository(pool *pgxpool.Pool) *EntryContentRepository {
	return &EntryContentRepository{pool: pool}
}

func (r *EntryContentRepository) FindContents(ctx context.Context, ownerID int64, createdAt time.Time, mood int) ([]string, error) {
	rows, err := r.pool.Query(ctx, findEntryContentsSQL, ownerID, createdAt, mood)
	if err != nil {
		return nil, fmt.Errorf("query entry contents: %w", err)
	}
	contents, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan entry contents: %w", err)
	}
	return contents, nil
}

// GormEntryContentRepository serves the same lookup for drivers without a pgx
// pool, such as SQLite.
type GormEntryContentRepository struct {
	db *gorm.DB
}

func NewGormEntryContentRepository(db *gorm.DB) *GormEntryContentRepository {
	return &GormEntryContentRepository{db: db}
}

func (r *GormEntryContentRepository) FindContents(ctx context.Context, ownerID int64, createdAt time.Time, mood int) ([]string, error) {
	var contents []string
	err := r.db.WithContext(ctx).
		Model(&models.MoodEntry{}).
		Where("user_id = ? AND created_at = ? AND mood = ?", ownerID, createdAt, mood).
		Pluck("content", &contents).Error
	if err != nil {
		return nil, fmt.Errorf("query entry contents: %w", err)
	}
	return contents, nil
}
