package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/mohammadpnp/moodjournal-import/internal/domain/journal"
	"github.com/mohammadpnp/moodjournal-import/internal/infrastructure/db/models"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListCategories returns the owner's categories followed by the shared ones,
// each with its options.
func (r *CategoryRepository) ListCategories(ctx context.Context, ownerID int64) ([]domain.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("name, id")
		}).
		Where("user_id = ? OR user_id IS NULL", ownerID).
		Order("user_id IS NULL, name, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	categories := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		options := make([]domain.CategoryOption, 0, len(row.Options))
		for _, option := range row.Options {
			options = append(options, domain.CategoryOption{
				ID:   option.ID,
				Name: option.Name,
				Icon: derefString(option.Icon),
			})
		}
		categories = append(categories, domain.Category{
			ID:      row.ID,
			Name:    row.Name,
			Options: options,
		})
	}
	return categories, nil
}

// FindOrCreateCategory matches names case-insensitively among the owner's and
// the shared categories before creating one for the owner.
func (r *CategoryRepository) FindOrCreateCategory(ctx context.Context, ownerID int64, name string) (int64, bool, error) {
	name = strings.TrimSpace(name)
	var id int64
	var created bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Category
		err := tx.Where("(user_id = ? OR user_id IS NULL) AND LOWER(name) = LOWER(?)", ownerID, name).
			Order("user_id IS NULL, id").
			First(&existing).Error
		if err == nil {
			id = existing.ID
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		category := models.Category{UserID: &ownerID, Name: name}
		if err := tx.Create(&category).Error; err != nil {
			return err
		}
		id = category.ID
		created = true
		return nil
	})
	if err != nil {
		return 0, false, fmt.Errorf("find or create category: %w", err)
	}
	return id, created, nil
}

func (r *CategoryRepository) FindOrCreateOption(ctx context.Context, categoryID int64, name, icon string) (int64, bool, error) {
	name = strings.TrimSpace(name)
	var id int64
	var created bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.CategoryOption
		err := tx.Where("category_id = ? AND LOWER(name) = LOWER(?)", categoryID, name).
			Order("id").
			First(&existing).Error
		if err == nil {
			id = existing.ID
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		option := models.CategoryOption{CategoryID: categoryID, Name: name, Icon: nullableString(icon)}
		if err := tx.Create(&option).Error; err != nil {
			return err
		}
		id = option.ID
		created = true
		return nil
	})
	if err != nil {
		return 0, false, fmt.Errorf("find or create option: %w", err)
	}
	return id, created, nil
}

func nullableString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
