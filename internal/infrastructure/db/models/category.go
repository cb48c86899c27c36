package models

import "time"

// Category groups options; a nil UserID marks a category shared by everyone.
type Category struct {
	ID        int64            `gorm:"primaryKey"`
	UserID    *int64           `gorm:"index"`
	Name      string           `gorm:"type:text;not null"`
	Options   []CategoryOption `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (Category) TableName() string {
	return "categories"
}

type CategoryOption struct {
	ID         int64   `gorm:"primaryKey"`
	CategoryID int64   `gorm:"index;not null"`
	Name       string  `gorm:"type:text;not null"`
	Icon       *string `gorm:"type:text"`
	CreatedAt  time.Time
}

func (CategoryOption) TableName() string {
	return "category_options"
}
