package menus

import "time"

type Menu struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"index;not null"`

	Name       string `gorm:"not null"`
	Slug       string `gorm:"uniqueIndex:idx_menus_slug;not null"`
	Published  bool   `gorm:"not null;default:false"`
	DesignHTML string `gorm:"column:design_html;type:text"`

	Snapshots  SnapshotList `gorm:"type:jsonb"`
	Categories []Category   `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Category struct {
	ID     uint `gorm:"primaryKey"`
	MenuID uint `gorm:"index;not null"`

	Name        string  `gorm:"not null"`
	Description *string `gorm:""`
	SortOrder   int     `gorm:"not null;default:0"`

	Dishes []Dish `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Dish struct {
	ID         uint `gorm:"primaryKey"`
	CategoryID uint `gorm:"index;not null"`

	Name        string  `gorm:"not null"`
	Description *string `gorm:""`
	PriceCents  int64   `gorm:"not null;default:0"`
	SortOrder   int     `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
