package menus

import (
	"time"

	menusdomain "github.com/abenfraj/menufique-sub001/internal/domain/menus"
)

type CreateMenuRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateMenuRequest struct {
	Name       *string `json:"name"`
	DesignHTML *string `json:"design_html"`
}

type PublishRequest struct {
	Published *bool `json:"published" binding:"required"`
}

type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type ReorderCategoriesRequest struct {
	CategoryIDs []uint `json:"category_ids" binding:"required"`
}

type CreateDishRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	PriceCents  int64   `json:"price_cents"`
}

type UpdateDishRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"price_cents"`
	SortOrder   *int    `json:"sort_order"`
}

type SaveSnapshotRequest struct {
	Label string `json:"label" binding:"required"`
}

type DishDTO struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	PriceCents  int64   `json:"price_cents"`
	SortOrder   int     `json:"sort_order"`
}

type CategoryDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	SortOrder   int       `json:"sort_order"`
	Dishes      []DishDTO `json:"dishes"`
}

type SnapshotDTO struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

type MenuDTO struct {
	ID         uint          `json:"id"`
	Name       string        `json:"name"`
	Slug       string        `json:"slug"`
	Published  bool          `json:"published"`
	DesignHTML string        `json:"design_html"`
	Categories []CategoryDTO `json:"categories"`
	Snapshots  []SnapshotDTO `json:"snapshots"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func toDishDTO(d menusdomain.Dish) DishDTO {
	return DishDTO{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		PriceCents:  d.PriceCents,
		SortOrder:   d.SortOrder,
	}
}

func toCategoryDTO(cat menusdomain.Category) CategoryDTO {
	dishes := make([]DishDTO, 0, len(cat.Dishes))
	for _, d := range cat.Dishes {
		dishes = append(dishes, toDishDTO(d))
	}
	return CategoryDTO{
		ID:          cat.ID,
		Name:        cat.Name,
		Description: cat.Description,
		SortOrder:   cat.SortOrder,
		Dishes:      dishes,
	}
}

func toMenuDTO(m menusdomain.Menu) MenuDTO {
	cats := make([]CategoryDTO, 0, len(m.Categories))
	for _, cat := range m.Categories {
		cats = append(cats, toCategoryDTO(cat))
	}
	snaps := make([]SnapshotDTO, 0, len(m.Snapshots))
	for _, s := range m.Snapshots {
		snaps = append(snaps, SnapshotDTO{ID: s.ID, Label: s.Label, CreatedAt: s.CreatedAt})
	}
	return MenuDTO{
		ID:         m.ID,
		Name:       m.Name,
		Slug:       m.Slug,
		Published:  m.Published,
		DesignHTML: m.DesignHTML,
		Categories: cats,
		Snapshots:  snaps,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
