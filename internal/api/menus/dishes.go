package menus

import (
	"errors"
	"net/http"

	"github.com/abenfraj/menufique-sub001/internal/api/httpx"
	menusdomain "github.com/abenfraj/menufique-sub001/internal/domain/menus"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ownedCategory asserts the category belongs to a menu the user owns.
func (h *Handler) ownedCategory(c *gin.Context, userID uint) (*menusdomain.Category, bool) {
	m, ok := ownedMenu(h.DB, c, c.Param("id"), userID)
	if !ok {
		return nil, false
	}

	var cat menusdomain.Category
	err := h.DB.First(&cat, "id = ? AND menu_id = ?", c.Param("catId"), m.ID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Error(c, http.StatusNotFound, "Category not found")
		} else {
			httpx.Error(c, http.StatusInternalServerError, "Failed to load category")
		}
		return nil, false
	}
	return &cat, true
}

// POST /api/menus/:id/categories/:catId/dishes
func (h *Handler) CreateDish(c *gin.Context) {
	var req CreateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, http.StatusBadRequest, httpx.BindMsg(err))
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	cat, ok := h.ownedCategory(c, userID)
	if !ok {
		return
	}

	var dish menusdomain.Dish
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		// Same locking discipline as category creation: the sort order is
		// only unique if concurrent inserts queue behind the parent row.
		var locked menusdomain.Category
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&locked, cat.ID).Error; err != nil {
			return err
		}

		var maxOrder *int
		if err := tx.Model(&menusdomain.Dish{}).
			Where("category_id = ?", cat.ID).
			Select("MAX(sort_order)").
			Scan(&maxOrder).Error; err != nil {
			return err
		}
		next := 0
		if maxOrder != nil {
			next = *maxOrder + 1
		}

		dish = menusdomain.Dish{
			CategoryID:  cat.ID,
			Name:        req.Name,
			Description: req.Description,
			PriceCents:  req.PriceCents,
			SortOrder:   next,
		}
		return tx.Create(&dish).Error
	})
	if err != nil {
		httpx.Error(c, http.StatusInternalServerError, "Failed to create dish")
		return
	}

	httpx.Data(c, http.StatusCreated, toDishDTO(dish))
}

// PUT /api/menus/:id/categories/:catId/dishes/:dishId
func (h *Handler) UpdateDish(c *gin.Context) {
	var req UpdateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, http.StatusBadRequest, httpx.BindMsg(err))
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	cat, ok := h.ownedCategory(c, userID)
	if !ok {
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.PriceCents != nil {
		updates["price_cents"] = *req.PriceCents
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if len(updates) == 0 {
		httpx.Data(c, http.StatusOK, gin.H{"status": "ok"})
		return
	}

	res := h.DB.Model(&menusdomain.Dish{}).
		Where("id = ? AND category_id = ?", c.Param("dishId"), cat.ID).
		Updates(updates)
	if res.Error != nil {
		httpx.Error(c, http.StatusInternalServerError, "Failed to update dish")
		return
	}
	if res.RowsAffected == 0 {
		httpx.Error(c, http.StatusNotFound, "Dish not found")
		return
	}

	httpx.Data(c, http.StatusOK, gin.H{"status": "ok"})
}

// DELETE /api/menus/:id/categories/:catId/dishes/:dishId
func (h *Handler) DeleteDish(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	cat, ok := h.ownedCategory(c, userID)
	if !ok {
		return
	}

	res := h.DB.Delete(&menusdomain.Dish{}, "id = ? AND category_id = ?", c.Param("dishId"), cat.ID)
	if res.Error != nil {
		httpx.Error(c, http.StatusInternalServerError, "Failed to delete dish")
		return
	}
	if res.RowsAffected == 0 {
		httpx.Error(c, http.StatusNotFound, "Dish not found")
		return
	}

	httpx.Data(c, http.StatusOK, gin.H{"status": "deleted"})
}
