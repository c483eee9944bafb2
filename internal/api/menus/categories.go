package menus

import (
	"net/http"

	"github.com/abenfraj/menufique-sub001/internal/api/httpx"
	menusdomain "github.com/abenfraj/menufique-sub001/internal/domain/menus"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// POST /api/menus/:id/categories
//
// The next sort order (max + 1, 0 on an empty menu) is computed while holding
// a row lock on the menu, so two concurrent creations cannot both read the
// same maximum.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, http.StatusBadRequest, httpx.BindMsg(err))
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	m, ok := ownedMenu(h.DB, c, c.Param("id"), userID)
	if !ok {
		return
	}

	var cat menusdomain.Category
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		// Under READ COMMITTED the transaction alone does not stop two
		// creations from scanning the same MAX; the lock does. SQLite has no
		// row locks and serializes writes anyway.
		var locked menusdomain.Menu
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&locked, m.ID).Error; err != nil {
			return err
		}

		var maxOrder *int
		if err := tx.Model(&menusdomain.Category{}).
			Where("menu_id = ?", m.ID).
			Select("MAX(sort_order)").
			Scan(&maxOrder).Error; err != nil {
			return err
		}

		next := 0
		if maxOrder != nil {
			next = *maxOrder + 1
		}

		cat = menusdomain.Category{
			MenuID:      m.ID,
			Name:        req.Name,
			Description: req.Description,
			SortOrder:   next,
		}
		return tx.Create(&cat).Error
	})
	if err != nil {
		httpx.Error(c, http.StatusInternalServerError, "Failed to create category")
		return
	}

	cat.Dishes = []menusdomain.Dish{}
	httpx.Data(c, http.StatusCreated, toCategoryDTO(cat))
}

// PUT /api/menus/:id/categories/reorder
//
// Assigns each category the zero-based index of its position in the
// submitted sequence. All-or-nothing: an id that does not exist under this
// menu aborts the transaction and no order changes.
func (h *Handler) ReorderCategories(c *gin.Context) {
	var req ReorderCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.CategoryIDs) == 0 {
		httpx.Error(c, http.StatusBadRequest, "category_ids required")
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	m, ok := ownedMenu(h.DB, c, c.Param("id"), userID)
	if !ok {
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		for i, catID := range req.CategoryIDs {
			res := tx.Model(&menusdomain.Category{}).
				Where("id = ? AND menu_id = ?", catID, m.ID).
				Update("sort_order", i)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			httpx.Error(c, http.StatusBadRequest, "One or more categories do not belong to this menu")
			return
		}
		httpx.Error(c, http.StatusInternalServerError, "Failed to reorder categories")
		return
	}

	httpx.Data(c, http.StatusOK, gin.H{"status": "ok"})
}

// PUT /api/menus/:id/categories/:catId
func (h *Handler) UpdateCategory(c *gin.Context) {
	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, http.StatusBadRequest, httpx.BindMsg(err))
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	m, ok := ownedMenu(h.DB, c, c.Param("id"), userID)
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
	if len(updates) == 0 {
		httpx.Data(c, http.StatusOK, gin.H{"status": "ok"})
		return
	}

	res := h.DB.Model(&menusdomain.Category{}).
		Where("id = ? AND menu_id = ?", c.Param("catId"), m.ID).
		Updates(updates)
	if res.Error != nil {
		httpx.Error(c, http.StatusInternalServerError, "Failed to update category")
		return
	}
	if res.RowsAffected == 0 {
		httpx.Error(c, http.StatusNotFound, "Category not found")
		return
	}

	httpx.Data(c, http.StatusOK, gin.H{"status": "ok"})
}

// DELETE /api/menus/:id/categories/:catId
func (h *Handler) DeleteCategory(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	m, ok := ownedMenu(h.DB, c, c.Param("id"), userID)
	if !ok {
		return
	}

	res := h.DB.Delete(&menusdomain.Category{}, "id = ? AND menu_id = ?", c.Param("catId"), m.ID)
	if res.Error != nil {
		httpx.Error(c, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	if res.RowsAffected == 0 {
		httpx.Error(c, http.StatusNotFound, "Category not found")
		return
	}

	httpx.Data(c, http.StatusOK, gin.H{"status": "deleted"})
}
