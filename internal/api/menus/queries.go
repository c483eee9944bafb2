package menus

import (
	"errors"
	"net/http"

	"github.com/abenfraj/menufique-sub001/internal/api/httpx"
	menusdomain "github.com/abenfraj/menufique-sub001/internal/domain/menus"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func mustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		httpx.Error(c, http.StatusUnauthorized, "Unauthorized")
		return 0, false
	}
	return userID, true
}

// ownedMenu is the per-operation ownership assertion: fetch the menu fresh,
// 404 when absent, 403 when it belongs to someone else. Never cached.
func ownedMenu(db *gorm.DB, c *gin.Context, menuID interface{}, userID uint) (*menusdomain.Menu, bool) {
	var m menusdomain.Menu
	if err := db.First(&m, "id = ?", menuID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Error(c, http.StatusNotFound, "Menu not found")
		} else {
			httpx.Error(c, http.StatusInternalServerError, "Failed to load menu")
		}
		return nil, false
	}
	if m.UserID != userID {
		httpx.Error(c, http.StatusForbidden, "You do not own this menu")
		return nil, false
	}
	return &m, true
}

func userMenusQuery(db *gorm.DB, userID uint) *gorm.DB {
	return db.Model(&menusdomain.Menu{}).Where("user_id = ?", userID)
}

func preloadMenu(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Categories.Dishes", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		})
}
