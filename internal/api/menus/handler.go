package menus

import (
	"errors"
	"net/http"
	"time"

	"github.com/abenfraj/menufique-sub001/internal/api/httpx"
	menusdomain "github.com/abenfraj/menufique-sub001/internal/domain/menus"
	"github.com/abenfraj/menufique-sub001/internal/domain/plans"
	"github.com/abenfraj/menufique-sub001/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errSnapshotLimit = errors.New("snapshot limit reached")

type Handler struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

func NewHandler(db *gorm.DB, log zerolog.Logger) *Handler {
	return &Handler{DB: db, Log: log}
}

// GET /api/menus
func (h *Handler) ListMenus(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var list []menusdomain.Menu
	err := preloadMenu(userMenusQuery(h.DB, userID)).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		httpx.Error(c, http.StatusInternalServerError, "Failed to load menus")
		return
	}

	out := make([]MenuDTO, 0, len(list))
	for _, m := range list {
		out = append(out, toMenuDTO(m))
	}
	httpx.Data(c, http.StatusOK, out)
}

// GET /api/menus/:id
func (h *Handler) GetMenu(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	m, ok := ownedMenu(h.DB, c, c.Param("id"), userID)
	if !ok {
		return
	}

	var full menusdomain.Menu
	if err := preloadMenu(h.DB).First(&full, "id = ?", m.ID).Error; err != nil {
		httpx.Error(c, http.StatusInternalServerError, "Failed to load menu")
		return
	}
	httpx.Data(c, http.StatusOK, toMenuDTO(full))
}

// POST /api/menus
func (h *Handler) CreateMenu(c *gin.Context) {
	var req CreateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, http.StatusBadRequest, httpx.BindMsg(err))
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var user users.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		httpx.Error(c, http.StatusUnauthorized, "User not found")
		return
	}

	var count int64
	if err := userMenusQuery(h.DB, userID).Count(&count).Error; err != nil {
		httpx.Error(c, http.StatusInternalServerError, "Failed to create menu")
		return
	}
	if !plans.ForPlan(user.Plan).MenusAllowed(int(count)) {
		httpx.Error(c, http.StatusForbidden, "Menu limit reached for your plan. Upgrade to PRO for unlimited menus.")
		return
	}

	m := menusdomain.Menu{
		UserID:    userID,
		Name:      req.Name,
		Snapshots: menusdomain.SnapshotList{},
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		_, err := menusdomain.EnsureSlug(tx, &m)
		return err
	})
	if err != nil {
		httpx.Error(c, http.StatusInternalServerError, "Failed to create menu")
		return
	}

	httpx.Data(c, http.StatusCreated, toMenuDTO(m))
}

// PUT /api/menus/:id
func (h *Handler) UpdateMenu(c *gin.Context) {
	var req UpdateMenuRequest
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
	if req.DesignHTML != nil {
		updates["design_html"] = *req.DesignHTML
	}
	// The slug never changes here: public pages and printed QR codes link by
	// slug, so renaming a menu must not break them.
	if len(updates) > 0 {
		if err := h.DB.Model(m).Updates(updates).Error; err != nil {
			httpx.Error(c, http.StatusInternalServerError, "Failed to update menu")
			return
		}
	}

	httpx.Data(c, http.StatusOK, toMenuDTO(*m))
}

// DELETE /api/menus/:id
func (h *Handler) DeleteMenu(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	m, ok := ownedMenu(h.DB, c, c.Param("id"), userID)
	if !ok {
		return
	}

	if err := h.DB.Select("Categories").Delete(m).Error; err != nil {
		httpx.Error(c, http.StatusInternalServerError, "Failed to delete menu")
		return
	}
	httpx.Data(c, http.StatusOK, gin.H{"status": "deleted"})
}

// PUT /api/menus/:id/publish
//
// Unconditional overwrite of the flag: setting the same value twice is a
// no-op, both calls succeed.
func (h *Handler) PublishMenu(c *gin.Context) {
	var req PublishRequest
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

	if err := h.DB.Model(m).Update("published", *req.Published).Error; err != nil {
		httpx.Error(c, http.StatusInternalServerError, "Failed to update menu")
		return
	}
	m.Published = *req.Published

	httpx.Data(c, http.StatusOK, toMenuDTO(*m))
}

// POST /api/menus/:id/snapshots
//
// Appends a snapshot of the current live design. The list is append-only:
// restore copies a snapshot forward, it never deletes one.
func (h *Handler) SaveSnapshot(c *gin.Context) {
	var req SaveSnapshotRequest
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

	var user users.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		httpx.Error(c, http.StatusUnauthorized, "User not found")
		return
	}

	// The whole read-append-write runs under a row lock: two concurrent saves
	// would otherwise read the same list and the last writer would drop a
	// snapshot. The limit check uses the locked row for the same reason.
	var snap menusdomain.Snapshot
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var locked menusdomain.Menu
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&locked, m.ID).Error; err != nil {
			return err
		}
		if !plans.ForPlan(user.Plan).SnapshotsAllowed(len(locked.Snapshots)) {
			return errSnapshotLimit
		}

		snap = menusdomain.Snapshot{
			ID:         uuid.NewString(),
			Label:      req.Label,
			DesignHTML: locked.DesignHTML,
			CreatedAt:  time.Now().UTC(),
		}
		return tx.Model(&locked).Update("snapshots", append(locked.Snapshots, snap)).Error
	})
	if err != nil {
		if errors.Is(err, errSnapshotLimit) {
			httpx.Error(c, http.StatusForbidden, "Snapshot limit reached for your plan. Upgrade to PRO for unlimited snapshots.")
			return
		}
		httpx.Error(c, http.StatusInternalServerError, "Failed to save snapshot")
		return
	}

	httpx.Data(c, http.StatusCreated, SnapshotDTO{ID: snap.ID, Label: snap.Label, CreatedAt: snap.CreatedAt})
}

// POST /api/menus/:id/snapshots/:snapId/restore
//
// Ownership is enforced by scoping the lookup to (menu id, user id): a menu
// that exists but belongs to someone else reads as absent, so this route only
// ever answers 404 for bad ids. Restore copies the stored markup onto the
// live design; the snapshot list itself is untouched.
func (h *Handler) RestoreSnapshot(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var m menusdomain.Menu
	err := h.DB.First(&m, "id = ? AND user_id = ?", c.Param("id"), userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Error(c, http.StatusNotFound, "Menu not found")
		} else {
			httpx.Error(c, http.StatusInternalServerError, "Failed to load menu")
		}
		return
	}

	snap, found := m.Snapshots.ByID(c.Param("snapId"))
	if !found {
		httpx.Error(c, http.StatusNotFound, "Snapshot not found")
		return
	}

	if err := h.DB.Model(&m).Update("design_html", snap.DesignHTML).Error; err != nil {
		httpx.Error(c, http.StatusInternalServerError, "Failed to restore snapshot")
		return
	}

	httpx.Data(c, http.StatusOK, gin.H{"design_html": snap.DesignHTML})
}
