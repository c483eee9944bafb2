package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

// GET /api/health
//
// 200 when every dependency answers, 503 otherwise. The per-dependency
// status is always included so operators can see what is down.
func (h *Handler) Health(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "up"

	sqlDB, err := h.DB.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}

	c.JSON(status, gin.H{"data": gin.H{
		"status":   overall,
		"database": dbStatus,
	}})
}
