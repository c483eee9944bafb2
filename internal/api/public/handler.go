package public

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/abenfraj/menufique-sub001/config"
	"github.com/abenfraj/menufique-sub001/internal/api/httpx"
	menusdomain "github.com/abenfraj/menufique-sub001/internal/domain/menus"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler serves the unauthenticated surface: published menus by slug and
// the sitemap. Unpublished menus are invisible here regardless of owner.
type Handler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewHandler(db *gorm.DB, cfg *config.Config) *Handler {
	return &Handler{DB: db, Cfg: cfg}
}

type publicDishDTO struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	PriceCents  int64   `json:"price_cents"`
}

type publicCategoryDTO struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Dishes      []publicDishDTO `json:"dishes"`
}

type publicMenuDTO struct {
	Name       string              `json:"name"`
	Slug       string              `json:"slug"`
	DesignHTML string              `json:"design_html"`
	Categories []publicCategoryDTO `json:"categories"`
}

// GET /p/:slug
func (h *Handler) GetPublishedMenu(c *gin.Context) {
	var m menusdomain.Menu
	err := h.DB.
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Categories.Dishes", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&m, "slug = ? AND published = ?", c.Param("slug"), true).Error
	if err != nil {
		httpx.Error(c, http.StatusNotFound, "Menu not found")
		return
	}

	out := publicMenuDTO{
		Name:       m.Name,
		Slug:       m.Slug,
		DesignHTML: m.DesignHTML,
		Categories: make([]publicCategoryDTO, 0, len(m.Categories)),
	}
	for _, cat := range m.Categories {
		pc := publicCategoryDTO{
			Name:        cat.Name,
			Description: cat.Description,
			Dishes:      make([]publicDishDTO, 0, len(cat.Dishes)),
		}
		for _, d := range cat.Dishes {
			pc.Dishes = append(pc.Dishes, publicDishDTO{
				Name:        d.Name,
				Description: d.Description,
				PriceCents:  d.PriceCents,
			})
		}
		out.Categories = append(out.Categories, pc)
	}

	httpx.Data(c, http.StatusOK, out)
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// GET /sitemap.xml
func (h *Handler) Sitemap(c *gin.Context) {
	var list []menusdomain.Menu
	if err := h.DB.
		Select("slug", "updated_at").
		Where("published = ?", true).
		Order("updated_at DESC").
		Find(&list).Error; err != nil {
		httpx.Error(c, http.StatusInternalServerError, "Failed to build sitemap")
		return
	}

	set := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, 0, len(list)),
	}
	for _, m := range list {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     h.Cfg.PublicBaseURL + "/p/" + m.Slug,
			LastMod: m.UpdatedAt.Format(time.RFC3339),
		})
	}

	c.XML(http.StatusOK, set)
}
