package generate

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"net/http"
	"strings"

	"github.com/abenfraj/menufique-sub001/config"
	"github.com/abenfraj/menufique-sub001/internal/api/httpx"
	menusdomain "github.com/abenfraj/menufique-sub001/internal/domain/menus"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

const (
	qrPixelSize  = 400
	quietModules = 2
)

type Handler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewHandler(db *gorm.DB, cfg *config.Config) *Handler {
	return &Handler{DB: db, Cfg: cfg}
}

type qrRequest struct {
	MenuID uint   `json:"menu_id" binding:"required"`
	Format string `json:"format"` // "png" (default) | "svg"
}

// POST /api/generate/qr
//
// Renders a QR code pointing at the menu's public page. The menu does not
// have to be published yet; restaurants print the code before going live.
func (h *Handler) GenerateQR(c *gin.Context) {
	var req qrRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, http.StatusBadRequest, httpx.BindMsg(err))
		return
	}

	format := strings.ToLower(req.Format)
	if format == "" {
		format = "png"
	}
	if format != "png" && format != "svg" {
		httpx.Error(c, http.StatusBadRequest, "format must be png or svg")
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		httpx.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var m menusdomain.Menu
	if err := h.DB.First(&m, "id = ? AND user_id = ?", req.MenuID, userID).Error; err != nil {
		httpx.Error(c, http.StatusNotFound, "Menu not found")
		return
	}

	publicURL := h.Cfg.PublicBaseURL + "/p/" + m.Slug

	var out string
	switch format {
	case "png":
		raster, err := renderPNG(publicURL)
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "Failed to generate QR code")
			return
		}
		out = "data:image/png;base64," + base64.StdEncoding.EncodeToString(raster)
	case "svg":
		svg, err := renderSVG(publicURL)
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "Failed to generate QR code")
			return
		}
		out = svg
	}

	httpx.Data(c, http.StatusOK, gin.H{"image": out, "url": publicURL})
}

// qrBitmap returns the bare module matrix, without go-qrcode's fixed
// four-module border; both renderers add the two-module quiet zone
// themselves.
func qrBitmap(content string) ([][]bool, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	q.DisableBorder = true
	return q.Bitmap(), nil
}

// renderPNG rasterizes the matrix onto a fixed 400px canvas. Whole-module
// scaling rarely divides 400 exactly, so the leftover pixels pad the quiet
// zone evenly on both sides.
func renderPNG(content string) ([]byte, error) {
	bitmap, err := qrBitmap(content)
	if err != nil {
		return nil, err
	}
	n := len(bitmap) + 2*quietModules
	scale := qrPixelSize / n
	if scale < 1 {
		scale = 1
	}
	offset := (qrPixelSize - n*scale) / 2

	img := image.NewRGBA(image.Rect(0, 0, qrPixelSize, qrPixelSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	for y, row := range bitmap {
		for x, dark := range row {
			if !dark {
				continue
			}
			x0 := offset + (x+quietModules)*scale
			y0 := offset + (y+quietModules)*scale
			draw.Draw(img, image.Rect(x0, y0, x0+scale, y0+scale),
				image.NewUniform(color.Black), image.Point{}, draw.Src)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderSVG draws the matrix as one rect per dark module. go-qrcode has no
// vector output, so the bitmap is translated here.
func renderSVG(content string) (string, error) {
	bitmap, err := qrBitmap(content)
	if err != nil {
		return "", err
	}
	n := len(bitmap) + 2*quietModules

	var b strings.Builder
	fmt.Fprintf(&b,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d" shape-rendering="crispEdges">`,
		n, n, qrPixelSize, qrPixelSize)
	b.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>`)
	for y, row := range bitmap {
		for x, dark := range row {
			if dark {
				fmt.Fprintf(&b, `<rect x="%d" y="%d" width="1" height="1" fill="#000000"/>`,
					x+quietModules, y+quietModules)
			}
		}
	}
	b.WriteString(`</svg>`)
	return b.String(), nil
}
