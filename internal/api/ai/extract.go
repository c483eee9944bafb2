package ai

import (
	"errors"
	"io"
	"net/http"

	"github.com/abenfraj/menufique-sub001/internal/api/httpx"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const maxUploadBytes = 10 << 20 // 10 MiB

var allowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type Handler struct {
	Client *Client
	Log    zerolog.Logger
}

func NewHandler(client *Client, log zerolog.Logger) *Handler {
	return &Handler{Client: client, Log: log}
}

// ValidateUpload checks the sniffed content type and declared size against
// the upload constraints.
func ValidateUpload(contentType string, size int64) error {
	if size <= 0 {
		return errors.New("empty file")
	}
	if size > maxUploadBytes {
		return errors.New("file exceeds the 10 MiB limit")
	}
	if !allowedMIMETypes[contentType] {
		return errors.New("unsupported file type: only JPEG, PNG, WEBP and GIF images are accepted")
	}
	return nil
}

// POST /api/ai/extract-menu
func (h *Handler) ExtractMenu(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		httpx.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpx.Error(c, http.StatusBadRequest, "file is required")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		httpx.Error(c, http.StatusBadRequest, "failed to read file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		httpx.Error(c, http.StatusBadRequest, "failed to read file")
		return
	}

	// Sniff the real content type rather than trusting the upload headers.
	contentType := http.DetectContentType(data)
	if err := ValidateUpload(contentType, int64(len(data))); err != nil {
		httpx.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	text, err := h.Client.ExtractMenuText(c.Request.Context(), contentType, data)
	if err != nil {
		h.Log.Error().Err(err).Uint("user_id", userID).Msg("menu extraction failed")
		httpx.Error(c, http.StatusInternalServerError, "Menu extraction failed, please try again later")
		return
	}

	httpx.Data(c, http.StatusOK, gin.H{"text": text})
}
