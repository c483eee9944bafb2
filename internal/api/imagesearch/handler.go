package imagesearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abenfraj/menufique-sub001/internal/api/httpx"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const searchTimeout = 10 * time.Second

// Client queries a Pexels-compatible image search API for dish photos.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: searchTimeout},
	}
}

type Image struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Photographer string `json:"photographer"`
}

type pexelsResponse struct {
	Photos []struct {
		Photographer string `json:"photographer"`
		Src          struct {
			Large  string `json:"large"`
			Medium string `json:"medium"`
		} `json:"src"`
	} `json:"photos"`
}

func (c *Client) Search(ctx context.Context, query string, limit int) ([]Image, error) {
	if c.apiKey == "" {
		return nil, errors.New("image search is not configured")
	}

	endpoint := fmt.Sprintf("%s/search?query=%s&per_page=%d", c.baseURL, url.QueryEscape(query), limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image search returned status %d", resp.StatusCode)
	}

	var out pexelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	images := make([]Image, 0, len(out.Photos))
	for _, p := range out.Photos {
		images = append(images, Image{
			URL:          p.Src.Large,
			ThumbnailURL: p.Src.Medium,
			Photographer: p.Photographer,
		})
	}
	return images, nil
}

type Handler struct {
	Client *Client
	Log    zerolog.Logger
}

func NewHandler(client *Client, log zerolog.Logger) *Handler {
	return &Handler{Client: client, Log: log}
}

// GET /api/images/search?q=...
func (h *Handler) Search(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		httpx.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		httpx.Error(c, http.StatusBadRequest, "q is required")
		return
	}

	images, err := h.Client.Search(c.Request.Context(), query, 15)
	if err != nil {
		h.Log.Error().Err(err).Str("query", query).Msg("image search failed")
		httpx.Error(c, http.StatusInternalServerError, "Image search failed, please try again later")
		return
	}

	httpx.Data(c, http.StatusOK, images)
}
