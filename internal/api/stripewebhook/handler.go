package stripewebhooks

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/abenfraj/menufique-sub001/config"
	"github.com/abenfraj/menufique-sub001/internal/api/httpx"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
	"gorm.io/gorm"
)

type Handler struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log zerolog.Logger
}

func NewHandler(db *gorm.DB, cfg *config.Config, log zerolog.Logger) *Handler {
	return &Handler{DB: db, Cfg: cfg, Log: log}
}

// POST /api/stripe/webhook
func (h *Handler) StripeWebhook(c *gin.Context) {
	if h.Cfg.StripeWebhookSecret == "" {
		httpx.Error(c, http.StatusInternalServerError, "STRIPE_WEBHOOK_SECRET not configured")
		return
	}

	payload, err := readStripeBody(c, 65536)
	if err != nil {
		httpx.Error(c, http.StatusServiceUnavailable, "Error reading request body")
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.Cfg.StripeWebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		h.Log.Warn().Err(err).Msg("stripe signature verification failed")
		httpx.Error(c, http.StatusBadRequest, "Signature verification failed")
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			httpx.Error(c, http.StatusBadRequest, "Failed to parse session")
			return
		}
		if err := h.handleCheckoutSessionCompleted(&session); err != nil {
			httpx.Error(c, http.StatusInternalServerError, err.Error())
			return
		}
		httpx.Data(c, http.StatusOK, gin.H{"status": "received"})

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			httpx.Error(c, http.StatusBadRequest, "Failed to parse subscription")
			return
		}
		if err := h.handleSubscriptionDeleted(&sub); err != nil {
			httpx.Error(c, http.StatusInternalServerError, err.Error())
			return
		}
		httpx.Data(c, http.StatusOK, gin.H{"status": "received"})

	default:
		// Acknowledge unknown events to avoid retries
		httpx.Data(c, http.StatusOK, gin.H{"status": "ignored"})
	}
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}

func parseUserID(metadata map[string]string, clientRef string) (uint, bool) {
	raw := metadata["user_id"]
	if raw == "" {
		raw = clientRef
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
