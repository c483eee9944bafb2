package billing

import (
	"fmt"
	"net/http"

	"github.com/abenfraj/menufique-sub001/config"
	"github.com/abenfraj/menufique-sub001/internal/api/httpx"
	"github.com/abenfraj/menufique-sub001/internal/domain/billing"
	"github.com/abenfraj/menufique-sub001/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v75"
	portalsession "github.com/stripe/stripe-go/v75/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"github.com/stripe/stripe-go/v75/customer"
	"gorm.io/gorm"
)

type Handler struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log zerolog.Logger
}

func NewHandler(db *gorm.DB, cfg *config.Config, log zerolog.Logger) *Handler {
	stripe.Key = cfg.StripeSecretKey
	return &Handler{DB: db, Cfg: cfg, Log: log}
}

// POST /api/stripe/checkout
//
// The user id rides along in the session and subscription metadata so the
// webhook can reconcile the completed checkout back to an account.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var body struct {
		PriceID string `json:"price_id"`
	}
	// body is optional; default to the PRO price
	_ = c.ShouldBindJSON(&body)
	if body.PriceID == "" {
		body.PriceID = h.Cfg.StripePriceIDPro
	}
	if body.PriceID == "" {
		httpx.Error(c, http.StatusBadRequest, "Missing or invalid price_id")
		return
	}
	if body.PriceID != h.Cfg.StripePriceIDPro {
		// allow-list: only the configured PRO price can be checked out
		httpx.Error(c, http.StatusBadRequest, "Unknown price_id")
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		httpx.Error(c, http.StatusUnauthorized, "User not identified")
		return
	}

	var user users.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		httpx.Error(c, http.StatusUnauthorized, "User not found")
		return
	}

	// ensure stripe customer
	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		cus, err := customer.New(&stripe.CustomerParams{
			Email: stripe.String(user.Email),
			Metadata: map[string]string{
				"user_id": fmt.Sprint(user.ID),
			},
		})
		if err != nil {
			h.Log.Error().Err(err).Uint("user_id", user.ID).Msg("stripe customer creation failed")
			httpx.Error(c, http.StatusInternalServerError, "Failed to create checkout session")
			return
		}

		if err := h.DB.Model(&users.User{}).
			Where("id = ?", user.ID).
			Update("stripe_customer_id", cus.ID).Error; err != nil {
			httpx.Error(c, http.StatusInternalServerError, "Failed to create checkout session")
			return
		}
		user.StripeCustomerID = stripe.String(cus.ID)
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(h.Cfg.AppURL + "/account"),
		CancelURL:  stripe.String(h.Cfg.AppURL + "/account?canceled=1"),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:   stripe.String(*user.StripeCustomerID),

		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(body.PriceID), Quantity: stripe.Int64(1)},
		},

		ClientReferenceID: stripe.String(fmt.Sprint(user.ID)),

		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"user_id": fmt.Sprint(user.ID),
			},
		},
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		h.Log.Error().Err(err).Uint("user_id", user.ID).Msg("stripe checkout session failed")
		httpx.Error(c, http.StatusInternalServerError, "Failed to create checkout session")
		return
	}

	httpx.Data(c, http.StatusOK, gin.H{"url": s.URL})
}

// POST /api/stripe/portal
func (h *Handler) CreateBillingPortal(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		httpx.Error(c, http.StatusUnauthorized, "User not identified")
		return
	}

	var user users.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		httpx.Error(c, http.StatusUnauthorized, "User not found")
		return
	}
	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		httpx.Error(c, http.StatusBadRequest, "No active subscription found")
		return
	}

	portal, err := portalsession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(*user.StripeCustomerID),
		ReturnURL: stripe.String(h.Cfg.AppURL + "/account"),
	})
	if err != nil {
		h.Log.Error().Err(err).Uint("user_id", user.ID).Msg("stripe portal session failed")
		httpx.Error(c, http.StatusInternalServerError, "Could not create billing portal session")
		return
	}

	httpx.Data(c, http.StatusOK, gin.H{"url": portal.URL})
}

// GET /api/payments
func (h *Handler) GetPaymentHistory(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		httpx.Error(c, http.StatusUnauthorized, "User not identified")
		return
	}

	var payments []billing.Payment
	if err := h.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		httpx.Error(c, http.StatusInternalServerError, "Failed to load payments")
		return
	}

	httpx.Data(c, http.StatusOK, payments)
}
