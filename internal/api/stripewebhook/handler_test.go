package stripewebhooks

import (
	"fmt"
	"testing"

	"github.com/abenfraj/menufique-sub001/config"
	"github.com/abenfraj/menufique-sub001/database"
	"github.com/abenfraj/menufique-sub001/internal/domain/billing"
	"github.com/abenfraj/menufique-sub001/internal/domain/users"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	return NewHandler(db, &config.Config{StripeWebhookSecret: "whsec_test"}, zerolog.Nop())
}

func TestParseUserID(t *testing.T) {
	tests := []struct {
		name      string
		metadata  map[string]string
		clientRef string
		want      uint
		ok        bool
	}{
		{"from metadata", map[string]string{"user_id": "42"}, "", 42, true},
		{"from client reference", map[string]string{}, "7", 7, true},
		{"metadata wins", map[string]string{"user_id": "42"}, "7", 42, true},
		{"garbage", map[string]string{"user_id": "abc"}, "", 0, false},
		{"zero", map[string]string{"user_id": "0"}, "", 0, false},
		{"missing", map[string]string{}, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseUserID(tt.metadata, tt.clientRef)
			if got != tt.want || ok != tt.ok {
				t.Errorf("parseUserID(%v, %q) = (%d, %v), want (%d, %v)",
					tt.metadata, tt.clientRef, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCheckoutCompletedUpgradesPlan(t *testing.T) {
	h := newTestHandler(t)

	user := users.User{Name: "Payer", Email: "payer@example.com", Plan: users.PlanFree}
	if err := h.DB.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	session := &stripe.CheckoutSession{
		ID:           "cs_test_1",
		Metadata:     map[string]string{"user_id": fmt.Sprint(user.ID)},
		AmountTotal:  999,
		Currency:     stripe.CurrencyEUR,
		Customer:     &stripe.Customer{ID: "cus_123"},
		Subscription: &stripe.Subscription{ID: "sub_123"},
	}

	if err := h.handleCheckoutSessionCompleted(session); err != nil {
		t.Fatalf("handleCheckoutSessionCompleted() error: %v", err)
	}

	var stored users.User
	if err := h.DB.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.Plan != users.PlanPro {
		t.Errorf("plan = %q, want PRO", stored.Plan)
	}
	if stored.StripeCustomerID == nil || *stored.StripeCustomerID != "cus_123" {
		t.Errorf("stripe customer id not stored")
	}

	var payment billing.Payment
	if err := h.DB.First(&payment, "stripe_session_id = ?", "cs_test_1").Error; err != nil {
		t.Fatalf("payment row missing: %v", err)
	}
	if payment.AmountCents != 999 {
		t.Errorf("amount = %d, want 999", payment.AmountCents)
	}
}

func TestSubscriptionDeletedDowngradesPlan(t *testing.T) {
	h := newTestHandler(t)

	subID := "sub_123"
	user := users.User{Name: "Payer", Email: "payer@example.com", Plan: users.PlanPro, SubscriptionID: &subID}
	if err := h.DB.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	sub := &stripe.Subscription{ID: "sub_123"}
	if err := h.handleSubscriptionDeleted(sub); err != nil {
		t.Fatalf("handleSubscriptionDeleted() error: %v", err)
	}

	var stored users.User
	if err := h.DB.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.Plan != users.PlanFree {
		t.Errorf("plan = %q, want FREE", stored.Plan)
	}
	if stored.SubscriptionID != nil {
		t.Errorf("subscription id should be cleared")
	}
}
