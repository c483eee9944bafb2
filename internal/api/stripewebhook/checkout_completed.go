package stripewebhooks

import (
	"errors"
	"fmt"

	"github.com/abenfraj/menufique-sub001/internal/domain/billing"
	"github.com/abenfraj/menufique-sub001/internal/domain/users"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// handleCheckoutSessionCompleted upgrades the paying user to PRO and records
// the payment. The user id comes from the metadata bound at checkout time.
func (h *Handler) handleCheckoutSessionCompleted(session *stripe.CheckoutSession) error {
	userID, ok := parseUserID(session.Metadata, session.ClientReferenceID)
	if !ok {
		h.Log.Warn().Str("session", session.ID).Msg("checkout completed without usable user_id metadata")
		// Non-retryable: acknowledging avoids a webhook retry loop.
		return nil
	}

	return h.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"plan": users.PlanPro}
		if session.Customer != nil && session.Customer.ID != "" {
			updates["stripe_customer_id"] = session.Customer.ID
		}
		if session.Subscription != nil && session.Subscription.ID != "" {
			updates["subscription_id"] = session.Subscription.ID
		}

		res := tx.Model(&users.User{}).Where("id = ?", userID).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user %d not found for completed checkout", userID)
		}

		payment := billing.Payment{
			UserID:          userID,
			StripeSessionID: session.ID,
			AmountCents:     session.AmountTotal,
			Currency:        string(session.Currency),
			Plan:            users.PlanPro,
		}
		// Duplicate deliveries hit the unique session id index; treat as done.
		// Any other insert failure propagates so Stripe retries.
		if err := tx.Create(&payment).Error; err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
			h.Log.Info().Str("session", session.ID).Msg("payment already recorded")
		}
		return nil
	})
}
