package stripewebhooks

import (
	"github.com/abenfraj/menufique-sub001/internal/domain/users"

	"github.com/stripe/stripe-go/v75"
)

// handleSubscriptionDeleted drops the user back to the FREE plan. Existing
// menus are untouched; the plan limits only gate new creations.
func (h *Handler) handleSubscriptionDeleted(sub *stripe.Subscription) error {
	userID, ok := parseUserID(sub.Metadata, "")
	if ok {
		return h.DB.Model(&users.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{"plan": users.PlanFree, "subscription_id": nil}).Error
	}

	// Fall back to the subscription id recorded at checkout.
	if sub.ID != "" {
		return h.DB.Model(&users.User{}).
			Where("subscription_id = ?", sub.ID).
			Updates(map[string]interface{}{"plan": users.PlanFree, "subscription_id": nil}).Error
	}

	h.Log.Warn().Msg("subscription deleted event without user_id or subscription id")
	return nil
}
