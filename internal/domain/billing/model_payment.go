package billing

import "time"

// Payment is a local record of a completed Stripe checkout, written by the
// webhook handler so payment history survives Stripe data retention.
type Payment struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"index;not null"`

	StripeSessionID string `gorm:"uniqueIndex:idx_payments_stripe_session_id"`
	AmountCents     int64
	Currency        string
	Plan            string

	CreatedAt time.Time
}
