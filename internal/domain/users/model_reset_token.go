package users

import "time"

// PasswordResetToken is keyed by email rather than user id: issuance must not
// reveal whether an account exists, and the token survives user row updates.
// At most one live token per email (issuance deletes older rows first).
type PasswordResetToken struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"index;not null"`
	Token     string `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time
	CreatedAt time.Time
}
