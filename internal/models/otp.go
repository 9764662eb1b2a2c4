package models

import (
	"time"

	"github.com/google/uuid"
)

// OTP purposes. Purpose scopes code uniqueness and lookup: a user holds
// at most one live code per purpose.
const (
	PurposeRegister = "register"
	PurposeLogin    = "login"
	PurposeReset    = "reset"
)

type OTPCode struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Code      string    `json:"code" db:"code"`
	Purpose   string    `json:"purpose" db:"purpose"`
	IsUsed    bool      `json:"is_used" db:"is_used"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsValid reports whether the code can still be consumed at the given
// instant. A code aged exactly the validity window is already expired.
func (o *OTPCode) IsValid(now time.Time, window time.Duration) bool {
	return !o.IsUsed && now.Sub(o.CreatedAt) < window
}

// RemainingCooldown returns how long a caller must wait before a new
// code may be requested for the same purpose. Zero means the code has
// expired and a resend is allowed.
func (o *OTPCode) RemainingCooldown(now time.Time, window time.Duration) time.Duration {
	remaining := window - now.Sub(o.CreatedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}
