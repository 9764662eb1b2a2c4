package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOTPCodeIsValid(t *testing.T) {
	window := 900 * time.Second
	created := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		isUsed bool
		now    time.Time
		want   bool
	}{
		{"fresh unused code", false, created.Add(time.Second), true},
		{"one second before the window closes", false, created.Add(window - time.Second), true},
		{"exactly at the window boundary", false, created.Add(window), false},
		{"past the window", false, created.Add(window + time.Minute), false},
		{"used code inside the window", true, created.Add(time.Second), false},
		{"used and expired", true, created.Add(window + time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := &OTPCode{
				ID:        uuid.New(),
				UserID:    uuid.New(),
				Code:      "123456",
				Purpose:   PurposeRegister,
				IsUsed:    tt.isUsed,
				CreatedAt: created,
			}
			assert.Equal(t, tt.want, code.IsValid(tt.now, window))
		})
	}
}

func TestOTPCodeRemainingCooldown(t *testing.T) {
	window := 900 * time.Second
	created := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	code := &OTPCode{CreatedAt: created}

	assert.Equal(t, 890*time.Second, code.RemainingCooldown(created.Add(10*time.Second), window))
	assert.Equal(t, time.Duration(0), code.RemainingCooldown(created.Add(window), window))
	assert.Equal(t, time.Duration(0), code.RemainingCooldown(created.Add(window+time.Hour), window))
}
