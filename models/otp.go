package models

import (
	"time"
)

// EmailOTP is a short-lived signup challenge. At most one active challenge
// exists per email; older ones are purged when a new code is requested.
type EmailOTP struct {
	Email     string    `bson:"email"`
	OTP       string    `bson:"otp"`
	CreatedAt time.Time `bson:"createdAt"`
	ExpiresAt time.Time `bson:"expiresAt"`
}
