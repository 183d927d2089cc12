// utils/otp.go
package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
)

// GenerateOTP generates a uniformly random 6-digit numeric code in the
// range 100000-999999 inclusive.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	code := n.Int64() + 100000

	const digits = "0123456789"
	result := make([]byte, 6)
	for i := 5; i >= 0; i-- {
		result[i] = digits[code%10]
		code /= 10
	}
	return string(result), nil
}

// ValidateOTPAttempts limits OTP requests to 5 per hour per email. A nil
// Redis client disables throttling.
func ValidateOTPAttempts(email string, redisClient *redis.Client) error {
	if redisClient == nil {
		return nil
	}

	key := "otp_attempts:" + email
	attempts, err := redisClient.Incr(context.Background(), key).Result()
	if err != nil {
		return err
	}

	// Set expiry if first attempt
	if attempts == 1 {
		redisClient.Expire(context.Background(), key, 1*time.Hour)
	}

	if attempts > 5 {
		return errors.New("too many OTP requests")
	}

	return nil
}
