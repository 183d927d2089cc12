package utils

import (
	"strconv"
	"testing"
)

func TestGenerateOTP(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 500; i++ {
		otp, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP failed: %v", err)
		}
		if len(otp) != 6 {
			t.Fatalf("expected 6 digits, got %q", otp)
		}
		n, err := strconv.Atoi(otp)
		if err != nil {
			t.Fatalf("expected numeric code, got %q", otp)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code %d out of range [100000, 999999]", n)
		}
		seen[otp] = true
	}

	// 500 draws from a 900000-value space should essentially never collide
	// down to a handful of distinct codes
	if len(seen) < 400 {
		t.Errorf("suspiciously low variety: %d distinct codes in 500 draws", len(seen))
	}
}
