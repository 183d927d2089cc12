package utils

import (
	"testing"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("password must not be stored in clear")
	}

	if err := CheckPassword("secret123", hash); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := CheckPassword("wrong", hash); err == nil {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	h2, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if h1 == h2 {
		t.Error("hashes of the same password must differ (salted)")
	}
}
