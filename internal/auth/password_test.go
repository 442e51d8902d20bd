package auth

import (
	"errors"
	"strings"
	"testing"

	"geoMaster/models"
)

func TestCheckPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"abc123", false}, // no uppercase
		{"Abc123", true},
		{"Ab1", false}, // too short
		{"ABCDEF", true},
		{"", false},
		{"Ümlaut", true},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := CheckPasswordStrength(tt.password)
			if tt.ok && err != nil {
				t.Fatalf("expected %q accepted, got %v", tt.password, err)
			}
			if !tt.ok && !errors.Is(err, models.ErrWeakPassword) {
				t.Fatalf("expected ErrWeakPassword for %q, got %v", tt.password, err)
			}
		})
	}
	if !errors.Is(models.ErrWeakPassword, models.ErrValidation) {
		t.Fatalf("ErrWeakPassword must be a validation error")
	}
}

func TestCheckPasswordStrength_ByteLimit(t *testing.T) {
	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{"72 ascii bytes", "A" + strings.Repeat("b", 71), true},
		{"73 ascii bytes", "A" + strings.Repeat("b", 72), false},
		// 41 characters but 81 bytes
		{"multibyte over limit", "A" + strings.Repeat("é", 40), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPasswordStrength(tt.password)
			if tt.ok {
				if err != nil {
					t.Fatalf("expected accepted, got %v", err)
				}
				if _, err := HashPassword(tt.password); err != nil {
					t.Fatalf("accepted password must hash: %v", err)
				}
				return
			}
			if !errors.Is(err, models.ErrPasswordTooLong) || !errors.Is(err, models.ErrValidation) {
				t.Fatalf("expected ErrPasswordTooLong validation error, got %v", err)
			}
		})
	}
}

func TestHashAndVerify(t *testing.T) {
	h, err := HashPassword("Secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h == "Secret1" {
		t.Fatalf("hash must not be plaintext")
	}
	ok, err := VerifyPassword(h, "Secret1")
	if err != nil || !ok {
		t.Fatalf("verify correct: ok=%v err=%v", ok, err)
	}
	ok, err = VerifyPassword(h, "secret1")
	if err != nil || ok {
		t.Fatalf("verify wrong: ok=%v err=%v", ok, err)
	}
	h2, _ := HashPassword("Secret1")
	if h2 == h {
		t.Fatalf("hashes should be salted")
	}
}
