// Package auth hashes passwords, issues and verifies session tokens and
// carries the authenticated principal through request contexts.
package auth

import (
	"errors"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"geoMaster/models"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// MaxPasswordBytes is the bcrypt input limit. It counts UTF-8 bytes, not
// characters.
const MaxPasswordBytes = 72

// CheckPasswordStrength requires MinPasswordLength characters, at most
// MaxPasswordBytes bytes and at least one uppercase letter.
func CheckPasswordStrength(password string) error {
	if len(password) > MaxPasswordBytes {
		return models.ErrPasswordTooLong
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return models.ErrWeakPassword
	}
	for _, r := range password {
		if unicode.IsUpper(r) {
			return nil
		}
	}
	return models.ErrWeakPassword
}

// HashPassword returns a salted bcrypt hash.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword reports whether password matches hash. Errors other than a
// mismatch are returned.
func VerifyPassword(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
