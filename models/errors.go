package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals malformed input (bad password, bad geometry, bad role).
	ErrValidation = errors.New("validation error")
	// ErrWeakPassword signals a password that fails the strength rule.
	ErrWeakPassword = fmt.Errorf("%w: password must be at least 6 characters and contain an uppercase letter", ErrValidation)
	// ErrPasswordTooLong signals a password longer than bcrypt accepts.
	ErrPasswordTooLong = fmt.Errorf("%w: password must be at most 72 bytes", ErrValidation)
	// ErrInvalidRole signals a role outside admin, editor and viewer.
	ErrInvalidRole = fmt.Errorf("%w: role must be admin, editor or viewer", ErrValidation)
	// ErrDuplicateUsername signals a username conflict at registration.
	ErrDuplicateUsername = errors.New("username taken")
	// ErrInvalidCredentials signals an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated signals a missing or unverifiable session token.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden signals a role or ownership violation.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound signals an unknown feature id.
	ErrNotFound = errors.New("not found")
	// ErrTimeout signals that the request deadline elapsed.
	ErrTimeout = errors.New("request timed out")
)
