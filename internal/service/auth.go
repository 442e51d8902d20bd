// Package service implements user registration and login and the feature
// operations, enforcing roles and recording every state change.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"geoMaster/internal/activity"
	"geoMaster/internal/auth"
	"geoMaster/models"
	"geoMaster/repository"
)

// AuthService registers users and opens sessions.
type AuthService struct {
	users    repository.UserRepositoryI
	activity activity.Recorder
	secret   string
	tokenTTL time.Duration
}

func NewAuthService(users repository.UserRepositoryI, rec activity.Recorder, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, activity: rec, secret: secret, tokenTTL: tokenTTL}
}

type RegisterInput struct {
	Username string
	Password string
	Role     string
	Color    string
}

// Session is returned by a successful login.
type Session struct {
	Token string
	User  models.User
}

// Register validates the password and role, stores a bcrypt hash and records
// REGISTER. Failed attempts are recorded too.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", models.ErrValidation)
	}
	if err := auth.CheckPasswordStrength(in.Password); err != nil {
		reason := "weak password"
		if errors.Is(err, models.ErrPasswordTooLong) {
			reason = "password too long"
		}
		s.activity.Record(models.ActionRegister, username, map[string]any{"success": false, "reason": reason})
		return nil, err
	}
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = models.DefaultColor
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, &models.User{Username: username, PasswordHash: hash, Role: role, Color: color})
	if err != nil {
		if errors.Is(err, models.ErrDuplicateUsername) {
			s.activity.Record(models.ActionRegister, username, map[string]any{"success": false, "reason": "username taken"})
		}
		return nil, err
	}
	s.activity.Record(models.ActionRegister, username, map[string]any{"success": true, "role": string(role)})
	return u, nil
}

// Login verifies the password against the stored hash. Unknown users and
// wrong passwords both yield ErrInvalidCredentials and record LOGIN_FAILED.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		// Spend the same bcrypt work as a real check.
		_, _ = auth.VerifyPassword(dummyHash(), password)
		s.activity.Record(models.ActionLoginFailed, username, map[string]any{"reason": "unknown user"})
		return nil, models.ErrInvalidCredentials
	}
	ok, err := auth.VerifyPassword(u.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.activity.Record(models.ActionLoginFailed, username, map[string]any{"reason": "wrong password"})
		return nil, models.ErrInvalidCredentials
	}

	token, err := auth.IssueToken(s.secret, u, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.activity.Record(models.ActionLogin, u.Username, map[string]any{"success": true})
	return &Session{Token: token, User: *u}, nil
}

var (
	dummyOnce sync.Once
	dummy     string
)

func dummyHash() string {
	dummyOnce.Do(func() {
		dummy, _ = auth.HashPassword("not-a-real-password")
	})
	return dummy
}
