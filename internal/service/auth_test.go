package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoMaster/internal/auth"
	"geoMaster/models"
)

func TestRegister_PasswordRule(t *testing.T) {
	f := newFixture(t, "svc_register_rule")
	ctx := context.Background()

	_, err := f.auth.Register(ctx, RegisterInput{Username: "weak", Password: "abc123"})
	require.ErrorIs(t, err, models.ErrWeakPassword)
	require.ErrorIs(t, err, models.ErrValidation)

	u, err := f.auth.Register(ctx, RegisterInput{Username: "strong", Password: "Abc123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, u.Role)
	assert.Equal(t, models.DefaultColor, u.Color)

	stored, err := f.users.GetByUsername(ctx, "strong")
	require.NoError(t, err)
	assert.NotEqual(t, "Abc123", stored.PasswordHash)
	ok, err := auth.VerifyPassword(stored.PasswordHash, "Abc123")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, 2, f.rec.count(models.ActionRegister))
	assert.Equal(t, true, f.rec.last().details["success"])
}

func TestRegister_PasswordOverBcryptLimit(t *testing.T) {
	f := newFixture(t, "svc_register_long")
	ctx := context.Background()

	_, err := f.auth.Register(ctx, RegisterInput{Username: "long", Password: "A" + strings.Repeat("x", 80)})
	require.ErrorIs(t, err, models.ErrPasswordTooLong)
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, false, f.rec.last().details["success"])
	assert.Equal(t, "password too long", f.rec.last().details["reason"])

	stored, err := f.users.GetByUsername(ctx, "long")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	f := newFixture(t, "svc_register_dup")
	ctx := context.Background()

	_, err := f.auth.Register(ctx, RegisterInput{Username: "alice", Password: "Secret1", Role: "editor", Color: "#ff00ff"})
	require.NoError(t, err)
	_, err = f.auth.Register(ctx, RegisterInput{Username: "alice", Password: "Secret2"})
	require.ErrorIs(t, err, models.ErrDuplicateUsername)
}

func TestRegister_InvalidRole(t *testing.T) {
	f := newFixture(t, "svc_register_role")
	_, err := f.auth.Register(context.Background(), RegisterInput{Username: "x", Password: "Secret1", Role: "owner"})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestLogin(t *testing.T) {
	f := newFixture(t, "svc_login")
	ctx := context.Background()
	_, err := f.auth.Register(ctx, RegisterInput{Username: "alice", Password: "Secret1", Role: "editor", Color: "#abcdef"})
	require.NoError(t, err)

	s, err := f.auth.Login(ctx, "alice", "Secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", s.User.Username)
	assert.Equal(t, models.RoleEditor, s.User.Role)
	assert.Equal(t, "#abcdef", s.User.Color)
	assert.Equal(t, 1, f.rec.count(models.ActionLogin))

	p, err := auth.ParseBearer("Bearer "+s.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, p.UserID)
	assert.Equal(t, models.RoleEditor, p.Role)
}

func TestLogin_WrongPasswordAlwaysFailsAndIsLogged(t *testing.T) {
	f := newFixture(t, "svc_login_fail")
	ctx := context.Background()
	_, err := f.auth.Register(ctx, RegisterInput{Username: "alice", Password: "Secret1"})
	require.NoError(t, err)

	for i, pw := range []string{"secret1", "Secret", "", "Secret1 "} {
		_, err := f.auth.Login(ctx, "alice", pw)
		require.ErrorIs(t, err, models.ErrInvalidCredentials)
		assert.Equal(t, i+1, f.rec.count(models.ActionLoginFailed))
	}

	_, err = f.auth.Login(ctx, "ghost", "Secret1")
	require.ErrorIs(t, err, models.ErrInvalidCredentials)
	assert.Equal(t, 5, f.rec.count(models.ActionLoginFailed))
	assert.Equal(t, 0, f.rec.count(models.ActionLogin))
}
