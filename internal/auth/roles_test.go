package auth

import (
	"context"
	"errors"
	"testing"

	"geoMaster/internal/testutil"
	"geoMaster/models"
	"geoMaster/repository"
)

func TestRequireWriter(t *testing.T) {
	for _, tc := range []struct {
		role models.Role
		ok   bool
	}{
		{models.RoleAdmin, true},
		{models.RoleEditor, true},
		{models.RoleViewer, false},
	} {
		err := RequireWriter(&Principal{Name: "u", Role: tc.role})
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected %v", tc.role, err)
		}
		if !tc.ok && !errors.Is(err, models.ErrForbidden) {
			t.Fatalf("%s: expected ErrForbidden, got %v", tc.role, err)
		}
	}
	if err := RequireWriter(nil); !errors.Is(err, models.ErrUnauthenticated) {
		t.Fatalf("anonymous: expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequireAdmin_WithDBRoleCheck(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "authadmin")
	users := repository.NewUserRepository(d)
	ctx := context.Background()
	alice, err := users.Create(ctx, &models.User{Username: "alice", PasswordHash: "x", Role: models.RoleEditor, Color: "#fff"})
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	root, err := users.Create(ctx, &models.User{Username: "root", PasswordHash: "x", Role: models.RoleAdmin, Color: "#fff"})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}

	// Forged admin claim for a stored editor
	pctx := WithPrincipal(ctx, &Principal{UserID: alice.ID, Name: "alice", Role: models.RoleAdmin})
	if _, err := RequireAdmin(pctx, users); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin role, got %v", err)
	}

	// Admin's id paired with another name
	mctx := WithPrincipal(ctx, &Principal{UserID: root.ID, Name: "alice", Role: models.RoleAdmin})
	if _, err := RequireAdmin(mctx, users); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for mismatched name, got %v", err)
	}

	// Unknown id
	uctx := WithPrincipal(ctx, &Principal{UserID: 999, Name: "root", Role: models.RoleAdmin})
	if _, err := RequireAdmin(uctx, users); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for unknown id, got %v", err)
	}

	actx := WithPrincipal(ctx, &Principal{UserID: root.ID, Name: "root", Role: models.RoleAdmin})
	if _, err := RequireAdmin(actx, users); err != nil {
		t.Fatalf("RequireAdmin for real admin: %v", err)
	}
}
