package auth

import (
	"context"
	"fmt"

	"geoMaster/models"
)

// RequirePrincipal ensures a principal is present in context.
func RequirePrincipal(ctx context.Context) (*Principal, error) {
	p, ok := FromContext(ctx)
	if !ok || p == nil {
		return nil, models.ErrUnauthenticated
	}
	return p, nil
}

// RequireWriter ensures p may create, update or delete features.
func RequireWriter(p *Principal) error {
	if p == nil {
		return models.ErrUnauthenticated
	}
	if !p.Role.CanWrite() {
		return fmt.Errorf("%w: role %s is read-only", models.ErrForbidden, p.Role)
	}
	return nil
}

// UserLookup resolves a user id to its stored record. A missing user is
// nil, nil.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// RequireAdmin ensures the caller is an admin principal AND that the underlying
// user still exists with role admin, so a stale or forged role claim is not enough.
func RequireAdmin(ctx context.Context, users UserLookup) (*Principal, error) {
	p, err := RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if p.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: admin only", models.ErrForbidden)
	}
	if users == nil {
		return nil, fmt.Errorf("users repository not configured")
	}
	u, err := users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil || u.Username != p.Name || u.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: admin only", models.ErrForbidden)
	}
	return p, nil
}
