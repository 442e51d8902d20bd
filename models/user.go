package models

import "strings"

// Role is the access tier of a user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// DefaultColor is assigned to users that register without a color.
const DefaultColor = "#00f3ff"

// ParseRole normalizes a role name. An empty name yields RoleViewer.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleViewer:
		return RoleViewer, nil
	case RoleEditor:
		return RoleEditor, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrInvalidRole
	}
}

// CanWrite reports whether the role may create or update features.
func (r Role) CanWrite() bool {
	return r == RoleAdmin || r == RoleEditor
}

// User represents a registered map editor.
// It maps to the `users` table in SQLite.
type User struct {
	ID           int64  `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
	Role         Role   `db:"role" json:"role"`
	Color        string `db:"color" json:"color"`
}
