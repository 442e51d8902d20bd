package testutil

import (
	"database/sql"
	"testing"

	"github.com/dgraph-io/badger/v4"
	jwt "github.com/golang-jwt/jwt/v5"

	"geoMaster/internal/db"
)

// OpenInMemoryDB opens an in-memory SQLite database and applies migrations.
// The DB is closed via t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	// Shared cache keeps every pooled connection on the same in-memory DB.
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// OpenInMemoryActivityStore opens an in-memory Badger store for the activity log.
func OpenInMemoryActivityStore(t *testing.T) *badger.DB {
	t.Helper()
	bdb, err := db.OpenActivityStore("")
	if err != nil {
		t.Fatalf("open activity store: %v", err)
	}
	t.Cleanup(func() { _ = bdb.Close() })
	return bdb
}

// GenerateJWTHS256 returns a signed JWT string carrying the session claims used by the app.
func GenerateJWTHS256(t *testing.T, secret string, userID int64, username, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"uid":  userID,
		"name": username,
		"role": role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}
