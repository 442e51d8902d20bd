package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"geoMaster/internal/testutil"
	"geoMaster/models"
)

const testSecret = "test-secret"

func TestIssueAndParse_RoundTrip(t *testing.T) {
	u := &models.User{ID: 7, Username: "alice", Role: models.RoleEditor}
	tok, err := IssueToken(testSecret, u, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	p, err := ParseBearer("Bearer "+tok, testSecret)
	if err != nil {
		t.Fatalf("ParseBearer: %v", err)
	}
	if p.UserID != 7 || p.Name != "alice" || p.Role != models.RoleEditor {
		t.Fatalf("principal mismatch: %+v", p)
	}
}

func TestParseBearer_Rejections(t *testing.T) {
	tok := testutil.GenerateJWTHS256(t, testSecret, 1, "bob", "viewer")

	if _, err := ParseBearer("", testSecret); err == nil {
		t.Fatalf("expected error for missing header")
	}
	if _, err := ParseBearer("Basic "+tok, testSecret); err == nil {
		t.Fatalf("expected error for non-Bearer scheme")
	}
	if _, err := parseJWT(tok, "wrong"); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
	if _, err := parseJWT(tok, ""); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestParseJWT_ClaimsValidation(t *testing.T) {
	// Missing name/role -> invalid
	tok := testutil.GenerateJWTHS256(t, testSecret, 0, "", "")
	if _, err := parseJWT(tok, testSecret); err == nil {
		t.Fatalf("expected invalid claims error")
	}
	tok = testutil.GenerateJWTHS256(t, testSecret, 1, "eve", "superuser")
	if _, err := parseJWT(tok, testSecret); err == nil {
		t.Fatalf("expected invalid role claim error")
	}
}

func TestParseJWT_Expired(t *testing.T) {
	u := &models.User{ID: 1, Username: "alice", Role: models.RoleAdmin}
	tok, err := IssueToken(testSecret, u, -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := parseJWT(tok, testSecret); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestMiddleware(t *testing.T) {
	var seen *Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	rejected := 0
	mw := Middleware(testSecret, func(w http.ResponseWriter, _ *http.Request, _ error) {
		rejected++
		w.WriteHeader(http.StatusUnauthorized)
	})(next)

	// anonymous passes through
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || seen != nil {
		t.Fatalf("anonymous: code=%d principal=%+v", rec.Code, seen)
	}

	// valid token injects principal
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+testutil.GenerateJWTHS256(t, testSecret, 3, "carol", "admin"))
	rec = httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || seen == nil || seen.Name != "carol" {
		t.Fatalf("valid: code=%d principal=%+v", rec.Code, seen)
	}

	// garbage token is rejected
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized || rejected != 1 {
		t.Fatalf("invalid: code=%d rejected=%d", rec.Code, rejected)
	}
}
