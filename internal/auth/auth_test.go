package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"moviecatalog/internal/apperr"
	"moviecatalog/internal/config"
	"moviecatalog/internal/types"
)

func testSecurity() config.SecurityConfig {
	return config.SecurityConfig{
		JWTSecret:     "0123456789abcdef0123456789abcdef",
		TokenTTL:      time.Hour,
		TokenIssuer:   "moviecatalog",
		TokenAudience: "moviecatalog-api",
		BcryptCost:    bcrypt.MinCost,
	}
}

func newTokens(t *testing.T, cfg config.SecurityConfig) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(cfg)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	return tm
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secret123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "secret123" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "secret123") {
		t.Error("CheckPassword() rejected the right password")
	}
	if CheckPassword(hash, "secret124") {
		t.Error("CheckPassword() accepted a wrong password")
	}
	if CheckPassword("not-a-hash", "secret123") {
		t.Error("CheckPassword() accepted a malformed hash")
	}
	if CheckPasswordOrDummy("", "secret123") {
		t.Error("CheckPasswordOrDummy() accepted an empty hash")
	}
	if !CheckPasswordOrDummy(hash, "secret123") {
		t.Error("CheckPasswordOrDummy() rejected the right password")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := newTokens(t, testSecurity())

	token, err := tm.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	sub, err := tm.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if sub != "user-1" {
		t.Errorf("subject = %q, want user-1", sub)
	}
}

func TestTokenRejected(t *testing.T) {
	tm := newTokens(t, testSecurity())

	expired := newTokens(t, testSecurity())
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.Issue("user-1")
	if err != nil {
		t.Fatal(err)
	}

	other := testSecurity()
	other.JWTSecret = strings.Repeat("x", 32)
	foreignToken, err := newTokens(t, other).Issue("user-1")
	if err != nil {
		t.Fatal(err)
	}

	wrongAud := testSecurity()
	wrongAud.TokenAudience = "someone-else"
	wrongAudToken, err := newTokens(t, wrongAud).Issue("user-1")
	if err != nil {
		t.Fatal(err)
	}

	good, err := tm.Issue("user-1")
	if err != nil {
		t.Fatal(err)
	}
	tampered := good[:len(good)-2] + "xx"

	tests := map[string]string{
		"expired":        expiredToken,
		"wrong secret":   foreignToken,
		"wrong audience": wrongAudToken,
		"tampered":       tampered,
		"garbage":        "not.a.token",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := tm.Verify(context.Background(), token); err == nil {
				t.Error("Verify() accepted an invalid token")
			}
		})
	}
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	cfg := testSecurity()
	cfg.JWTSecret = ""
	if _, err := NewTokenManager(cfg); err == nil {
		t.Fatal("expected an error for an empty secret")
	}
}

func TestMiddleware(t *testing.T) {
	tm := newTokens(t, testSecurity())
	users := map[string]*types.User{
		"u1":    {ID: "u1", FullName: "Regular"},
		"admin": {ID: "admin", FullName: "Admin", IsAdmin: true},
	}
	loader := func(_ context.Context, id string) (*types.User, error) {
		if u, ok := users[id]; ok {
			return u, nil
		}
		return nil, apperr.NotFound("User not found")
	}
	mw := NewMiddleware(tm, loader)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, found := UserFromContext(r.Context())
		if !found {
			t.Error("user missing from context")
			return
		}
		w.Write([]byte(u.ID))
	})
	authOnly := mw.RequireAuth(ok)
	adminOnly := mw.RequireAuth(RequireAdmin(ok))

	issue := func(id string) string {
		tok, err := tm.Issue(id)
		if err != nil {
			t.Fatal(err)
		}
		return "Bearer " + tok
	}

	tests := []struct {
		name       string
		handler    http.Handler
		header     string
		wantStatus int
		wantBody   string
	}{
		{"no token", authOnly, "", http.StatusUnauthorized, "Not authorized, no token"},
		{"bad token", authOnly, "Bearer nope", http.StatusUnauthorized, "Not authorized, token failed"},
		{"malformed header", authOnly, "Token abc", http.StatusUnauthorized, "Not authorized, token failed"},
		{"deleted user", authOnly, issue("ghost"), http.StatusUnauthorized, "Not authorized, user not found"},
		{"valid", authOnly, issue("u1"), http.StatusOK, "u1"},
		{"non admin", adminOnly, issue("u1"), http.StatusUnauthorized, "Not authorized as an admin"},
		{"admin", adminOnly, issue("admin"), http.StatusOK, "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users/favorites", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus == http.StatusOK {
				if rec.Body.String() != tt.wantBody {
					t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
				}
				return
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("body is not JSON: %v", err)
			}
			if body["message"] != tt.wantBody {
				t.Errorf("message = %q, want %q", body["message"], tt.wantBody)
			}
		})
	}
}
