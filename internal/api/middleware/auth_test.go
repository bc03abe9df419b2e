package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/grocery-storefront/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokens() *auth.Tokens {
	return auth.NewTokens("test-secret-key-for-middleware", 15*time.Minute, time.Hour)
}

func claimsEcho(t *testing.T) (http.Handler, *string) {
	t.Helper()
	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := UserFromContext(r.Context()); ok {
			seen = claims.UserID
		}
		w.WriteHeader(http.StatusOK)
	})
	return handler, &seen
}

func TestExtractToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ExtractToken(r))

	r.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", ExtractToken(r))

	// Cookie wins over the header.
	r.AddCookie(&http.Cookie{Name: "access_token", Value: "from-cookie"})
	assert.Equal(t, "from-cookie", ExtractToken(r))
}

func TestRequireAuth(t *testing.T) {
	tokens := newTokens()
	handler, seen := claimsEcho(t)
	wrapped := RequireAuth(tokens)(handler)

	// No token.
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Bad token.
	rec = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer garbage")
	wrapped.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token.
	signed, _, err := tokens.IssueAccess("u1", "a@b.c", "customer")
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+signed)
	wrapped.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", *seen)
}

func TestOptionalAuth(t *testing.T) {
	tokens := newTokens()
	handler, seen := claimsEcho(t)
	wrapped := OptionalAuth(tokens)(handler)

	// Anonymous passes through.
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, *seen)

	// Authenticated gets claims attached.
	signed, _, err := tokens.IssueAccess("u2", "a@b.c", "customer")
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+signed)
	wrapped.ServeHTTP(rec, r)
	assert.Equal(t, "u2", *seen)
}
