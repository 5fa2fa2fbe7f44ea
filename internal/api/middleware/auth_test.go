package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/csquare-club/server/internal/auth"
)

type stubVerifier struct {
	claims *auth.Claims
	err    error
}

func (s *stubVerifier) Verify(token string) (*auth.Claims, error) {
	return s.claims, s.err
}

func adminClaims() *auth.Claims {
	return &auth.Claims{Role: auth.RoleAdmin}
}

func callRequireAdmin(t *testing.T, verifier Verifier, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	reached := false
	handler := RequireAdmin(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		_, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/admin/contact", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, reached
}

func TestRequireAdmin_NoToken(t *testing.T) {
	rec, reached := callRequireAdmin(t, &stubVerifier{}, "")

	require.False(t, reached)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, false, body["success"])
	require.Equal(t, "Access denied. No token provided.", body["error"])
}

func TestRequireAdmin_ExpiredToken(t *testing.T) {
	verifier := &stubVerifier{err: auth.ErrTokenExpired}

	rec, reached := callRequireAdmin(t, verifier, "Bearer expired")

	require.False(t, reached)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Token expired. Please login again.", body["error"])
}

func TestRequireAdmin_MalformedToken(t *testing.T) {
	verifier := &stubVerifier{err: auth.ErrTokenMalformed}

	rec, reached := callRequireAdmin(t, verifier, "Bearer junk")

	require.False(t, reached)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Invalid token.", body["error"])
}

func TestRequireAdmin_VerifierFault(t *testing.T) {
	verifier := &stubVerifier{err: errors.New("keystore unreachable")}

	rec, reached := callRequireAdmin(t, verifier, "Bearer anything")

	require.False(t, reached)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireAdmin_WrongRole(t *testing.T) {
	verifier := &stubVerifier{claims: &auth.Claims{Role: "viewer"}}

	rec, reached := callRequireAdmin(t, verifier, "Bearer viewer-token")

	require.False(t, reached)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdmin_ValidAdmin(t *testing.T) {
	verifier := &stubVerifier{claims: adminClaims()}

	rec, reached := callRequireAdmin(t, verifier, "Bearer good")

	require.True(t, reached)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuth_AnonymousPassthrough(t *testing.T) {
	handler := OptionalAuth(&stubVerifier{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := ClaimsFromContext(r.Context())
		require.False(t, ok)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/events", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuth_InvalidTokenStillAnonymous(t *testing.T) {
	verifier := &stubVerifier{err: auth.ErrTokenMalformed}
	handler := OptionalAuth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := ClaimsFromContext(r.Context())
		require.False(t, ok)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/events", nil)
	req.Header.Set("Authorization", "Bearer junk")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuth_ValidTokenAttachesClaims(t *testing.T) {
	verifier := &stubVerifier{claims: adminClaims()}
	handler := OptionalAuth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, auth.RoleAdmin, claims.Role)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/events", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
