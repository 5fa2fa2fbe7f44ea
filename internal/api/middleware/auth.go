package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/csquare-club/server/internal/api/respond"
	"github.com/csquare-club/server/internal/auth"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// Verifier checks a bearer token and returns its claims.
type Verifier interface {
	Verify(token string) (*auth.Claims, error)
}

// ClaimsFromContext returns the verified claims attached by RequireAdmin
// or OptionalAuth.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// RequireAdmin rejects requests without a valid admin bearer token.
// Missing, malformed, and expired tokens are 401; a valid token with the
// wrong role is 403. Verifier faults that are none of those are 500.
func RequireAdmin(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, failed := verifyRequest(w, r, verifier)
			if failed {
				return
			}

			if claims.Role != auth.RoleAdmin {
				respond.Error(w, r, http.StatusForbidden, "Admin access required.", nil)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches claims when a valid token is present and lets the
// request through anonymously otherwise. Only unexpected verifier faults
// are logged; recognized failures are silent.
func OptionalAuth(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				if !isAuthError(err) {
					zerolog.Ctx(r.Context()).Error().Err(err).Msg("unexpected token verification fault")
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// verifyRequest extracts and verifies the bearer token, writing the error
// response on failure. Returns the claims and whether a response was
// already written.
func verifyRequest(w http.ResponseWriter, r *http.Request, verifier Verifier) (*auth.Claims, bool) {
	token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
	if err != nil {
		respond.Error(w, r, http.StatusUnauthorized, "Access denied. No token provided.", nil)
		return nil, true
	}

	claims, err := verifier.Verify(token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenMissing):
			respond.Error(w, r, http.StatusUnauthorized, "Access denied. No token provided.", nil)
		case errors.Is(err, auth.ErrTokenExpired):
			respond.Error(w, r, http.StatusUnauthorized, "Token expired. Please login again.", nil)
		case errors.Is(err, auth.ErrTokenMalformed):
			respond.Error(w, r, http.StatusUnauthorized, "Invalid token.", nil)
		default:
			respond.Error(w, r, http.StatusInternalServerError, "Token verification failed.", err)
		}
		return nil, true
	}

	return claims, false
}

func isAuthError(err error) bool {
	return errors.Is(err, auth.ErrTokenMissing) ||
		errors.Is(err, auth.ErrTokenExpired) ||
		errors.Is(err, auth.ErrTokenMalformed)
}
