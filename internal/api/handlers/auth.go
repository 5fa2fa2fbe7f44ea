package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/csquare-club/server/internal/api/middleware"
	"github.com/csquare-club/server/internal/api/respond"
	"github.com/csquare-club/server/internal/auth"
	"github.com/csquare-club/server/internal/metrics"
)

type AuthHandler struct {
	Auth *auth.Service
}

func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{Auth: service}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges admin credentials for a bearer token. The route sits
// behind the login rate limiter.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Username and password are required.", nil)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		respond.Error(w, r, http.StatusBadRequest, "Username and password are required.", nil)
		return
	}

	result, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
			respond.Error(w, r, http.StatusUnauthorized, "Invalid credentials.", nil)
			return
		}
		respond.Error(w, r, http.StatusInternalServerError, "Login failed.", err)
		return
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	respond.Message(w, http.StatusOK, "Login successful", result)
}

// Verify confirms the caller's token. The admin gate has already verified
// it, so reaching here means valid.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "Invalid token.", nil)
		return
	}

	respond.Raw(w, http.StatusOK, map[string]any{
		"success": true,
		"valid":   true,
		"data": map[string]any{
			"user": auth.User{Username: claims.Subject, Role: claims.Role},
		},
	})
}

// Me returns the authenticated admin's identity.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "Invalid token.", nil)
		return
	}

	respond.Data(w, http.StatusOK, map[string]any{
		"user": auth.User{Username: claims.Subject, Role: claims.Role},
	})
}

// Logout is stateless; the client discards its token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	respond.Message(w, http.StatusOK, "Logged out successfully", nil)
}
