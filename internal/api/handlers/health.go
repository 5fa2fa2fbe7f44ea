package handlers

import (
	"net/http"
	"time"

	"github.com/csquare-club/server/internal/api/respond"
)

// HealthHandler serves the service meta endpoints: liveness, the API
// index, and the JSON 404 fallback.
type HealthHandler struct {
	Version     string
	Environment string
	startedAt   time.Time
}

func NewHealthHandler(version, environment string) *HealthHandler {
	return &HealthHandler{
		Version:     version,
		Environment: environment,
		startedAt:   time.Now(),
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respond.Raw(w, http.StatusOK, map[string]any{
		"success":       true,
		"status":        "ok",
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"uptimeSeconds": int64(time.Since(h.startedAt).Seconds()),
		"environment":   h.Environment,
		"version":       h.Version,
	})
}

func (h *HealthHandler) Index(w http.ResponseWriter, r *http.Request) {
	respond.Data(w, http.StatusOK, map[string]any{
		"name":    "C-Square Club API",
		"version": h.Version,
		"endpoints": map[string]string{
			"auth":       "/api/auth",
			"events":     "/api/events",
			"team":       "/api/team",
			"contact":    "/api/contact",
			"gallery":    "/api/gallery",
			"proxyImage": "/api/proxy-image",
			"health":     "/api/health",
		},
	})
}

func (h *HealthHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, r, http.StatusNotFound, "Route not found.", nil)
}
