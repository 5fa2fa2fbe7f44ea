// Package api assembles the HTTP surface: routing, middleware chain, and
// handler wiring.
package api

import (
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riverqueue/river"
	"github.com/rs/zerolog"

	"github.com/csquare-club/server/internal/api/handlers"
	"github.com/csquare-club/server/internal/api/middleware"
	"github.com/csquare-club/server/internal/auth"
	"github.com/csquare-club/server/internal/config"
	"github.com/csquare-club/server/internal/domain/contact"
	"github.com/csquare-club/server/internal/domain/events"
	"github.com/csquare-club/server/internal/domain/gallery"
	"github.com/csquare-club/server/internal/domain/team"
	"github.com/csquare-club/server/internal/email"
	"github.com/csquare-club/server/internal/metrics"
	"github.com/csquare-club/server/internal/ratelimit"
)

// Deps carries the constructed services into the router. JobClient may be
// nil; contact notifications then go out inline.
type Deps struct {
	Config  config.Config
	Logger  zerolog.Logger
	Version string

	Auth    *auth.Service
	Events  *events.Service
	Team    *team.Service
	Contact *contact.Service
	Gallery *gallery.Service
	Email   *email.Service

	JobClient *river.Client[pgx.Tx]

	// LoginLimiter is injectable for tests; a memory store built from the
	// config is used when nil.
	LoginLimiter ratelimit.Store
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config

	loginLimiter := deps.LoginLimiter
	if loginLimiter == nil {
		loginLimiter = ratelimit.NewMemoryStore(cfg.RateLimit.LoginMaxAttempts, cfg.RateLimit.LoginWindow)
	}

	authHandler := handlers.NewAuthHandler(deps.Auth)
	eventsHandler := handlers.NewEventsHandler(deps.Events)
	teamHandler := handlers.NewTeamHandler(deps.Team)
	contactHandler := handlers.NewContactHandler(deps.Contact, deps.Email, deps.JobClient, cfg.RateLimit.TrustedProxyCIDRs)
	galleryHandler := handlers.NewGalleryHandler(deps.Gallery)
	proxyHandler := handlers.NewImageProxyHandler()
	healthHandler := handlers.NewHealthHandler(deps.Version, cfg.Environment)

	requireAdmin := middleware.RequireAdmin(deps.Auth)
	loginLimit := middleware.LoginRateLimit(loginLimiter, cfg.RateLimit.TrustedProxyCIDRs)
	adminBody := middleware.RequestSize(middleware.AdminMaxBodySize)
	publicBody := middleware.RequestSize(middleware.PublicMaxBodySize)

	admin := func(h http.HandlerFunc) http.Handler {
		return adminBody(requireAdmin(h))
	}

	mux := http.NewServeMux()

	mux.Handle("POST /api/auth/login", publicBody(loginLimit(http.HandlerFunc(authHandler.Login))))
	mux.Handle("POST /api/auth/verify", requireAdmin(http.HandlerFunc(authHandler.Verify)))
	mux.Handle("GET /api/auth/me", requireAdmin(http.HandlerFunc(authHandler.Me)))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)

	mux.HandleFunc("GET /api/events", eventsHandler.List)
	mux.HandleFunc("GET /api/events/featured", eventsHandler.Featured)
	mux.HandleFunc("GET /api/events/{id}", eventsHandler.Get)
	mux.Handle("POST /api/events", admin(eventsHandler.Create))
	mux.Handle("PUT /api/events/{id}", admin(eventsHandler.Update))
	mux.Handle("DELETE /api/events/{id}", admin(eventsHandler.Delete))

	mux.HandleFunc("GET /api/team", teamHandler.List)
	mux.HandleFunc("GET /api/team/core", teamHandler.Core)
	mux.HandleFunc("GET /api/team/{id}", teamHandler.Get)
	mux.Handle("POST /api/team", admin(teamHandler.Create))
	mux.Handle("PUT /api/team/{id}", admin(teamHandler.Update))
	mux.Handle("PUT /api/team/{id}/toggle-active", admin(teamHandler.ToggleActive))
	mux.Handle("DELETE /api/team/{id}", admin(teamHandler.Delete))

	mux.Handle("POST /api/contact", publicBody(http.HandlerFunc(contactHandler.Submit)))
	mux.Handle("GET /api/contact", admin(contactHandler.List))
	mux.Handle("GET /api/contact/stats", admin(contactHandler.Stats))
	mux.Handle("GET /api/contact/{id}", admin(contactHandler.Get))
	mux.Handle("PUT /api/contact/{id}/status", admin(contactHandler.UpdateStatus))
	mux.Handle("DELETE /api/contact/{id}", admin(contactHandler.Delete))

	mux.HandleFunc("GET /api/gallery", galleryHandler.List)
	mux.HandleFunc("GET /api/gallery/{id}", galleryHandler.Get)
	mux.Handle("POST /api/gallery", admin(galleryHandler.Create))
	mux.Handle("PUT /api/gallery/{id}", admin(galleryHandler.Update))
	mux.Handle("DELETE /api/gallery/{id}", admin(galleryHandler.Delete))

	mux.HandleFunc("GET /api/proxy-image", proxyHandler.Proxy)
	mux.HandleFunc("GET /api/proxy-image/health", proxyHandler.Health)

	mux.HandleFunc("GET /api/health", healthHandler.Health)
	mux.HandleFunc("GET /api", healthHandler.Index)
	mux.HandleFunc("GET /api/{$}", healthHandler.Index)
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/", healthHandler.NotFound)

	requireHTTPS := cfg.Environment == "production"

	var handler http.Handler = mux
	handler = middleware.RateLimit(cfg.RateLimit)(handler)
	handler = middleware.CORS(cfg.CORS, deps.Logger)(handler)
	handler = middleware.SecurityHeaders(requireHTTPS)(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(deps.Logger)(handler)
	handler = middleware.CorrelationID(deps.Logger)(handler)

	return handler
}
