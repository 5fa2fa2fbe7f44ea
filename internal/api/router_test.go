package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/csquare-club/server/internal/auth"
	"github.com/csquare-club/server/internal/config"
	"github.com/csquare-club/server/internal/domain/contact"
	"github.com/csquare-club/server/internal/domain/events"
	"github.com/csquare-club/server/internal/domain/gallery"
	"github.com/csquare-club/server/internal/domain/team"
	"github.com/csquare-club/server/internal/ratelimit"
)

type memEventsRepo struct {
	items map[string]events.Event
}

func (r *memEventsRepo) List(ctx context.Context, filters events.Filters) ([]events.Event, error) {
	out := make([]events.Event, 0, len(r.items))
	for _, e := range r.items {
		if filters.Type != "" && e.Type != filters.Type {
			continue
		}
		if filters.Featured != nil && e.Featured != *filters.Featured {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (r *memEventsRepo) GetByID(ctx context.Context, id string) (*events.Event, error) {
	e, ok := r.items[id]
	if !ok {
		return nil, events.ErrNotFound
	}
	return &e, nil
}

func (r *memEventsRepo) Create(ctx context.Context, e *events.Event) error {
	r.items[e.ID] = *e
	return nil
}

func (r *memEventsRepo) Update(ctx context.Context, e *events.Event) error {
	if _, ok := r.items[e.ID]; !ok {
		return events.ErrNotFound
	}
	r.items[e.ID] = *e
	return nil
}

func (r *memEventsRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return events.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memTeamRepo struct {
	items map[string]team.Member
}

func (r *memTeamRepo) List(ctx context.Context, filters team.Filters) ([]team.Member, error) {
	out := make([]team.Member, 0, len(r.items))
	for _, m := range r.items {
		out = append(out, m)
	}
	return out, nil
}

func (r *memTeamRepo) GetByID(ctx context.Context, id string) (*team.Member, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, team.ErrNotFound
	}
	return &m, nil
}

func (r *memTeamRepo) Create(ctx context.Context, m *team.Member) error {
	r.items[m.ID] = *m
	return nil
}

func (r *memTeamRepo) Update(ctx context.Context, m *team.Member) error {
	if _, ok := r.items[m.ID]; !ok {
		return team.ErrNotFound
	}
	r.items[m.ID] = *m
	return nil
}

func (r *memTeamRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return team.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memContactRepo struct {
	items map[string]contact.Message
}

func (r *memContactRepo) Create(ctx context.Context, m *contact.Message) error {
	r.items[m.ID] = *m
	return nil
}

func (r *memContactRepo) List(ctx context.Context, filters contact.Filters) (contact.ListResult, error) {
	out := make([]contact.Message, 0, len(r.items))
	for _, m := range r.items {
		out = append(out, m)
	}
	return contact.ListResult{Messages: out, Total: len(out)}, nil
}

func (r *memContactRepo) GetByID(ctx context.Context, id string) (*contact.Message, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, contact.ErrNotFound
	}
	return &m, nil
}

func (r *memContactRepo) Update(ctx context.Context, m *contact.Message) error {
	r.items[m.ID] = *m
	return nil
}

func (r *memContactRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return contact.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memContactRepo) Stats(ctx context.Context) (contact.Stats, error) {
	return contact.Stats{Total: len(r.items)}, nil
}

func (r *memContactRepo) DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	return 0, nil
}

type memGalleryRepo struct {
	items map[string]gallery.Image
}

func (r *memGalleryRepo) List(ctx context.Context, filters gallery.Filters) ([]gallery.Image, error) {
	out := make([]gallery.Image, 0, len(r.items))
	for _, img := range r.items {
		out = append(out, img)
	}
	return out, nil
}

func (r *memGalleryRepo) GetByID(ctx context.Context, id string) (*gallery.Image, error) {
	img, ok := r.items[id]
	if !ok {
		return nil, gallery.ErrNotFound
	}
	return &img, nil
}

func (r *memGalleryRepo) Create(ctx context.Context, img *gallery.Image) error {
	r.items[img.ID] = *img
	return nil
}

func (r *memGalleryRepo) Update(ctx context.Context, img *gallery.Image) error {
	if _, ok := r.items[img.ID]; !ok {
		return gallery.ErrNotFound
	}
	r.items[img.ID] = *img
	return nil
}

func (r *memGalleryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return gallery.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func testRouter(t *testing.T, loginLimiter ratelimit.Store) http.Handler {
	t.Helper()

	identity, err := auth.NewIdentity("admin", "csquare2024")
	require.NoError(t, err)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	authSvc := auth.NewService(identity, tokens, zerolog.Nop())

	cfg := config.Config{
		Environment: "test",
		CORS:        config.CORSConfig{AllowAllOrigins: true},
	}

	return NewRouter(Deps{
		Config:       cfg,
		Logger:       zerolog.Nop(),
		Version:      "test",
		Auth:         authSvc,
		Events:       events.NewService(&memEventsRepo{items: map[string]events.Event{}}),
		Team:         team.NewService(&memTeamRepo{items: map[string]team.Member{}}),
		Contact:      contact.NewService(&memContactRepo{items: map[string]contact.Message{}}),
		Gallery:      gallery.NewService(&memGalleryRepo{items: map[string]gallery.Image{}}),
		LoginLimiter: loginLimiter,
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, payload any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, body)
	req.RemoteAddr = "203.0.113.5:4821"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func loginToken(t *testing.T, router http.Handler) string {
	t.Helper()

	rec, body := doJSON(t, router, "POST", "/api/auth/login", "", map[string]string{
		"username": "admin",
		"password": "csquare2024",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]any)
	token := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestLoginAndMe(t *testing.T) {
	router := testRouter(t, nil)

	token := loginToken(t, router)

	rec, body := doJSON(t, router, "GET", "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	user := body["data"].(map[string]any)["user"].(map[string]any)
	require.Equal(t, "admin", user["username"])
	require.Equal(t, "admin", user["role"])
}

func TestLoginWrongPassword(t *testing.T) {
	router := testRouter(t, nil)

	rec, body := doJSON(t, router, "POST", "/api/auth/login", "", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid credentials.", body["error"])
}

func TestLoginMissingFields(t *testing.T) {
	router := testRouter(t, nil)

	rec, _ := doJSON(t, router, "POST", "/api/auth/login", "", map[string]string{
		"username": "admin",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginRateLimited(t *testing.T) {
	store := ratelimit.NewMemoryStore(2, time.Minute)
	defer store.Stop()
	router := testRouter(t, store)

	creds := map[string]string{"username": "admin", "password": "wrong"}
	for i := 0; i < 2; i++ {
		rec, _ := doJSON(t, router, "POST", "/api/auth/login", "", creds)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	// Over the window: rejected before credentials are checked, even
	// correct ones.
	rec, _ := doJSON(t, router, "POST", "/api/auth/login", "", map[string]string{
		"username": "admin",
		"password": "csquare2024",
	})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestVerifyEndpoint(t *testing.T) {
	router := testRouter(t, nil)
	token := loginToken(t, router)

	rec, body := doJSON(t, router, "POST", "/api/auth/verify", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["valid"])

	rec, _ = doJSON(t, router, "POST", "/api/auth/verify", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminGateOnMutations(t *testing.T) {
	router := testRouter(t, nil)

	event := map[string]any{
		"type":        "upcoming",
		"date":        "March 15, 2026",
		"title":       "Spring Hackathon",
		"description": "24 hours of building",
	}

	rec, _ := doJSON(t, router, "POST", "/api/events", "", event)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token := loginToken(t, router)
	rec, body := doJSON(t, router, "POST", "/api/events", token, event)
	require.Equal(t, http.StatusCreated, rec.Code)

	created := body["data"].(map[string]any)
	require.NotEmpty(t, created["id"])

	rec, list := doJSON(t, router, "GET", "/api/events", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(1), list["count"])
}

func TestValidationFailureEnvelope(t *testing.T) {
	router := testRouter(t, nil)
	token := loginToken(t, router)

	rec, body := doJSON(t, router, "POST", "/api/events", token, map[string]any{
		"type": "sometime",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Validation failed", body["error"])
	require.NotEmpty(t, body["details"])
}

func TestContactSubmitPublic(t *testing.T) {
	router := testRouter(t, nil)

	rec, body := doJSON(t, router, "POST", "/api/contact", "", map[string]any{
		"email":   "student@example.edu",
		"name":    "Priya",
		"message": "How do I join the club?",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	data := body["data"].(map[string]any)
	require.NotEmpty(t, data["id"])
	require.NotEmpty(t, data["createdAt"])
}

func TestContactAdminGate(t *testing.T) {
	router := testRouter(t, nil)

	rec, _ := doJSON(t, router, "GET", "/api/contact", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token := loginToken(t, router)
	rec, body := doJSON(t, router, "GET", "/api/contact", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, body, "total")
	require.Contains(t, body, "pages")
}

func TestHealthAndIndex(t *testing.T) {
	router := testRouter(t, nil)

	rec, body := doJSON(t, router, "GET", "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", body["status"])

	rec, _ = doJSON(t, router, "GET", "/api", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestNotFoundEnvelope(t *testing.T) {
	router := testRouter(t, nil)

	rec, body := doJSON(t, router, "GET", "/api/no-such-route", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Route not found.", body["error"])
}

func TestSecurityHeadersPresent(t *testing.T) {
	router := testRouter(t, nil)

	rec, _ := doJSON(t, router, "GET", "/api/health", "", nil)
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
