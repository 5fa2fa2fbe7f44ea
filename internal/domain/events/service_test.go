package events

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/csquare-club/server/internal/domain/ids"
	"github.com/csquare-club/server/internal/validation"
)

type fakeRepo struct {
	events map[string]*Event
	listed Filters
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{events: make(map[string]*Event)}
}

func (r *fakeRepo) List(_ context.Context, filters Filters) ([]Event, error) {
	r.listed = filters
	out := make([]Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, *e)
	}
	return out, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *event
	return &clone, nil
}

func (r *fakeRepo) Create(_ context.Context, event *Event) error {
	clone := *event
	r.events[event.ID] = &clone
	return nil
}

func (r *fakeRepo) Update(_ context.Context, event *Event) error {
	if _, ok := r.events[event.ID]; !ok {
		return ErrNotFound
	}
	clone := *event
	r.events[event.ID] = &clone
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.events[id]; !ok {
		return ErrNotFound
	}
	delete(r.events, id)
	return nil
}

func validInput() Input {
	return Input{
		Type:        TypeUpcoming,
		Date:        "March 15, 2025",
		Title:       "Spring Hackathon",
		Description: "48 hours of building.",
	}
}

func TestCreateMintsIDAndDefaults(t *testing.T) {
	svc := NewService(newFakeRepo())

	event, err := svc.Create(context.Background(), validInput())

	require.NoError(t, err)
	require.NoError(t, ids.ValidateULID(event.ID))
	require.Equal(t, DefaultLinkText, event.LinkText)
	require.False(t, event.CreatedAt.IsZero())
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := NewService(newFakeRepo())

	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"missing type", func(in *Input) { in.Type = "" }},
		{"bad type", func(in *Input) { in.Type = "someday" }},
		{"missing title", func(in *Input) { in.Title = "" }},
		{"bad link", func(in *Input) { in.Link = "javascript:alert(1)" }},
		{"bad image", func(in *Input) { in.Image = "ftp://host/x.png" }},
		{"negative attendees", func(in *Input) { in.Attendees = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)

			_, err := svc.Create(context.Background(), input)

			var verr *validation.Error
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Details)
		})
	}
}

func TestCreateSanitizesFields(t *testing.T) {
	svc := NewService(newFakeRepo())

	input := validInput()
	input.Title = `Hack<script>alert(1)</script>athon`
	input.Tags = []string{"go", "<b>web</b>"}

	event, err := svc.Create(context.Background(), input)

	require.NoError(t, err)
	require.Equal(t, "Hackathon", event.Title)
	require.Equal(t, []string{"go", "web"}, event.Tags)
}

func TestUpdateReplacesFields(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	input := validInput()
	input.Type = TypePast
	input.Title = "Spring Hackathon (wrap-up)"

	updated, err := svc.Update(context.Background(), created.ID, input)

	require.NoError(t, err)
	require.Equal(t, TypePast, updated.Type)
	require.Equal(t, "Spring Hackathon (wrap-up)", updated.Title)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestUpdateUnknownID(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Update(context.Background(), "01HYX3KQW7ERTV9XNBM2P8QJZF", validInput())

	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetByIDRejectsMalformedID(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.GetByID(context.Background(), "not-a-ulid")

	require.ErrorIs(t, err, ErrNotFound)
}

func TestFeaturedQueriesUpcomingFeatured(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	_, err := svc.Featured(context.Background())

	require.NoError(t, err)
	require.Equal(t, TypeUpcoming, repo.listed.Type)
	require.NotNil(t, repo.listed.Featured)
	require.True(t, *repo.listed.Featured)
	require.Equal(t, 3, repo.listed.Limit)
}

func TestParseFilters(t *testing.T) {
	filters, err := ParseFilters(url.Values{"type": {"past"}, "featured": {"true"}, "limit": {"5"}})

	require.NoError(t, err)
	require.Equal(t, TypePast, filters.Type)
	require.True(t, *filters.Featured)
	require.Equal(t, 5, filters.Limit)
}

func TestParseFiltersErrors(t *testing.T) {
	_, err := ParseFilters(url.Values{"type": {"someday"}})
	require.ErrorContains(t, err, "invalid type")

	_, err = ParseFilters(url.Values{"featured": {"maybe"}})
	require.ErrorContains(t, err, "invalid featured")

	_, err = ParseFilters(url.Values{"limit": {"0"}})
	require.ErrorContains(t, err, "between 1 and 100")
}
