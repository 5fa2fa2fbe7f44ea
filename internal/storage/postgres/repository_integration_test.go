package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/csquare-club/server/internal/domain/contact"
	"github.com/csquare-club/server/internal/domain/events"
	"github.com/csquare-club/server/internal/domain/gallery"
	"github.com/csquare-club/server/internal/domain/ids"
	"github.com/csquare-club/server/internal/domain/team"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("csquare_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, MigrateUp(connStr, "migrations"))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo, err := NewRepository(pool)
	require.NoError(t, err)
	return repo
}

func mustULID(t *testing.T) string {
	t.Helper()
	id, err := ids.NewULID()
	require.NoError(t, err)
	return id
}

func TestEventRepositoryRoundTrip(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	eventsRepo := repo.Events()

	now := time.Now().UTC().Truncate(time.Microsecond)
	event := &events.Event{
		ID:          mustULID(t),
		Type:        events.TypeUpcoming,
		Date:        "March 15, 2026",
		Title:       "Spring Hackathon",
		Description: "24 hours of building",
		LinkText:    events.DefaultLinkText,
		Featured:    true,
		Attendees:   80,
		Location:    "Main Auditorium",
		Tags:        []string{"hackathon", "coding"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, eventsRepo.Create(ctx, event))

	got, err := eventsRepo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	require.Equal(t, event.Title, got.Title)
	require.Equal(t, event.Tags, got.Tags)
	require.True(t, got.Featured)

	featured := true
	list, err := eventsRepo.List(ctx, events.Filters{Type: events.TypeUpcoming, Featured: &featured, Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)

	past, err := eventsRepo.List(ctx, events.Filters{Type: events.TypePast, Limit: 10})
	require.NoError(t, err)
	require.Empty(t, past)

	got.Title = "Spring Hackathon 2026"
	got.UpdatedAt = time.Now().UTC()
	require.NoError(t, eventsRepo.Update(ctx, got))

	updated, err := eventsRepo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	require.Equal(t, "Spring Hackathon 2026", updated.Title)

	require.NoError(t, eventsRepo.Delete(ctx, event.ID))
	_, err = eventsRepo.GetByID(ctx, event.ID)
	require.ErrorIs(t, err, events.ErrNotFound)

	require.ErrorIs(t, eventsRepo.Delete(ctx, event.ID), events.ErrNotFound)
}

func TestTeamRepositoryOrderingAndFilters(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	teamRepo := repo.Team()

	now := time.Now().UTC()
	members := []*team.Member{
		{ID: mustULID(t), Name: "Asha Verma", Position: "President", Bio: "Leads the club", Initials: "AV", IsActive: true, IsCore: true, DisplayOrder: 1, Skills: []string{"go"}, CreatedAt: now, UpdatedAt: now},
		{ID: mustULID(t), Name: "Ben Okafor", Position: "Web Lead", Bio: "Runs the website", Initials: "BO", IsActive: true, IsCore: false, DisplayOrder: 2, Skills: []string{"react"}, CreatedAt: now, UpdatedAt: now},
		{ID: mustULID(t), Name: "Chen Wei", Position: "Alumni Advisor", Bio: "Former president", Initials: "CW", IsActive: false, IsCore: true, DisplayOrder: 0, Skills: nil, CreatedAt: now, UpdatedAt: now},
	}
	for _, m := range members {
		require.NoError(t, teamRepo.Create(ctx, m))
	}

	all, err := teamRepo.List(ctx, team.Filters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "Chen Wei", all[0].Name)

	active := true
	core := true
	activeCore, err := teamRepo.List(ctx, team.Filters{Active: &active, Core: &core})
	require.NoError(t, err)
	require.Len(t, activeCore, 1)
	require.Equal(t, "Asha Verma", activeCore[0].Name)

	byPosition, err := teamRepo.List(ctx, team.Filters{Position: "lead"})
	require.NoError(t, err)
	require.Len(t, byPosition, 1)
	require.Equal(t, "Ben Okafor", byPosition[0].Name)
}

func TestContactRepositoryStatsAndPurge(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	contactRepo := repo.Contact()

	now := time.Now().UTC()
	statuses := []string{contact.StatusNew, contact.StatusRead, contact.StatusArchived}
	for _, status := range statuses {
		msg := &contact.Message{
			ID:        mustULID(t),
			Name:      "Visitor",
			Email:     "visitor@example.edu",
			Subject:   contact.DefaultSubject,
			Body:      "Hello",
			Type:      contact.TypeGeneral,
			Status:    status,
			IPAddress: "203.0.113.5",
			UserAgent: "test-agent",
			CreatedAt: now,
			UpdatedAt: now,
		}
		require.NoError(t, contactRepo.Create(ctx, msg))
	}

	stats, err := contactRepo.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, stats.Total)
	require.Equal(t, 1, stats.New)
	require.Equal(t, 1, stats.Read)
	require.Equal(t, 1, stats.Archived)
	require.Equal(t, 3, stats.ThisMonth)

	result, err := contactRepo.List(ctx, contact.Filters{Status: contact.StatusNew, Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	require.Len(t, result.Messages, 1)

	// Archived rows newer than the cutoff survive the purge.
	deleted, err := contactRepo.DeleteArchivedBefore(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	require.Zero(t, deleted)

	deleted, err = contactRepo.DeleteArchivedBefore(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, deleted)
}

func TestGalleryRepositoryEventJoin(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	now := time.Now().UTC()
	event := &events.Event{
		ID:          mustULID(t),
		Type:        events.TypePast,
		Date:        "November 2, 2025",
		Title:       "Tech Talk Night",
		Description: "Alumni talks",
		LinkText:    events.DefaultLinkText,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, repo.Events().Create(ctx, event))

	galleryRepo := repo.Gallery()
	image := &gallery.Image{
		ID:         mustULID(t),
		Title:      "Opening keynote",
		ImageURL:   "https://images.example.com/keynote.jpg",
		EventID:    event.ID,
		IsActive:   true,
		UploadedBy: gallery.DefaultUploadedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, galleryRepo.Create(ctx, image))

	orphan := &gallery.Image{
		ID:         mustULID(t),
		Title:      "Club room",
		ImageURL:   "https://images.example.com/room.jpg",
		IsActive:   false,
		UploadedBy: gallery.DefaultUploadedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, galleryRepo.Create(ctx, orphan))

	got, err := galleryRepo.GetByID(ctx, image.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Event)
	require.Equal(t, "Tech Talk Night", got.Event.Title)

	plain, err := galleryRepo.GetByID(ctx, orphan.ID)
	require.NoError(t, err)
	require.Nil(t, plain.Event)

	active := true
	list, err := galleryRepo.List(ctx, gallery.Filters{Active: &active})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, image.ID, list[0].ID)
}
