package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/csquare-club/server/internal/domain/events"
)

var _ events.Repository = (*EventRepository)(nil)

type EventRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *EventRepository) queryer() DBTX {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

const eventColumns = `id, type, date, title, description, link, link_text, featured,
       image, attendees, location, organizer, event_time, tags, created_at, updated_at`

func (r *EventRepository) List(ctx context.Context, filters events.Filters) ([]events.Event, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.queryer().Query(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE ($1 = '' OR type = $1)
   AND ($2::boolean IS NULL OR featured = $2)
 ORDER BY created_at DESC
 LIMIT $3
`, filters.Type, filters.Featured, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	items := make([]events.Event, 0, limit)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return items, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*events.Event, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE id = $1
`, id)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &event, nil
}

func (r *EventRepository) Create(ctx context.Context, event *events.Event) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO events (id, type, date, title, description, link, link_text, featured,
                    image, attendees, location, organizer, event_time, tags, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
`,
		event.ID, event.Type, event.Date, event.Title, event.Description,
		event.Link, event.LinkText, event.Featured, event.Image, event.Attendees,
		event.Location, event.Organizer, event.Time, event.Tags,
		event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepository) Update(ctx context.Context, event *events.Event) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE events
   SET type = $2, date = $3, title = $4, description = $5, link = $6,
       link_text = $7, featured = $8, image = $9, attendees = $10,
       location = $11, organizer = $12, event_time = $13, tags = $14,
       updated_at = $15
 WHERE id = $1
`,
		event.ID, event.Type, event.Date, event.Title, event.Description,
		event.Link, event.LinkText, event.Featured, event.Image, event.Attendees,
		event.Location, event.Organizer, event.Time, event.Tags, event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

func scanEvent(row pgx.Row) (events.Event, error) {
	var event events.Event
	err := row.Scan(
		&event.ID, &event.Type, &event.Date, &event.Title, &event.Description,
		&event.Link, &event.LinkText, &event.Featured, &event.Image, &event.Attendees,
		&event.Location, &event.Organizer, &event.Time, &event.Tags,
		&event.CreatedAt, &event.UpdatedAt,
	)
	return event, err
}
