package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/csquare-club/server/internal/domain/contact"
)

var _ contact.Repository = (*ContactRepository)(nil)

type ContactRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *ContactRepository) queryer() DBTX {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

const messageColumns = `id, name, email, subject, message, type, status, ip_address, user_agent,
       replied, replied_at, replied_by, notes, created_at, updated_at`

func (r *ContactRepository) Create(ctx context.Context, message *contact.Message) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO contact_messages (id, name, email, subject, message, type, status, ip_address,
                              user_agent, replied, replied_at, replied_by, notes,
                              created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`,
		message.ID, message.Name, message.Email, message.Subject, message.Body,
		message.Type, message.Status, message.IPAddress, message.UserAgent,
		message.Replied, message.RepliedAt, message.RepliedBy, message.Notes,
		message.CreatedAt, message.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

func (r *ContactRepository) List(ctx context.Context, filters contact.Filters) (contact.ListResult, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filters.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var total int
	err := r.queryer().QueryRow(ctx, `
SELECT count(*)
  FROM contact_messages
 WHERE ($1 = '' OR status = $1)
   AND ($2 = '' OR type = $2)
`, filters.Status, filters.Type).Scan(&total)
	if err != nil {
		return contact.ListResult{}, fmt.Errorf("count contact messages: %w", err)
	}

	rows, err := r.queryer().Query(ctx, `
SELECT `+messageColumns+`
  FROM contact_messages
 WHERE ($1 = '' OR status = $1)
   AND ($2 = '' OR type = $2)
 ORDER BY created_at DESC
 LIMIT $3 OFFSET $4
`, filters.Status, filters.Type, limit, offset)
	if err != nil {
		return contact.ListResult{}, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	items := make([]contact.Message, 0, limit)
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return contact.ListResult{}, fmt.Errorf("scan contact message: %w", err)
		}
		items = append(items, message)
	}
	if err := rows.Err(); err != nil {
		return contact.ListResult{}, fmt.Errorf("list contact messages: %w", err)
	}
	return contact.ListResult{Messages: items, Total: total}, nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id string) (*contact.Message, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+messageColumns+`
  FROM contact_messages
 WHERE id = $1
`, id)

	message, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contact.ErrNotFound
		}
		return nil, fmt.Errorf("get contact message: %w", err)
	}
	return &message, nil
}

func (r *ContactRepository) Update(ctx context.Context, message *contact.Message) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE contact_messages
   SET status = $2, replied = $3, replied_at = $4, replied_by = $5, notes = $6,
       updated_at = $7
 WHERE id = $1
`,
		message.ID, message.Status, message.Replied, message.RepliedAt,
		message.RepliedBy, message.Notes, message.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update contact message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contact.ErrNotFound
	}
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contact.ErrNotFound
	}
	return nil
}

func (r *ContactRepository) Stats(ctx context.Context) (contact.Stats, error) {
	var stats contact.Stats
	err := r.queryer().QueryRow(ctx, `
SELECT count(*),
       count(*) FILTER (WHERE status = 'new'),
       count(*) FILTER (WHERE status = 'read'),
       count(*) FILTER (WHERE status = 'replied'),
       count(*) FILTER (WHERE status = 'archived'),
       count(*) FILTER (WHERE created_at >= date_trunc('month', now()))
  FROM contact_messages
`).Scan(&stats.Total, &stats.New, &stats.Read, &stats.Replied, &stats.Archived, &stats.ThisMonth)
	if err != nil {
		return contact.Stats{}, fmt.Errorf("contact stats: %w", err)
	}
	return stats, nil
}

func (r *ContactRepository) DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := r.queryer().Exec(ctx, `
DELETE FROM contact_messages
 WHERE status = 'archived' AND created_at < $1
`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge archived messages: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanMessage(row pgx.Row) (contact.Message, error) {
	var message contact.Message
	var repliedAt pgtype.Timestamptz
	err := row.Scan(
		&message.ID, &message.Name, &message.Email, &message.Subject, &message.Body,
		&message.Type, &message.Status, &message.IPAddress, &message.UserAgent,
		&message.Replied, &repliedAt, &message.RepliedBy, &message.Notes,
		&message.CreatedAt, &message.UpdatedAt,
	)
	if err != nil {
		return contact.Message{}, err
	}
	if repliedAt.Valid {
		value := repliedAt.Time
		message.RepliedAt = &value
	}
	return message, nil
}
