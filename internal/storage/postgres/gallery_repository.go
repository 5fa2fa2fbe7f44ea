package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/csquare-club/server/internal/domain/gallery"
)

var _ gallery.Repository = (*GalleryRepository)(nil)

type GalleryRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *GalleryRepository) queryer() DBTX {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

// Gallery reads join the referenced event's title and date so the site can
// caption images without a second request.
const galleryColumns = `g.id, g.title, g.description, g.image_url, g.event_id, g.is_active,
       g.display_order, g.uploaded_by, g.created_at, g.updated_at,
       e.title, e.date`

func (r *GalleryRepository) List(ctx context.Context, filters gallery.Filters) ([]gallery.Image, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT `+galleryColumns+`
  FROM gallery_images g
  LEFT JOIN events e ON e.id = g.event_id
 WHERE ($1::boolean IS NULL OR g.is_active = $1)
 ORDER BY g.display_order ASC, g.created_at DESC
`, filters.Active)
	if err != nil {
		return nil, fmt.Errorf("list gallery images: %w", err)
	}
	defer rows.Close()

	items := make([]gallery.Image, 0, 16)
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gallery image: %w", err)
		}
		items = append(items, image)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list gallery images: %w", err)
	}
	return items, nil
}

func (r *GalleryRepository) GetByID(ctx context.Context, id string) (*gallery.Image, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+galleryColumns+`
  FROM gallery_images g
  LEFT JOIN events e ON e.id = g.event_id
 WHERE g.id = $1
`, id)

	image, err := scanImage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, gallery.ErrNotFound
		}
		return nil, fmt.Errorf("get gallery image: %w", err)
	}
	return &image, nil
}

func (r *GalleryRepository) Create(ctx context.Context, image *gallery.Image) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO gallery_images (id, title, description, image_url, event_id, is_active,
                            display_order, uploaded_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`,
		image.ID, image.Title, image.Description, image.ImageURL,
		nullableID(image.EventID), image.IsActive, image.DisplayOrder,
		image.UploadedBy, image.CreatedAt, image.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert gallery image: %w", err)
	}
	return nil
}

func (r *GalleryRepository) Update(ctx context.Context, image *gallery.Image) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE gallery_images
   SET title = $2, description = $3, image_url = $4, event_id = $5,
       is_active = $6, display_order = $7, uploaded_by = $8, updated_at = $9
 WHERE id = $1
`,
		image.ID, image.Title, image.Description, image.ImageURL,
		nullableID(image.EventID), image.IsActive, image.DisplayOrder,
		image.UploadedBy, image.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update gallery image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return gallery.ErrNotFound
	}
	return nil
}

func (r *GalleryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM gallery_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete gallery image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return gallery.ErrNotFound
	}
	return nil
}

func scanImage(row pgx.Row) (gallery.Image, error) {
	var image gallery.Image
	var eventID, eventTitle, eventDate *string
	err := row.Scan(
		&image.ID, &image.Title, &image.Description, &image.ImageURL, &eventID,
		&image.IsActive, &image.DisplayOrder, &image.UploadedBy,
		&image.CreatedAt, &image.UpdatedAt,
		&eventTitle, &eventDate,
	)
	if err != nil {
		return gallery.Image{}, err
	}
	image.EventID = derefString(eventID)
	if eventTitle != nil {
		image.Event = &gallery.EventRef{Title: *eventTitle, Date: derefString(eventDate)}
	}
	return image, nil
}

func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
