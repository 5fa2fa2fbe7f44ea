// Package gallery manages the photo gallery: admin-curated images,
// optionally linked to the event they were taken at.
package gallery

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/csquare-club/server/internal/domain/ids"
	"github.com/csquare-club/server/internal/sanitize"
	"github.com/csquare-club/server/internal/validation"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validation.New()}
}

func (s *Service) List(ctx context.Context, filters Filters) ([]Image, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Image, error) {
	if err := ids.ValidateULID(id); err != nil {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, input Input) (*Image, error) {
	if err := validation.Check(s.validate, input); err != nil {
		return nil, err
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("mint image id: %w", err)
	}

	now := time.Now().UTC()
	image := &Image{ID: id, CreatedAt: now, UpdatedAt: now}
	applyInput(image, input)

	if err := s.repo.Create(ctx, image); err != nil {
		return nil, fmt.Errorf("create gallery image: %w", err)
	}
	return image, nil
}

func (s *Service) Update(ctx context.Context, id string, input Input) (*Image, error) {
	if err := ids.ValidateULID(id); err != nil {
		return nil, ErrNotFound
	}
	if err := validation.Check(s.validate, input); err != nil {
		return nil, err
	}

	image, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyInput(image, input)
	image.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, image); err != nil {
		return nil, fmt.Errorf("update gallery image: %w", err)
	}
	return image, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := ids.ValidateULID(id); err != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func applyInput(image *Image, input Input) {
	image.Title = sanitize.Text(input.Title)
	image.Description = sanitize.Text(input.Description)
	image.ImageURL = strings.TrimSpace(input.ImageURL)
	image.EventID = strings.ToUpper(strings.TrimSpace(input.EventID))
	image.IsActive = input.IsActive == nil || *input.IsActive
	image.DisplayOrder = input.DisplayOrder
	image.UploadedBy = sanitize.Text(input.UploadedBy)
	if image.UploadedBy == "" {
		image.UploadedBy = DefaultUploadedBy
	}
}

type FilterError struct {
	Field   string
	Message string
}

func (e FilterError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func ParseFilters(values url.Values) (Filters, error) {
	filters := Filters{}

	raw := strings.TrimSpace(values.Get("active"))
	if raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return filters, FilterError{Field: "active", Message: "must be true or false"}
		}
		filters.Active = &active
	}

	return filters, nil
}
