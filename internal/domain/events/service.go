// Package events manages the club event collection: upcoming and past
// events shown on the website, with an admin-curated featured subset.
package events

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

const featuredCount = 3

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validation.New()}
}

func (s *Service) List(ctx context.Context, filters Filters) ([]Event, error) {
	return s.repo.List(ctx, filters)
}

// Featured returns the newest featured upcoming events for the homepage.
func (s *Service) Featured(ctx context.Context) ([]Event, error) {
	featured := true
	return s.repo.List(ctx, Filters{Type: TypeUpcoming, Featured: &featured, Limit: featuredCount})
}

func (s *Service) GetByID(ctx context.Context, id string) (*Event, error) {
	if err := ids.ValidateULID(id); err != nil {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, input Input) (*Event, error) {
	if err := validation.Check(s.validate, input); err != nil {
		return nil, err
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("mint event id: %w", err)
	}

	now := time.Now().UTC()
	event := &Event{ID: id, CreatedAt: now, UpdatedAt: now}
	applyInput(event, input)

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// Update replaces all client-settable fields of an existing event.
func (s *Service) Update(ctx context.Context, id string, input Input) (*Event, error) {
	if err := ids.ValidateULID(id); err != nil {
		return nil, ErrNotFound
	}
	if err := validation.Check(s.validate, input); err != nil {
		return nil, err
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyInput(event, input)
	event.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := ids.ValidateULID(id); err != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func applyInput(event *Event, input Input) {
	event.Type = input.Type
	event.Date = sanitize.Text(input.Date)
	event.Title = sanitize.Text(input.Title)
	event.Description = sanitize.HTML(input.Description)
	event.Link = strings.TrimSpace(input.Link)
	event.LinkText = sanitize.Text(input.LinkText)
	if event.LinkText == "" {
		event.LinkText = DefaultLinkText
	}
	event.Featured = input.Featured
	event.Image = strings.TrimSpace(input.Image)
	event.Attendees = input.Attendees
	event.Location = sanitize.Text(input.Location)
	event.Organizer = sanitize.Text(input.Organizer)
	event.Time = sanitize.Text(input.Time)
	event.Tags = sanitize.TextSlice(input.Tags)
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
	filters := Filters{Limit: 50}

	eventType := strings.ToLower(strings.TrimSpace(values.Get("type")))
	if eventType != "" {
		if eventType != TypeUpcoming && eventType != TypePast {
			return filters, FilterError{Field: "type", Message: "must be upcoming or past"}
		}
		filters.Type = eventType
	}

	rawFeatured := strings.TrimSpace(values.Get("featured"))
	if rawFeatured != "" {
		featured, err := strconv.ParseBool(rawFeatured)
		if err != nil {
			return filters, FilterError{Field: "featured", Message: "must be true or false"}
		}
		filters.Featured = &featured
	}

	rawLimit := strings.TrimSpace(values.Get("limit"))
	if rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil {
			return filters, FilterError{Field: "limit", Message: "must be a number"}
		}
		if limit < 1 || limit > 100 {
			return filters, FilterError{Field: "limit", Message: "must be between 1 and 100"}
		}
		filters.Limit = limit
	}

	return filters, nil
}
