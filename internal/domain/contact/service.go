// Package contact manages contact-form submissions: public intake with
// abuse metadata capture and the admin inbox workflow (read, reply,
// archive).
package contact

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

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validation.New()}
}

// Submit stores a public contact submission with default subject and type
// applied.
func (s *Service) Submit(ctx context.Context, input Input, meta Meta) (*Message, error) {
	if err := validation.Check(s.validate, input); err != nil {
		return nil, err
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("mint message id: %w", err)
	}

	subject := sanitize.Text(input.Subject)
	if subject == "" {
		subject = DefaultSubject
	}
	msgType := input.Type
	if msgType == "" {
		msgType = TypeGeneral
	}

	now := time.Now().UTC()
	message := &Message{
		ID:        id,
		Name:      sanitize.Text(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Subject:   subject,
		Body:      sanitize.HTML(input.Message),
		Type:      msgType,
		Status:    StatusNew,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	return message, nil
}

func (s *Service) List(ctx context.Context, filters Filters) (ListResult, error) {
	return s.repo.List(ctx, filters)
}

// GetByID returns a message, transitioning it new -> read on first view.
func (s *Service) GetByID(ctx context.Context, id string) (*Message, error) {
	if err := ids.ValidateULID(id); err != nil {
		return nil, ErrNotFound
	}

	message, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if message.Status == StatusNew {
		message.Status = StatusRead
		message.UpdatedAt = time.Now().UTC()
		if err := s.repo.Update(ctx, message); err != nil {
			return nil, fmt.Errorf("mark message read: %w", err)
		}
	}
	return message, nil
}

// UpdateStatus applies an admin status change. Moving to replied records
// who replied and when.
func (s *Service) UpdateStatus(ctx context.Context, id string, input StatusInput, updatedBy string) (*Message, error) {
	if err := ids.ValidateULID(id); err != nil {
		return nil, ErrNotFound
	}
	if err := validation.Check(s.validate, input); err != nil {
		return nil, err
	}

	message, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	message.Status = input.Status
	if input.Notes != "" {
		message.Notes = sanitize.Text(input.Notes)
	}
	if input.Status == StatusReplied && !message.Replied {
		now := time.Now().UTC()
		message.Replied = true
		message.RepliedAt = &now
		message.RepliedBy = updatedBy
	}
	message.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, message); err != nil {
		return nil, fmt.Errorf("update message status: %w", err)
	}
	return message, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := ids.ValidateULID(id); err != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}

// PurgeArchived removes archived messages older than the retention period.
func (s *Service) PurgeArchived(ctx context.Context, retention time.Duration) (int, error) {
	return s.repo.DeleteArchivedBefore(ctx, time.Now().UTC().Add(-retention))
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
	filters := Filters{Page: 1, Limit: defaultPageSize}

	status := strings.ToLower(strings.TrimSpace(values.Get("status")))
	if status != "" {
		switch status {
		case StatusNew, StatusRead, StatusReplied, StatusArchived:
			filters.Status = status
		default:
			return filters, FilterError{Field: "status", Message: "unsupported status"}
		}
	}

	msgType := strings.ToLower(strings.TrimSpace(values.Get("type")))
	if msgType != "" {
		switch msgType {
		case TypeGeneral, TypeJoin, TypeCollaboration, TypeEvent, TypeTechnical, TypeOther:
			filters.Type = msgType
		default:
			return filters, FilterError{Field: "type", Message: "unsupported type"}
		}
	}

	rawPage := strings.TrimSpace(values.Get("page"))
	if rawPage != "" {
		page, err := strconv.Atoi(rawPage)
		if err != nil || page < 1 {
			return filters, FilterError{Field: "page", Message: "must be a positive number"}
		}
		filters.Page = page
	}

	rawLimit := strings.TrimSpace(values.Get("limit"))
	if rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil {
			return filters, FilterError{Field: "limit", Message: "must be a number"}
		}
		if limit < 1 || limit > maxPageSize {
			return filters, FilterError{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", maxPageSize)}
		}
		filters.Limit = limit
	}

	return filters, nil
}
