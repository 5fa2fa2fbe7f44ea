// Package team manages the club roster: member profiles, the core-team
// subset, and the display ordering the website renders.
package team

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

func (s *Service) List(ctx context.Context, filters Filters) ([]Member, error) {
	return s.repo.List(ctx, filters)
}

// Core returns active core-team members.
func (s *Service) Core(ctx context.Context) ([]Member, error) {
	active, core := true, true
	return s.repo.List(ctx, Filters{Active: &active, Core: &core})
}

func (s *Service) GetByID(ctx context.Context, id string) (*Member, error) {
	if err := ids.ValidateULID(id); err != nil {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, input Input) (*Member, error) {
	if err := validation.Check(s.validate, input); err != nil {
		return nil, err
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("mint member id: %w", err)
	}

	now := time.Now().UTC()
	member := &Member{ID: id, CreatedAt: now, UpdatedAt: now}
	applyInput(member, input)

	if err := s.repo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("create team member: %w", err)
	}
	return member, nil
}

func (s *Service) Update(ctx context.Context, id string, input Input) (*Member, error) {
	if err := ids.ValidateULID(id); err != nil {
		return nil, ErrNotFound
	}
	if err := validation.Check(s.validate, input); err != nil {
		return nil, err
	}

	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyInput(member, input)
	member.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, fmt.Errorf("update team member: %w", err)
	}
	return member, nil
}

// ToggleActive flips the member's visibility flag.
func (s *Service) ToggleActive(ctx context.Context, id string) (*Member, error) {
	if err := ids.ValidateULID(id); err != nil {
		return nil, ErrNotFound
	}

	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	member.IsActive = !member.IsActive
	member.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, fmt.Errorf("toggle team member: %w", err)
	}
	return member, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := ids.ValidateULID(id); err != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func applyInput(member *Member, input Input) {
	member.Name = sanitize.Text(input.Name)
	member.Position = sanitize.Text(input.Position)
	member.Bio = sanitize.HTML(input.Bio)
	member.Initials = normalizeInitials(input.Initials, member.Name)
	member.Photo = strings.TrimSpace(input.Photo)
	member.LinkedIn = strings.TrimSpace(input.LinkedIn)
	member.GitHub = strings.TrimSpace(input.GitHub)
	member.Portfolio = strings.TrimSpace(input.Portfolio)
	member.Email = strings.TrimSpace(input.Email)
	member.Skills = sanitize.TextSlice(input.Skills)
	member.JoinDate = sanitize.Text(input.JoinDate)
	member.IsActive = input.IsActive == nil || *input.IsActive
	member.IsCore = input.IsCore
	member.DisplayOrder = input.DisplayOrder
}

// normalizeInitials uppercases explicit initials, or derives them from the
// first letter of up to three name words when omitted.
func normalizeInitials(initials, name string) string {
	initials = strings.TrimSpace(initials)
	if initials != "" {
		return strings.ToUpper(initials)
	}

	var b strings.Builder
	for i, word := range strings.Fields(name) {
		if i == 3 {
			break
		}
		first := []rune(word)[0]
		b.WriteString(strings.ToUpper(string(first)))
	}
	return b.String()
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

	for _, field := range []string{"active", "core"} {
		raw := strings.TrimSpace(values.Get(field))
		if raw == "" {
			continue
		}
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return filters, FilterError{Field: field, Message: "must be true or false"}
		}
		switch field {
		case "active":
			filters.Active = &parsed
		case "core":
			filters.Core = &parsed
		}
	}

	filters.Position = strings.TrimSpace(values.Get("position"))

	return filters, nil
}
