package team

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("team member not found")

type Member struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Position     string    `json:"position"`
	Bio          string    `json:"bio"`
	Initials     string    `json:"initials"`
	Photo        string    `json:"photo,omitempty"`
	LinkedIn     string    `json:"linkedin,omitempty"`
	GitHub       string    `json:"github,omitempty"`
	Portfolio    string    `json:"portfolio,omitempty"`
	Email        string    `json:"email,omitempty"`
	Skills       []string  `json:"skills"`
	JoinDate     string    `json:"joinDate,omitempty"`
	IsActive     bool      `json:"isActive"`
	IsCore       bool      `json:"isCore"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Input is the accepted shape of a create or full-update request body.
// IsActive is a pointer so an omitted field defaults to true instead of
// false.
type Input struct {
	Name         string   `json:"name" validate:"required,max=100"`
	Position     string   `json:"position" validate:"required,max=100"`
	Bio          string   `json:"bio" validate:"required,max=500"`
	Initials     string   `json:"initials" validate:"omitempty,min=1,max=3"`
	Photo        string   `json:"photo" validate:"omitempty,imageurl"`
	LinkedIn     string   `json:"linkedin" validate:"omitempty,linkurl"`
	GitHub       string   `json:"github" validate:"omitempty,linkurl"`
	Portfolio    string   `json:"portfolio" validate:"omitempty,linkurl"`
	Email        string   `json:"email" validate:"omitempty,email"`
	Skills       []string `json:"skills" validate:"omitempty,dive,max=50"`
	JoinDate     string   `json:"joinDate" validate:"omitempty,max=50"`
	IsActive     *bool    `json:"isActive"`
	IsCore       bool     `json:"isCore"`
	DisplayOrder int      `json:"displayOrder" validate:"gte=0"`
}

type Filters struct {
	Active   *bool
	Core     *bool
	Position string
}

type Repository interface {
	List(ctx context.Context, filters Filters) ([]Member, error)
	GetByID(ctx context.Context, id string) (*Member, error)
	Create(ctx context.Context, member *Member) error
	Update(ctx context.Context, member *Member) error
	Delete(ctx context.Context, id string) error
}
