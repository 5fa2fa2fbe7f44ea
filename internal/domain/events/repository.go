package events

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("event not found")

const (
	TypeUpcoming = "upcoming"
	TypePast     = "past"
)

// DefaultLinkText is applied when a mutating request omits linkText.
const DefaultLinkText = "Learn More"

type Event struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Date        string    `json:"date"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link,omitempty"`
	LinkText    string    `json:"linkText"`
	Featured    bool      `json:"featured"`
	Image       string    `json:"image,omitempty"`
	Attendees   int       `json:"attendees"`
	Location    string    `json:"location,omitempty"`
	Organizer   string    `json:"organizer,omitempty"`
	Time        string    `json:"time,omitempty"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Input is the accepted shape of a create or full-update request body.
type Input struct {
	Type        string   `json:"type" validate:"required,oneof=upcoming past"`
	Date        string   `json:"date" validate:"required,max=200"`
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required,max=1000"`
	Link        string   `json:"link" validate:"omitempty,linkurl"`
	LinkText    string   `json:"linkText" validate:"omitempty,max=50"`
	Featured    bool     `json:"featured"`
	Image       string   `json:"image" validate:"omitempty,imageurl"`
	Attendees   int      `json:"attendees" validate:"gte=0"`
	Location    string   `json:"location" validate:"omitempty,max=200"`
	Organizer   string   `json:"organizer" validate:"omitempty,max=100"`
	Time        string   `json:"time" validate:"omitempty,max=50"`
	Tags        []string `json:"tags" validate:"omitempty,dive,max=50"`
}

type Filters struct {
	Type     string
	Featured *bool
	Limit    int
}

type Repository interface {
	List(ctx context.Context, filters Filters) ([]Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}
