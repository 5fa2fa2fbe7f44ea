package gallery

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("gallery image not found")

// DefaultUploadedBy is recorded when a mutating request omits uploadedBy.
const DefaultUploadedBy = "admin"

// Image is a gallery entry. When it references an event, the event's
// title and date are joined into list responses.
type Image struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	ImageURL     string    `json:"imageUrl"`
	EventID      string    `json:"eventId,omitempty"`
	Event        *EventRef `json:"event,omitempty"`
	IsActive     bool      `json:"isActive"`
	DisplayOrder int       `json:"displayOrder"`
	UploadedBy   string    `json:"uploadedBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// EventRef is the joined subset of the referenced event.
type EventRef struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

// Input is the accepted shape of a create or full-update request body.
type Input struct {
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description" validate:"omitempty,max=500"`
	ImageURL     string `json:"imageUrl" validate:"required,imageurl"`
	EventID      string `json:"eventId" validate:"omitempty,ulid"`
	IsActive     *bool  `json:"isActive"`
	DisplayOrder int    `json:"displayOrder" validate:"gte=0"`
	UploadedBy   string `json:"uploadedBy" validate:"omitempty,max=100"`
}

type Filters struct {
	Active *bool
}

type Repository interface {
	List(ctx context.Context, filters Filters) ([]Image, error)
	GetByID(ctx context.Context, id string) (*Image, error)
	Create(ctx context.Context, image *Image) error
	Update(ctx context.Context, image *Image) error
	Delete(ctx context.Context, id string) error
}
