package contact

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("contact message not found")

// DefaultSubject is applied when a submission omits the subject line.
const DefaultSubject = "Contact from C-Square Club Website"

const (
	TypeGeneral       = "general"
	TypeJoin          = "join"
	TypeCollaboration = "collaboration"
	TypeEvent         = "event"
	TypeTechnical     = "technical"
	TypeOther         = "other"
)

const (
	StatusNew      = "new"
	StatusRead     = "read"
	StatusReplied  = "replied"
	StatusArchived = "archived"
)

// Message is a contact-form submission. The submitter's network metadata
// is captured for abuse follow-up but never serialized in responses.
type Message struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Subject   string     `json:"subject"`
	Body      string     `json:"message"`
	Type      string     `json:"type"`
	Status    string     `json:"status"`
	IPAddress string     `json:"-"`
	UserAgent string     `json:"-"`
	Replied   bool       `json:"replied"`
	RepliedAt *time.Time `json:"repliedAt,omitempty"`
	RepliedBy string     `json:"repliedBy,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Input is the accepted shape of a public contact submission.
type Input struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"omitempty,max=200"`
	Message string `json:"message" validate:"required,max=2000"`
	Type    string `json:"type" validate:"omitempty,oneof=general join collaboration event technical other"`
}

// StatusInput is the accepted shape of an admin status change.
type StatusInput struct {
	Status string `json:"status" validate:"required,oneof=new read replied archived"`
	Notes  string `json:"notes" validate:"omitempty,max=1000"`
}

// Meta is request metadata captured alongside a submission.
type Meta struct {
	IPAddress string
	UserAgent string
}

type Filters struct {
	Status string
	Type   string
	Page   int
	Limit  int
}

type ListResult struct {
	Messages []Message
	Total    int
}

// Stats summarizes the inbox for the admin dashboard.
type Stats struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Read      int `json:"read"`
	Replied   int `json:"replied"`
	Archived  int `json:"archived"`
	ThisMonth int `json:"thisMonth"`
}

type Repository interface {
	Create(ctx context.Context, message *Message) error
	List(ctx context.Context, filters Filters) (ListResult, error)
	GetByID(ctx context.Context, id string) (*Message, error)
	Update(ctx context.Context, message *Message) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (Stats, error)
	// DeleteArchivedBefore removes archived messages older than the cutoff
	// and reports how many were deleted.
	DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int, error)
}
