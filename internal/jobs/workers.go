package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/riverqueue/river"

	"github.com/csquare-club/server/internal/domain/contact"
	"github.com/csquare-club/server/internal/email"
)

// ContactNotificationArgs carries the submission snapshot so delivery does
// not depend on the message still existing.
type ContactNotificationArgs struct {
	MessageID   string    `json:"message_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	Type        string    `json:"type"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func (ContactNotificationArgs) Kind() string { return JobKindContactNotification }

// ContactNotificationWorker emails the admin about a new contact
// submission.
type ContactNotificationWorker struct {
	river.WorkerDefaults[ContactNotificationArgs]
	Email  *email.Service
	Logger *slog.Logger
}

func (ContactNotificationWorker) Kind() string { return JobKindContactNotification }

func (w ContactNotificationWorker) Work(ctx context.Context, job *river.Job[ContactNotificationArgs]) error {
	if w.Email == nil {
		return fmt.Errorf("email service not configured")
	}

	err := w.Email.SendContactNotification(ctx, email.ContactNotification{
		Name:        job.Args.Name,
		Email:       job.Args.Email,
		Subject:     job.Args.Subject,
		Message:     job.Args.Message,
		Type:        job.Args.Type,
		SubmittedAt: job.Args.SubmittedAt,
	})
	if err != nil {
		return fmt.Errorf("contact notification for %s: %w", job.Args.MessageID, err)
	}

	if w.Logger != nil {
		w.Logger.Info("contact notification delivered",
			"message_id", job.Args.MessageID,
			"attempt", job.Attempt,
		)
	}
	return nil
}

// ContactCleanupArgs defines the periodic purge of old archived messages.
type ContactCleanupArgs struct{}

func (ContactCleanupArgs) Kind() string { return JobKindContactCleanup }

// ArchivedRetention is how long archived contact messages are kept before
// the periodic cleanup removes them.
const ArchivedRetention = 90 * 24 * time.Hour

// ContactCleanupWorker purges archived contact messages past retention.
type ContactCleanupWorker struct {
	river.WorkerDefaults[ContactCleanupArgs]
	Contacts *contact.Service
	Logger   *slog.Logger
}

func (ContactCleanupWorker) Kind() string { return JobKindContactCleanup }

func (w ContactCleanupWorker) Work(ctx context.Context, job *river.Job[ContactCleanupArgs]) error {
	if w.Contacts == nil {
		return fmt.Errorf("contact service not configured")
	}

	deleted, err := w.Contacts.PurgeArchived(ctx, ArchivedRetention)
	if err != nil {
		return fmt.Errorf("purge archived messages: %w", err)
	}

	if w.Logger != nil {
		w.Logger.Info("archived contact messages purged",
			"deleted_count", deleted,
			"attempt", job.Attempt,
		)
	}
	return nil
}

// NewWorkers registers all workers on a fresh registry.
func NewWorkers(emailSvc *email.Service, contacts *contact.Service, logger *slog.Logger) (*river.Workers, error) {
	workers := river.NewWorkers()
	if err := river.AddWorkerSafely(workers, ContactNotificationWorker{Email: emailSvc, Logger: logger}); err != nil {
		return nil, fmt.Errorf("register contact notification worker: %w", err)
	}
	if err := river.AddWorkerSafely(workers, ContactCleanupWorker{Contacts: contacts, Logger: logger}); err != nil {
		return nil, fmt.Errorf("register contact cleanup worker: %w", err)
	}
	return workers, nil
}
