// Package email delivers admin notifications through Resend. When no API
// key is configured the service runs in disabled mode: sends are logged
// and succeed without touching the network.
package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/mail"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/csquare-club/server/internal/config"
)

type Service struct {
	cfg    config.EmailConfig
	client *resend.Client
	logger zerolog.Logger
}

func NewService(cfg config.EmailConfig, logger zerolog.Logger) (*Service, error) {
	if cfg.Enabled {
		if err := validateAddress(cfg.From); err != nil {
			return nil, fmt.Errorf("invalid sender address: %w", err)
		}
		if err := validateAddress(cfg.To); err != nil {
			return nil, fmt.Errorf("invalid notification recipient: %w", err)
		}
	}

	s := &Service{
		cfg:    cfg,
		logger: logger.With().Str("component", "email").Logger(),
	}
	if cfg.Enabled {
		s.client = resend.NewClient(cfg.ResendAPIKey)
	}
	return s, nil
}

// Enabled reports whether sends reach the provider.
func (s *Service) Enabled() bool {
	return s.cfg.Enabled
}

// ContactNotification is the payload for the admin alert about a new
// contact-form submission.
type ContactNotification struct {
	Name        string
	Email       string
	Subject     string
	Message     string
	Type        string
	SubmittedAt time.Time
}

// SendContactNotification emails the configured admin about a new
// submission.
func (s *Service) SendContactNotification(ctx context.Context, n ContactNotification) error {
	if !s.cfg.Enabled {
		s.logger.Info().
			Str("from", n.Email).
			Str("subject", n.Subject).
			Msg("email disabled, skipping contact notification")
		return nil
	}

	htmlBody, err := renderContactNotification(n)
	if err != nil {
		return fmt.Errorf("render contact notification: %w", err)
	}

	subject := fmt.Sprintf("New contact message: %s", n.Subject)
	if err := s.send(ctx, s.cfg.To, subject, htmlBody); err != nil {
		return fmt.Errorf("send contact notification: %w", err)
	}
	return nil
}

func (s *Service) send(ctx context.Context, to, subject, htmlBody string) error {
	params := &resend.SendEmailRequest{
		From:    s.cfg.From,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			s.logger.Warn().
				Str("limit", rateLimitErr.Limit).
				Str("reset", rateLimitErr.Reset).
				Msg("resend rate limit exceeded")
		}
		return fmt.Errorf("resend: %w", err)
	}

	s.logger.Info().
		Str("email_id", sent.Id).
		Str("to", to).
		Msg("email sent")
	return nil
}

// validateAddress rejects malformed addresses and header injection
// attempts.
func validateAddress(address string) error {
	addr, err := mail.ParseAddress(address)
	if err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	if strings.ContainsAny(addr.Address, "\r\n") {
		return fmt.Errorf("email address contains newline characters")
	}
	return nil
}

var contactTemplate = template.Must(template.New("contact").Parse(`
<h2>New contact message</h2>
<p><strong>From:</strong> {{.Name}} &lt;{{.Email}}&gt;</p>
<p><strong>Type:</strong> {{.Type}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Received:</strong> {{.SubmittedAt.Format "Jan 2, 2006 15:04 MST"}}</p>
<hr>
<p>{{.Message}}</p>
`))

func renderContactNotification(n ContactNotification) (string, error) {
	var buf bytes.Buffer
	if err := contactTemplate.Execute(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
