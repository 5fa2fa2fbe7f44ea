package handlers

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"github.com/rs/zerolog"

	"github.com/csquare-club/server/internal/api/middleware"
	"github.com/csquare-club/server/internal/api/respond"
	"github.com/csquare-club/server/internal/domain/contact"
	"github.com/csquare-club/server/internal/email"
	"github.com/csquare-club/server/internal/jobs"
	"github.com/csquare-club/server/internal/metrics"
)

type ContactHandler struct {
	Service *contact.Service
	Email   *email.Service

	// Jobs is nil when the queue is disabled; notifications then go out
	// inline.
	Jobs *river.Client[pgx.Tx]

	TrustedProxyCIDRs []string
}

func NewContactHandler(service *contact.Service, emailSvc *email.Service, jobClient *river.Client[pgx.Tx], trustedProxyCIDRs []string) *ContactHandler {
	return &ContactHandler{
		Service:           service,
		Email:             emailSvc,
		Jobs:              jobClient,
		TrustedProxyCIDRs: trustedProxyCIDRs,
	}
}

// Submit accepts a public contact-form submission. Notification delivery
// is best-effort and never fails the request.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input contact.Input
	if err := decodeJSON(r, &input); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	meta := contact.Meta{
		IPAddress: middleware.ClientIP(r, h.TrustedProxyCIDRs),
		UserAgent: r.UserAgent(),
	}

	message, err := h.Service.Submit(r.Context(), input, meta)
	if err != nil {
		writeServiceError(w, r, err, func() {
			respond.Error(w, r, http.StatusInternalServerError, "Failed to submit message.", err)
		})
		return
	}

	metrics.ContactSubmissionsTotal.WithLabelValues(message.Type).Inc()
	h.notify(r, message)

	respond.Message(w, http.StatusCreated, "Message sent successfully", map[string]any{
		"id":        message.ID,
		"createdAt": message.CreatedAt,
	})
}

// notify enqueues the admin notification, falling back to inline delivery
// when the queue is unavailable.
func (h *ContactHandler) notify(r *http.Request, message *contact.Message) {
	logger := zerolog.Ctx(r.Context())

	notification := email.ContactNotification{
		Name:        message.Name,
		Email:       message.Email,
		Subject:     message.Subject,
		Message:     message.Body,
		Type:        message.Type,
		SubmittedAt: message.CreatedAt,
	}

	if h.Jobs != nil {
		args := jobs.ContactNotificationArgs{
			MessageID:   message.ID,
			Name:        notification.Name,
			Email:       notification.Email,
			Subject:     notification.Subject,
			Message:     notification.Message,
			Type:        notification.Type,
			SubmittedAt: notification.SubmittedAt,
		}
		opts := jobs.InsertOptsForKind(jobs.JobKindContactNotification)
		_, err := h.Jobs.Insert(r.Context(), args, &opts)
		if err == nil {
			return
		}
		logger.Warn().Err(err).Str("message_id", message.ID).
			Msg("notification enqueue failed, sending inline")
	}

	if h.Email == nil {
		return
	}
	if err := h.Email.SendContactNotification(r.Context(), notification); err != nil {
		logger.Warn().Err(err).Str("message_id", message.ID).
			Msg("inline contact notification failed")
	}
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := contact.ParseFilters(r.URL.Query())
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	result, err := h.Service.List(r.Context(), filters)
	if err != nil {
		respond.Error(w, r, http.StatusInternalServerError, "Failed to fetch messages.", err)
		return
	}

	pages := 0
	if filters.Limit > 0 {
		pages = (result.Total + filters.Limit - 1) / filters.Limit
	}

	respond.Raw(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(result.Messages),
		"total":   result.Total,
		"page":    filters.Page,
		"pages":   pages,
		"data":    result.Messages,
	})
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	message, err := h.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			respond.Error(w, r, http.StatusNotFound, "Message not found.", nil)
			return
		}
		respond.Error(w, r, http.StatusInternalServerError, "Failed to fetch message.", err)
		return
	}

	respond.Data(w, http.StatusOK, message)
}

func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var input contact.StatusInput
	if err := decodeJSON(r, &input); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	updatedBy := "admin"
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		updatedBy = claims.Subject
	}

	message, err := h.Service.UpdateStatus(r.Context(), r.PathValue("id"), input, updatedBy)
	if err != nil {
		writeServiceError(w, r, err, func() {
			if errors.Is(err, contact.ErrNotFound) {
				respond.Error(w, r, http.StatusNotFound, "Message not found.", nil)
				return
			}
			respond.Error(w, r, http.StatusInternalServerError, "Failed to update message.", err)
		})
		return
	}

	respond.Message(w, http.StatusOK, "Message status updated", message)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			respond.Error(w, r, http.StatusNotFound, "Message not found.", nil)
			return
		}
		respond.Error(w, r, http.StatusInternalServerError, "Failed to delete message.", err)
		return
	}

	respond.Message(w, http.StatusOK, "Message deleted successfully", nil)
}

func (h *ContactHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		respond.Error(w, r, http.StatusInternalServerError, "Failed to fetch contact stats.", err)
		return
	}

	respond.Data(w, http.StatusOK, stats)
}
