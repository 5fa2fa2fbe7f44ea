package handlers

import (
	"errors"
	"net/http"

	"github.com/csquare-club/server/internal/api/respond"
	"github.com/csquare-club/server/internal/domain/events"
)

type EventsHandler struct {
	Service *events.Service
}

func NewEventsHandler(service *events.Service) *EventsHandler {
	return &EventsHandler{Service: service}
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := events.ParseFilters(r.URL.Query())
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	items, err := h.Service.List(r.Context(), filters)
	if err != nil {
		respond.Error(w, r, http.StatusInternalServerError, "Failed to fetch events.", err)
		return
	}

	respond.List(w, http.StatusOK, items, len(items))
}

func (h *EventsHandler) Featured(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.Featured(r.Context())
	if err != nil {
		respond.Error(w, r, http.StatusInternalServerError, "Failed to fetch featured events.", err)
		return
	}

	respond.List(w, http.StatusOK, items, len(items))
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			respond.Error(w, r, http.StatusNotFound, "Event not found.", nil)
			return
		}
		respond.Error(w, r, http.StatusInternalServerError, "Failed to fetch event.", err)
		return
	}

	respond.Data(w, http.StatusOK, event)
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input events.Input
	if err := decodeJSON(r, &input); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	event, err := h.Service.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err, func() {
			respond.Error(w, r, http.StatusInternalServerError, "Failed to create event.", err)
		})
		return
	}

	respond.Message(w, http.StatusCreated, "Event created successfully", event)
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input events.Input
	if err := decodeJSON(r, &input); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	event, err := h.Service.Update(r.Context(), r.PathValue("id"), input)
	if err != nil {
		writeServiceError(w, r, err, func() {
			if errors.Is(err, events.ErrNotFound) {
				respond.Error(w, r, http.StatusNotFound, "Event not found.", nil)
				return
			}
			respond.Error(w, r, http.StatusInternalServerError, "Failed to update event.", err)
		})
		return
	}

	respond.Message(w, http.StatusOK, "Event updated successfully", event)
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, events.ErrNotFound) {
			respond.Error(w, r, http.StatusNotFound, "Event not found.", nil)
			return
		}
		respond.Error(w, r, http.StatusInternalServerError, "Failed to delete event.", err)
		return
	}

	respond.Message(w, http.StatusOK, "Event deleted successfully", nil)
}
