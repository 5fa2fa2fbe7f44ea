package handlers

import (
	"errors"
	"net/http"

	"github.com/csquare-club/server/internal/api/respond"
	"github.com/csquare-club/server/internal/domain/team"
)

type TeamHandler struct {
	Service *team.Service
}

func NewTeamHandler(service *team.Service) *TeamHandler {
	return &TeamHandler{Service: service}
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := team.ParseFilters(r.URL.Query())
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	members, err := h.Service.List(r.Context(), filters)
	if err != nil {
		respond.Error(w, r, http.StatusInternalServerError, "Failed to fetch team members.", err)
		return
	}

	respond.List(w, http.StatusOK, members, len(members))
}

func (h *TeamHandler) Core(w http.ResponseWriter, r *http.Request) {
	members, err := h.Service.Core(r.Context())
	if err != nil {
		respond.Error(w, r, http.StatusInternalServerError, "Failed to fetch core team.", err)
		return
	}

	respond.List(w, http.StatusOK, members, len(members))
}

func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	member, err := h.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, team.ErrNotFound) {
			respond.Error(w, r, http.StatusNotFound, "Team member not found.", nil)
			return
		}
		respond.Error(w, r, http.StatusInternalServerError, "Failed to fetch team member.", err)
		return
	}

	respond.Data(w, http.StatusOK, member)
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input team.Input
	if err := decodeJSON(r, &input); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	member, err := h.Service.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err, func() {
			respond.Error(w, r, http.StatusInternalServerError, "Failed to create team member.", err)
		})
		return
	}

	respond.Message(w, http.StatusCreated, "Team member created successfully", member)
}

func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input team.Input
	if err := decodeJSON(r, &input); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	member, err := h.Service.Update(r.Context(), r.PathValue("id"), input)
	if err != nil {
		writeServiceError(w, r, err, func() {
			if errors.Is(err, team.ErrNotFound) {
				respond.Error(w, r, http.StatusNotFound, "Team member not found.", nil)
				return
			}
			respond.Error(w, r, http.StatusInternalServerError, "Failed to update team member.", err)
		})
		return
	}

	respond.Message(w, http.StatusOK, "Team member updated successfully", member)
}

// ToggleActive flips the member's visibility on the public site.
func (h *TeamHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	member, err := h.Service.ToggleActive(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, team.ErrNotFound) {
			respond.Error(w, r, http.StatusNotFound, "Team member not found.", nil)
			return
		}
		respond.Error(w, r, http.StatusInternalServerError, "Failed to update team member.", err)
		return
	}

	respond.Message(w, http.StatusOK, "Team member status updated", member)
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, team.ErrNotFound) {
			respond.Error(w, r, http.StatusNotFound, "Team member not found.", nil)
			return
		}
		respond.Error(w, r, http.StatusInternalServerError, "Failed to delete team member.", err)
		return
	}

	respond.Message(w, http.StatusOK, "Team member deleted successfully", nil)
}
