package handlers

import (
	"errors"
	"net/http"

	"github.com/csquare-club/server/internal/api/respond"
	"github.com/csquare-club/server/internal/domain/gallery"
)

type GalleryHandler struct {
	Service *gallery.Service
}

func NewGalleryHandler(service *gallery.Service) *GalleryHandler {
	return &GalleryHandler{Service: service}
}

func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := gallery.ParseFilters(r.URL.Query())
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	images, err := h.Service.List(r.Context(), filters)
	if err != nil {
		respond.Error(w, r, http.StatusInternalServerError, "Failed to fetch gallery images.", err)
		return
	}

	respond.List(w, http.StatusOK, images, len(images))
}

func (h *GalleryHandler) Get(w http.ResponseWriter, r *http.Request) {
	image, err := h.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, gallery.ErrNotFound) {
			respond.Error(w, r, http.StatusNotFound, "Gallery image not found.", nil)
			return
		}
		respond.Error(w, r, http.StatusInternalServerError, "Failed to fetch gallery image.", err)
		return
	}

	respond.Data(w, http.StatusOK, image)
}

func (h *GalleryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input gallery.Input
	if err := decodeJSON(r, &input); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	image, err := h.Service.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err, func() {
			respond.Error(w, r, http.StatusInternalServerError, "Failed to create gallery image.", err)
		})
		return
	}

	respond.Message(w, http.StatusCreated, "Gallery image created successfully", image)
}

func (h *GalleryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input gallery.Input
	if err := decodeJSON(r, &input); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	image, err := h.Service.Update(r.Context(), r.PathValue("id"), input)
	if err != nil {
		writeServiceError(w, r, err, func() {
			if errors.Is(err, gallery.ErrNotFound) {
				respond.Error(w, r, http.StatusNotFound, "Gallery image not found.", nil)
				return
			}
			respond.Error(w, r, http.StatusInternalServerError, "Failed to update gallery image.", err)
		})
		return
	}

	respond.Message(w, http.StatusOK, "Gallery image updated successfully", image)
}

func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, gallery.ErrNotFound) {
			respond.Error(w, r, http.StatusNotFound, "Gallery image not found.", nil)
			return
		}
		respond.Error(w, r, http.StatusInternalServerError, "Failed to delete gallery image.", err)
		return
	}

	respond.Message(w, http.StatusOK, "Gallery image deleted successfully", nil)
}
