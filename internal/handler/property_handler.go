package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/hostboard/hostboard/internal/auth"
	"github.com/hostboard/hostboard/internal/model"
	"github.com/hostboard/hostboard/internal/repository"
	"github.com/hostboard/hostboard/internal/service"
)

// PropertyHandler holds the HTTP handlers for property CRUD.
type PropertyHandler struct {
	svc    *service.PropertyService
	logger *logrus.Logger
}

// NewPropertyHandler constructs a PropertyHandler.
func NewPropertyHandler(svc *service.PropertyService, logger *logrus.Logger) *PropertyHandler {
	return &PropertyHandler{svc: svc, logger: logger}
}

// List handles GET /properties
// Returns the authenticated host's properties.
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	session := auth.FromContext(r.Context())

	properties, err := h.svc.List(r.Context(), session.UserID)
	if err != nil {
		h.logger.WithError(err).Error("list properties")
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if properties == nil {
		properties = []model.Property{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"properties": properties})
}

// Create handles POST /properties
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := auth.FromContext(r.Context())

	var req model.NewPropertyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	property, err := h.svc.Create(r.Context(), session.UserID, req)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Message)
			return
		}
		h.logger.WithError(err).Error("create property")
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"property": property})
}

// Get handles GET /properties/{id}
func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := auth.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	property, err := h.svc.Get(r.Context(), session.UserID, id)
	if err != nil {
		h.respondError(w, err, "get property")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"property": property})
}

// Update handles PUT /properties/{id}
// Accepts a partial property; absent fields are left unchanged.
func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	session := auth.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req model.UpdatePropertyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	property, err := h.svc.Update(r.Context(), session.UserID, id, req)
	if err != nil {
		h.respondError(w, err, "update property")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"property": property})
}

// Delete handles DELETE /properties/{id}
// Calendar entries cascade with the property.
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session := auth.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), session.UserID, id); err != nil {
		h.respondError(w, err, "delete property")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *PropertyHandler) respondError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Property not found")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "Forbidden")
	default:
		h.logger.WithError(err).Error(op)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
