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

// BookingHandler holds the HTTP handlers for the booking lifecycle.
type BookingHandler struct {
	svc    *service.BookingService
	logger *logrus.Logger
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc *service.BookingService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, logger: logger}
}

// Create handles POST /bookings
// Guest-facing: no session required. Responds 409 with the conflicting dates
// when any night in the range is unavailable.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.NewBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	booking, err := h.svc.Create(r.Context(), req)
	if err != nil {
		var ve *service.ValidationError
		var ce *service.ConflictError
		switch {
		case errors.As(err, &ve):
			writeError(w, http.StatusBadRequest, ve.Message)
		case errors.As(err, &ce):
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":            "Some dates are not available",
				"unavailableDates": ce.Dates,
			})
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "Property not found")
		default:
			h.logger.WithError(err).Error("create booking")
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"booking": booking})
}

// List handles GET /bookings?property=id
// Without the property parameter it returns bookings across all of the
// caller's properties; with it, ownership of that property is enforced.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	session := auth.FromContext(r.Context())
	propertyID := r.URL.Query().Get("property")

	bookings, err := h.svc.List(r.Context(), session.UserID, propertyID)
	if err != nil {
		h.respondError(w, err, "list bookings", "Property not found")
		return
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

// Get handles GET /bookings/{id}
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := auth.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	booking, err := h.svc.Get(r.Context(), session.UserID, id)
	if err != nil {
		h.respondError(w, err, "get booking", "Booking not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"booking": booking})
}

// UpdateStatus handles PUT /bookings/{id}
// On a transition to canceled the booking's calendar dates are released back
// to available.
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	session := auth.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req model.UpdateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	booking, err := h.svc.UpdateStatus(r.Context(), session.UserID, id, req.Status)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Message)
			return
		}
		h.respondError(w, err, "update booking status", "Booking not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"booking": booking})
}

func (h *BookingHandler) respondError(w http.ResponseWriter, err error, op, notFoundMsg string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "Forbidden")
	default:
		h.logger.WithError(err).Error(op)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
