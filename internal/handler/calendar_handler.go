package handler

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/hostboard/hostboard/internal/auth"
	"github.com/hostboard/hostboard/internal/model"
	"github.com/hostboard/hostboard/internal/repository"
	"github.com/hostboard/hostboard/internal/service"
)

// CalendarHandler holds the HTTP handlers for calendar reads and bulk
// updates.
type CalendarHandler struct {
	svc    *service.CalendarService
	logger *logrus.Logger
}

// NewCalendarHandler constructs a CalendarHandler.
func NewCalendarHandler(svc *service.CalendarService, logger *logrus.Logger) *CalendarHandler {
	return &CalendarHandler{svc: svc, logger: logger}
}

// Get handles GET /calendar?property=id&start=YYYY-MM-DD&end=YYYY-MM-DD
// Start and end are optional inclusive bounds.
func (h *CalendarHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := auth.FromContext(r.Context())
	q := r.URL.Query()

	entries, err := h.svc.Range(r.Context(), session.UserID,
		q.Get("property"), q.Get("start"), q.Get("end"))
	if err != nil {
		h.respondError(w, err, "get calendar")
		return
	}
	if entries == nil {
		entries = []model.CalendarEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"calendar": entries})
}

// BulkUpdate handles POST /calendar/block
// Applies one status/price change across a list of dates; dates holding an
// active booking come back as per-date errors alongside the successful
// updates.
func (h *CalendarHandler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	session := auth.FromContext(r.Context())

	var req model.BulkCalendarUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.svc.ApplyBulkUpdate(r.Context(), session.UserID, req)
	if err != nil {
		h.respondError(w, err, "bulk calendar update")
		return
	}

	resp := map[string]any{
		"success": true,
		"updated": result.Updated,
	}
	if len(result.Errors) > 0 {
		resp["errors"] = result.Errors
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CalendarHandler) respondError(w http.ResponseWriter, err error, op string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Property not found")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "Forbidden")
	default:
		h.logger.WithError(err).Error(op)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
