package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/hostboard/hostboard/internal/model"
	"github.com/hostboard/hostboard/internal/repository"
)

// CalendarService implements calendar reads and the bulk mutator. Bulk
// updates are deliberately per-date and non-transactional: a partial failure
// leaves some dates updated and reports the rest, and the caller reconciles
// from the full result.
type CalendarService struct {
	calendar   CalendarStore
	properties PropertyStore
	validate   *validator.Validate
}

// NewCalendarService constructs a CalendarService.
func NewCalendarService(calendar CalendarStore, properties PropertyStore) *CalendarService {
	return &CalendarService{
		calendar:   calendar,
		properties: properties,
		validate:   validator.New(),
	}
}

// Range returns a property's calendar entries after an ownership check.
// Start and end are optional inclusive yyyy-MM-dd bounds.
func (s *CalendarService) Range(ctx context.Context, callerID, propertyID, start, end string) ([]model.CalendarEntry, error) {
	if propertyID == "" {
		return nil, invalid("Property ID is required")
	}
	for _, bound := range []string{start, end} {
		if bound == "" {
			continue
		}
		if _, err := ParseDate(bound); err != nil {
			return nil, invalid("Invalid date format")
		}
	}

	if err := s.authorize(ctx, callerID, propertyID); err != nil {
		return nil, err
	}
	return s.calendar.Range(ctx, propertyID, start, end)
}

// ApplyBulkUpdate applies one status/price/minimum-stay change across a list
// of dates. Ownership is checked once before the loop. Each date is handled
// independently: dates holding an active booking are skipped with a per-date
// error, everything else is upserted. Duplicate input dates are idempotent,
// last write wins.
func (s *CalendarService) ApplyBulkUpdate(ctx context.Context, callerID string, req model.BulkCalendarUpdate) (*model.BulkUpdateResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, invalid("Missing required fields: property_id, dates, status")
	}

	if err := s.authorize(ctx, callerID, req.PropertyID); err != nil {
		return nil, err
	}

	result := &model.BulkUpdateResult{Updated: []model.CalendarEntry{}}
	for _, date := range req.Dates {
		if _, err := ParseDate(date); err != nil {
			result.Errors = append(result.Errors, model.DateError{
				Date: date, Error: "Invalid date format",
			})
			continue
		}

		existing, err := s.calendar.Get(ctx, req.PropertyID, date)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			result.Errors = append(result.Errors, model.DateError{
				Date: date, Error: "Failed to read calendar entry",
			})
			continue
		}
		if existing != nil && existing.Status == model.StatusBooked && existing.BookingID != nil {
			result.Errors = append(result.Errors, model.DateError{
				Date: date, Error: "Cannot modify date with an active booking",
			})
			continue
		}

		entry, err := s.calendar.Upsert(ctx, model.CalendarEntry{
			PropertyID:  req.PropertyID,
			Date:        date,
			Status:      req.Status,
			Price:       req.Price,
			MinimumStay: req.MinimumStay,
		})
		if err != nil {
			result.Errors = append(result.Errors, model.DateError{
				Date: date, Error: "Failed to update calendar entry",
			})
			continue
		}
		result.Updated = append(result.Updated, *entry)
	}
	return result, nil
}

func (s *CalendarService) authorize(ctx context.Context, callerID, propertyID string) error {
	ownerID, err := s.properties.OwnerID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("authorize property: %w", err)
	}
	if ownerID != callerID {
		return ErrForbidden
	}
	return nil
}
