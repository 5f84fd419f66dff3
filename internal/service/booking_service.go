package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hostboard/hostboard/internal/model"
	"github.com/hostboard/hostboard/internal/repository"
)

// BookingService implements the booking lifecycle: validated guest-facing
// creation, host-driven status transitions, and calendar release on
// cancellation.
type BookingService struct {
	bookings   BookingStore
	properties PropertyStore
	calendar   CalendarStore
	validate   *validator.Validate
	now        func() time.Time
}

// NewBookingService constructs a BookingService.
func NewBookingService(bookings BookingStore, properties PropertyStore, calendar CalendarStore) *BookingService {
	return &BookingService{
		bookings:   bookings,
		properties: properties,
		calendar:   calendar,
		validate:   validator.New(),
		now:        time.Now,
	}
}

// Create handles a guest booking request: field validation, date validation,
// property existence, availability, then a transactional insert that claims
// the calendar dates. The booking starts in pending status.
func (s *BookingService) Create(ctx context.Context, req model.NewBookingRequest) (*model.Booking, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, invalid("Missing required booking fields")
	}

	checkIn, errIn := ParseDate(req.CheckIn)
	checkOut, errOut := ParseDate(req.CheckOut)
	if errIn != nil || errOut != nil {
		return nil, invalid("Invalid date format")
	}
	if !checkIn.Before(checkOut) {
		return nil, invalid("Check-out date must be after check-in date")
	}
	if checkIn.Before(s.today()) {
		return nil, invalid("Check-in date cannot be in the past")
	}

	if _, err := s.properties.GetByID(ctx, req.PropertyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("lookup property: %w", err)
	}

	dates := DatesInRange(checkIn, checkOut)
	unavailable, err := s.calendar.Unavailable(ctx, req.PropertyID, dates)
	if err != nil {
		return nil, fmt.Errorf("check availability: %w", err)
	}
	if len(unavailable) > 0 {
		return nil, &ConflictError{Dates: unavailable}
	}

	booking, err := s.bookings.Create(ctx, req, dates)
	if err != nil {
		if errors.Is(err, repository.ErrDateConflict) {
			// A concurrent writer claimed a date between the pre-check and
			// the insert. Re-read so the caller gets the conflicting dates.
			unavailable, lookupErr := s.calendar.Unavailable(ctx, req.PropertyID, dates)
			if lookupErr != nil {
				unavailable = nil
			}
			return nil, &ConflictError{Dates: unavailable}
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return booking, nil
}

// Authorize resolves booking ownership transitively through the booking's
// property: repository.ErrNotFound when the booking is absent, ErrForbidden
// when the caller does not own the property. On success it returns the
// booking so callers skip a second lookup.
func (s *BookingService) Authorize(ctx context.Context, callerID, bookingID string) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("authorize booking: %w", err)
	}

	ownerID, err := s.properties.OwnerID(ctx, booking.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("authorize booking: %w", err)
	}
	if ownerID != callerID {
		return nil, ErrForbidden
	}
	return booking, nil
}

// Get returns a booking after the transitive ownership check.
func (s *BookingService) Get(ctx context.Context, callerID, bookingID string) (*model.Booking, error) {
	return s.Authorize(ctx, callerID, bookingID)
}

// List returns bookings ordered by check-in ascending. With a property id it
// authorizes against that property and scopes to it; otherwise it covers all
// of the caller's properties.
func (s *BookingService) List(ctx context.Context, callerID, propertyID string) ([]model.Booking, error) {
	if propertyID != "" {
		ownerID, err := s.properties.OwnerID(ctx, propertyID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, repository.ErrNotFound
			}
			return nil, fmt.Errorf("authorize property: %w", err)
		}
		if ownerID != callerID {
			return nil, ErrForbidden
		}
		return s.bookings.ListByProperty(ctx, propertyID)
	}
	return s.bookings.ListByOwner(ctx, callerID)
}

// UpdateStatus applies a host-driven status transition. Any target outside
// confirmed/canceled/completed is rejected. Transitioning to canceled
// releases every date in the booking's range back to available with the
// booking reference cleared; this is the one path allowed to overwrite
// booked calendar rows.
func (s *BookingService) UpdateStatus(ctx context.Context, callerID, bookingID, status string) (*model.Booking, error) {
	switch status {
	case model.BookingConfirmed, model.BookingCanceled, model.BookingCompleted:
	default:
		return nil, invalid("Invalid status. Must be one of: confirmed, canceled, completed")
	}

	booking, err := s.Authorize(ctx, callerID, bookingID)
	if err != nil {
		return nil, err
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, status)
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	if status == model.BookingCanceled {
		if err := s.releaseDates(ctx, booking); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// releaseDates upserts every date in the booking's original range back to
// available. The loop keeps going past individual failures so one bad date
// does not strand the rest of the range.
func (s *BookingService) releaseDates(ctx context.Context, booking *model.Booking) error {
	checkIn, errIn := ParseDate(booking.CheckIn)
	checkOut, errOut := ParseDate(booking.CheckOut)
	if errIn != nil || errOut != nil {
		return fmt.Errorf("release dates: stored booking %s has malformed range", booking.ID)
	}

	var firstErr error
	for _, date := range DatesInRange(checkIn, checkOut) {
		_, err := s.calendar.Upsert(ctx, model.CalendarEntry{
			PropertyID: booking.PropertyID,
			Date:       date,
			Status:     model.StatusAvailable,
			BookingID:  nil,
		})
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("release date %s: %w", date, err)
		}
	}
	return firstErr
}

// today truncates the clock to the current calendar day; check-in validation
// is a day-level comparison only.
func (s *BookingService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
