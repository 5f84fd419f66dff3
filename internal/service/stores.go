package service

import (
	"context"

	"github.com/hostboard/hostboard/internal/model"
)

// Store interfaces declared by the consuming side; the repository package
// satisfies them over Postgres, tests satisfy them in memory.

// PropertyStore persists properties.
type PropertyStore interface {
	Create(ctx context.Context, ownerID string, req model.NewPropertyRequest) (*model.Property, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Property, error)
	GetByID(ctx context.Context, id string) (*model.Property, error)
	OwnerID(ctx context.Context, id string) (string, error)
	Update(ctx context.Context, id string, req model.UpdatePropertyRequest) (*model.Property, error)
	Delete(ctx context.Context, id string) error
}

// BookingStore persists bookings. Create also claims the booking's calendar
// dates and fails with repository.ErrDateConflict when any date is taken.
type BookingStore interface {
	Create(ctx context.Context, req model.NewBookingRequest, dates []string) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListByProperty(ctx context.Context, propertyID string) ([]model.Booking, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Booking, error)
	UpdateStatus(ctx context.Context, id, status string) (*model.Booking, error)
}

// CalendarStore persists per-date calendar entries.
type CalendarStore interface {
	Range(ctx context.Context, propertyID, start, end string) ([]model.CalendarEntry, error)
	Get(ctx context.Context, propertyID, date string) (*model.CalendarEntry, error)
	Upsert(ctx context.Context, e model.CalendarEntry) (*model.CalendarEntry, error)
	Unavailable(ctx context.Context, propertyID string, dates []string) ([]string, error)
}
