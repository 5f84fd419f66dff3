// Package model defines the core domain types for the property-management
// dashboard: properties, per-date calendar entries, and guest bookings.
package model

import "time"

// Calendar entry statuses. An absent calendar row counts as available.
const (
	StatusAvailable = "available"
	StatusBlocked   = "blocked"
	StatusBooked    = "booked"
)

// Booking statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCanceled  = "canceled"
	BookingCompleted = "completed"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Property represents a rentable unit owned by a host.
// OwnerID is set at creation time and never changes afterwards.
type Property struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	BasePrice   float64   `json:"base_price"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	MaxGuests   int       `json:"max_guests"`
	Amenities   []string  `json:"amenities"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CalendarEntry is the per-date availability/pricing record for a property.
// If Status is "booked", BookingID references the booking occupying the date.
type CalendarEntry struct {
	ID          string   `json:"id"`
	PropertyID  string   `json:"property_id"`
	Date        string   `json:"date"`
	Status      string   `json:"status"`
	Price       *float64 `json:"price,omitempty"`
	MinimumStay *int     `json:"minimum_stay,omitempty"`
	BookingID   *string  `json:"booking_id,omitempty"`
}

// Booking is a guest reservation request for a property. CheckOut is
// exclusive: a booking for [2024-07-10, 2024-07-12) occupies two nights.
type Booking struct {
	ID              string    `json:"id"`
	PropertyID      string    `json:"property_id"`
	GuestName       string    `json:"guest_name"`
	GuestEmail      string    `json:"guest_email"`
	CheckIn         string    `json:"check_in"`
	CheckOut        string    `json:"check_out"`
	Adults          int       `json:"adults"`
	Children        int       `json:"children"`
	TotalPrice      float64   `json:"total_price"`
	Status          string    `json:"status"`
	StripeSessionID *string   `json:"stripe_session_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewPropertyRequest is the payload for creating a property.
type NewPropertyRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Location    string   `json:"location" validate:"required"`
	BasePrice   float64  `json:"base_price" validate:"required,gt=0"`
	Bedrooms    int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms   int      `json:"bathrooms" validate:"gte=0"`
	MaxGuests   int      `json:"max_guests" validate:"gte=1"`
	Amenities   []string `json:"amenities"`
	Images      []string `json:"images"`
}

// UpdatePropertyRequest is a partial update; nil fields are left unchanged.
// OwnerID is deliberately absent, ownership never transfers.
type UpdatePropertyRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Location    *string  `json:"location"`
	BasePrice   *float64 `json:"base_price"`
	Bedrooms    *int     `json:"bedrooms"`
	Bathrooms   *int     `json:"bathrooms"`
	MaxGuests   *int     `json:"max_guests"`
	Amenities   []string `json:"amenities"`
	Images      []string `json:"images"`
}

// NewBookingRequest is the guest-facing payload for creating a booking.
type NewBookingRequest struct {
	PropertyID string  `json:"property_id" validate:"required"`
	GuestName  string  `json:"guest_name" validate:"required"`
	GuestEmail string  `json:"guest_email" validate:"required,email"`
	CheckIn    string  `json:"check_in" validate:"required"`
	CheckOut   string  `json:"check_out" validate:"required"`
	Adults     int     `json:"adults" validate:"gte=1"`
	Children   int     `json:"children" validate:"gte=0"`
	TotalPrice float64 `json:"total_price" validate:"required,gt=0"`
}

// UpdateBookingRequest carries a host-driven status transition.
type UpdateBookingRequest struct {
	Status string `json:"status"`
}

// BulkCalendarUpdate is the payload for POST /calendar/block: one request,
// applied per date.
type BulkCalendarUpdate struct {
	PropertyID  string   `json:"property_id" validate:"required"`
	Dates       []string `json:"dates" validate:"required,min=1"`
	Status      string   `json:"status" validate:"required,oneof=available blocked"`
	Price       *float64 `json:"price"`
	MinimumStay *int     `json:"minimum_stay"`
}

// DateError records why a single date in a bulk update was skipped.
type DateError struct {
	Date  string `json:"date"`
	Error string `json:"error"`
}

// BulkUpdateResult is the outcome of a bulk calendar update. A partially
// failed batch carries both updated entries and per-date errors.
type BulkUpdateResult struct {
	Updated []CalendarEntry `json:"updated"`
	Errors  []DateError     `json:"errors,omitempty"`
}

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
