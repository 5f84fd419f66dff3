package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"github.com/hostboard/hostboard/internal/model"
)

// BookingRepository handles persistence for bookings.
type BookingRepository struct {
	db     *pgxpool.Pool
	tracer trace.Tracer
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *pgxpool.Pool, tracer trace.Tracer) *BookingRepository {
	return &BookingRepository{db: db, tracer: tracer}
}

const bookingColumns = `id, property_id, guest_name, guest_email,
	check_in::text, check_out::text, adults, children, total_price, status,
	stripe_session_id, created_at, updated_at`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.PropertyID, &b.GuestName, &b.GuestEmail,
		&b.CheckIn, &b.CheckOut, &b.Adults, &b.Children, &b.TotalPrice,
		&b.Status, &b.StripeSessionID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan booking: %w", err)
	}
	return &b, nil
}

// Create inserts a pending booking and claims every date in its range inside
// a single transaction.
//
// Each date is claimed with a conditional upsert: insert a booked row, or
// flip an existing row to booked only while it still reads available. A claim
// that affects zero rows means another writer got there first; the whole
// transaction rolls back and ErrDateConflict is returned. Combined with the
// UNIQUE (property_id, date) constraint this closes the check-then-act race
// between the availability pre-check and the insert.
func (r *BookingRepository) Create(ctx context.Context, req model.NewBookingRequest, dates []string) (*model.Booking, error) {
	ctx, span := r.tracer.Start(ctx, "BookingRepository.Create")
	defer span.End()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	now := time.Now().UTC()
	b := &model.Booking{
		ID:         uuid.New().String(),
		PropertyID: req.PropertyID,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Adults:     req.Adults,
		Children:   req.Children,
		TotalPrice: req.TotalPrice,
		Status:     model.BookingPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO bookings (id, property_id, guest_name, guest_email,
		   check_in, check_out, adults, children, total_price, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		b.ID, b.PropertyID, b.GuestName, b.GuestEmail, b.CheckIn, b.CheckOut,
		b.Adults, b.Children, b.TotalPrice, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	for _, date := range dates {
		tag, execErr := tx.Exec(ctx,
			`INSERT INTO calendar (id, property_id, date, status, booking_id, created_at, updated_at)
			 VALUES ($1, $2, $3, 'booked', $4, $5, $5)
			 ON CONFLICT (property_id, date) DO UPDATE
			   SET status = 'booked', booking_id = $4, updated_at = $5
			   WHERE calendar.status = 'available'`,
			uuid.New().String(), b.PropertyID, date, b.ID, now,
		)
		if execErr != nil {
			err = fmt.Errorf("claim date %s: %w", date, execErr)
			return nil, err
		}
		if tag.RowsAffected() == 0 {
			err = fmt.Errorf("claim date %s: %w", date, ErrDateConflict)
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return b, nil
}

// GetByID returns a single booking or ErrNotFound.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, span := r.tracer.Start(ctx, "BookingRepository.GetByID")
	defer span.End()

	return scanBooking(r.db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
}

// ListByProperty returns a property's bookings ordered by check-in ascending.
func (r *BookingRepository) ListByProperty(ctx context.Context, propertyID string) ([]model.Booking, error) {
	ctx, span := r.tracer.Start(ctx, "BookingRepository.ListByProperty")
	defer span.End()

	return r.list(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE property_id = $1
		 ORDER BY check_in ASC`,
		propertyID)
}

// ListByOwner returns the bookings for every property owned by ownerID,
// ordered by check-in ascending.
func (r *BookingRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Booking, error) {
	ctx, span := r.tracer.Start(ctx, "BookingRepository.ListByOwner")
	defer span.End()

	return r.list(ctx,
		`SELECT b.id, b.property_id, b.guest_name, b.guest_email,
		   b.check_in::text, b.check_out::text, b.adults, b.children,
		   b.total_price, b.status, b.stripe_session_id, b.created_at, b.updated_at
		 FROM bookings b
		 JOIN properties p ON p.id = b.property_id
		 WHERE p.owner_id = $1
		 ORDER BY b.check_in ASC`,
		ownerID)
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// UpdateStatus sets a booking's status and returns the updated booking, or
// ErrNotFound when no such booking exists.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Booking, error) {
	ctx, span := r.tracer.Start(ctx, "BookingRepository.UpdateStatus")
	defer span.End()

	return scanBooking(r.db.QueryRow(ctx,
		`UPDATE bookings SET status = $2, updated_at = $3
		 WHERE id = $1
		 RETURNING `+bookingColumns,
		id, status, time.Now().UTC()))
}
