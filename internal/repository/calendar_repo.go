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

// CalendarRepository handles persistence for per-date calendar entries.
type CalendarRepository struct {
	db     *pgxpool.Pool
	tracer trace.Tracer
}

// NewCalendarRepository constructs a CalendarRepository.
func NewCalendarRepository(db *pgxpool.Pool, tracer trace.Tracer) *CalendarRepository {
	return &CalendarRepository{db: db, tracer: tracer}
}

const calendarColumns = `id, property_id, date::text, status, price, minimum_stay, booking_id`

func scanCalendarEntry(row pgx.Row) (*model.CalendarEntry, error) {
	var e model.CalendarEntry
	err := row.Scan(&e.ID, &e.PropertyID, &e.Date, &e.Status, &e.Price,
		&e.MinimumStay, &e.BookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan calendar entry: %w", err)
	}
	return &e, nil
}

// Range returns a property's calendar entries ordered by date. Empty start or
// end leaves that side of the range unbounded; bounds are inclusive.
func (r *CalendarRepository) Range(ctx context.Context, propertyID, start, end string) ([]model.CalendarEntry, error) {
	ctx, span := r.tracer.Start(ctx, "CalendarRepository.Range")
	defer span.End()

	rows, err := r.db.Query(ctx,
		`SELECT `+calendarColumns+` FROM calendar
		 WHERE property_id = $1
		   AND ($2 = '' OR date >= $2::date)
		   AND ($3 = '' OR date <= $3::date)
		 ORDER BY date ASC`,
		propertyID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("query calendar: %w", err)
	}
	defer rows.Close()

	var entries []model.CalendarEntry
	for rows.Next() {
		e, err := scanCalendarEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Get returns the entry for one (property, date) pair, or ErrNotFound when no
// row is stored, which callers treat as available.
func (r *CalendarRepository) Get(ctx context.Context, propertyID, date string) (*model.CalendarEntry, error) {
	ctx, span := r.tracer.Start(ctx, "CalendarRepository.Get")
	defer span.End()

	return scanCalendarEntry(r.db.QueryRow(ctx,
		`SELECT `+calendarColumns+` FROM calendar
		 WHERE property_id = $1 AND date = $2::date`,
		propertyID, date))
}

// Upsert writes the entry for one (property, date) pair, overwriting status,
// price, minimum stay, and booking reference. Repeated writes of the same
// entry are idempotent.
func (r *CalendarRepository) Upsert(ctx context.Context, e model.CalendarEntry) (*model.CalendarEntry, error) {
	ctx, span := r.tracer.Start(ctx, "CalendarRepository.Upsert")
	defer span.End()

	now := time.Now().UTC()
	return scanCalendarEntry(r.db.QueryRow(ctx,
		`INSERT INTO calendar (id, property_id, date, status, price, minimum_stay, booking_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		 ON CONFLICT (property_id, date) DO UPDATE
		   SET status = $4, price = $5, minimum_stay = $6, booking_id = $7, updated_at = $8
		 RETURNING `+calendarColumns,
		uuid.New().String(), e.PropertyID, e.Date, e.Status, e.Price,
		e.MinimumStay, e.BookingID, now))
}

// Unavailable returns the subset of dates whose stored status is anything
// other than available. Dates with no stored row are implicitly available and
// never show up in the result.
func (r *CalendarRepository) Unavailable(ctx context.Context, propertyID string, dates []string) ([]string, error) {
	ctx, span := r.tracer.Start(ctx, "CalendarRepository.Unavailable")
	defer span.End()

	rows, err := r.db.Query(ctx,
		`SELECT date::text FROM calendar
		 WHERE property_id = $1
		   AND date = ANY($2::date[])
		   AND status <> 'available'
		 ORDER BY date ASC`,
		propertyID, dates,
	)
	if err != nil {
		return nil, fmt.Errorf("check availability: %w", err)
	}
	defer rows.Close()

	var unavailable []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		unavailable = append(unavailable, date)
	}
	return unavailable, rows.Err()
}
