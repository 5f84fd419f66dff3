package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hostboard/hostboard/internal/model"
	"github.com/hostboard/hostboard/internal/repository"
)

// memStore is an in-memory stand-in for the Postgres repositories. It
// implements PropertyStore, BookingStore, and CalendarStore with the same
// sentinel-error and upsert semantics.
type memStore struct {
	properties map[string]*model.Property
	bookings   map[string]*model.Booking
	calendar   map[string]*model.CalendarEntry // key: propertyID|date
}

func newMemStore() *memStore {
	return &memStore{
		properties: map[string]*model.Property{},
		bookings:   map[string]*model.Booking{},
		calendar:   map[string]*model.CalendarEntry{},
	}
}

func calKey(propertyID, date string) string {
	return propertyID + "|" + date
}

func (m *memStore) addProperty(id, ownerID string) *model.Property {
	p := &model.Property{
		ID:        id,
		OwnerID:   ownerID,
		Name:      "Test Property",
		Location:  "Lisbon",
		BasePrice: 100,
		MaxGuests: 2,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	m.properties[id] = p
	return p
}

func (m *memStore) setCalendar(propertyID, date, status string, bookingID *string) {
	m.calendar[calKey(propertyID, date)] = &model.CalendarEntry{
		ID:         uuid.New().String(),
		PropertyID: propertyID,
		Date:       date,
		Status:     status,
		BookingID:  bookingID,
	}
}

// ─── PropertyStore ────────────────────────────────────────────────────────────

func (m *memStore) Create(ctx context.Context, ownerID string, req model.NewPropertyRequest) (*model.Property, error) {
	p := &model.Property{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		BasePrice:   req.BasePrice,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		MaxGuests:   req.MaxGuests,
		Amenities:   req.Amenities,
		Images:      req.Images,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	m.properties[p.ID] = p
	return p, nil
}

func (m *memStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Property, error) {
	var out []model.Property
	for _, p := range m.properties {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memStore) GetByID(ctx context.Context, id string) (*model.Property, error) {
	p, ok := m.properties[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) OwnerID(ctx context.Context, id string) (string, error) {
	p, ok := m.properties[id]
	if !ok {
		return "", repository.ErrNotFound
	}
	return p.OwnerID, nil
}

func (m *memStore) Update(ctx context.Context, id string, req model.UpdatePropertyRequest) (*model.Property, error) {
	p, ok := m.properties[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Location != nil {
		p.Location = *req.Location
	}
	if req.BasePrice != nil {
		p.BasePrice = *req.BasePrice
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.properties[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.properties, id)
	for key, e := range m.calendar {
		if e.PropertyID == id {
			delete(m.calendar, key)
		}
	}
	return nil
}

// ─── BookingStore ─────────────────────────────────────────────────────────────

func (m *memStore) CreateBooking(ctx context.Context, req model.NewBookingRequest, dates []string) (*model.Booking, error) {
	for _, date := range dates {
		if e, ok := m.calendar[calKey(req.PropertyID, date)]; ok && e.Status != model.StatusAvailable {
			return nil, fmt.Errorf("claim date %s: %w", date, repository.ErrDateConflict)
		}
	}
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
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	m.bookings[b.ID] = b
	for _, date := range dates {
		m.setCalendar(req.PropertyID, date, model.StatusBooked, &b.ID)
	}
	return b, nil
}

func (m *memStore) GetBookingByID(ctx context.Context, id string) (*model.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) ListByProperty(ctx context.Context, propertyID string) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range m.bookings {
		if b.PropertyID == propertyID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn < out[j].CheckIn })
	return out, nil
}

func (m *memStore) ListBookingsByOwner(ctx context.Context, ownerID string) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range m.bookings {
		if p, ok := m.properties[b.PropertyID]; ok && p.OwnerID == ownerID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn < out[j].CheckIn })
	return out, nil
}

func (m *memStore) UpdateStatus(ctx context.Context, id, status string) (*model.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	return &cp, nil
}

// ─── CalendarStore ────────────────────────────────────────────────────────────

func (m *memStore) Range(ctx context.Context, propertyID, start, end string) ([]model.CalendarEntry, error) {
	var out []model.CalendarEntry
	for _, e := range m.calendar {
		if e.PropertyID != propertyID {
			continue
		}
		if start != "" && e.Date < start {
			continue
		}
		if end != "" && e.Date > end {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *memStore) Get(ctx context.Context, propertyID, date string) (*model.CalendarEntry, error) {
	e, ok := m.calendar[calKey(propertyID, date)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memStore) Upsert(ctx context.Context, e model.CalendarEntry) (*model.CalendarEntry, error) {
	key := calKey(e.PropertyID, e.Date)
	stored, ok := m.calendar[key]
	if !ok {
		e.ID = uuid.New().String()
		m.calendar[key] = &e
	} else {
		stored.Status = e.Status
		stored.Price = e.Price
		stored.MinimumStay = e.MinimumStay
		stored.BookingID = e.BookingID
	}
	cp := *m.calendar[key]
	return &cp, nil
}

func (m *memStore) Unavailable(ctx context.Context, propertyID string, dates []string) ([]string, error) {
	var out []string
	for _, date := range dates {
		if e, ok := m.calendar[calKey(propertyID, date)]; ok && e.Status != model.StatusAvailable {
			out = append(out, date)
		}
	}
	sort.Strings(out)
	return out, nil
}

// bookingStoreAdapter maps the memStore's booking methods onto the
// BookingStore interface (whose method names collide with PropertyStore's).
type bookingStoreAdapter struct {
	*memStore
}

func (a bookingStoreAdapter) Create(ctx context.Context, req model.NewBookingRequest, dates []string) (*model.Booking, error) {
	return a.CreateBooking(ctx, req, dates)
}

func (a bookingStoreAdapter) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return a.GetBookingByID(ctx, id)
}

func (a bookingStoreAdapter) ListByOwner(ctx context.Context, ownerID string) ([]model.Booking, error) {
	return a.ListBookingsByOwner(ctx, ownerID)
}
