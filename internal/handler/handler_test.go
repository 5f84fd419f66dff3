package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/cristalhq/jwt/v4"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/hostboard/hostboard/internal/auth"
	"github.com/hostboard/hostboard/internal/model"
	"github.com/hostboard/hostboard/internal/repository"
	"github.com/hostboard/hostboard/internal/service"
)

var testSecret = []byte("handler-test-secret")

// fakeStore is a minimal in-memory implementation of the three store
// interfaces, with the same sentinel and upsert semantics as the repository
// package.
type fakeStore struct {
	properties map[string]*model.Property
	bookings   map[string]*model.Booking
	calendar   map[string]*model.CalendarEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		properties: map[string]*model.Property{},
		bookings:   map[string]*model.Booking{},
		calendar:   map[string]*model.CalendarEntry{},
	}
}

func key(propertyID, date string) string { return propertyID + "|" + date }

func (f *fakeStore) addProperty(id, ownerID string) {
	f.properties[id] = &model.Property{
		ID: id, OwnerID: ownerID, Name: "Test Property", Location: "Porto",
		BasePrice: 90, MaxGuests: 2,
	}
}

func (f *fakeStore) setCalendar(propertyID, date, status string, bookingID *string) {
	f.calendar[key(propertyID, date)] = &model.CalendarEntry{
		ID: uuid.New().String(), PropertyID: propertyID, Date: date,
		Status: status, BookingID: bookingID,
	}
}

func (f *fakeStore) Create(ctx context.Context, ownerID string, req model.NewPropertyRequest) (*model.Property, error) {
	p := &model.Property{
		ID: uuid.New().String(), OwnerID: ownerID, Name: req.Name,
		Description: req.Description, Location: req.Location,
		BasePrice: req.BasePrice, Bedrooms: req.Bedrooms,
		Bathrooms: req.Bathrooms, MaxGuests: req.MaxGuests,
	}
	f.properties[p.ID] = p
	return p, nil
}

func (f *fakeStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Property, error) {
	var out []model.Property
	for _, p := range f.properties {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*model.Property, error) {
	p, ok := f.properties[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) OwnerID(ctx context.Context, id string) (string, error) {
	p, ok := f.properties[id]
	if !ok {
		return "", repository.ErrNotFound
	}
	return p.OwnerID, nil
}

func (f *fakeStore) Update(ctx context.Context, id string, req model.UpdatePropertyRequest) (*model.Property, error) {
	p, ok := f.properties[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.BasePrice != nil {
		p.BasePrice = *req.BasePrice
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.properties[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.properties, id)
	for k, e := range f.calendar {
		if e.PropertyID == id {
			delete(f.calendar, k)
		}
	}
	return nil
}

type fakeBookingStore struct{ *fakeStore }

func (f fakeBookingStore) Create(ctx context.Context, req model.NewBookingRequest, dates []string) (*model.Booking, error) {
	for _, date := range dates {
		if e, ok := f.calendar[key(req.PropertyID, date)]; ok && e.Status != model.StatusAvailable {
			return nil, fmt.Errorf("claim date %s: %w", date, repository.ErrDateConflict)
		}
	}
	b := &model.Booking{
		ID: uuid.New().String(), PropertyID: req.PropertyID,
		GuestName: req.GuestName, GuestEmail: req.GuestEmail,
		CheckIn: req.CheckIn, CheckOut: req.CheckOut,
		Adults: req.Adults, Children: req.Children,
		TotalPrice: req.TotalPrice, Status: model.BookingPending,
	}
	f.bookings[b.ID] = b
	for _, date := range dates {
		f.setCalendar(req.PropertyID, date, model.StatusBooked, &b.ID)
	}
	return b, nil
}

func (f fakeBookingStore) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f fakeBookingStore) ListByProperty(ctx context.Context, propertyID string) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.bookings {
		if b.PropertyID == propertyID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn < out[j].CheckIn })
	return out, nil
}

func (f fakeBookingStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.bookings {
		if p, ok := f.properties[b.PropertyID]; ok && p.OwnerID == ownerID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn < out[j].CheckIn })
	return out, nil
}

func (f fakeBookingStore) UpdateStatus(ctx context.Context, id, status string) (*model.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	b.Status = status
	cp := *b
	return &cp, nil
}

func (f *fakeStore) Range(ctx context.Context, propertyID, start, end string) ([]model.CalendarEntry, error) {
	var out []model.CalendarEntry
	for _, e := range f.calendar {
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

func (f *fakeStore) Get(ctx context.Context, propertyID, date string) (*model.CalendarEntry, error) {
	e, ok := f.calendar[key(propertyID, date)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeStore) Upsert(ctx context.Context, e model.CalendarEntry) (*model.CalendarEntry, error) {
	k := key(e.PropertyID, e.Date)
	if stored, ok := f.calendar[k]; ok {
		stored.Status = e.Status
		stored.Price = e.Price
		stored.MinimumStay = e.MinimumStay
		stored.BookingID = e.BookingID
	} else {
		e.ID = uuid.New().String()
		f.calendar[k] = &e
	}
	cp := *f.calendar[k]
	return &cp, nil
}

func (f *fakeStore) Unavailable(ctx context.Context, propertyID string, dates []string) ([]string, error) {
	var out []string
	for _, date := range dates {
		if e, ok := f.calendar[key(propertyID, date)]; ok && e.Status != model.StatusAvailable {
			out = append(out, date)
		}
	}
	sort.Strings(out)
	return out, nil
}

// testApp wires the real router, middleware, handlers, and services over the
// fake store, mirroring cmd/main.go.
type testApp struct {
	router *chi.Mux
	store  *fakeStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	verifier, err := auth.NewVerifier(testSecret)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := newFakeStore()
	propertySvc := service.NewPropertyService(store)
	bookingSvc := service.NewBookingService(fakeBookingStore{store}, store, store)
	calendarSvc := service.NewCalendarService(store, store)

	propertyHandler := NewPropertyHandler(propertySvc, logger)
	bookingHandler := NewBookingHandler(bookingSvc, logger)
	calendarHandler := NewCalendarHandler(calendarSvc, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(Session(verifier))
	r.Get("/health", HealthCheck)
	r.Route("/properties", func(r chi.Router) {
		r.Use(RequireSession)
		r.Get("/", propertyHandler.List)
		r.Post("/", propertyHandler.Create)
		r.Get("/{id}", propertyHandler.Get)
		r.Put("/{id}", propertyHandler.Update)
		r.Delete("/{id}", propertyHandler.Delete)
	})
	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", bookingHandler.Create)
		r.Group(func(r chi.Router) {
			r.Use(RequireSession)
			r.Get("/", bookingHandler.List)
			r.Get("/{id}", bookingHandler.Get)
			r.Put("/{id}", bookingHandler.UpdateStatus)
		})
	})
	r.Route("/calendar", func(r chi.Router) {
		r.Use(RequireSession)
		r.Get("/", calendarHandler.Get)
		r.Post("/block", calendarHandler.BulkUpdate)
	})

	return &testApp{router: r, store: store}
}

func sessionToken(t *testing.T, userID string) string {
	t.Helper()
	signer, err := jwt.NewSignerHS(jwt.HS256, testSecret)
	require.NoError(t, err)
	token, err := jwt.NewBuilder(signer).Build(&jwt.RegisteredClaims{Subject: userID})
	require.NoError(t, err)
	return token.String()
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	r := httptest.NewRequest(method, path, reader)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, r)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// futureDate returns an ISO date n days from now, so booking-creation tests
// clear the past-check-in rule.
func futureDate(n int) string {
	return time.Now().UTC().AddDate(0, 0, n).Format(model.DateLayout)
}
