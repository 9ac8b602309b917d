package application

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aegean-stays/service-bookings/internal/domain"
	"github.com/aegean-stays/service-bookings/internal/domain/booking"
	"github.com/aegean-stays/service-bookings/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore is an in-memory booking.Store for unit tests.
type fakeStore struct {
	mu       sync.Mutex
	bookings []*booking.Booking

	getAllErr error
	appendErr error
}

func (f *fakeStore) GetAll(ctx context.Context) ([]*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getAllErr != nil {
		return nil, f.getAllErr
	}
	out := make([]*booking.Booking, len(f.bookings))
	copy(out, f.bookings)
	return out, nil
}

func (f *fakeStore) Append(ctx context.Context, b *booking.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.bookings = append(f.bookings, b)
	return nil
}

func (f *fakeStore) DeleteByID(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, b := range f.bookings {
		if b.ID() == id {
			f.bookings = append(f.bookings[:i], f.bookings[i+1:]...)
			return nil
		}
	}
	return domain.NewNotFoundError("booking", strconv.FormatInt(id, 10))
}

func (f *fakeStore) ReplaceByID(ctx context.Context, oldID int64, replacement *booking.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, b := range f.bookings {
		if b.ID() == oldID {
			f.bookings = append(f.bookings[:i], f.bookings[i+1:]...)
			f.bookings = append(f.bookings, replacement)
			return nil
		}
	}
	return domain.NewNotFoundError("booking", strconv.FormatInt(oldID, 10))
}

func mustDate(t *testing.T, value string) booking.Date {
	t.Helper()
	d, err := booking.ParseDate(value)
	require.NoError(t, err)
	return d
}

func seedBooking(t *testing.T, store *fakeStore, apartment, checkIn, checkOut string) *booking.Booking {
	t.Helper()
	b, err := booking.NewBooking(
		booking.Apartment(apartment),
		mustDate(t, checkIn), mustDate(t, checkOut),
		2, 0, "",
	)
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), b))
	return b
}

func newTestService(store *fakeStore) *BookingService {
	return NewBookingService(store, nil, "", zap.NewNop())
}

func validRequest(t *testing.T, apartment, checkIn, checkOut string) BookingRequest {
	t.Helper()
	return BookingRequest{
		Apartment: apartment,
		CheckIn:   mustDate(t, checkIn),
		CheckOut:  mustDate(t, checkOut),
		Adults:    2,
		Kids:      1,
	}
}

func TestCreateBooking_NoConflict(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	created, conflicts, err := svc.CreateBooking(context.Background(), validRequest(t, "1", "2026-06-10", "2026-06-15"))
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Empty(t, conflicts)
	assert.Equal(t, "1", created.Apartment)
	assert.NotZero(t, created.ID)

	all, err := svc.ListBookings(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateBooking_ConflictWithoutConfirmation(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	existing := seedBooking(t, store, "1", "2026-06-10", "2026-06-15")

	// Overlapping range on the same apartment, no confirmation flag
	created, conflicts, err := svc.CreateBooking(context.Background(), validRequest(t, "1", "2026-06-12", "2026-06-18"))
	require.NoError(t, err)
	assert.Nil(t, created)
	require.Len(t, conflicts, 1)
	assert.Equal(t, existing.ID(), conflicts[0].ID)

	// Nothing was written
	all, err := svc.ListBookings(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateBooking_ConflictConfirmed(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	seedBooking(t, store, "1", "2026-06-10", "2026-06-15")

	req := validRequest(t, "1", "2026-06-12", "2026-06-18")
	req.ConfirmOverlap = true

	created, conflicts, err := svc.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Len(t, conflicts, 1)

	all, err := svc.ListBookings(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateBooking_BackToBackIsNotConflict(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	seedBooking(t, store, "1", "2026-06-10", "2026-06-15")

	// Check-in on the previous booking's checkout day
	created, conflicts, err := svc.CreateBooking(context.Background(), validRequest(t, "1", "2026-06-15", "2026-06-20"))
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Empty(t, conflicts)
}

func TestCreateBooking_OtherApartmentDoesNotConflict(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	seedBooking(t, store, "1", "2026-06-10", "2026-06-15")

	created, conflicts, err := svc.CreateBooking(context.Background(), validRequest(t, "2", "2026-06-10", "2026-06-15"))
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Empty(t, conflicts)
}

func TestCreateBooking_ValidationFailure(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	// checkOut before checkIn
	_, _, err := svc.CreateBooking(context.Background(), validRequest(t, "1", "2026-06-15", "2026-06-10"))
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	all, err := svc.ListBookings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdateBooking_AssignsNewID(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	existing := seedBooking(t, store, "1", "2026-06-10", "2026-06-15")

	updated, conflicts, err := svc.UpdateBooking(context.Background(), existing.ID(), validRequest(t, "1", "2026-06-11", "2026-06-16"))
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Empty(t, conflicts)
	assert.NotEqual(t, existing.ID(), updated.ID)

	all, err := svc.ListBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, updated.ID, all[0].ID)
	assert.Equal(t, mustDate(t, "2026-06-11"), all[0].CheckIn)
}

func TestUpdateBooking_DoesNotConflictWithItself(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	existing := seedBooking(t, store, "1", "2026-06-10", "2026-06-15")

	// Same dates as before; the pre-edit record must be excluded
	updated, conflicts, err := svc.UpdateBooking(context.Background(), existing.ID(), validRequest(t, "1", "2026-06-10", "2026-06-15"))
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Empty(t, conflicts)
}

func TestUpdateBooking_ConflictWithoutConfirmation(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	target := seedBooking(t, store, "1", "2026-06-01", "2026-06-05")
	other := seedBooking(t, store, "1", "2026-06-10", "2026-06-15")

	updated, conflicts, err := svc.UpdateBooking(context.Background(), target.ID(), validRequest(t, "1", "2026-06-12", "2026-06-18"))
	require.NoError(t, err)
	assert.Nil(t, updated)
	require.Len(t, conflicts, 1)
	assert.Equal(t, other.ID(), conflicts[0].ID)

	// The original record survives unchanged
	all, err := svc.ListBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, target.ID(), all[0].ID)
}

func TestUpdateBooking_NotFound(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	_, _, err := svc.UpdateBooking(context.Background(), 12345, validRequest(t, "1", "2026-06-10", "2026-06-15"))
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestDeleteBooking(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	existing := seedBooking(t, store, "2", "2026-07-01", "2026-07-08")

	id, err := svc.DeleteBooking(context.Background(), existing.ID())
	require.NoError(t, err)
	assert.Equal(t, existing.ID(), id)

	all, err := svc.ListBookings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDeleteBooking_NotFound(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	_, err := svc.DeleteBooking(context.Background(), 99999)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestListApartmentBookings(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	late := seedBooking(t, store, "1", "2026-08-20", "2026-08-25")
	early := seedBooking(t, store, "1", "2026-08-01", "2026-08-05")
	seedBooking(t, store, "2", "2026-08-01", "2026-08-05")

	got, err := svc.ListApartmentBookings(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, early.ID(), got[0].ID)
	assert.Equal(t, late.ID(), got[1].ID)
}

func TestListApartmentBookings_InvalidApartment(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	_, err := svc.ListApartmentBookings(context.Background(), "3")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	types  []string
}

func (p *recordingPublisher) PublishEvent(ctx context.Context, topic, key string, event *kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.types = append(p.types, event.Type)
	return nil
}

func TestBookingLifecycle_PublishesEvents(t *testing.T) {
	store := &fakeStore{}
	publisher := &recordingPublisher{}
	svc := NewBookingService(store, publisher, "booking.events", zap.NewNop())

	created, _, err := svc.CreateBooking(context.Background(), validRequest(t, "1", "2026-06-10", "2026-06-15"))
	require.NoError(t, err)

	updated, _, err := svc.UpdateBooking(context.Background(), created.ID, validRequest(t, "1", "2026-06-11", "2026-06-16"))
	require.NoError(t, err)

	_, err = svc.DeleteBooking(context.Background(), updated.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{kafka.BookingCreated, kafka.BookingUpdated, kafka.BookingDeleted}, publisher.types)
	for _, topic := range publisher.topics {
		assert.Equal(t, "booking.events", topic)
	}
}

func TestCreateBooking_SetsCreatedAt(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	before := time.Now().Add(-time.Second)
	created, _, err := svc.CreateBooking(context.Background(), validRequest(t, "1", "2026-06-10", "2026-06-15"))
	require.NoError(t, err)
	assert.True(t, created.CreatedAt.After(before))
}
