package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/aegean-stays/service-bookings/internal/config"
	"github.com/aegean-stays/service-bookings/internal/domain"
	"github.com/aegean-stays/service-bookings/internal/domain/booking"
	"github.com/redis/go-redis/v9"
)

// bookingsKey holds the whole booking list as one JSON value, the layout
// the first deployment of this tracker used.
const bookingsKey = "apartment-bookings"

const maxTxRetries = 5

var errTxUnresolved = errors.New("redis transaction conflicted too often")

// bookingRecord is the stored JSON shape; field names are the stable
// boundary contract.
type bookingRecord struct {
	ID          int64        `json:"id"`
	Apartment   string       `json:"apartment"`
	CheckIn     booking.Date `json:"checkIn"`
	CheckOut    booking.Date `json:"checkOut"`
	Adults      int          `json:"adults"`
	Kids        int          `json:"kids"`
	BookingName string       `json:"bookingName,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// RedisBookingStore keeps the shared booking list in a single Redis key.
// Read-modify-write cycles run under WATCH so two concurrent writers cannot
// silently drop each other's bookings.
type RedisBookingStore struct {
	client *redis.Client
}

// NewRedisBookingStore creates a store on the given Redis instance.
func NewRedisBookingStore(cfg config.RedisConfig) *RedisBookingStore {
	return &RedisBookingStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// GetAll returns the full booking set; a missing key reads as empty.
func (s *RedisBookingStore) GetAll(ctx context.Context) ([]*booking.Booking, error) {
	data, err := s.client.Get(ctx, bookingsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, domain.NewStorageError("failed to load bookings", err)
	}
	return decodeList(data)
}

// Append persists a new booking at the end of the list.
func (s *RedisBookingStore) Append(ctx context.Context, b *booking.Booking) error {
	return s.update(ctx, func(records []bookingRecord) ([]bookingRecord, error) {
		return append(records, toRecord(b)), nil
	})
}

// DeleteByID removes the booking with the given id.
func (s *RedisBookingStore) DeleteByID(ctx context.Context, id int64) error {
	return s.update(ctx, func(records []bookingRecord) ([]bookingRecord, error) {
		next, removed := removeID(records, id)
		if !removed {
			return nil, domain.NewNotFoundError("booking", strconv.FormatInt(id, 10))
		}
		return next, nil
	})
}

// ReplaceByID removes oldID and appends the replacement in one write, so
// no reader ever sees the list without either record.
func (s *RedisBookingStore) ReplaceByID(ctx context.Context, oldID int64, replacement *booking.Booking) error {
	return s.update(ctx, func(records []bookingRecord) ([]bookingRecord, error) {
		next, removed := removeID(records, oldID)
		if !removed {
			return nil, domain.NewNotFoundError("booking", strconv.FormatInt(oldID, 10))
		}
		return append(next, toRecord(replacement)), nil
	})
}

// Ping reports whether Redis is reachable.
func (s *RedisBookingStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the Redis connection pool.
func (s *RedisBookingStore) Close() error {
	return s.client.Close()
}

var _ booking.Store = (*RedisBookingStore)(nil)

// update runs one optimistic read-modify-write cycle over the list key.
func (s *RedisBookingStore) update(ctx context.Context, mutate func([]bookingRecord) ([]bookingRecord, error)) error {
	txn := func(tx *redis.Tx) error {
		var records []bookingRecord
		data, err := tx.Get(ctx, bookingsKey).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &records); err != nil {
				return err
			}
		}

		next, err := mutate(records)
		if err != nil {
			return err
		}
		if next == nil {
			next = []bookingRecord{}
		}
		payload, err := json.Marshal(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, bookingsKey, payload, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txn, bookingsKey)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return domain.NewStorageError("failed to update bookings", err)
	}
	return domain.NewStorageError("failed to update bookings", errTxUnresolved)
}

func removeID(records []bookingRecord, id int64) ([]bookingRecord, bool) {
	next := make([]bookingRecord, 0, len(records))
	removed := false
	for _, r := range records {
		if r.ID == id {
			removed = true
			continue
		}
		next = append(next, r)
	}
	return next, removed
}

func decodeList(data []byte) ([]*booking.Booking, error) {
	var records []bookingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, domain.NewStorageError("failed to decode bookings", err)
	}

	bookings := make([]*booking.Booking, 0, len(records))
	for _, r := range records {
		apartment, err := booking.ParseApartment(r.Apartment)
		if err != nil {
			return nil, domain.NewStorageError("corrupt booking record", err)
		}
		bookings = append(bookings, booking.Reconstruct(
			r.ID, apartment, r.CheckIn, r.CheckOut, r.Adults, r.Kids, r.BookingName, r.CreatedAt,
		))
	}
	return bookings, nil
}

func toRecord(b *booking.Booking) bookingRecord {
	return bookingRecord{
		ID:          b.ID(),
		Apartment:   b.Apartment().String(),
		CheckIn:     b.CheckIn(),
		CheckOut:    b.CheckOut(),
		Adults:      b.Adults(),
		Kids:        b.Kids(),
		BookingName: b.BookingName(),
		CreatedAt:   b.CreatedAt(),
	}
}
