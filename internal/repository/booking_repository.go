// Package repository provides the storage adapters behind the
// booking.Store contract.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aegean-stays/service-bookings/internal/domain"
	"github.com/aegean-stays/service-bookings/internal/domain/booking"
	"gorm.io/gorm"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID          int64        `gorm:"primaryKey;autoIncrement:false"`
	Apartment   string       `gorm:"not null;size:2;index"`
	CheckIn     booking.Date `gorm:"column:check_in;type:date;not null"`
	CheckOut    booking.Date `gorm:"column:check_out;type:date;not null"`
	Adults      int          `gorm:"not null;default:0"`
	Kids        int          `gorm:"not null;default:0"`
	BookingName string       `gorm:"size:200"`
	CreatedAt   time.Time    `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingStore is the PostgreSQL implementation of booking.Store.
type GormBookingStore struct {
	db *gorm.DB
}

// NewGormBookingStore creates a new GormBookingStore.
func NewGormBookingStore(db *gorm.DB) *GormBookingStore {
	return &GormBookingStore{db: db}
}

// GetAll returns the full booking set. An empty table reads as an empty
// list.
func (s *GormBookingStore) GetAll(ctx context.Context) ([]*booking.Booking, error) {
	var models []BookingModel
	if err := s.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, domain.NewStorageError("failed to load bookings", err)
	}

	bookings := make([]*booking.Booking, len(models))
	for i, m := range models {
		b, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = b
	}
	return bookings, nil
}

// Append persists a new booking.
func (s *GormBookingStore) Append(ctx context.Context, b *booking.Booking) error {
	if err := s.db.WithContext(ctx).Create(toBookingModel(b)).Error; err != nil {
		return domain.NewStorageError("failed to save booking", err)
	}
	return nil
}

// DeleteByID removes the booking with the given id.
func (s *GormBookingStore) DeleteByID(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&BookingModel{}, id)
	if result.Error != nil {
		return domain.NewStorageError("failed to delete booking", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("booking", strconv.FormatInt(id, 10))
	}
	return nil
}

// ReplaceByID removes the booking with oldID and inserts the replacement in
// one transaction, so a concurrent reader never observes the half-applied
// edit.
func (s *GormBookingStore) ReplaceByID(ctx context.Context, oldID int64, replacement *booking.Booking) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&BookingModel{}, oldID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(toBookingModel(replacement)).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewNotFoundError("booking", strconv.FormatInt(oldID, 10))
		}
		return domain.NewStorageError("failed to replace booking", err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *GormBookingStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

var _ booking.Store = (*GormBookingStore)(nil)

// --- Conversion helpers ---

func toBookingModel(b *booking.Booking) *BookingModel {
	return &BookingModel{
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

func toDomainBooking(m *BookingModel) (*booking.Booking, error) {
	apartment, err := booking.ParseApartment(m.Apartment)
	if err != nil {
		return nil, fmt.Errorf("corrupt booking row %d: %w", m.ID, err)
	}
	return booking.Reconstruct(m.ID, apartment, m.CheckIn, m.CheckOut, m.Adults, m.Kids, m.BookingName, m.CreatedAt), nil
}
