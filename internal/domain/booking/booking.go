package booking

import (
	"fmt"
	"time"

	"github.com/aegean-stays/service-bookings/internal/domain"
)

// Booking is the aggregate root for the booking domain: one reservation of
// one apartment for a contiguous date range. The id is the only stable
// identity; overlapping dates on the same apartment are permitted once the
// caller has confirmed them.
type Booking struct {
	id          int64
	apartment   Apartment
	checkIn     Date
	checkOut    Date
	adults      int
	kids        int
	bookingName string
	createdAt   time.Time
}

// NewBooking creates a validated Booking with a freshly generated id.
func NewBooking(apartment Apartment, checkIn, checkOut Date, adults, kids int, bookingName string) (*Booking, error) {
	if !apartment.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid apartment: %q", apartment))
	}
	if checkIn.IsZero() || checkOut.IsZero() {
		return nil, domain.NewValidationError("check-in and check-out dates are required")
	}
	if !checkOut.After(checkIn) {
		return nil, domain.NewValidationError("check-out must be after check-in")
	}
	if adults < 0 || kids < 0 {
		return nil, domain.NewValidationError("occupant counts must not be negative")
	}

	return &Booking{
		id:          nextID(),
		apartment:   apartment,
		checkIn:     checkIn,
		checkOut:    checkOut,
		adults:      adults,
		kids:        kids,
		bookingName: bookingName,
		createdAt:   time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(id int64, apartment Apartment, checkIn, checkOut Date, adults, kids int, bookingName string, createdAt time.Time) *Booking {
	return &Booking{
		id:          id,
		apartment:   apartment,
		checkIn:     checkIn,
		checkOut:    checkOut,
		adults:      adults,
		kids:        kids,
		bookingName: bookingName,
		createdAt:   createdAt,
	}
}

// ID returns the booking's unique identifier.
func (b *Booking) ID() int64 { return b.id }

// Apartment returns the booked unit.
func (b *Booking) Apartment() Apartment { return b.apartment }

// CheckIn returns the arrival date.
func (b *Booking) CheckIn() Date { return b.checkIn }

// CheckOut returns the departure date. The checkout day itself is not
// occupied.
func (b *Booking) CheckOut() Date { return b.checkOut }

// Adults returns the number of adult occupants.
func (b *Booking) Adults() int { return b.adults }

// Kids returns the number of child occupants.
func (b *Booking) Kids() int { return b.kids }

// BookingName returns the optional display label.
func (b *Booking) BookingName() string { return b.bookingName }

// CreatedAt returns the creation timestamp, set once and never mutated.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }
