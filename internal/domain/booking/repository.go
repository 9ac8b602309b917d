package booking

import "context"

// Store defines the persistence contract for the shared booking list. The
// core performs no locking of its own; the store is the sole arbiter of
// read/write ordering between concurrent callers.
type Store interface {
	// GetAll returns the full current booking set. An empty store reads as
	// an empty list, not an error. No ordering is guaranteed.
	GetAll(ctx context.Context) ([]*Booking, error)

	// Append persists a new booking.
	Append(ctx context.Context, b *Booking) error

	// DeleteByID removes the booking with the given id, returning a
	// NotFoundError when no such booking exists.
	DeleteByID(ctx context.Context, id int64) error

	// ReplaceByID atomically removes the booking with oldID and inserts the
	// replacement in its place. Returns a NotFoundError (and inserts
	// nothing) when oldID is absent. The replacement carries its own new id.
	ReplaceByID(ctx context.Context, oldID int64, replacement *Booking) error
}
