package booking

// FindConflicts returns the bookings whose date range intersects the
// candidate range on the same apartment. Ranges are half-open [checkIn,
// checkOut): the checkout day itself is not occupied, so back-to-back stays
// never conflict.
//
// excludeID skips the booking with that id, so an edited booking does not
// conflict with its own pre-edit self; pass 0 to exclude nothing. The
// candidate range must already be validated as strictly ordered. Pure
// function; result keeps the relative order of the input.
func FindConflicts(all []*Booking, apartment Apartment, start, end Date, excludeID int64) []*Booking {
	var conflicts []*Booking
	for _, b := range all {
		if b.Apartment() != apartment {
			continue
		}
		if excludeID != 0 && b.ID() == excludeID {
			continue
		}
		if start.Before(b.CheckOut()) && end.After(b.CheckIn()) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}
