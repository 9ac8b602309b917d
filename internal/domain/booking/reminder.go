package booking

// ReminderLeadDays is the fixed lead time before check-in that triggers a
// notification.
const ReminderLeadDays = 2

// SelectForReminder returns the bookings whose check-in falls exactly
// leadDays after today. The caller supplies today so the function stays
// clock-free and testable. An empty result is a normal outcome, not an
// error.
func SelectForReminder(all []*Booking, today Date, leadDays int) []*Booking {
	target := today.AddDays(leadDays)

	var due []*Booking
	for _, b := range all {
		if b.CheckIn().Equal(target) {
			due = append(due, b)
		}
	}
	return due
}
