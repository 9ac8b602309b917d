package application

import (
	"context"
	"sync"

	"github.com/aegean-stays/service-bookings/internal/domain/booking"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Dispatcher delivers one reminder notification per booking.
type Dispatcher interface {
	Notify(ctx context.Context, b BookingDTO) error
}

// ReminderService selects the bookings due for a check-in reminder and
// hands each one to the dispatcher.
type ReminderService struct {
	store      booking.Store
	dispatcher Dispatcher
	leadDays   int
	logger     *zap.Logger
}

// NewReminderService creates a new ReminderService.
func NewReminderService(store booking.Store, dispatcher Dispatcher, leadDays int, logger *zap.Logger) *ReminderService {
	if leadDays <= 0 {
		leadDays = booking.ReminderLeadDays
	}
	return &ReminderService{
		store:      store,
		dispatcher: dispatcher,
		leadDays:   leadDays,
		logger:     logger,
	}
}

// Run dispatches reminders for every booking whose check-in falls exactly
// leadDays after today. Dispatch is per-booking and isolated: one failed
// notification never blocks the others. Returns the number of bookings
// selected alongside the collected dispatch failures.
func (s *ReminderService) Run(ctx context.Context, today booking.Date) (int, error) {
	all, err := s.store.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	due := booking.SelectForReminder(all, today, s.leadDays)
	if len(due) == 0 {
		s.logger.Info("no reminders due", zap.String("today", today.String()))
		return 0, nil
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	for _, b := range due {
		dto := toBookingDTO(b)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.dispatcher.Notify(ctx, dto); err != nil {
				s.logger.Error("failed to dispatch reminder",
					zap.Int64("booking_id", dto.ID),
					zap.Error(err),
				)
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.logger.Info("reminder run finished",
		zap.String("today", today.String()),
		zap.Int("due", len(due)),
	)
	return len(due), errs
}
