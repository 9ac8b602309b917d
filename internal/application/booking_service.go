package application

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/aegean-stays/service-bookings/internal/domain"
	"github.com/aegean-stays/service-bookings/internal/domain/booking"
	"github.com/aegean-stays/service-bookings/internal/kafka"
	"go.uber.org/zap"
)

// EventPublisher is the outbound event contract; nil disables publishing.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event *kafka.CloudEvent) error
}

// BookingRequest holds the caller-supplied fields for create and update.
// ConfirmOverlap acknowledges previously reported conflicts; without it a
// conflicting write does not proceed.
type BookingRequest struct {
	Apartment      string       `json:"apartment" binding:"required"`
	CheckIn        booking.Date `json:"checkIn"`
	CheckOut       booking.Date `json:"checkOut"`
	Adults         int          `json:"adults"`
	Kids           int          `json:"kids"`
	BookingName    string       `json:"bookingName"`
	ConfirmOverlap bool         `json:"confirmOverlap"`
}

// BookingDTO is the boundary representation of a booking. The field names
// are a stable contract.
type BookingDTO struct {
	ID          int64        `json:"id"`
	Apartment   string       `json:"apartment"`
	CheckIn     booking.Date `json:"checkIn"`
	CheckOut    booking.Date `json:"checkOut"`
	Adults      int          `json:"adults"`
	Kids        int          `json:"kids"`
	BookingName string       `json:"bookingName,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// bookingEventData is the payload carried by booking lifecycle events.
type bookingEventData struct {
	Booking    BookingDTO `json:"booking"`
	PreviousID int64      `json:"previousId,omitempty"`
}

// BookingService orchestrates the booking lifecycle: validation, overlap
// evaluation and persistence. Overlapping dates are advisory, never a hard
// constraint: the caller decides whether to proceed.
type BookingService struct {
	store        booking.Store
	producer     EventPublisher
	bookingTopic string
	logger       *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(store booking.Store, producer EventPublisher, bookingTopic string, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:        store,
		producer:     producer,
		bookingTopic: bookingTopic,
		logger:       logger,
	}
}

// CreateBooking validates and persists a new booking. When the requested
// range overlaps existing bookings and the request does not confirm the
// overlap, nothing is written and the conflicts are returned as data.
func (s *BookingService) CreateBooking(ctx context.Context, req BookingRequest) (*BookingDTO, []BookingDTO, error) {
	b, err := booking.NewBooking(
		booking.Apartment(req.Apartment),
		req.CheckIn, req.CheckOut,
		req.Adults, req.Kids,
		req.BookingName,
	)
	if err != nil {
		return nil, nil, err
	}

	all, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	conflicts := booking.FindConflicts(all, b.Apartment(), b.CheckIn(), b.CheckOut(), 0)
	conflictDTOs := toBookingDTOs(conflicts)
	if len(conflicts) > 0 && !req.ConfirmOverlap {
		return nil, conflictDTOs, nil
	}

	if err := s.store.Append(ctx, b); err != nil {
		return nil, nil, err
	}

	dto := toBookingDTO(b)
	s.publishEvent(ctx, kafka.BookingCreated, dto.ID, bookingEventData{Booking: dto})
	return &dto, conflictDTOs, nil
}

// UpdateBooking edits an existing booking: the old record is removed and a
// replacement with a new id takes its place, both inside one storage
// transaction. Callers must not assume id stability across an edit.
func (s *BookingService) UpdateBooking(ctx context.Context, id int64, req BookingRequest) (*BookingDTO, []BookingDTO, error) {
	replacement, err := booking.NewBooking(
		booking.Apartment(req.Apartment),
		req.CheckIn, req.CheckOut,
		req.Adults, req.Kids,
		req.BookingName,
	)
	if err != nil {
		return nil, nil, err
	}

	all, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	if !containsID(all, id) {
		return nil, nil, domain.NewNotFoundError("booking", strconv.FormatInt(id, 10))
	}

	// The booking being edited never conflicts with its own pre-edit self.
	conflicts := booking.FindConflicts(all, replacement.Apartment(), replacement.CheckIn(), replacement.CheckOut(), id)
	conflictDTOs := toBookingDTOs(conflicts)
	if len(conflicts) > 0 && !req.ConfirmOverlap {
		return nil, conflictDTOs, nil
	}

	if err := s.store.ReplaceByID(ctx, id, replacement); err != nil {
		return nil, nil, err
	}

	dto := toBookingDTO(replacement)
	s.publishEvent(ctx, kafka.BookingUpdated, dto.ID, bookingEventData{Booking: dto, PreviousID: id})
	return &dto, conflictDTOs, nil
}

// DeleteBooking removes the booking with the given id, returning the
// removed id. Deleting an absent id is a well-defined NotFoundError.
func (s *BookingService) DeleteBooking(ctx context.Context, id int64) (int64, error) {
	all, err := s.store.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	var deleted *booking.Booking
	for _, b := range all {
		if b.ID() == id {
			deleted = b
			break
		}
	}
	if deleted == nil {
		return 0, domain.NewNotFoundError("booking", strconv.FormatInt(id, 10))
	}

	if err := s.store.DeleteByID(ctx, id); err != nil {
		return 0, err
	}

	s.publishEvent(ctx, kafka.BookingDeleted, id, bookingEventData{Booking: toBookingDTO(deleted)})
	return id, nil
}

// ListBookings returns the full current set. Storage provides no ordering
// guarantee; presentation order is the caller's concern.
func (s *BookingService) ListBookings(ctx context.Context) ([]BookingDTO, error) {
	all, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(all), nil
}

// ListApartmentBookings returns the derived per-apartment view, sorted by
// check-in ascending.
func (s *BookingService) ListApartmentBookings(ctx context.Context, apartment string) ([]BookingDTO, error) {
	a, err := booking.ParseApartment(apartment)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	all, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var filtered []*booking.Booking
	for _, b := range all {
		if b.Apartment() == a {
			filtered = append(filtered, b)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CheckIn().Before(filtered[j].CheckIn())
	})

	return toBookingDTOs(filtered), nil
}

// --- Helpers ---

func containsID(all []*booking.Booking, id int64) bool {
	for _, b := range all {
		if b.ID() == id {
			return true
		}
	}
	return false
}

func toBookingDTO(b *booking.Booking) BookingDTO {
	return BookingDTO{
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

func toBookingDTOs(bookings []*booking.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, b := range bookings {
		dtos[i] = toBookingDTO(b)
	}
	return dtos
}

func (s *BookingService) publishEvent(ctx context.Context, eventType string, id int64, data bookingEventData) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}

	event, err := kafka.NewCloudEvent("service-bookings", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, s.bookingTopic, strconv.FormatInt(id, 10), event); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", s.bookingTopic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
