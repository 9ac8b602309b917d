// Package notification delivers check-in reminders: a Kafka dispatcher
// feeding the notifications topic and an SMTP sender draining it.
package notification

import (
	"context"
	"strconv"

	"github.com/aegean-stays/service-bookings/internal/application"
	"github.com/aegean-stays/service-bookings/internal/kafka"
)

// KafkaDispatcher publishes one reminder event per due booking. The
// reminder worker consumes the topic and sends the actual email, so a slow
// or failing mail server never stalls the scheduler.
type KafkaDispatcher struct {
	producer application.EventPublisher
	topic    string
}

// NewKafkaDispatcher creates a dispatcher for the given notifications
// topic.
func NewKafkaDispatcher(producer application.EventPublisher, topic string) *KafkaDispatcher {
	return &KafkaDispatcher{producer: producer, topic: topic}
}

// Notify publishes a booking.reminder.due event for the booking.
func (d *KafkaDispatcher) Notify(ctx context.Context, b application.BookingDTO) error {
	event, err := kafka.NewCloudEvent("service-bookings", kafka.BookingReminderDue, b)
	if err != nil {
		return err
	}
	return d.producer.PublishEvent(ctx, d.topic, strconv.FormatInt(b.ID, 10), event)
}

var _ application.Dispatcher = (*KafkaDispatcher)(nil)
