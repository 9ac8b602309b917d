package notification

import (
	"context"

	"github.com/aegean-stays/service-bookings/internal/application"
	"github.com/aegean-stays/service-bookings/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ReminderConsumer drains the notifications topic and sends one email per
// reminder event.
type ReminderConsumer struct {
	consumer *kafka.Consumer
	sender   application.Dispatcher
	logger   *zap.Logger
}

// NewReminderConsumer creates a consumer for the notifications topic.
func NewReminderConsumer(brokers []string, groupID, topic string, sender application.Dispatcher, logger *zap.Logger) *ReminderConsumer {
	return &ReminderConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, topic),
		sender:   sender,
		logger:   logger,
	}
}

// Start begins consuming reminder events. Blocks until the context is
// cancelled.
func (c *ReminderConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *ReminderConsumer) Close() error {
	return c.consumer.Close()
}

func (c *ReminderConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	event, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from notifications topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	if event.Type != kafka.BookingReminderDue {
		c.logger.Debug("ignoring unhandled notification event type",
			zap.String("type", event.Type),
		)
		return nil
	}

	var dto application.BookingDTO
	if err := event.ParseData(&dto); err != nil {
		c.logger.Error("failed to parse reminder event data", zap.Error(err))
		return nil // Don't retry malformed data
	}

	if err := c.sender.Notify(ctx, dto); err != nil {
		// A bounced email should not wedge the whole partition; log and
		// move on to the next reminder.
		c.logger.Error("failed to send reminder email",
			zap.Int64("booking_id", dto.ID),
			zap.Error(err),
		)
		return nil
	}

	c.logger.Info("reminder email sent",
		zap.Int64("booking_id", dto.ID),
		zap.String("check_in", dto.CheckIn.String()),
	)
	return nil
}
