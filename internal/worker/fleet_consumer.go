// Package worker hosts the background consumers driving booking transitions
// from platform events.
package worker

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Meridian-Car-Rental/service-backoffice/internal/application"
	"github.com/Meridian-Car-Rental/service-backoffice/internal/domain"
	"github.com/Meridian-Car-Rental/service-backoffice/internal/events"
	"github.com/Meridian-Car-Rental/service-backoffice/pkg/kafka"
)

// FleetEventConsumer listens to fleet events and completes bookings when
// their car is checked back in.
type FleetEventConsumer struct {
	consumer *kafka.Consumer
	service  *application.BookingService
	logger   *zap.Logger
}

// NewFleetEventConsumer creates a new FleetEventConsumer.
func NewFleetEventConsumer(
	brokers []string,
	groupID string,
	service *application.BookingService,
	logger *zap.Logger,
) *FleetEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, events.TopicFleetEvents, logger)
	return &FleetEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming fleet events. This blocks until the context is cancelled.
func (c *FleetEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *FleetEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *FleetEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from fleet topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case events.FleetCarReturned:
		return c.handleCarReturned(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled fleet event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *FleetEventConsumer) handleCarReturned(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt events.CarReturnedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse CarReturnedEvent data", zap.Error(err))
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing car returned event",
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("car_id", evt.CarID.String()),
	)

	_, err := c.service.UpdateStatus(ctx, evt.BookingID, application.StatusUpdateRequest{
		Action: string(application.ActionComplete),
	})
	if err != nil {
		// A booking already completed or cancelled will never become
		// completable; retrying the event cannot help.
		switch domain.KindOf(err) {
		case domain.KindInvalidState, domain.KindNotFound, domain.KindValidation:
			c.logger.Warn("car returned event not applicable to booking",
				zap.String("booking_id", evt.BookingID.String()),
				zap.Error(err),
			)
			return nil
		default:
			c.logger.Error("failed to complete booking after car return",
				zap.String("booking_id", evt.BookingID.String()),
				zap.Error(err),
			)
			return err
		}
	}

	c.logger.Info("booking completed after car return",
		zap.String("booking_id", evt.BookingID.String()),
	)
	return nil
}
