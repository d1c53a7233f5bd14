// Package events defines the topics and payloads exchanged with the rest of
// the rental platform.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicBookingEvents = "rental.booking.events"
	TopicFleetEvents   = "rental.fleet.events"
)

// Event types.
const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
	BookingCompleted = "booking.completed"
	FleetCarReturned = "fleet.car.returned"
)

// BookingLifecycleEvent is published on every booking status change.
type BookingLifecycleEvent struct {
	BookingID      uuid.UUID `json:"booking_id"`
	BookingNumber  string    `json:"booking_number"`
	CarID          uuid.UUID `json:"car_id"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// CarReturnedEvent is emitted by the fleet desk when a rented car is checked
// back in. The back-office completes the matching booking on receipt.
type CarReturnedEvent struct {
	CarID      uuid.UUID `json:"car_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	ReturnedAt time.Time `json:"returned_at"`
	OccurredAt time.Time `json:"occurred_at"`
}
