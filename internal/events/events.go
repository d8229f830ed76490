// Package events publishes booking lifecycle notifications to a message
// broker. Services depend only on the Publisher interface; the AMQP
// implementation talks to RabbitMQ over a durable topic exchange and Noop is
// used when no broker is configured.
package events

import (
	"context"
	"time"
)

// Routing keys.
const (
	BookingConfirmed = "booking.confirmed"
	BookingCanceled  = "booking.canceled"
	SlotBlocked      = "slot.blocked"
)

// Publisher sends a JSON-encodable payload under a routing key.
type Publisher interface {
	Publish(ctx context.Context, key string, v any) error
	Close() error
}

// BookingEvent is the payload for every booking lifecycle event.
type BookingEvent struct {
	BookingID  string    `json:"booking_id"`
	ShopID     string    `json:"shop_id"`
	IdentityID string    `json:"identity_id,omitempty"`
	ServiceID  string    `json:"service_id,omitempty"`
	SlotTime   time.Time `json:"slot_time"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Noop discards every event.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(context.Context, string, any) error { return nil }

// Close implements Publisher.
func (Noop) Close() error { return nil }
