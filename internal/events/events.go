// Package events publishes ticket lifecycle and clearance events.
package events

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	TicketBooked     = "ticket.booked"
	TicketCheckedIn  = "ticket.checked_in"
	TicketBoarded    = "ticket.boarded"
	TicketCancelled  = "ticket.cancelled"
	BorderClearance  = "clearance.border"
	CustomsClearance = "clearance.customs"
)

type TicketEvent struct {
	Type           string    `json:"type"`
	TicketNumber   string    `json:"ticket_number"`
	FlightNumber   string    `json:"flight_number"`
	PassportNumber string    `json:"passport_number"`
	SeatNumber     string    `json:"seat_number"`
	Status         string    `json:"status"`
	At             time.Time `json:"at"`
}

type ClearanceEvent struct {
	Type           string    `json:"type"`
	PassportNumber string    `json:"passport_number"`
	TicketNumber   string    `json:"ticket_number,omitempty"`
	Cleared        bool      `json:"cleared"`
	Officer        string    `json:"officer"`
	At             time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
	Close() error
}

// Bus routes events to their topics. Publishing failures are logged and
// never reach the caller.
type Bus struct {
	publisher      Publisher
	ticketTopic    string
	clearanceTopic string
	log            *zap.Logger
}

func NewBus(publisher Publisher, ticketTopic, clearanceTopic string, log *zap.Logger) *Bus {
	return &Bus{
		publisher:      publisher,
		ticketTopic:    ticketTopic,
		clearanceTopic: clearanceTopic,
		log:            log.With(zap.String("component", "events")),
	}
}

func (b *Bus) Ticket(ctx context.Context, event TicketEvent) {
	if err := b.publisher.Publish(ctx, b.ticketTopic, event.TicketNumber, event); err != nil {
		b.log.Warn("Failed to publish ticket event",
			zap.Error(err),
			zap.String("type", event.Type),
			zap.String("ticket_number", event.TicketNumber),
		)
	}
}

func (b *Bus) Clearance(ctx context.Context, event ClearanceEvent) {
	if err := b.publisher.Publish(ctx, b.clearanceTopic, event.PassportNumber, event); err != nil {
		b.log.Warn("Failed to publish clearance event",
			zap.Error(err),
			zap.String("type", event.Type),
			zap.String("passport", event.PassportNumber),
		)
	}
}

func (b *Bus) Close() error {
	return b.publisher.Close()
}

// Nop discards every event; used when KAFKA_BROKERS is empty.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) error { return nil }
func (Nop) Close() error                                       { return nil }
