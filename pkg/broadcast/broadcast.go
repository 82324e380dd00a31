// Package broadcast defines the engine's outbound event port. Computed
// results are pushed through a Broadcaster as typed events; the transport
// behind it (AMQP topic exchange in production) is injected so the engine
// stays pure and testable.
package broadcast

import (
	"context"
	"time"
)

// EventType is the closed set of broadcast event categories.
type EventType string

const (
	EventKPIUpdate          EventType = "kpi_update"
	EventRelationshipChange EventType = "relationship_change"
	EventGrantMilestone     EventType = "grant_milestone"
	EventActivityUpdate     EventType = "activity_update"
)

// Event is the broadcast message contract. Data carries the computed result
// the event announces (network metrics, a relationship, a success
// prediction).
type Event struct {
	Type      EventType `json:"type"`
	TenantID  string    `json:"tenant_id"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent stamps an event with the current time.
func NewEvent(eventType EventType, tenantID string, data any) Event {
	return Event{
		Type:      eventType,
		TenantID:  tenantID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// Broadcaster publishes events to an external transport. Delivery is
// fire-and-forget from the engine's perspective: implementations return an
// error for logging, but callers never treat it as fatal.
type Broadcaster interface {
	Publish(ctx context.Context, event Event) error
}

// Nop discards all events. Useful in tests and for callers that opt out of
// broadcasting.
type Nop struct{}

// Publish discards the event.
func (Nop) Publish(context.Context, Event) error { return nil }
