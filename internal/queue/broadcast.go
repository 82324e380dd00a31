package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/esolink/backend/internal/util"
	"github.com/esolink/backend/pkg/broadcast"

	"github.com/rabbitmq/amqp091-go"
)

// AmqpBroadcaster pushes engine events onto the topic exchange, routed as
// tenant.<tenant_id>.<event_type> so subscribers (the WebSocket gateway, KPI
// dashboards) can bind per tenant or per event kind.
type AmqpBroadcaster struct {
	ch *amqp091.Channel
}

// NewAmqpBroadcaster wraps an open channel.
func NewAmqpBroadcaster(ch *amqp091.Channel) *AmqpBroadcaster {
	return &AmqpBroadcaster{ch: ch}
}

// Publish sends one event. Callers treat a returned error as log-only; the
// engine never blocks on delivery confirmation.
func (b *AmqpBroadcaster) Publish(_ context.Context, event broadcast.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode broadcast event: %w", err)
	}

	topic := fmt.Sprintf("tenant.%s.%s", event.TenantID, event.Type)
	return util.RetryErr(2, func() error {
		return PublishTopic(b.ch, topic, body)
	})
}
