package websocket

import (
	"context"

	"mindmapper/domain/events"
)

// EventPublisher adapts the hub to the application's event publishing
// port. Each domain event becomes one room broadcast on the topic
// named by its map id; delivery is best effort and unordered across
// maps.
type EventPublisher struct {
	hub *Hub
}

// NewEventPublisher creates the adapter.
func NewEventPublisher(hub *Hub) *EventPublisher {
	return &EventPublisher{hub: hub}
}

// Publish sends a single event to its map's room.
func (p *EventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.hub.SendToMap(event.GetAggregateID(), event.GetEventType(), event)
}

// PublishBatch sends events in occurrence order.
func (p *EventPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	for _, event := range batch {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
