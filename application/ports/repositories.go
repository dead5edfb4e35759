package ports

import (
	"context"

	"mindmapper/domain/core/aggregates"
	"mindmapper/domain/events"
)

// MapRepository defines the interface for map persistence.
// This is a port in hexagonal architecture: the domain does not know
// about the implementation.
type MapRepository interface {
	// Save persists a map (create or update).
	Save(ctx context.Context, m *aggregates.MindMap) error

	// FindByID retrieves a map by its id. A missing map yields
	// ErrMapNotFound from the implementation.
	FindByID(ctx context.Context, mapID string) (*aggregates.MindMap, error)

	// Delete removes a map.
	Delete(ctx context.Context, mapID string) error

	// List retrieves every stored map, most recently modified first.
	List(ctx context.Context) ([]*aggregates.MindMap, error)
}

// EventPublisher defines the interface for publishing domain events.
// Delivery is best effort: publishing never blocks a mutation and
// order is only guaranteed per map.
type EventPublisher interface {
	// Publish sends a single event.
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events.
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
