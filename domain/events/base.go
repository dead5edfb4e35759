package events

import (
	"time"

	"mindmapper/domain/core/entities"
)

// DomainEvent is the base interface for all domain events.
// Events represent something that has happened in the past.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields. The aggregate id is always
// the map id: maps are the unit of subscription for realtime delivery.
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// Map Events

// MapCreated is raised when a new map is created.
type MapCreated struct {
	BaseEvent
	Mode  string `json:"mode"`
	Title string `json:"title"`
}

// NewMapCreated creates a MapCreated event.
func NewMapCreated(mapID, mode, title string, timestamp time.Time) MapCreated {
	return MapCreated{
		BaseEvent: BaseEvent{
			AggregateID: mapID,
			EventType:   "map.created",
			Timestamp:   timestamp,
		},
		Mode:  mode,
		Title: title,
	}
}

// MapMetaUpdated is raised when map-level properties change.
type MapMetaUpdated struct {
	BaseEvent
	Title string `json:"title"`
	Mode  string `json:"mode"`
}

// NewMapMetaUpdated creates a MapMetaUpdated event.
func NewMapMetaUpdated(mapID, title, mode string, timestamp time.Time) MapMetaUpdated {
	return MapMetaUpdated{
		BaseEvent: BaseEvent{
			AggregateID: mapID,
			EventType:   "map.meta_updated",
			Timestamp:   timestamp,
		},
		Title: title,
		Mode:  mode,
	}
}

// Node Events

// NodeAdded is raised when a node joins a map.
type NodeAdded struct {
	BaseEvent
	Node *entities.Node `json:"node"`
}

// NewNodeAdded creates a NodeAdded event.
func NewNodeAdded(mapID string, node *entities.Node, timestamp time.Time) NodeAdded {
	return NodeAdded{
		BaseEvent: BaseEvent{
			AggregateID: mapID,
			EventType:   "node.added",
			Timestamp:   timestamp,
		},
		Node: node,
	}
}

// NodeUpdated is raised when a node's fields change.
type NodeUpdated struct {
	BaseEvent
	Node *entities.Node `json:"node"`
}

// NewNodeUpdated creates a NodeUpdated event.
func NewNodeUpdated(mapID string, node *entities.Node, timestamp time.Time) NodeUpdated {
	return NodeUpdated{
		BaseEvent: BaseEvent{
			AggregateID: mapID,
			EventType:   "node.updated",
			Timestamp:   timestamp,
		},
		Node: node,
	}
}

// NodeRemoved is raised when a node leaves a map, after its connections
// have been cascaded away.
type NodeRemoved struct {
	BaseEvent
	NodeID string `json:"node_id"`
}

// NewNodeRemoved creates a NodeRemoved event.
func NewNodeRemoved(mapID, nodeID string, timestamp time.Time) NodeRemoved {
	return NodeRemoved{
		BaseEvent: BaseEvent{
			AggregateID: mapID,
			EventType:   "node.removed",
			Timestamp:   timestamp,
		},
		NodeID: nodeID,
	}
}

// Connection Events

// ConnectionAdded is raised when two nodes are linked.
type ConnectionAdded struct {
	BaseEvent
	Connection *entities.Connection `json:"connection"`
}

// NewConnectionAdded creates a ConnectionAdded event.
func NewConnectionAdded(mapID string, conn *entities.Connection, timestamp time.Time) ConnectionAdded {
	return ConnectionAdded{
		BaseEvent: BaseEvent{
			AggregateID: mapID,
			EventType:   "connection.added",
			Timestamp:   timestamp,
		},
		Connection: conn,
	}
}

// ConnectionRemoved is raised when a connection is deleted, directly or
// by node-deletion cascade.
type ConnectionRemoved struct {
	BaseEvent
	ConnectionID string `json:"connection_id"`
}

// NewConnectionRemoved creates a ConnectionRemoved event.
func NewConnectionRemoved(mapID, connectionID string, timestamp time.Time) ConnectionRemoved {
	return ConnectionRemoved{
		BaseEvent: BaseEvent{
			AggregateID: mapID,
			EventType:   "connection.removed",
			Timestamp:   timestamp,
		},
		ConnectionID: connectionID,
	}
}
