package entities

import "github.com/google/uuid"

// ConnectionType distinguishes plain links from directional ones.
type ConnectionType string

const (
	ConnectionSimple ConnectionType = "simple"
	ConnectionArrow  ConnectionType = "arrow"
	ConnectionDouble ConnectionType = "double"
)

// IsDirectional reports whether the type carries direction (single or
// double arrow).
func (t ConnectionType) IsDirectional() bool {
	return t == ConnectionArrow || t == ConnectionDouble
}

// Connection is an edge between two node ids within one map.
type Connection struct {
	ID     string         `json:"id"`
	Source string         `json:"source"`
	Target string         `json:"target"`
	Type   ConnectionType `json:"type"`
}

// NewConnection builds a connection with a fresh identity. An empty
// type falls back to simple.
func NewConnection(source, target string, connType ConnectionType) *Connection {
	if connType == "" {
		connType = ConnectionSimple
	}
	return &Connection{
		ID:     uuid.New().String(),
		Source: source,
		Target: target,
		Type:   connType,
	}
}
