package aggregates

import (
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"mindmapper/domain/core/entities"
	"mindmapper/domain/events"
)

// Mode selects the mapping methodology a map follows. Only grinde maps
// are scored.
type Mode string

const (
	ModeGrinde Mode = "grinde"
	ModeBuzan  Mode = "buzan"
)

// Canonical origin for the central node of a fresh map.
const (
	CentralNodeX = 400.0
	CentralNodeY = 300.0
)

// ErrNodeNotFound is returned when a mutation references a node id that
// is not part of the map.
var ErrNodeNotFound = errors.New("node not found")

// ErrConnectionNotFound is returned when a mutation references a
// connection id that is not part of the map.
var ErrConnectionNotFound = errors.New("connection not found")

// DanglingReferenceError reports a connection endpoint that does not
// exist in the map. Connections are only accepted between live nodes.
type DanglingReferenceError struct {
	NodeID string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("connection references unknown node %q", e.NodeID)
}

// NewMapID generates a sortable map identifier: a timestamp prefix for
// humans plus a short random suffix for uniqueness.
func NewMapID() string {
	suffix, err := gonanoid.Generate("0123456789abcdefghijklmnopqrstuvwxyz", 6)
	if err != nil {
		// The default source only fails when the OS entropy pool is
		// broken; at that point nothing else works either.
		panic(err)
	}
	return fmt.Sprintf("map_%s_%s", time.Now().Format("20060102_150405"), suffix)
}

// MindMap is the aggregate root for one mind map. It owns the nodes and
// connections and is the only legal mutation surface: every accepted
// mutation bumps the version by exactly one and refreshes the modified
// timestamp. Nodes and connections keep insertion order.
type MindMap struct {
	id          string
	title       string
	mode        Mode
	nodes       []*entities.Node
	connections []*entities.Connection
	metadata    map[string]any
	tags        []string
	createdAt   time.Time
	modifiedAt  time.Time
	version     int
	events      []events.DomainEvent
}

// NewMindMap creates a map holding exactly one central node. The fresh
// map is at version 1; the seeded central node is part of creation, not
// a separate mutation.
func NewMindMap(title string, mode Mode, centralText string) *MindMap {
	if title == "" {
		title = "Untitled Map"
	}
	if mode == "" {
		mode = ModeGrinde
	}
	if centralText == "" {
		centralText = "Central Idea"
	}

	now := time.Now()
	m := &MindMap{
		id:         NewMapID(),
		title:      title,
		mode:       mode,
		metadata:   map[string]any{"zoom": 1.0, "panX": 0.0, "panY": 0.0, "theme": "default"},
		createdAt:  now,
		modifiedAt: now,
		version:    1,
	}

	central := entities.NewNode(entities.NodeFields{
		Text: centralText,
		Type: entities.NodeTypeCentral,
		X:    CentralNodeX,
		Y:    CentralNodeY,
		Size: entities.CentralNodeSize,
	})
	m.nodes = append(m.nodes, central)

	m.record(events.NewMapCreated(m.id, string(mode), title, now))
	return m
}

// ID returns the map identifier.
func (m *MindMap) ID() string { return m.id }

// Title returns the map title.
func (m *MindMap) Title() string { return m.title }

// Mode returns the mapping mode.
func (m *MindMap) Mode() Mode { return m.mode }

// Version returns the mutation counter.
func (m *MindMap) Version() int { return m.version }

// CreatedAt returns when the map was created.
func (m *MindMap) CreatedAt() time.Time { return m.createdAt }

// ModifiedAt returns when the map last accepted a mutation.
func (m *MindMap) ModifiedAt() time.Time { return m.modifiedAt }

// Tags returns the map's tags.
func (m *MindMap) Tags() []string { return append([]string(nil), m.tags...) }

// Metadata returns a copy of the opaque view-state bag.
func (m *MindMap) Metadata() map[string]any {
	meta := make(map[string]any, len(m.metadata))
	for k, v := range m.metadata {
		meta[k] = v
	}
	return meta
}

// Nodes returns the nodes in insertion order.
func (m *MindMap) Nodes() []*entities.Node {
	return append([]*entities.Node(nil), m.nodes...)
}

// Connections returns the connections in insertion order.
func (m *MindMap) Connections() []*entities.Connection {
	return append([]*entities.Connection(nil), m.connections...)
}

// Node looks up a node by id.
func (m *MindMap) Node(nodeID string) (*entities.Node, bool) {
	for _, n := range m.nodes {
		if n.ID == nodeID {
			return n, true
		}
	}
	return nil, false
}

// CentralNode returns the first central-type node, if any.
func (m *MindMap) CentralNode() (*entities.Node, bool) {
	for _, n := range m.nodes {
		if n.Type == entities.NodeTypeCentral {
			return n, true
		}
	}
	return nil, false
}

// Preview derives the short text shown in map listings from the central
// node's label.
func (m *MindMap) Preview() string {
	central, ok := m.CentralNode()
	if !ok {
		return ""
	}
	runes := []rune(central.Text)
	if len(runes) > 50 {
		runes = runes[:50]
	}
	return string(runes)
}

// AddNode appends a caller-described node, assigning identity and
// defaults, and bumps the version.
func (m *MindMap) AddNode(fields entities.NodeFields) *entities.Node {
	node := entities.NewNode(fields)
	m.nodes = append(m.nodes, node)
	m.touch()
	m.record(events.NewNodeAdded(m.id, node, m.modifiedAt))
	return node
}

// UpdateNode merges a shallow patch onto an existing node. The id is
// immutable; an unknown id yields ErrNodeNotFound and no version bump.
func (m *MindMap) UpdateNode(nodeID string, patch entities.NodePatch) (*entities.Node, error) {
	node, ok := m.Node(nodeID)
	if !ok {
		return nil, ErrNodeNotFound
	}
	node.Apply(patch)
	m.touch()
	m.record(events.NewNodeUpdated(m.id, node, m.modifiedAt))
	return node, nil
}

// DeleteNode removes a node and cascades to every connection whose
// source or target is that node, so no dangling edge survives. Deleting
// an unknown id is a no-op, not an error, and bumps nothing.
func (m *MindMap) DeleteNode(nodeID string) {
	idx := -1
	for i, n := range m.nodes {
		if n.ID == nodeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	m.nodes = append(m.nodes[:idx], m.nodes[idx+1:]...)

	kept := m.connections[:0]
	for _, c := range m.connections {
		if c.Source != nodeID && c.Target != nodeID {
			kept = append(kept, c)
		}
	}
	m.connections = kept

	m.touch()
	m.record(events.NewNodeRemoved(m.id, nodeID, m.modifiedAt))
}

// AddConnection links two existing nodes. Both endpoints must be live
// in this map; a missing endpoint yields a DanglingReferenceError and
// no version bump.
func (m *MindMap) AddConnection(source, target string, connType entities.ConnectionType) (*entities.Connection, error) {
	if _, ok := m.Node(source); !ok {
		return nil, &DanglingReferenceError{NodeID: source}
	}
	if _, ok := m.Node(target); !ok {
		return nil, &DanglingReferenceError{NodeID: target}
	}

	conn := entities.NewConnection(source, target, connType)
	m.connections = append(m.connections, conn)
	m.touch()
	m.record(events.NewConnectionAdded(m.id, conn, m.modifiedAt))
	return conn, nil
}

// DeleteConnection removes a connection by id.
func (m *MindMap) DeleteConnection(connectionID string) error {
	for i, c := range m.connections {
		if c.ID == connectionID {
			m.connections = append(m.connections[:i], m.connections[i+1:]...)
			m.touch()
			m.record(events.NewConnectionRemoved(m.id, connectionID, m.modifiedAt))
			return nil
		}
	}
	return ErrConnectionNotFound
}

// MetaPatch is a whole-property overwrite of map-level fields. Nil
// entries leave the property untouched.
type MetaPatch struct {
	Title    *string
	Mode     *Mode
	Metadata map[string]any
	Tags     *[]string
}

// UpdateMeta overwrites map-level properties without touching nodes or
// connections. One accepted patch is one mutation: one version bump.
func (m *MindMap) UpdateMeta(patch MetaPatch) {
	if patch.Title != nil {
		m.title = *patch.Title
	}
	if patch.Mode != nil {
		m.mode = *patch.Mode
	}
	if patch.Metadata != nil {
		if m.metadata == nil {
			m.metadata = make(map[string]any, len(patch.Metadata))
		}
		for k, v := range patch.Metadata {
			m.metadata[k] = v
		}
	}
	if patch.Tags != nil {
		m.tags = append([]string(nil), (*patch.Tags)...)
	}
	m.touch()
	m.record(events.NewMapMetaUpdated(m.id, m.title, string(m.mode), m.modifiedAt))
}

// Validate checks the referential invariants: unique ids and no
// connection endpoint outside the node set.
func (m *MindMap) Validate() error {
	seen := make(map[string]bool, len(m.nodes))
	for _, n := range m.nodes {
		if seen[n.ID] {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
	}

	connSeen := make(map[string]bool, len(m.connections))
	for _, c := range m.connections {
		if connSeen[c.ID] {
			return fmt.Errorf("duplicate connection id %q", c.ID)
		}
		connSeen[c.ID] = true
		if !seen[c.Source] {
			return &DanglingReferenceError{NodeID: c.Source}
		}
		if !seen[c.Target] {
			return &DanglingReferenceError{NodeID: c.Target}
		}
	}
	return nil
}

// UncommittedEvents returns the domain events recorded since the last
// commit, in occurrence order.
func (m *MindMap) UncommittedEvents() []events.DomainEvent {
	out := make([]events.DomainEvent, len(m.events))
	copy(out, m.events)
	return out
}

// MarkEventsCommitted clears the recorded events.
func (m *MindMap) MarkEventsCommitted() {
	m.events = nil
}

func (m *MindMap) touch() {
	m.modifiedAt = time.Now()
	m.version++
}

func (m *MindMap) record(event events.DomainEvent) {
	m.events = append(m.events, event)
}
