package aggregates

import (
	"time"

	"github.com/google/uuid"

	"mindmapper/domain/core/entities"
)

// Document is the canonical external representation of a map: the shape
// persisted to disk, returned by the API and accepted on import. Field
// names follow the createdAt/modifiedAt convention.
type Document struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Mode        Mode                  `json:"mode"`
	CreatedAt   time.Time             `json:"createdAt"`
	ModifiedAt  time.Time             `json:"modifiedAt"`
	Version     int                   `json:"version"`
	Nodes       []entities.Node       `json:"nodes"`
	Connections []entities.Connection `json:"connections"`
	Metadata    map[string]any        `json:"metadata,omitempty"`
	Tags        []string              `json:"tags,omitempty"`
	Preview     string                `json:"preview,omitempty"`
}

// Document renders the aggregate into its canonical form.
func (m *MindMap) Document() Document {
	doc := Document{
		ID:          m.id,
		Title:       m.title,
		Mode:        m.mode,
		CreatedAt:   m.createdAt,
		ModifiedAt:  m.modifiedAt,
		Version:     m.version,
		Nodes:       make([]entities.Node, 0, len(m.nodes)),
		Connections: make([]entities.Connection, 0, len(m.connections)),
		Metadata:    m.Metadata(),
		Tags:        m.Tags(),
		Preview:     m.Preview(),
	}
	for _, n := range m.nodes {
		doc.Nodes = append(doc.Nodes, *n)
	}
	for _, c := range m.connections {
		doc.Connections = append(doc.Connections, *c)
	}
	return doc
}

// FromDocument reconstructs an aggregate from a stored or imported
// document. Identities and the version counter are preserved; missing
// bookkeeping fields get sane values so hand-written documents load.
func FromDocument(doc Document) *MindMap {
	now := time.Now()
	m := &MindMap{
		id:         doc.ID,
		title:      doc.Title,
		mode:       doc.Mode,
		metadata:   doc.Metadata,
		tags:       doc.Tags,
		createdAt:  doc.CreatedAt,
		modifiedAt: doc.ModifiedAt,
		version:    doc.Version,
	}
	if m.id == "" {
		m.id = NewMapID()
	}
	if m.title == "" {
		m.title = "Untitled Map"
	}
	if m.mode == "" {
		m.mode = ModeGrinde
	}
	if m.createdAt.IsZero() {
		m.createdAt = now
	}
	if m.modifiedAt.IsZero() {
		m.modifiedAt = m.createdAt
	}
	if m.version < 1 {
		m.version = 1
	}

	for i := range doc.Nodes {
		node := doc.Nodes[i]
		if node.ID == "" {
			node.ID = uuid.New().String()
		}
		if node.Type == "" {
			node.Type = entities.NodeTypeConcept
		}
		m.nodes = append(m.nodes, &node)
	}
	for i := range doc.Connections {
		conn := doc.Connections[i]
		if conn.ID == "" {
			conn.ID = uuid.New().String()
		}
		if conn.Type == "" {
			conn.Type = entities.ConnectionSimple
		}
		m.connections = append(m.connections, &conn)
	}
	return m
}
