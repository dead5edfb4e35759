package entities

import (
	"time"

	"github.com/google/uuid"
)

// NodeType classifies a node's conventional role in the map.
// The set is open: unknown values are preserved as-is so imported
// documents keep whatever roles their authors invented.
type NodeType string

const (
	NodeTypeCentral NodeType = "central"
	NodeTypeGroup   NodeType = "group"
	NodeTypeConcept NodeType = "concept"
	NodeTypeDetail  NodeType = "detail"
)

// Display defaults shared by the aggregate, the scorer and the exporters.
const (
	DefaultNodeSize = 20.0
	CentralNodeSize = 30.0
	GroupNodeSize   = 25.0

	DefaultNodeColor = "#6366f1"
)

// Node is a labeled point in a mind map. Position is a layout hint only;
// the map enforces no geometric invariants.
type Node struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	Type      NodeType       `json:"type"`
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Size      float64        `json:"size"`
	Color     string         `json:"color"`
	CreatedAt time.Time      `json:"createdAt"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// NodeFields carries caller-supplied fields for node creation. Absent
// fields fall back to the defaults above.
type NodeFields struct {
	Text  string
	Type  NodeType
	X     float64
	Y     float64
	Size  float64
	Color string
	Extra map[string]any
}

// NewNode builds a node with a fresh identity and defaults applied.
func NewNode(fields NodeFields) *Node {
	node := &Node{
		ID:        uuid.New().String(),
		Text:      fields.Text,
		Type:      fields.Type,
		X:         fields.X,
		Y:         fields.Y,
		Size:      fields.Size,
		Color:     fields.Color,
		CreatedAt: time.Now(),
		Extra:     fields.Extra,
	}

	if node.Type == "" {
		node.Type = NodeTypeConcept
	}
	if node.Size == 0 {
		node.Size = DefaultNodeSize
	}
	if node.Color == "" {
		node.Color = DefaultNodeColor
	}

	return node
}

// NodePatch is a shallow field overwrite for an existing node. Nil
// pointers leave the corresponding field untouched; ID and CreatedAt
// are immutable and have no patch slot.
type NodePatch struct {
	Text  *string
	Type  *NodeType
	X     *float64
	Y     *float64
	Size  *float64
	Color *string
	Extra map[string]any
}

// Apply merges the patch onto the node. Extra keys are merged one by
// one rather than replaced wholesale.
func (n *Node) Apply(patch NodePatch) {
	if patch.Text != nil {
		n.Text = *patch.Text
	}
	if patch.Type != nil {
		n.Type = *patch.Type
	}
	if patch.X != nil {
		n.X = *patch.X
	}
	if patch.Y != nil {
		n.Y = *patch.Y
	}
	if patch.Size != nil {
		n.Size = *patch.Size
	}
	if patch.Color != nil {
		n.Color = *patch.Color
	}
	if len(patch.Extra) > 0 {
		if n.Extra == nil {
			n.Extra = make(map[string]any, len(patch.Extra))
		}
		for k, v := range patch.Extra {
			n.Extra[k] = v
		}
	}
}

// EffectiveSize returns the node size with the documented default
// substituted for an absent (zero) value.
func (n *Node) EffectiveSize() float64 {
	if n.Size == 0 {
		return DefaultNodeSize
	}
	return n.Size
}

// EffectiveColor returns the node color with the documented default
// substituted for an absent value.
func (n *Node) EffectiveColor() string {
	if n.Color == "" {
		return DefaultNodeColor
	}
	return n.Color
}
