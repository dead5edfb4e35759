// Package scoring evaluates how well a map follows the GRINDE
// heuristics: Grouped, Reflective, Interconnected, Nonverbal,
// Directional, Emphasized. Each axis is clamped to 0..100 and the
// total is the integer mean of the six.
package scoring

import (
	"strings"

	"mindmapper/domain/core/aggregates"
	"mindmapper/domain/core/entities"
)

// Score holds the six GRINDE axes plus their mean. All values are
// integers in 0..100.
type Score struct {
	Grouped        int `json:"grouped"`
	Reflective     int `json:"reflective"`
	Interconnected int `json:"interconnected"`
	Nonverbal      int `json:"nonverbal"`
	Directional    int `json:"directional"`
	Emphasized     int `json:"emphasized"`
	Total          int `json:"total"`
}

// NonverbalPolicy selects how the nonverbal axis counts visual content.
type NonverbalPolicy int

const (
	// NonverbalSymbolRunes counts every non-ASCII rune in node labels.
	NonverbalSymbolRunes NonverbalPolicy = iota
	// NonverbalVisualNodes counts nodes carrying an image or one of a
	// small set of emphasis symbols.
	NonverbalVisualNodes
)

// visualSymbols is the emphasis set the visual-nodes policy looks for.
const visualSymbols = "🎯💡📊🔥✨🚀💎⭐"

// Profile fixes the weights of one scoring variant. Weights are
// per-unit points before clamping.
type Profile struct {
	Name string

	GroupedPerGroup     int
	ReflectivePerWord   int
	InterconnectedScale int
	NonverbalPolicy     NonverbalPolicy
	NonverbalWeight     int
	EmphasizedPerSize   int
	EmphasizedPerColor  int
}

// ClassicProfile is the default variant. It rewards vocabulary breadth
// cheaply and counts raw symbol runes for the nonverbal axis.
func ClassicProfile() Profile {
	return Profile{
		Name:                "classic",
		GroupedPerGroup:     25,
		ReflectivePerWord:   3,
		InterconnectedScale: 60,
		NonverbalPolicy:     NonverbalSymbolRunes,
		NonverbalWeight:     15,
		EmphasizedPerSize:   10,
		EmphasizedPerColor:  10,
	}
}

// LiveProfile is the stricter variant used by the realtime deployment.
// It scores whole nodes with visual content rather than individual
// symbol runes.
func LiveProfile() Profile {
	return Profile{
		Name:                "live",
		GroupedPerGroup:     25,
		ReflectivePerWord:   5,
		InterconnectedScale: 50,
		NonverbalPolicy:     NonverbalVisualNodes,
		NonverbalWeight:     20,
		EmphasizedPerSize:   15,
		EmphasizedPerColor:  15,
	}
}

// ProfileByName resolves a configured profile name, falling back to
// classic for anything unrecognized.
func ProfileByName(name string) Profile {
	if strings.EqualFold(name, "live") {
		return LiveProfile()
	}
	return ClassicProfile()
}

// Evaluate scores a map under this profile. Only grinde-mode maps are
// scored; anything else yields nil. The computation is pure: it never
// mutates the map and the same map always yields the same score.
func (p Profile) Evaluate(m *aggregates.MindMap) *Score {
	if m.Mode() != aggregates.ModeGrinde {
		return nil
	}

	nodes := m.Nodes()
	conns := m.Connections()
	score := &Score{}

	// G: dedicated group nodes.
	groups := 0
	for _, n := range nodes {
		if n.Type == entities.NodeTypeGroup {
			groups++
		}
	}
	score.Grouped = clamp(groups * p.GroupedPerGroup)

	// R: breadth of vocabulary across all labels.
	unique := make(map[string]struct{})
	for _, n := range nodes {
		for _, w := range strings.Fields(strings.ToLower(n.Text)) {
			unique[w] = struct{}{}
		}
	}
	score.Reflective = clamp(len(unique) * p.ReflectivePerWord)

	// I: connections relative to the n-1 edges a tree would need.
	if len(nodes) > 1 {
		ratio := float64(len(conns)) / float64(len(nodes)-1)
		score.Interconnected = clamp(int(ratio * float64(p.InterconnectedScale)))
	}

	// N: visual content, per the profile's policy.
	score.Nonverbal = clamp(p.nonverbal(nodes) * p.NonverbalWeight)

	// D: share of connections that carry direction.
	if len(conns) > 0 {
		directional := 0
		for _, c := range conns {
			if c.Type.IsDirectional() {
				directional++
			}
		}
		score.Directional = int(float64(directional) / float64(len(conns)) * 100)
	}

	// E: distinct sizes and colors, defaults substituted for absent
	// values so an unstyled map counts one of each.
	sizes := make(map[float64]struct{})
	colors := make(map[string]struct{})
	for _, n := range nodes {
		sizes[n.EffectiveSize()] = struct{}{}
		colors[n.EffectiveColor()] = struct{}{}
	}
	score.Emphasized = clamp(len(sizes)*p.EmphasizedPerSize + len(colors)*p.EmphasizedPerColor)

	score.Total = (score.Grouped + score.Reflective + score.Interconnected +
		score.Nonverbal + score.Directional + score.Emphasized) / 6
	return score
}

func (p Profile) nonverbal(nodes []*entities.Node) int {
	switch p.NonverbalPolicy {
	case NonverbalVisualNodes:
		count := 0
		for _, n := range nodes {
			if hasVisual(n) {
				count++
			}
		}
		return count
	default:
		count := 0
		for _, n := range nodes {
			for _, r := range n.Text {
				if r > 127 {
					count++
				}
			}
		}
		return count
	}
}

func hasVisual(n *entities.Node) bool {
	if n.Extra != nil {
		if img, ok := n.Extra["image"]; ok {
			if s, isStr := img.(string); !isStr || s != "" {
				return true
			}
		}
	}
	return strings.ContainsAny(n.Text, visualSymbols)
}

func clamp(v int) int {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}
