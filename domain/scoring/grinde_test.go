package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmapper/domain/core/aggregates"
	"mindmapper/domain/core/entities"
)

func mapFrom(t *testing.T, nodes []entities.Node, conns []entities.Connection) *aggregates.MindMap {
	t.Helper()
	m := aggregates.FromDocument(aggregates.Document{
		ID:          "map_test",
		Title:       "scored",
		Mode:        aggregates.ModeGrinde,
		Nodes:       nodes,
		Connections: conns,
	})
	return m
}

func TestEvaluate_EmptyMapScoresZero(t *testing.T) {
	m := mapFrom(t, nil, nil)

	score := ClassicProfile().Evaluate(m)
	require.NotNil(t, score)
	assert.Equal(t, &Score{}, score)
}

func TestEvaluate_BuzanMapNotScored(t *testing.T) {
	m := aggregates.NewMindMap("unscored", aggregates.ModeBuzan, "Root")
	assert.Nil(t, ClassicProfile().Evaluate(m))
}

func TestEvaluate_GroupedClampsAtFourGroups(t *testing.T) {
	nodes := []entities.Node{
		{ID: "g1", Type: entities.NodeTypeGroup},
		{ID: "g2", Type: entities.NodeTypeGroup},
		{ID: "g3", Type: entities.NodeTypeGroup},
		{ID: "g4", Type: entities.NodeTypeGroup},
	}
	score := ClassicProfile().Evaluate(mapFrom(t, nodes, nil))
	require.NotNil(t, score)
	assert.Equal(t, 100, score.Grouped)
}

func TestEvaluate_InterconnectedRatio(t *testing.T) {
	nodes := []entities.Node{
		{ID: "1", Text: "a"},
		{ID: "2", Text: "b"},
		{ID: "3", Text: "c"},
	}
	conns := []entities.Connection{
		{ID: "c1", Source: "1", Target: "2", Type: entities.ConnectionSimple},
		{ID: "c2", Source: "1", Target: "3", Type: entities.ConnectionSimple},
	}
	score := ClassicProfile().Evaluate(mapFrom(t, nodes, conns))
	require.NotNil(t, score)
	assert.Equal(t, 60, score.Interconnected)
}

func TestEvaluate_DirectionalShare(t *testing.T) {
	nodes := []entities.Node{{ID: "1"}, {ID: "2"}}
	conns := []entities.Connection{
		{ID: "c1", Source: "1", Target: "2", Type: entities.ConnectionArrow},
		{ID: "c2", Source: "2", Target: "1", Type: entities.ConnectionSimple},
	}
	score := ClassicProfile().Evaluate(mapFrom(t, nodes, conns))
	require.NotNil(t, score)
	assert.Equal(t, 50, score.Directional)
}

func TestEvaluate_DoubleCountsAsDirectional(t *testing.T) {
	nodes := []entities.Node{{ID: "1"}, {ID: "2"}}
	conns := []entities.Connection{
		{ID: "c1", Source: "1", Target: "2", Type: entities.ConnectionDouble},
	}
	score := ClassicProfile().Evaluate(mapFrom(t, nodes, conns))
	require.NotNil(t, score)
	assert.Equal(t, 100, score.Directional)
}

func TestEvaluate_ReflectiveCountsUniqueLowercasedWords(t *testing.T) {
	nodes := []entities.Node{
		{ID: "1", Text: "Plan the plan"},
		{ID: "2", Text: "THE budget"},
	}
	// Unique words: plan, the, budget.
	score := ClassicProfile().Evaluate(mapFrom(t, nodes, nil))
	require.NotNil(t, score)
	assert.Equal(t, 9, score.Reflective)
}

func TestEvaluate_NonverbalSymbolRunes(t *testing.T) {
	nodes := []entities.Node{
		{ID: "1", Text: "plain ascii"},
		{ID: "2", Text: "idée 🚀"},
	}
	// Two non-ASCII runes: é and the rocket.
	score := ClassicProfile().Evaluate(mapFrom(t, nodes, nil))
	require.NotNil(t, score)
	assert.Equal(t, 30, score.Nonverbal)
}

func TestEvaluate_LiveProfileNonverbalCountsVisualNodes(t *testing.T) {
	nodes := []entities.Node{
		{ID: "1", Text: "idée"},
		{ID: "2", Text: "launch 🚀"},
		{ID: "3", Text: "pic", Extra: map[string]any{"image": "chart.png"}},
	}
	// The accent alone does not make node 1 visual under this policy.
	score := LiveProfile().Evaluate(mapFrom(t, nodes, nil))
	require.NotNil(t, score)
	assert.Equal(t, 40, score.Nonverbal)
}

func TestEvaluate_EmphasizedUsesEffectiveDefaults(t *testing.T) {
	nodes := []entities.Node{
		{ID: "1", Text: "a"},
		{ID: "2", Text: "b"},
	}
	// Both nodes collapse onto the default size and color.
	score := ClassicProfile().Evaluate(mapFrom(t, nodes, nil))
	require.NotNil(t, score)
	assert.Equal(t, 20, score.Emphasized)

	nodes[1].Size = 30
	nodes[1].Color = "#ff0000"
	score = ClassicProfile().Evaluate(mapFrom(t, nodes, nil))
	require.NotNil(t, score)
	assert.Equal(t, 40, score.Emphasized)
}

func TestEvaluate_TotalIsFlooredMean(t *testing.T) {
	nodes := []entities.Node{
		{ID: "g", Text: "Groupe 🎯", Type: entities.NodeTypeGroup, Size: 25, Color: "#10b981"},
		{ID: "1", Text: "first idea"},
		{ID: "2", Text: "second idea"},
	}
	conns := []entities.Connection{
		{ID: "c1", Source: "g", Target: "1", Type: entities.ConnectionArrow},
		{ID: "c2", Source: "g", Target: "2", Type: entities.ConnectionSimple},
	}
	m := mapFrom(t, nodes, conns)
	score := ClassicProfile().Evaluate(m)
	require.NotNil(t, score)

	sum := score.Grouped + score.Reflective + score.Interconnected +
		score.Nonverbal + score.Directional + score.Emphasized
	assert.Equal(t, sum/6, score.Total)

	for _, v := range []int{score.Grouped, score.Reflective, score.Interconnected,
		score.Nonverbal, score.Directional, score.Emphasized, score.Total} {
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 100)
	}
}

func TestEvaluate_Pure(t *testing.T) {
	nodes := []entities.Node{
		{ID: "1", Text: "idée 🚀", Type: entities.NodeTypeGroup},
		{ID: "2", Text: "plan"},
	}
	conns := []entities.Connection{
		{ID: "c1", Source: "1", Target: "2", Type: entities.ConnectionArrow},
	}
	m := mapFrom(t, nodes, conns)
	version := m.Version()

	first := ClassicProfile().Evaluate(m)
	second := ClassicProfile().Evaluate(m)
	assert.Equal(t, first, second)
	assert.Equal(t, version, m.Version())
}

func TestProfileByName(t *testing.T) {
	assert.Equal(t, "live", ProfileByName("LIVE").Name)
	assert.Equal(t, "classic", ProfileByName("classic").Name)
	assert.Equal(t, "classic", ProfileByName("").Name)
	assert.Equal(t, "classic", ProfileByName("unknown").Name)
}
