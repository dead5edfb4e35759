package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mindmapper/domain/config"
	"mindmapper/domain/core/aggregates"
	"mindmapper/domain/core/entities"
	"mindmapper/domain/events"
	"mindmapper/infrastructure/persistence/memory"
	apperrors "mindmapper/pkg/errors"
	"mindmapper/pkg/locks"
)

// capturingPublisher records published events for assertions.
type capturingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, batch...)
	return nil
}

func (p *capturingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.GetEventType())
	}
	return out
}

func newTestServices(t *testing.T) (*MapService, *NodeService, *capturingPublisher) {
	t.Helper()
	repo := memory.NewMapRepository()
	publisher := &capturingPublisher{}
	km := locks.NewKeyedMutex()
	cfg := config.DefaultDomainConfig()
	logger := zap.NewNop()
	maps := NewMapService(repo, publisher, km, cfg, logger)
	nodes := NewNodeService(repo, publisher, km, cfg, logger)
	return maps, nodes, publisher
}

func TestMapService_CreateAndGet(t *testing.T) {
	maps, _, publisher := newTestServices(t)
	ctx := context.Background()

	created, err := maps.CreateMap(ctx, CreateMapInput{Title: "Ideas", Mode: "grinde"})
	require.NoError(t, err)
	assert.Equal(t, "Ideas", created.Title)
	assert.Equal(t, 1, created.Version)
	require.Len(t, created.Nodes, 1)
	assert.NotNil(t, created.Score)
	assert.Contains(t, publisher.types(), "map.created")

	got, err := maps.GetMap(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestMapService_CreateAppliesDefaults(t *testing.T) {
	maps, _, _ := newTestServices(t)

	created, err := maps.CreateMap(context.Background(), CreateMapInput{})
	require.NoError(t, err)
	assert.Equal(t, "Untitled Map", created.Title)
	assert.Equal(t, aggregates.ModeGrinde, created.Mode)
	assert.Equal(t, "Central Idea", created.Nodes[0].Text)
}

func TestMapService_GetMissing(t *testing.T) {
	maps, _, _ := newTestServices(t)

	_, err := maps.GetMap(context.Background(), "map_missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMapService_BuzanMapHasNoScore(t *testing.T) {
	maps, _, _ := newTestServices(t)

	created, err := maps.CreateMap(context.Background(), CreateMapInput{Mode: "buzan"})
	require.NoError(t, err)
	assert.Nil(t, created.Score)

	score, err := maps.Score(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, score)
}

func TestMapService_UpdateMapMeta(t *testing.T) {
	maps, _, _ := newTestServices(t)
	ctx := context.Background()

	created, err := maps.CreateMap(ctx, CreateMapInput{Title: "Before"})
	require.NoError(t, err)

	title := "After"
	tags := []string{"study"}
	updated, err := maps.UpdateMap(ctx, created.ID, UpdateMapInput{
		Title:    &title,
		Metadata: map[string]any{"zoom": 2.0},
		Tags:     &tags,
	})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Title)
	assert.Equal(t, created.Version+1, updated.Version)
	assert.Equal(t, tags, updated.Tags)
	assert.Equal(t, 2.0, updated.Metadata["zoom"])
}

func TestMapService_RenameRejectsBlankTitle(t *testing.T) {
	maps, _, _ := newTestServices(t)
	ctx := context.Background()

	created, err := maps.CreateMap(ctx, CreateMapInput{})
	require.NoError(t, err)

	_, err = maps.RenameMap(ctx, created.ID, "   ")
	assert.True(t, apperrors.IsValidation(err))
}

func TestMapService_DeleteMap(t *testing.T) {
	maps, _, _ := newTestServices(t)
	ctx := context.Background()

	created, err := maps.CreateMap(ctx, CreateMapInput{})
	require.NoError(t, err)
	require.NoError(t, maps.DeleteMap(ctx, created.ID))

	_, err = maps.GetMap(ctx, created.ID)
	assert.True(t, apperrors.IsNotFound(err))

	err = maps.DeleteMap(ctx, created.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMapService_Duplicate(t *testing.T) {
	maps, nodes, _ := newTestServices(t)
	ctx := context.Background()

	created, err := maps.CreateMap(ctx, CreateMapInput{Title: "Original"})
	require.NoError(t, err)
	_, err = nodes.AddNode(ctx, created.ID, NodeInput{Text: "branch"})
	require.NoError(t, err)

	dup, err := maps.DuplicateMap(ctx, created.ID, "")
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, dup.ID)
	assert.Equal(t, "Original (Copy)", dup.Title)
	assert.Equal(t, 1, dup.Version)
	assert.Len(t, dup.Nodes, 2)

	// The copy is independent of the original.
	_, err = nodes.AddNode(ctx, dup.ID, NodeInput{Text: "only in copy"})
	require.NoError(t, err)
	original, err := maps.GetMap(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, original.Nodes, 2)
}

func TestMapService_ImportValidatesReferences(t *testing.T) {
	maps, _, _ := newTestServices(t)
	ctx := context.Background()

	_, err := maps.ImportMap(ctx, aggregates.Document{
		Title: "Broken",
		Nodes: []entities.Node{{ID: "1", Text: "root"}},
		Connections: []entities.Connection{
			{ID: "c1", Source: "1", Target: "ghost"},
		},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestMapService_ImportAssignsFreshID(t *testing.T) {
	maps, _, _ := newTestServices(t)
	ctx := context.Background()

	view, err := maps.ImportMap(ctx, aggregates.Document{
		ID:    "map_carried_over",
		Title: "Imported",
		Nodes: []entities.Node{{ID: "1", Text: "root", Type: entities.NodeTypeCentral}},
	})
	require.NoError(t, err)
	assert.NotEqual(t, "map_carried_over", view.ID)
	assert.Equal(t, "Imported", view.Title)
}

func TestMapService_ListAndSearch(t *testing.T) {
	maps, nodes, _ := newTestServices(t)
	ctx := context.Background()

	a, err := maps.CreateMap(ctx, CreateMapInput{Title: "Budget Plan"})
	require.NoError(t, err)
	b, err := maps.CreateMap(ctx, CreateMapInput{Title: "Holiday"})
	require.NoError(t, err)
	_, err = nodes.AddNode(ctx, b.ID, NodeInput{Text: "budget for flights"})
	require.NoError(t, err)

	summaries, err := maps.ListMaps(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, 2)

	hits, err := maps.SearchMaps(ctx, "BUDGET")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	for _, hit := range hits {
		switch hit.ID {
		case a.ID:
			assert.Equal(t, []string{"title"}, hit.MatchedIn)
		case b.ID:
			assert.Equal(t, []string{"nodes"}, hit.MatchedIn)
		default:
			t.Fatalf("unexpected hit %q", hit.ID)
		}
	}

	empty, err := maps.SearchMaps(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMapService_Stats(t *testing.T) {
	maps, nodes, _ := newTestServices(t)
	ctx := context.Background()

	created, err := maps.CreateMap(ctx, CreateMapInput{Title: "Stats"})
	require.NoError(t, err)
	group, err := nodes.AddNode(ctx, created.ID, NodeInput{Text: "bucket", Type: "group"})
	require.NoError(t, err)
	_, err = nodes.AddConnection(ctx, created.ID, ConnectionInput{
		Source: created.Nodes[0].ID, Target: group.ID, Type: "arrow",
	})
	require.NoError(t, err)

	stats, err := maps.Stats(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.NodeCount)
	assert.Equal(t, 1, stats.ConnectionCount)
	assert.Equal(t, 1, stats.NodeTypes["central"])
	assert.Equal(t, 1, stats.NodeTypes["group"])
	assert.Equal(t, 1, stats.ConnectionTypes["arrow"])
	assert.NotNil(t, stats.Score)

	global, err := maps.GlobalStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, global.TotalMaps)
	assert.Equal(t, 2, global.TotalNodes)
	assert.Equal(t, 1, global.TotalConnections)
	assert.Equal(t, 1, global.MapsByMode["grinde"])
	assert.Equal(t, "grinde", global.MostUsedMode)
	assert.Equal(t, 2.0, global.AvgNodesPerMap)
	require.NotNil(t, global.AvgGrindeScore)
	assert.Equal(t, float64(stats.Score.Total), *global.AvgGrindeScore)
	require.Len(t, global.RecentMaps, 1)
	assert.Equal(t, created.ID, global.RecentMaps[0].ID)
	require.NotNil(t, global.LastModified)
}

func TestMapService_ConcurrentMutationsKeepVersionExact(t *testing.T) {
	maps, nodes, _ := newTestServices(t)
	ctx := context.Background()

	created, err := maps.CreateMap(ctx, CreateMapInput{Title: "Contended"})
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, addErr := nodes.AddNode(ctx, created.ID, NodeInput{Text: "n"})
			assert.NoError(t, addErr)
		}()
	}
	wg.Wait()

	final, err := maps.GetMap(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1+workers, final.Version)
	assert.Len(t, final.Nodes, 1+workers)
}
