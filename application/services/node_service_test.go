package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mindmapper/pkg/errors"
)

func TestNodeService_AddNodeDefaults(t *testing.T) {
	maps, nodes, publisher := newTestServices(t)
	ctx := context.Background()

	created, err := maps.CreateMap(ctx, CreateMapInput{})
	require.NoError(t, err)

	node, err := nodes.AddNode(ctx, created.ID, NodeInput{Text: "idea", X: 10, Y: 20})
	require.NoError(t, err)
	assert.NotEmpty(t, node.ID)
	assert.Equal(t, "concept", string(node.Type))
	assert.Equal(t, 20.0, node.Size)
	assert.Equal(t, "#6366f1", node.Color)
	assert.Contains(t, publisher.types(), "node.added")

	view, err := maps.GetMap(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Version)
	assert.Len(t, view.Nodes, 2)
}

func TestNodeService_UpdateNode(t *testing.T) {
	maps, nodes, _ := newTestServices(t)
	ctx := context.Background()

	created, err := maps.CreateMap(ctx, CreateMapInput{})
	require.NoError(t, err)
	node, err := nodes.AddNode(ctx, created.ID, NodeInput{Text: "before"})
	require.NoError(t, err)

	text := "after"
	size := 28.0
	updated, err := nodes.UpdateNode(ctx, created.ID, node.ID, NodePatchInput{Text: &text, Size: &size})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Text)
	assert.Equal(t, 28.0, updated.Size)
	assert.Equal(t, node.ID, updated.ID)

	_, err = nodes.UpdateNode(ctx, created.ID, "ghost", NodePatchInput{Text: &text})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeNodeNotFound, appErr.Code)
}

func TestNodeService_DeleteNodeCascadesAndTolerated(t *testing.T) {
	maps, nodes, publisher := newTestServices(t)
	ctx := context.Background()

	created, err := maps.CreateMap(ctx, CreateMapInput{})
	require.NoError(t, err)
	central := created.Nodes[0]
	branch, err := nodes.AddNode(ctx, created.ID, NodeInput{Text: "branch"})
	require.NoError(t, err)
	_, err = nodes.AddConnection(ctx, created.ID, ConnectionInput{Source: central.ID, Target: branch.ID})
	require.NoError(t, err)

	require.NoError(t, nodes.DeleteNode(ctx, created.ID, branch.ID))
	view, err := maps.GetMap(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, view.Nodes, 1)
	assert.Empty(t, view.Connections)
	assert.Contains(t, publisher.types(), "node.removed")

	// Deleting an unknown node is tolerated and changes nothing.
	before := view.Version
	require.NoError(t, nodes.DeleteNode(ctx, created.ID, "ghost"))
	view, err = maps.GetMap(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, before, view.Version)
}

func TestNodeService_AddConnectionValidatesEndpoints(t *testing.T) {
	maps, nodes, _ := newTestServices(t)
	ctx := context.Background()

	created, err := maps.CreateMap(ctx, CreateMapInput{})
	require.NoError(t, err)
	central := created.Nodes[0]

	_, err = nodes.AddConnection(ctx, created.ID, ConnectionInput{Source: central.ID, Target: "ghost"})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeDanglingReference, appErr.Code)
	assert.Equal(t, "ghost", appErr.Details["nodeId"])

	view, err := maps.GetMap(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Version)
	assert.Empty(t, view.Connections)
}

func TestNodeService_ConnectionLifecycle(t *testing.T) {
	maps, nodes, publisher := newTestServices(t)
	ctx := context.Background()

	created, err := maps.CreateMap(ctx, CreateMapInput{})
	require.NoError(t, err)
	central := created.Nodes[0]
	branch, err := nodes.AddNode(ctx, created.ID, NodeInput{Text: "branch"})
	require.NoError(t, err)

	conn, err := nodes.AddConnection(ctx, created.ID, ConnectionInput{
		Source: central.ID, Target: branch.ID, Type: "double",
	})
	require.NoError(t, err)
	assert.Equal(t, "double", string(conn.Type))

	require.NoError(t, nodes.DeleteConnection(ctx, created.ID, conn.ID))
	assert.Contains(t, publisher.types(), "connection.removed")

	err = nodes.DeleteConnection(ctx, created.ID, conn.ID)
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeConnectionNotFound, appErr.Code)
}

func TestNodeService_DefaultConnectionTypeIsSimple(t *testing.T) {
	maps, nodes, _ := newTestServices(t)
	ctx := context.Background()

	created, err := maps.CreateMap(ctx, CreateMapInput{})
	require.NoError(t, err)
	branch, err := nodes.AddNode(ctx, created.ID, NodeInput{Text: "branch"})
	require.NoError(t, err)

	conn, err := nodes.AddConnection(ctx, created.ID, ConnectionInput{
		Source: created.Nodes[0].ID, Target: branch.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "simple", string(conn.Type))
}
