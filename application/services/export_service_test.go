package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mindmapper/domain/core/aggregates"
	"mindmapper/domain/scoring"
	apperrors "mindmapper/pkg/errors"
)

func newExportFixture(t *testing.T) (*ExportService, string) {
	t.Helper()
	maps, nodes, _ := newTestServices(t)
	ctx := context.Background()

	created, err := maps.CreateMap(ctx, CreateMapInput{Title: "Launch Plan", CentralText: "🚀 Launch"})
	require.NoError(t, err)
	group, err := nodes.AddNode(ctx, created.ID, NodeInput{Text: "Marketing", Type: "group"})
	require.NoError(t, err)
	concept, err := nodes.AddNode(ctx, created.ID, NodeInput{Text: "Press release"})
	require.NoError(t, err)
	_, err = nodes.AddNode(ctx, created.ID, NodeInput{Text: "Draft by Friday", Type: "detail"})
	require.NoError(t, err)
	_, err = nodes.AddConnection(ctx, created.ID, ConnectionInput{
		Source: group.ID, Target: concept.ID, Type: "arrow",
	})
	require.NoError(t, err)

	svc := NewExportService(maps.repo, scoring.ClassicProfile(), zap.NewNop())
	return svc, created.ID
}

func TestExport_Text(t *testing.T) {
	svc, mapID := newExportFixture(t)

	result, err := svc.Export(context.Background(), mapID, FormatText, "en")
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", result.ContentType)
	assert.Equal(t, "Launch Plan.txt", result.Filename)

	text := string(result.Content)
	assert.True(t, strings.HasPrefix(text, "Launch Plan\n===========\n"))
	assert.Contains(t, text, "CENTRAL IDEA:\n  ★ 🚀 Launch")
	assert.Contains(t, text, "GROUPS:\n  ◆ Marketing")
	assert.Contains(t, text, "CONCEPTS:\n  • Press release")
	assert.Contains(t, text, "DETAILS:\n  - Draft by Friday")
	assert.Contains(t, text, "Total nodes: 4")
	assert.Contains(t, text, "Total connections: 1")
}

func TestExport_TextLocalized(t *testing.T) {
	svc, mapID := newExportFixture(t)

	result, err := svc.Export(context.Background(), mapID, FormatText, "fr")
	require.NoError(t, err)
	text := string(result.Content)
	assert.Contains(t, text, "IDÉE CENTRALE:")
	assert.Contains(t, text, "Total des nœuds: 4")
}

func TestExport_Markdown(t *testing.T) {
	svc, mapID := newExportFixture(t)

	result, err := svc.Export(context.Background(), mapID, FormatMarkdown, "en")
	require.NoError(t, err)
	assert.Equal(t, "Launch Plan.md", result.Filename)

	md := string(result.Content)
	assert.True(t, strings.HasPrefix(md, "# Launch Plan\n\n"))
	assert.Contains(t, md, "**Mode:** GRINDE")
	assert.Contains(t, md, "## 📊 Score GRINDE:")
	assert.Contains(t, md, "- Grouped: 25/100")
	assert.Contains(t, md, "## 🎯 CENTRAL IDEA")
	assert.Contains(t, md, "### Marketing")
	assert.Contains(t, md, "- Press release")
	assert.Contains(t, md, "## 🔗 Connections")
}

func TestExport_MarkdownBuzanOmitsScore(t *testing.T) {
	maps, _, _ := newTestServices(t)
	ctx := context.Background()
	created, err := maps.CreateMap(ctx, CreateMapInput{Title: "Free", Mode: "buzan"})
	require.NoError(t, err)

	svc := NewExportService(maps.repo, scoring.ClassicProfile(), zap.NewNop())
	result, err := svc.Export(ctx, created.ID, FormatMarkdown, "en")
	require.NoError(t, err)
	assert.NotContains(t, string(result.Content), "Score GRINDE")
}

func TestExport_HTML(t *testing.T) {
	svc, mapID := newExportFixture(t)

	result, err := svc.Export(context.Background(), mapID, FormatHTML, "en")
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", result.ContentType)

	page := string(result.Content)
	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<title>Launch Plan</title>")
	assert.Contains(t, page, `<div class="central">🚀 Launch</div>`)
	assert.Contains(t, page, "grinde-score")
	assert.Contains(t, page, `<div class="group">Marketing</div>`)
	assert.Contains(t, page, "</html>")
}

func TestExport_HTMLEscapesLabels(t *testing.T) {
	maps, _, _ := newTestServices(t)
	ctx := context.Background()
	created, err := maps.CreateMap(ctx, CreateMapInput{
		Title:       "<script>alert(1)</script>",
		CentralText: "a < b & c",
	})
	require.NoError(t, err)

	svc := NewExportService(maps.repo, scoring.ClassicProfile(), zap.NewNop())
	result, err := svc.Export(ctx, created.ID, FormatHTML, "en")
	require.NoError(t, err)

	page := string(result.Content)
	assert.NotContains(t, page, "<script>alert(1)</script>")
	assert.Contains(t, page, "a &lt; b &amp; c")
}

func TestExport_SVG(t *testing.T) {
	svc, mapID := newExportFixture(t)

	result, err := svc.Export(context.Background(), mapID, FormatSVG, "en")
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", result.ContentType)

	svg := string(result.Content)
	assert.Contains(t, svg, `<svg xmlns="http://www.w3.org/2000/svg" width="1200" height="800">`)
	assert.Contains(t, svg, "<circle class=\"node\"")
	assert.Contains(t, svg, "<rect class=\"node\"")
	assert.Equal(t, 1, strings.Count(svg, "<line class=\"connection\""))
}

func TestExport_JSONRoundTrips(t *testing.T) {
	svc, mapID := newExportFixture(t)

	result, err := svc.Export(context.Background(), mapID, FormatJSON, "en")
	require.NoError(t, err)
	assert.Equal(t, "application/json; charset=utf-8", result.ContentType)

	var doc aggregates.Document
	require.NoError(t, json.Unmarshal(result.Content, &doc))
	assert.Equal(t, mapID, doc.ID)
	assert.Len(t, doc.Nodes, 4)
	assert.Len(t, doc.Connections, 1)
}

func TestExport_UnknownFormat(t *testing.T) {
	svc, mapID := newExportFixture(t)

	_, err := svc.Export(context.Background(), mapID, ExportFormat("pdf"), "en")
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeUnknownFormat, appErr.Code)
}

func TestExport_MissingMap(t *testing.T) {
	svc, _ := newExportFixture(t)

	_, err := svc.Export(context.Background(), "map_missing", FormatText, "en")
	assert.True(t, apperrors.IsNotFound(err))
}
