package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "mindmapper/pkg/errors"
)

func newTemplateService(t *testing.T) (*TemplateService, *MapService) {
	t.Helper()
	maps, _, _ := newTestServices(t)
	return NewTemplateService(maps, zap.NewNop()), maps
}

func TestTemplateService_List(t *testing.T) {
	templates, _ := newTemplateService(t)

	infos := templates.List("en")
	require.Len(t, infos, 6)
	assert.Equal(t, "business-plan", infos[0].ID)
	assert.Equal(t, "Business Plan", infos[0].Title)
	assert.Equal(t, 7, infos[0].NodeCount)
	assert.Equal(t, "buzan", infos[4].Mode)
}

func TestTemplateService_ListLocalized(t *testing.T) {
	templates, _ := newTemplateService(t)

	fr := templates.List("fr")
	assert.Equal(t, "Plan d'Affaires", fr[0].Title)

	// Unknown languages fall back to English.
	de := templates.List("de")
	assert.Equal(t, "Business Plan", de[0].Title)
}

func TestTemplateService_GetUnknown(t *testing.T) {
	templates, _ := newTemplateService(t)

	_, err := templates.Get("nope", "en")
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeTemplateNotFound, appErr.Code)
}

func TestTemplateService_Apply(t *testing.T) {
	templates, maps := newTemplateService(t)
	ctx := context.Background()

	view, err := templates.Apply(ctx, "business-plan", "en", "")
	require.NoError(t, err)
	assert.Equal(t, "Business Plan", view.Title)
	assert.Len(t, view.Nodes, 7)
	assert.Len(t, view.Connections, 6)
	require.NotNil(t, view.Score)
	assert.Equal(t, 100, view.Score.Grouped)

	stored, err := maps.GetMap(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, view.ID, stored.ID)
}

func TestTemplateService_ApplyWithCustomTitle(t *testing.T) {
	templates, _ := newTemplateService(t)

	view, err := templates.Apply(context.Background(), "swot", "fr", "Analyse Q3")
	require.NoError(t, err)
	assert.Equal(t, "Analyse Q3", view.Title)
	assert.Len(t, view.Nodes, 5)
}

func TestTemplateService_AppliesAreIndependent(t *testing.T) {
	templates, maps := newTemplateService(t)
	ctx := context.Background()

	first, err := templates.Apply(ctx, "todo", "en", "")
	require.NoError(t, err)
	second, err := templates.Apply(ctx, "todo", "en", "")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	summaries, err := maps.ListMaps(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
}
