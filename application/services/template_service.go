package services

import (
	"context"

	"go.uber.org/zap"

	"mindmapper/domain/core/aggregates"
	apperrors "mindmapper/pkg/errors"
)

// TemplateService exposes the shipped map templates and instantiates
// maps from them. Templates exist in English and French; unknown
// languages fall back to English.
type TemplateService struct {
	maps   *MapService
	logger *zap.Logger
}

// NewTemplateService creates a new template service.
func NewTemplateService(maps *MapService, logger *zap.Logger) *TemplateService {
	return &TemplateService{maps: maps, logger: logger}
}

// List returns the available templates in a stable order.
func (s *TemplateService) List(lang string) []TemplateInfo {
	infos := make([]TemplateInfo, 0, len(templateOrder))
	for _, id := range templateOrder {
		tpl := localized(builtinTemplates[id], lang)
		infos = append(infos, TemplateInfo{
			ID:        tpl.ID,
			Title:     tpl.Title,
			Mode:      tpl.Mode,
			NodeCount: len(tpl.Nodes),
		})
	}
	return infos
}

// Get returns one template by id.
func (s *TemplateService) Get(templateID, lang string) (*Template, error) {
	byLang, ok := builtinTemplates[templateID]
	if !ok {
		return nil, apperrors.NewNotFoundError("template").
			WithCode(apperrors.CodeTemplateNotFound)
	}
	tpl := localized(byLang, lang)
	return &tpl, nil
}

// Apply instantiates a template as a new map. An empty title keeps the
// template's own title.
func (s *TemplateService) Apply(ctx context.Context, templateID, lang, title string) (*MapView, error) {
	tpl, err := s.Get(templateID, lang)
	if err != nil {
		return nil, err
	}

	if title == "" {
		title = tpl.Title
	}
	view, err := s.maps.ImportMap(ctx, aggregates.Document{
		Title:       title,
		Mode:        aggregates.Mode(tpl.Mode),
		Nodes:       tpl.Nodes,
		Connections: tpl.Connections,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("template applied",
		zap.String("templateID", templateID),
		zap.String("mapID", view.ID),
	)
	return view, nil
}

func localized(byLang map[string]Template, lang string) Template {
	if tpl, ok := byLang[lang]; ok {
		return tpl
	}
	return byLang[langEN]
}
