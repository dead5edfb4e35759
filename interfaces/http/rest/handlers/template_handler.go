package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mindmapper/application/services"
	"mindmapper/pkg/common"
	apperrors "mindmapper/pkg/errors"
	"mindmapper/pkg/utils"
)

// TemplateHandler serves the built-in template catalog
type TemplateHandler struct {
	templates   *services.TemplateService
	errors      *apperrors.ErrorHandler
	defaultLang string
	logger      *zap.Logger
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templates *services.TemplateService, errorHandler *apperrors.ErrorHandler, defaultLang string, logger *zap.Logger) *TemplateHandler {
	return &TemplateHandler{
		templates:   templates,
		errors:      errorHandler,
		defaultLang: defaultLang,
		logger:      logger,
	}
}

// ApplyTemplateRequest represents the request body for instantiating a template
type ApplyTemplateRequest struct {
	Title string `json:"title" validate:"omitempty,max=200"`
}

func (h *TemplateHandler) lang(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	return h.defaultLang
}

// ListTemplates handles GET /templates
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.templates.List(h.lang(r)))
}

// GetTemplate handles GET /templates/{templateID}
func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.templates.Get(chi.URLParam(r, "templateID"), h.lang(r))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, tpl)
}

// ApplyTemplate handles POST /templates/{templateID}/apply
func (h *TemplateHandler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	var req ApplyTemplateRequest
	if r.ContentLength > 0 {
		if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
			h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body: "+err.Error()))
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
			return
		}
	}

	view, err := h.templates.Apply(r.Context(), chi.URLParam(r, "templateID"), h.lang(r), req.Title)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, view)
}
