package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mindmapper/application/services"
	apperrors "mindmapper/pkg/errors"
)

// ExportHandler serves rendered map downloads
type ExportHandler struct {
	exports     *services.ExportService
	errors      *apperrors.ErrorHandler
	defaultLang string
	logger      *zap.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(exports *services.ExportService, errorHandler *apperrors.ErrorHandler, defaultLang string, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exports:     exports,
		errors:      errorHandler,
		defaultLang: defaultLang,
		logger:      logger,
	}
}

// Export handles GET /maps/{mapID}/export/{format}. The response body
// is the rendered document itself, not the API envelope, so clients
// can save it directly.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")
	format := services.ExportFormat(chi.URLParam(r, "format"))

	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = h.defaultLang
	}

	result, err := h.exports.Export(r.Context(), mapID, format, lang)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Content); err != nil {
		h.logger.Warn("Failed to write export body",
			zap.String("mapID", mapID),
			zap.Error(err),
		)
	}
}
