package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mindmapper/application/services"
	"mindmapper/domain/core/aggregates"
	"mindmapper/pkg/common"
	apperrors "mindmapper/pkg/errors"
	"mindmapper/pkg/utils"
)

// maxBodyBytes bounds request bodies; imports can carry whole maps.
const maxBodyBytes = 4 << 20

// MapHandler handles map-level HTTP requests
type MapHandler struct {
	maps   *services.MapService
	errors *apperrors.ErrorHandler
	logger *zap.Logger
}

// NewMapHandler creates a new map handler
func NewMapHandler(maps *services.MapService, errorHandler *apperrors.ErrorHandler, logger *zap.Logger) *MapHandler {
	return &MapHandler{
		maps:   maps,
		errors: errorHandler,
		logger: logger,
	}
}

// RenameMapRequest represents the request body for renaming a map
type RenameMapRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

// DuplicateMapRequest represents the request body for duplicating a map
type DuplicateMapRequest struct {
	Title string `json:"title" validate:"omitempty,max=200"`
}

// CreateMap handles POST /maps
func (h *MapHandler) CreateMap(w http.ResponseWriter, r *http.Request) {
	var input services.CreateMapInput
	if err := common.ParseJSONBody(r, &input, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	view, err := h.maps.CreateMap(r.Context(), input)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, view)
}

// ListMaps handles GET /maps with the usual page/page_size parameters.
func (h *MapHandler) ListMaps(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.maps.ListMaps(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	params := common.ExtractPaginationParams(r)
	total := len(summaries)
	offset := params.CalculateOffset()
	if offset > total {
		offset = total
	}
	end := offset + params.PageSize
	if end > total {
		end = total
	}

	meta := &common.MetaInfo{
		RequestID:  common.ExtractRequestID(r),
		Pagination: common.BuildPaginationMeta(params.Page, params.PageSize, total),
	}
	common.RespondWithMeta(w, http.StatusOK, summaries[offset:end], meta)
}

// GetMap handles GET /maps/{mapID}
func (h *MapHandler) GetMap(w http.ResponseWriter, r *http.Request) {
	view, err := h.maps.GetMap(r.Context(), chi.URLParam(r, "mapID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, view)
}

// UpdateMap handles PUT /maps/{mapID}
func (h *MapHandler) UpdateMap(w http.ResponseWriter, r *http.Request) {
	var input services.UpdateMapInput
	if err := common.ParseJSONBody(r, &input, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	view, err := h.maps.UpdateMap(r.Context(), chi.URLParam(r, "mapID"), input)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, view)
}

// RenameMap handles POST /maps/{mapID}/rename
func (h *MapHandler) RenameMap(w http.ResponseWriter, r *http.Request) {
	var req RenameMapRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	view, err := h.maps.RenameMap(r.Context(), chi.URLParam(r, "mapID"), req.Title)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, view)
}

// DeleteMap handles DELETE /maps/{mapID}
func (h *MapHandler) DeleteMap(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")
	if err := h.maps.DeleteMap(r.Context(), mapID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{
		"id":      mapID,
		"message": "map deleted",
	})
}

// DuplicateMap handles POST /maps/{mapID}/duplicate
func (h *MapHandler) DuplicateMap(w http.ResponseWriter, r *http.Request) {
	var req DuplicateMapRequest
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

	view, err := h.maps.DuplicateMap(r.Context(), chi.URLParam(r, "mapID"), req.Title)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, view)
}

// ImportMap handles POST /maps/import with a full document body.
func (h *MapHandler) ImportMap(w http.ResponseWriter, r *http.Request) {
	var doc aggregates.Document
	if err := common.ParseJSONBody(r, &doc, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}

	view, err := h.maps.ImportMap(r.Context(), doc)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, view)
}

// SearchMaps handles GET /maps/search?q=
func (h *MapHandler) SearchMaps(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	hits, err := h.maps.SearchMaps(r.Context(), query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": hits,
		"count":   len(hits),
	})
}

// MapScore handles GET /maps/{mapID}/score
func (h *MapHandler) MapScore(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapID")
	score, err := h.maps.Score(r.Context(), mapID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"mapId": mapID,
		"score": score,
	})
}

// MapStats handles GET /maps/{mapID}/stats
func (h *MapHandler) MapStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.maps.Stats(r.Context(), chi.URLParam(r, "mapID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, stats)
}

// GlobalStats handles GET /stats
func (h *MapHandler) GlobalStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.maps.GlobalStats(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, stats)
}
