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

// NodeHandler handles node and connection HTTP requests within a map
type NodeHandler struct {
	nodes  *services.NodeService
	errors *apperrors.ErrorHandler
	logger *zap.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(nodes *services.NodeService, errorHandler *apperrors.ErrorHandler, logger *zap.Logger) *NodeHandler {
	return &NodeHandler{
		nodes:  nodes,
		errors: errorHandler,
		logger: logger,
	}
}

// AddNode handles POST /maps/{mapID}/nodes
func (h *NodeHandler) AddNode(w http.ResponseWriter, r *http.Request) {
	var input services.NodeInput
	if err := common.ParseJSONBody(r, &input, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	node, err := h.nodes.AddNode(r.Context(), chi.URLParam(r, "mapID"), input)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, node)
}

// UpdateNode handles PUT /maps/{mapID}/nodes/{nodeID}
func (h *NodeHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	var input services.NodePatchInput
	if err := common.ParseJSONBody(r, &input, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	node, err := h.nodes.UpdateNode(r.Context(), chi.URLParam(r, "mapID"), chi.URLParam(r, "nodeID"), input)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, node)
}

// DeleteNode handles DELETE /maps/{mapID}/nodes/{nodeID}
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	if err := h.nodes.DeleteNode(r.Context(), chi.URLParam(r, "mapID"), nodeID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{
		"id":      nodeID,
		"message": "node deleted",
	})
}

// AddConnection handles POST /maps/{mapID}/connections
func (h *NodeHandler) AddConnection(w http.ResponseWriter, r *http.Request) {
	var input services.ConnectionInput
	if err := common.ParseJSONBody(r, &input, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	conn, err := h.nodes.AddConnection(r.Context(), chi.URLParam(r, "mapID"), input)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, conn)
}

// DeleteConnection handles DELETE /maps/{mapID}/connections/{connectionID}
func (h *NodeHandler) DeleteConnection(w http.ResponseWriter, r *http.Request) {
	connectionID := chi.URLParam(r, "connectionID")
	if err := h.nodes.DeleteConnection(r.Context(), chi.URLParam(r, "mapID"), connectionID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{
		"id":      connectionID,
		"message": "connection deleted",
	})
}
