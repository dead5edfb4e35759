package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"mindmapper/application/ports"
	"mindmapper/domain/config"
	"mindmapper/domain/core/aggregates"
	"mindmapper/domain/core/entities"
	apperrors "mindmapper/pkg/errors"
	"mindmapper/pkg/locks"
)

// NodeInput carries caller-supplied fields for a new node.
type NodeInput struct {
	Text  string         `json:"text" validate:"max=2000"`
	Type  string         `json:"type" validate:"omitempty,max=50"`
	X     float64        `json:"x"`
	Y     float64        `json:"y"`
	Size  float64        `json:"size" validate:"omitempty,gte=0"`
	Color string         `json:"color" validate:"omitempty,max=30"`
	Extra map[string]any `json:"extra"`
}

// NodePatchInput is a partial node overwrite. Absent fields stay
// untouched.
type NodePatchInput struct {
	Text  *string        `json:"text" validate:"omitempty,max=2000"`
	Type  *string        `json:"type" validate:"omitempty,max=50"`
	X     *float64       `json:"x"`
	Y     *float64       `json:"y"`
	Size  *float64       `json:"size" validate:"omitempty,gte=0"`
	Color *string        `json:"color" validate:"omitempty,max=30"`
	Extra map[string]any `json:"extra"`
}

// ConnectionInput names the two endpoints to link and the edge type.
type ConnectionInput struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
	Type   string `json:"type" validate:"omitempty,oneof=simple arrow double"`
}

// NodeService owns node and connection mutations within one map. Each
// operation is one load-modify-save cycle under the map's lock.
type NodeService struct {
	repo      ports.MapRepository
	publisher ports.EventPublisher
	locks     *locks.KeyedMutex
	domainCfg *config.DomainConfig
	logger    *zap.Logger
}

// NewNodeService creates a new node service.
func NewNodeService(
	repo ports.MapRepository,
	publisher ports.EventPublisher,
	km *locks.KeyedMutex,
	domainCfg *config.DomainConfig,
	logger *zap.Logger,
) *NodeService {
	return &NodeService{
		repo:      repo,
		publisher: publisher,
		locks:     km,
		domainCfg: domainCfg,
		logger:    logger,
	}
}

// AddNode appends a node to a map and returns it with identity and
// defaults assigned.
func (s *NodeService) AddNode(ctx context.Context, mapID string, input NodeInput) (*entities.Node, error) {
	var node *entities.Node
	_, err := s.mutate(ctx, mapID, func(m *aggregates.MindMap) error {
		if len(m.Nodes()) >= s.domainCfg.MaxNodesPerMap {
			return apperrors.NewConflictError("map is at its node limit")
		}
		node = m.AddNode(entities.NodeFields{
			Text:  input.Text,
			Type:  entities.NodeType(input.Type),
			X:     input.X,
			Y:     input.Y,
			Size:  input.Size,
			Color: input.Color,
			Extra: input.Extra,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("node added",
		zap.String("mapID", mapID),
		zap.String("nodeID", node.ID),
	)
	return node, nil
}

// UpdateNode merges a shallow patch onto one node.
func (s *NodeService) UpdateNode(ctx context.Context, mapID, nodeID string, input NodePatchInput) (*entities.Node, error) {
	var node *entities.Node
	_, err := s.mutate(ctx, mapID, func(m *aggregates.MindMap) error {
		patch := entities.NodePatch{
			Text:  input.Text,
			X:     input.X,
			Y:     input.Y,
			Size:  input.Size,
			Color: input.Color,
			Extra: input.Extra,
		}
		if input.Type != nil {
			nodeType := entities.NodeType(*input.Type)
			patch.Type = &nodeType
		}

		var updateErr error
		node, updateErr = m.UpdateNode(nodeID, patch)
		if errors.Is(updateErr, aggregates.ErrNodeNotFound) {
			return apperrors.NewNotFoundError("node").WithCode(apperrors.CodeNodeNotFound)
		}
		return updateErr
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

// DeleteNode removes a node and every connection touching it. Unknown
// node ids are tolerated; the map is simply left unchanged.
func (s *NodeService) DeleteNode(ctx context.Context, mapID, nodeID string) error {
	_, err := s.mutate(ctx, mapID, func(m *aggregates.MindMap) error {
		m.DeleteNode(nodeID)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("node deleted",
		zap.String("mapID", mapID),
		zap.String("nodeID", nodeID),
	)
	return nil
}

// AddConnection links two live nodes of one map.
func (s *NodeService) AddConnection(ctx context.Context, mapID string, input ConnectionInput) (*entities.Connection, error) {
	var conn *entities.Connection
	_, err := s.mutate(ctx, mapID, func(m *aggregates.MindMap) error {
		if len(m.Connections()) >= s.domainCfg.MaxConnectionsPerMap {
			return apperrors.NewConflictError("map is at its connection limit")
		}
		if !s.domainCfg.AllowSelfConnections && input.Source == input.Target {
			return apperrors.NewValidationError("connection endpoints must differ")
		}
		if !s.domainCfg.AllowDuplicateConnection {
			for _, existing := range m.Connections() {
				if existing.Source == input.Source && existing.Target == input.Target {
					return apperrors.NewConflictError("connection already exists")
				}
			}
		}

		var connErr error
		conn, connErr = m.AddConnection(input.Source, input.Target, entities.ConnectionType(input.Type))

		var dangling *aggregates.DanglingReferenceError
		if errors.As(connErr, &dangling) {
			return apperrors.NewValidationError(connErr.Error()).
				WithCode(apperrors.CodeDanglingReference).
				WithDetails(map[string]interface{}{"nodeId": dangling.NodeID})
		}
		return connErr
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("connection added",
		zap.String("mapID", mapID),
		zap.String("connectionID", conn.ID),
	)
	return conn, nil
}

// DeleteConnection removes one connection by id.
func (s *NodeService) DeleteConnection(ctx context.Context, mapID, connectionID string) error {
	_, err := s.mutate(ctx, mapID, func(m *aggregates.MindMap) error {
		if deleteErr := m.DeleteConnection(connectionID); deleteErr != nil {
			if errors.Is(deleteErr, aggregates.ErrConnectionNotFound) {
				return apperrors.NewNotFoundError("connection").
					WithCode(apperrors.CodeConnectionNotFound)
			}
			return deleteErr
		}
		return nil
	})
	return err
}

func (s *NodeService) mutate(ctx context.Context, mapID string, fn func(*aggregates.MindMap) error) (*aggregates.MindMap, error) {
	s.locks.Lock(mapID)
	defer s.locks.Unlock(mapID)

	m, err := s.repo.FindByID(ctx, mapID)
	if err != nil {
		return nil, err
	}
	if err := fn(m); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, apperrors.Wrap(err, "save map")
	}

	pending := m.UncommittedEvents()
	m.MarkEventsCommitted()
	if s.publisher != nil && len(pending) > 0 {
		if err := s.publisher.PublishBatch(ctx, pending); err != nil {
			s.logger.Warn("event publish failed",
				zap.String("mapID", m.ID()),
				zap.Int("events", len(pending)),
				zap.Error(err),
			)
		}
	}
	return m, nil
}
