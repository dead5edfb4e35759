// Package memory keeps maps in process memory. It backs tests and
// ephemeral deployments where durability does not matter.
package memory

import (
	"context"
	"sort"
	"sync"

	"mindmapper/domain/core/aggregates"
	apperrors "mindmapper/pkg/errors"
)

// MapRepository is an in-memory implementation of the map store. It
// holds documents, not aggregates, so callers never share mutable
// state with the store.
type MapRepository struct {
	mu   sync.RWMutex
	docs map[string]aggregates.Document
}

// NewMapRepository creates an empty store.
func NewMapRepository() *MapRepository {
	return &MapRepository{docs: make(map[string]aggregates.Document)}
}

// Save stores the map's document.
func (r *MapRepository) Save(ctx context.Context, m *aggregates.MindMap) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[m.ID()] = m.Document()
	return nil
}

// FindByID reconstructs a map from its stored document.
func (r *MapRepository) FindByID(ctx context.Context, mapID string) (*aggregates.MindMap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[mapID]
	if !ok {
		return nil, apperrors.NewNotFoundError("map").WithCode(apperrors.CodeMapNotFound)
	}
	return aggregates.FromDocument(doc), nil
}

// Delete removes a map.
func (r *MapRepository) Delete(ctx context.Context, mapID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[mapID]; !ok {
		return apperrors.NewNotFoundError("map").WithCode(apperrors.CodeMapNotFound)
	}
	delete(r.docs, mapID)
	return nil
}

// List returns every map, most recently modified first.
func (r *MapRepository) List(ctx context.Context) ([]*aggregates.MindMap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	maps := make([]*aggregates.MindMap, 0, len(r.docs))
	for _, doc := range r.docs {
		maps = append(maps, aggregates.FromDocument(doc))
	}
	sort.Slice(maps, func(i, j int) bool {
		return maps[i].ModifiedAt().After(maps[j].ModifiedAt())
	})
	return maps, nil
}
