package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"mindmapper/application/ports"
	"mindmapper/domain/config"
	"mindmapper/domain/core/aggregates"
	"mindmapper/domain/scoring"
	apperrors "mindmapper/pkg/errors"
	"mindmapper/pkg/locks"
)

// MapView is the full map representation returned by read and mutation
// operations: the canonical document plus the current quality score.
// Score is nil for modes that are not scored.
type MapView struct {
	aggregates.Document
	Score *scoring.Score `json:"score,omitempty"`
}

// MapSummary is the lightweight listing shape.
type MapSummary struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Mode            string         `json:"mode"`
	CreatedAt       time.Time      `json:"createdAt"`
	ModifiedAt      time.Time      `json:"modifiedAt"`
	Version         int            `json:"version"`
	NodeCount       int            `json:"nodeCount"`
	ConnectionCount int            `json:"connectionCount"`
	Preview         string         `json:"preview,omitempty"`
	Tags            []string       `json:"tags,omitempty"`
	Score           *scoring.Score `json:"score,omitempty"`
}

// CreateMapInput carries the caller's choices for a new map. Every
// field is optional; defaults come from the domain configuration.
type CreateMapInput struct {
	Title       string `json:"title" validate:"omitempty,max=200"`
	Mode        string `json:"mode" validate:"omitempty,oneof=grinde buzan"`
	CentralText string `json:"centralText" validate:"omitempty,max=2000"`
}

// UpdateMapInput is a partial overwrite of map-level properties.
type UpdateMapInput struct {
	Title    *string        `json:"title" validate:"omitempty,max=200"`
	Mode     *string        `json:"mode" validate:"omitempty,oneof=grinde buzan"`
	Metadata map[string]any `json:"metadata"`
	Tags     *[]string      `json:"tags"`
}

// MapStats describes one map quantitatively.
type MapStats struct {
	MapID             string         `json:"mapId"`
	Title             string         `json:"title"`
	Mode              string         `json:"mode"`
	Version           int            `json:"version"`
	NodeCount         int            `json:"nodeCount"`
	ConnectionCount   int            `json:"connectionCount"`
	NodeTypes         map[string]int `json:"nodeTypes"`
	ConnectionTypes   map[string]int `json:"connectionTypes"`
	AvgTextLength     float64        `json:"avgTextLength"`
	DaysSinceCreation int            `json:"daysSinceCreation"`
	CreatedAt         time.Time      `json:"createdAt"`
	ModifiedAt        time.Time      `json:"modifiedAt"`
	Score             *scoring.Score `json:"score,omitempty"`
}

// GlobalStats aggregates across every stored map.
type GlobalStats struct {
	TotalMaps        int            `json:"totalMaps"`
	TotalNodes       int            `json:"totalNodes"`
	TotalConnections int            `json:"totalConnections"`
	MapsByMode       map[string]int `json:"mapsByMode"`
	MostUsedMode     string         `json:"mostUsedMode,omitempty"`
	AvgNodesPerMap   float64        `json:"avgNodesPerMap"`
	AvgGrindeScore   *float64       `json:"avgGrindeScore,omitempty"`
	RecentMaps       []MapSummary   `json:"recentMaps"`
	LastModified     *time.Time     `json:"lastModified,omitempty"`
}

// SearchHit is one search result with the fields that matched.
type SearchHit struct {
	MapSummary
	MatchedIn []string `json:"matchedIn"`
}

// MapService owns the map lifecycle: create, read, list, meta updates,
// duplicate, import, search and statistics. Mutations to one map are
// serialized through a per-map lock; reads go straight to the store.
type MapService struct {
	repo      ports.MapRepository
	publisher ports.EventPublisher
	locks     *locks.KeyedMutex
	domainCfg *config.DomainConfig
	profile   scoring.Profile
	logger    *zap.Logger
}

// NewMapService creates a new map service.
func NewMapService(
	repo ports.MapRepository,
	publisher ports.EventPublisher,
	km *locks.KeyedMutex,
	domainCfg *config.DomainConfig,
	logger *zap.Logger,
) *MapService {
	return &MapService{
		repo:      repo,
		publisher: publisher,
		locks:     km,
		domainCfg: domainCfg,
		profile:   scoring.ProfileByName(domainCfg.ScoringProfile),
		logger:    logger,
	}
}

// CreateMap creates a fresh map seeded with one central node.
func (s *MapService) CreateMap(ctx context.Context, input CreateMapInput) (*MapView, error) {
	title := input.Title
	if title == "" {
		title = s.domainCfg.DefaultMapTitle
	}
	central := input.CentralText
	if central == "" {
		central = s.domainCfg.DefaultCentralText
	}

	m := aggregates.NewMindMap(title, aggregates.Mode(input.Mode), central)
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, apperrors.Wrap(err, "create map")
	}
	s.publishEvents(ctx, m)

	s.logger.Info("map created",
		zap.String("mapID", m.ID()),
		zap.String("mode", string(m.Mode())),
	)
	return s.view(m), nil
}

// GetMap loads one map with its score.
func (s *MapService) GetMap(ctx context.Context, mapID string) (*MapView, error) {
	m, err := s.repo.FindByID(ctx, mapID)
	if err != nil {
		return nil, err
	}
	return s.view(m), nil
}

// ListMaps returns summaries of every map, most recently modified
// first.
func (s *MapService) ListMaps(ctx context.Context) ([]MapSummary, error) {
	maps, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "list maps")
	}

	summaries := make([]MapSummary, 0, len(maps))
	for _, m := range maps {
		summaries = append(summaries, s.summarize(m))
	}
	return summaries, nil
}

// UpdateMap overwrites map-level properties. One call is one version
// bump regardless of how many properties change.
func (s *MapService) UpdateMap(ctx context.Context, mapID string, input UpdateMapInput) (*MapView, error) {
	m, err := s.mutate(ctx, mapID, func(m *aggregates.MindMap) error {
		patch := aggregates.MetaPatch{
			Title:    input.Title,
			Metadata: input.Metadata,
			Tags:     input.Tags,
		}
		if input.Mode != nil {
			mode := aggregates.Mode(*input.Mode)
			patch.Mode = &mode
		}
		m.UpdateMeta(patch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(m), nil
}

// RenameMap changes only the title.
func (s *MapService) RenameMap(ctx context.Context, mapID, title string) (*MapView, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.NewValidationError("title must not be empty")
	}
	return s.UpdateMap(ctx, mapID, UpdateMapInput{Title: &title})
}

// DeleteMap removes a map from the store.
func (s *MapService) DeleteMap(ctx context.Context, mapID string) error {
	s.locks.Lock(mapID)
	defer s.locks.Unlock(mapID)

	if _, err := s.repo.FindByID(ctx, mapID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, mapID); err != nil {
		return apperrors.Wrap(err, "delete map")
	}

	s.logger.Info("map deleted", zap.String("mapID", mapID))
	return nil
}

// DuplicateMap copies a map under a fresh identity. Node and
// connection ids are kept, so the copy is structurally identical; the
// version counter restarts at 1.
func (s *MapService) DuplicateMap(ctx context.Context, mapID, title string) (*MapView, error) {
	src, err := s.repo.FindByID(ctx, mapID)
	if err != nil {
		return nil, err
	}

	doc := src.Document()
	doc.ID = aggregates.NewMapID()
	if title == "" {
		title = doc.Title + " (Copy)"
	}
	doc.Title = title
	now := time.Now()
	doc.CreatedAt = now
	doc.ModifiedAt = now
	doc.Version = 1

	dup := aggregates.FromDocument(doc)
	if err := s.repo.Save(ctx, dup); err != nil {
		return nil, apperrors.Wrap(err, "duplicate map")
	}

	s.logger.Info("map duplicated",
		zap.String("sourceID", mapID),
		zap.String("mapID", dup.ID()),
	)
	return s.view(dup), nil
}

// ImportMap stores an externally produced document under a fresh map
// id. The document must pass referential validation.
func (s *MapService) ImportMap(ctx context.Context, doc aggregates.Document) (*MapView, error) {
	doc.ID = aggregates.NewMapID()
	m := aggregates.FromDocument(doc)

	if err := m.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error()).
			WithCode(apperrors.CodeInvalidDocument)
	}
	if len(m.Nodes()) > s.domainCfg.MaxNodesPerMap {
		return nil, apperrors.NewValidationError("document exceeds node limit").
			WithCode(apperrors.CodeInvalidDocument)
	}

	if err := s.repo.Save(ctx, m); err != nil {
		return nil, apperrors.Wrap(err, "import map")
	}

	s.logger.Info("map imported",
		zap.String("mapID", m.ID()),
		zap.Int("nodes", len(m.Nodes())),
	)
	return s.view(m), nil
}

// SearchMaps finds maps whose title or node labels contain the query,
// case-insensitively. An empty query matches nothing.
func (s *MapService) SearchMaps(ctx context.Context, query string) ([]SearchHit, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []SearchHit{}, nil
	}

	maps, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "search maps")
	}

	hits := make([]SearchHit, 0)
	for _, m := range maps {
		var matched []string
		if strings.Contains(strings.ToLower(m.Title()), query) {
			matched = append(matched, "title")
		}
		for _, n := range m.Nodes() {
			if strings.Contains(strings.ToLower(n.Text), query) {
				matched = append(matched, "nodes")
				break
			}
		}
		if len(matched) > 0 {
			hits = append(hits, SearchHit{MapSummary: s.summarize(m), MatchedIn: matched})
		}
		if len(hits) >= s.domainCfg.MaxSearchResults {
			break
		}
	}
	return hits, nil
}

// Score evaluates the quality heuristics for one map. Maps in modes
// that are not scored yield nil.
func (s *MapService) Score(ctx context.Context, mapID string) (*scoring.Score, error) {
	m, err := s.repo.FindByID(ctx, mapID)
	if err != nil {
		return nil, err
	}
	return s.profile.Evaluate(m), nil
}

// Stats describes one map quantitatively.
func (s *MapService) Stats(ctx context.Context, mapID string) (*MapStats, error) {
	m, err := s.repo.FindByID(ctx, mapID)
	if err != nil {
		return nil, err
	}

	nodeTypes := make(map[string]int)
	textLength := 0
	for _, n := range m.Nodes() {
		nodeTypes[string(n.Type)]++
		textLength += len([]rune(n.Text))
	}
	connTypes := make(map[string]int)
	for _, c := range m.Connections() {
		connTypes[string(c.Type)]++
	}

	avgTextLength := 0.0
	if len(m.Nodes()) > 0 {
		avgTextLength = float64(textLength) / float64(len(m.Nodes()))
	}

	return &MapStats{
		MapID:             m.ID(),
		Title:             m.Title(),
		Mode:              string(m.Mode()),
		Version:           m.Version(),
		NodeCount:         len(m.Nodes()),
		ConnectionCount:   len(m.Connections()),
		NodeTypes:         nodeTypes,
		ConnectionTypes:   connTypes,
		AvgTextLength:     avgTextLength,
		DaysSinceCreation: int(time.Since(m.CreatedAt()).Hours() / 24),
		CreatedAt:         m.CreatedAt(),
		ModifiedAt:        m.ModifiedAt(),
		Score:             s.profile.Evaluate(m),
	}, nil
}

// GlobalStats aggregates across the whole store.
func (s *MapService) GlobalStats(ctx context.Context) (*GlobalStats, error) {
	maps, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "global stats")
	}

	stats := &GlobalStats{
		MapsByMode: make(map[string]int),
		RecentMaps: []MapSummary{},
	}
	scoreSum, scored := 0, 0
	for _, m := range maps {
		stats.TotalMaps++
		stats.TotalNodes += len(m.Nodes())
		stats.TotalConnections += len(m.Connections())
		stats.MapsByMode[string(m.Mode())]++
		if score := s.profile.Evaluate(m); score != nil {
			scoreSum += score.Total
			scored++
		}
		modified := m.ModifiedAt()
		if stats.LastModified == nil || modified.After(*stats.LastModified) {
			stats.LastModified = &modified
		}
	}

	for mode, count := range stats.MapsByMode {
		if stats.MostUsedMode == "" || count > stats.MapsByMode[stats.MostUsedMode] {
			stats.MostUsedMode = mode
		}
	}
	if stats.TotalMaps > 0 {
		stats.AvgNodesPerMap = float64(stats.TotalNodes) / float64(stats.TotalMaps)
	}
	if scored > 0 {
		avg := float64(scoreSum) / float64(scored)
		stats.AvgGrindeScore = &avg
	}

	// Repository order is most recently modified first
	for _, m := range maps {
		if len(stats.RecentMaps) == 5 {
			break
		}
		stats.RecentMaps = append(stats.RecentMaps, s.summarize(m))
	}
	return stats, nil
}

// mutate serializes a load-modify-save cycle under the map's lock and
// publishes the events the mutation recorded.
func (s *MapService) mutate(ctx context.Context, mapID string, fn func(*aggregates.MindMap) error) (*aggregates.MindMap, error) {
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

	s.publishEvents(ctx, m)
	return m, nil
}

// publishEvents flushes recorded events to the publisher. Delivery
// failures are logged, never surfaced: realtime fanout must not fail a
// committed mutation.
func (s *MapService) publishEvents(ctx context.Context, m *aggregates.MindMap) {
	pending := m.UncommittedEvents()
	m.MarkEventsCommitted()
	if s.publisher == nil || len(pending) == 0 {
		return
	}
	if err := s.publisher.PublishBatch(ctx, pending); err != nil {
		s.logger.Warn("event publish failed",
			zap.String("mapID", m.ID()),
			zap.Int("events", len(pending)),
			zap.Error(err),
		)
	}
}

func (s *MapService) view(m *aggregates.MindMap) *MapView {
	return &MapView{
		Document: m.Document(),
		Score:    s.profile.Evaluate(m),
	}
}

func (s *MapService) summarize(m *aggregates.MindMap) MapSummary {
	return MapSummary{
		ID:              m.ID(),
		Title:           m.Title(),
		Mode:            string(m.Mode()),
		CreatedAt:       m.CreatedAt(),
		ModifiedAt:      m.ModifiedAt(),
		Version:         m.Version(),
		NodeCount:       len(m.Nodes()),
		ConnectionCount: len(m.Connections()),
		Preview:         m.Preview(),
		Tags:            m.Tags(),
		Score:           s.profile.Evaluate(m),
	}
}

// SortSummaries orders summaries most recently modified first. The
// repository already returns this order; the helper exists for callers
// that merge lists.
func SortSummaries(summaries []MapSummary) {
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ModifiedAt.After(summaries[j].ModifiedAt)
	})
}
