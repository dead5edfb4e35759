// Package jsonfile persists maps as one pretty-printed JSON document
// per map. Every overwrite leaves a timestamped backup, a
// latest-state autosave copy is refreshed on each save, and backups
// older than the retention window are pruned.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"mindmapper/domain/core/aggregates"
	apperrors "mindmapper/pkg/errors"
)

// Config locates the storage directories and tunes backup behavior.
type Config struct {
	DataDir         string
	BackupDir       string
	AutosaveDir     string
	BackupRetention time.Duration
	AutosaveEnabled bool
}

// MapRepository is a file-backed implementation of the map store.
type MapRepository struct {
	cfg    Config
	logger *zap.Logger
}

// NewMapRepository creates the storage directories and returns the
// repository.
func NewMapRepository(cfg Config, logger *zap.Logger) (*MapRepository, error) {
	if cfg.BackupRetention == 0 {
		cfg.BackupRetention = 7 * 24 * time.Hour
	}
	for _, dir := range []string{cfg.DataDir, cfg.BackupDir, cfg.AutosaveDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.NewStorageError("mkdir", err)
		}
	}
	return &MapRepository{cfg: cfg, logger: logger}, nil
}

// Save writes the map's document, backing up the previous version
// first. The write itself is atomic: a temp file renamed into place.
func (r *MapRepository) Save(ctx context.Context, m *aggregates.MindMap) error {
	doc := m.Document()
	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperrors.NewStorageError("encode", err)
	}

	path := r.mapPath(doc.ID)
	if _, statErr := os.Stat(path); statErr == nil {
		r.backup(doc.ID, path)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return apperrors.NewStorageError("write", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return apperrors.NewStorageError("rename", err)
	}

	if r.cfg.AutosaveEnabled && r.cfg.AutosaveDir != "" {
		autosavePath := filepath.Join(r.cfg.AutosaveDir, doc.ID+"_latest.json")
		if err := os.WriteFile(autosavePath, content, 0o644); err != nil {
			r.logger.Warn("autosave write failed",
				zap.String("mapID", doc.ID),
				zap.Error(err),
			)
		}
	}

	r.pruneBackups(doc.ID)
	return nil
}

// FindByID loads one map from its file.
func (r *MapRepository) FindByID(ctx context.Context, mapID string) (*aggregates.MindMap, error) {
	content, err := os.ReadFile(r.mapPath(mapID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("map").WithCode(apperrors.CodeMapNotFound)
		}
		return nil, apperrors.NewStorageError("read", err)
	}

	var doc aggregates.Document
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, apperrors.NewStorageError("decode", err)
	}
	if doc.ID == "" {
		doc.ID = mapID
	}
	return aggregates.FromDocument(doc), nil
}

// Delete removes the map file. The autosave copy goes with it; backups
// stay until retention expires.
func (r *MapRepository) Delete(ctx context.Context, mapID string) error {
	if err := os.Remove(r.mapPath(mapID)); err != nil {
		if os.IsNotExist(err) {
			return apperrors.NewNotFoundError("map").WithCode(apperrors.CodeMapNotFound)
		}
		return apperrors.NewStorageError("delete", err)
	}
	if r.cfg.AutosaveDir != "" {
		os.Remove(filepath.Join(r.cfg.AutosaveDir, mapID+"_latest.json"))
	}
	return nil
}

// List loads every stored map, most recently modified first. Files
// that fail to parse are skipped with a warning rather than failing
// the whole listing.
func (r *MapRepository) List(ctx context.Context) ([]*aggregates.MindMap, error) {
	entries, err := os.ReadDir(r.cfg.DataDir)
	if err != nil {
		return nil, apperrors.NewStorageError("list", err)
	}

	maps := make([]*aggregates.MindMap, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		m, err := r.FindByID(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			r.logger.Warn("skipping unreadable map file",
				zap.String("file", name),
				zap.Error(err),
			)
			continue
		}
		maps = append(maps, m)
	}

	sort.Slice(maps, func(i, j int) bool {
		return maps[i].ModifiedAt().After(maps[j].ModifiedAt())
	})
	return maps, nil
}

func (r *MapRepository) mapPath(mapID string) string {
	// Map ids never contain separators, but imported documents are not
	// trusted.
	return filepath.Join(r.cfg.DataDir, filepath.Base(mapID)+".json")
}

func (r *MapRepository) backup(mapID, path string) {
	if r.cfg.BackupDir == "" {
		return
	}
	content, err := os.ReadFile(path)
	if err != nil {
		r.logger.Warn("backup read failed", zap.String("mapID", mapID), zap.Error(err))
		return
	}
	name := fmt.Sprintf("%s_%s.json", mapID, time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(r.cfg.BackupDir, name), content, 0o644); err != nil {
		r.logger.Warn("backup write failed", zap.String("mapID", mapID), zap.Error(err))
	}
}

func (r *MapRepository) pruneBackups(mapID string) {
	if r.cfg.BackupDir == "" {
		return
	}
	entries, err := os.ReadDir(r.cfg.BackupDir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-r.cfg.BackupRetention)
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), mapID+"_") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(r.cfg.BackupDir, entry.Name()))
		}
	}
}
