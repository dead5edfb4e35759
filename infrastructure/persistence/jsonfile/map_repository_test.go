package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mindmapper/domain/core/aggregates"
	"mindmapper/domain/core/entities"
	apperrors "mindmapper/pkg/errors"
)

func newTestRepo(t *testing.T) *MapRepository {
	t.Helper()
	base := t.TempDir()
	repo, err := NewMapRepository(Config{
		DataDir:         filepath.Join(base, "maps"),
		BackupDir:       filepath.Join(base, "backups"),
		AutosaveDir:     filepath.Join(base, "autosave"),
		AutosaveEnabled: true,
	}, zap.NewNop())
	require.NoError(t, err)
	return repo
}

func TestMapRepository_SaveAndFind(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	m := aggregates.NewMindMap("Persisted", aggregates.ModeGrinde, "Root")
	n := m.AddNode(entities.NodeFields{Text: "child", Extra: map[string]any{"note": "keep"}})
	require.NoError(t, repo.Save(ctx, m))

	loaded, err := repo.FindByID(ctx, m.ID())
	require.NoError(t, err)
	assert.Equal(t, m.ID(), loaded.ID())
	assert.Equal(t, "Persisted", loaded.Title())
	assert.Equal(t, m.Version(), loaded.Version())

	got, ok := loaded.Node(n.ID)
	require.True(t, ok)
	assert.Equal(t, "keep", got.Extra["note"])
}

func TestMapRepository_FindMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByID(context.Background(), "map_missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMapRepository_OverwriteCreatesBackupAndAutosave(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	m := aggregates.NewMindMap("Backup", aggregates.ModeGrinde, "Root")
	require.NoError(t, repo.Save(ctx, m))

	m.AddNode(entities.NodeFields{Text: "second"})
	require.NoError(t, repo.Save(ctx, m))

	backups, err := os.ReadDir(repo.cfg.BackupDir)
	require.NoError(t, err)
	assert.Len(t, backups, 1)

	_, err = os.Stat(filepath.Join(repo.cfg.AutosaveDir, m.ID()+"_latest.json"))
	assert.NoError(t, err)
}

func TestMapRepository_PruneExpiredBackups(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	m := aggregates.NewMindMap("Prune", aggregates.ModeGrinde, "Root")
	require.NoError(t, repo.Save(ctx, m))

	stale := filepath.Join(repo.cfg.BackupDir, m.ID()+"_20200101_000000.json")
	require.NoError(t, os.WriteFile(stale, []byte("{}"), 0o644))
	old := time.Now().Add(-8 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	require.NoError(t, repo.Save(ctx, m))

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}

func TestMapRepository_Delete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	m := aggregates.NewMindMap("Doomed", aggregates.ModeGrinde, "Root")
	require.NoError(t, repo.Save(ctx, m))
	require.NoError(t, repo.Delete(ctx, m.ID()))

	_, err := repo.FindByID(ctx, m.ID())
	assert.True(t, apperrors.IsNotFound(err))

	err = repo.Delete(ctx, m.ID())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMapRepository_ListSortedAndSkipsBadFiles(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := aggregates.NewMindMap("First", aggregates.ModeGrinde, "Root")
	require.NoError(t, repo.Save(ctx, first))
	second := aggregates.NewMindMap("Second", aggregates.ModeBuzan, "Root")
	second.AddNode(entities.NodeFields{Text: "later"})
	require.NoError(t, repo.Save(ctx, second))

	bad := filepath.Join(repo.cfg.DataDir, "map_broken.json")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0o644))

	maps, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, maps, 2)
	assert.Equal(t, "Second", maps[0].Title())
	assert.Equal(t, "First", maps[1].Title())
}
