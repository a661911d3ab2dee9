package filesystem_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/maintlog/internal/adapters/filesystem"
)

// tick returns a clock that advances one second per call.
func tick(start time.Time) func() time.Time {
	now := start.Add(-time.Second)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func setupBackupStore(t *testing.T, clock func() time.Time) (*filesystem.BackupStore, string, string) {
	t.Helper()
	dir := t.TempDir()
	source := filepath.Join(dir, "ordens_servico4.0.csv")
	backupDir := filepath.Join(dir, "backups")
	store := filesystem.NewBackupStore(source, backupDir, "ordens_servico", zap.NewNop()).WithClock(clock)
	return store, source, backupDir
}

func TestBackupStore_CreateSkipsMissingAndEmpty(t *testing.T) {
	store, source, _ := setupBackupStore(t, tick(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	path, err := store.Create(ctx)
	require.NoError(t, err)
	require.Empty(t, path)

	require.NoError(t, os.WriteFile(source, nil, 0644))
	path, err = store.Create(ctx)
	require.NoError(t, err)
	require.Empty(t, path)
}

func TestBackupStore_CreateNamesByTimestamp(t *testing.T) {
	store, source, backupDir := setupBackupStore(t, tick(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)))
	require.NoError(t, os.WriteFile(source, []byte("ID\n1\n"), 0644))

	path, err := store.Create(context.Background())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(backupDir, "ordens_servico_20250301_100000.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "ID\n1\n", string(data))
}

func TestBackupStore_SameSecondGetsSuffix(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	store, source, _ := setupBackupStore(t, func() time.Time { return fixed })
	require.NoError(t, os.WriteFile(source, []byte("ID\n1\n"), 0644))
	ctx := context.Background()

	first, err := store.Create(ctx)
	require.NoError(t, err)
	second, err := store.Create(ctx)
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.Equal(t, "ordens_servico_20250301_100000_01.csv", filepath.Base(second))

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	require.Equal(t, second, latest)
}

func TestBackupStore_PruneKeepsMostRecent(t *testing.T) {
	store, source, _ := setupBackupStore(t, tick(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)))
	require.NoError(t, os.WriteFile(source, []byte("ID\n1\n"), 0644))
	ctx := context.Background()

	var created []string
	for i := 0; i < 5; i++ {
		path, err := store.Create(ctx)
		require.NoError(t, err)
		created = append(created, path)
	}

	removed, err := store.Prune(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, created[:2], removed)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, created[4], list[0].Path, "list should be newest first")
	require.Equal(t, created[2], list[2].Path)
	require.Equal(t, int64(len("ID\n1\n")), list[0].Size)
}

func TestBackupStore_PruneIgnoresForeignFiles(t *testing.T) {
	store, source, backupDir := setupBackupStore(t, tick(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)))
	require.NoError(t, os.WriteFile(source, []byte("ID\n1\n"), 0644))
	require.NoError(t, os.MkdirAll(backupDir, 0755))
	foreign := filepath.Join(backupDir, "pmoc_20200101_000000.csv")
	require.NoError(t, os.WriteFile(foreign, []byte("TAG\n1\n"), 0644))
	ctx := context.Background()

	_, err := store.Create(ctx)
	require.NoError(t, err)
	_, err = store.Prune(ctx, 1)
	require.NoError(t, err)

	_, err = os.Stat(foreign)
	require.NoError(t, err, "other datasets' backups must survive")
}

func TestBackupStore_Restore(t *testing.T) {
	store, source, _ := setupBackupStore(t, tick(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)))
	require.NoError(t, os.WriteFile(source, []byte("ID\n1\n"), 0644))
	ctx := context.Background()

	path, err := store.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(source, []byte("ID\n1\n2\n"), 0644))

	require.NoError(t, store.Restore(ctx, filepath.Base(path)))
	data, err := os.ReadFile(source)
	require.NoError(t, err)
	require.Equal(t, "ID\n1\n", string(data))

	require.Error(t, store.Restore(ctx, "ordens_servico_20990101_000000.csv"))
	require.Error(t, store.Restore(ctx, "../ordens_servico4.0.csv"))
}
