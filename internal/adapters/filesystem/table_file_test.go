package filesystem_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/maintlog/internal/adapters/filesystem"
	"github.com/example/maintlog/internal/core/table"
)

func newTableFile(t *testing.T, path string) *filesystem.TableFile {
	t.Helper()
	codec, err := filesystem.NewCSVCodec("")
	require.NoError(t, err)
	return filesystem.NewTableFile(path, codec)
}

func TestTableFile_ReadMissing(t *testing.T) {
	f := newTableFile(t, filepath.Join(t.TempDir(), "missing.csv"))

	_, err := f.Read(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, fs.ErrNotExist), "expected fs.ErrNotExist, got %v", err)
}

func TestTableFile_WriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "orders.csv")
	f := newTableFile(t, path)
	ctx := context.Background()

	in := table.New("ID", "Local")
	in.Append(table.Row{"ID": "1", "Local": "Andar 2"})
	require.NoError(t, f.Write(ctx, in))

	out, err := f.Read(ctx)
	require.NoError(t, err)
	require.True(t, in.Equal(out))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0644), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files should not be left behind")
}

func TestTableFile_ReadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte("ID,Local\n\"1,Loja\n"), 0644))

	_, err := newTableFile(t, path).Read(context.Background())
	require.Error(t, err)
}
