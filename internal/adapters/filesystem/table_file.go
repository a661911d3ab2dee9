package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/maintlog/internal/core/table"
	"github.com/example/maintlog/internal/ports/secondary"
)

// TableFile implements secondary.TableFile for a dataset kept in one file.
type TableFile struct {
	path  string
	codec secondary.TableCodec
}

// NewTableFile creates a table file at path rendered with codec.
func NewTableFile(path string, codec secondary.TableCodec) *TableFile {
	return &TableFile{path: path, codec: codec}
}

// Path returns the location of the live file.
func (f *TableFile) Path() string {
	return f.path
}

// Read parses the live file.
func (f *TableFile) Read(ctx context.Context) (*table.Table, error) {
	return f.ReadFrom(ctx, f.path)
}

// ReadFrom parses another file in the same format.
func (f *TableFile) ReadFrom(ctx context.Context, path string) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	t, err := f.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return t, nil
}

// Write replaces the live file with the full table.
func (f *TableFile) Write(ctx context.Context, t *table.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := f.codec.Encode(t)
	if err != nil {
		return err
	}
	return writeFileAtomic(f.path, data)
}

// writeFileAtomic writes data next to path and renames it into place, so a
// crash never leaves a half-written dataset.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

var _ secondary.TableFile = (*TableFile)(nil)
var _ secondary.TableCodec = (*CSVCodec)(nil)
