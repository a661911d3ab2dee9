// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"

	"github.com/example/maintlog/internal/core/table"
)

// TableFile defines the secondary port for the backing file of one dataset.
type TableFile interface {
	// Path returns the location of the live file.
	Path() string

	// Read parses the live file. A missing file yields an error wrapping
	// fs.ErrNotExist; an empty file yields a table with no columns.
	Read(ctx context.Context) (*table.Table, error)

	// ReadFrom parses another file in the same format (a backup).
	ReadFrom(ctx context.Context, path string) (*table.Table, error)

	// Write replaces the live file with the full table.
	Write(ctx context.Context, t *table.Table) error
}

// TableCodec converts tables to and from their textual form.
type TableCodec interface {
	// Encode renders the table, header row first.
	Encode(t *table.Table) ([]byte, error)

	// Decode parses a rendered table.
	Decode(data []byte) (*table.Table, error)
}

// BackupStore defines the secondary port for timestamped dataset snapshots.
type BackupStore interface {
	// Create copies the live file into a new backup slot. Returns "" when
	// the live file is missing or empty.
	Create(ctx context.Context) (string, error)

	// Prune deletes the oldest backups until at most max remain. Deletion
	// errors are skipped; the removed paths are returned.
	Prune(ctx context.Context, max int) ([]string, error)

	// Latest returns the most recent backup path, or "" when there is none.
	Latest(ctx context.Context) (string, error)

	// List returns the backups, newest first.
	List(ctx context.Context) ([]*BackupRecord, error)

	// Restore overwrites the live file with the named backup's bytes.
	Restore(ctx context.Context, name string) error
}

// BackupRecord describes one backup slot.
type BackupRecord struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}
