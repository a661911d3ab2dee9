// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the presentation layer drives the application.
package primary

import (
	"context"
	"errors"

	"github.com/example/maintlog/internal/core/failure"
	"github.com/example/maintlog/internal/core/table"
)

// LoadSource tells where a loaded table came from.
type LoadSource string

// Load sources.
const (
	LoadSourceFile   LoadSource = "file"
	LoadSourceBackup LoadSource = "backup"
	LoadSourceEmpty  LoadSource = "empty"
	LoadSourceRemote LoadSource = "remote"
)

// ErrUnreadableDataset is reported when the dataset file cannot be parsed
// and no backup can replace it. Saves and pushes are refused until the file
// is restored or pulled.
var ErrUnreadableDataset = errors.New("dataset file is unreadable and has no usable backup")

// RecordStore defines the primary port for one dataset's canonical table.
type RecordStore interface {
	// Dataset returns the dataset name.
	Dataset() string

	// Schema returns the canonical schema of the dataset.
	Schema() *table.Schema

	// Load reads the dataset. A missing file is seeded from the remote when
	// sync is enabled. It never fails: read errors fall back to the
	// latest backup and then to an empty table, reported in Warning.
	Load(ctx context.Context) *LoadResult

	// Save validates, writes, backs up and (when configured) pushes t.
	// Push failures are reported in SaveResult.Warnings.
	Save(ctx context.Context, t *table.Table) (*SaveResult, error)

	// NextIdentifier returns the identifier for the next record of t.
	NextIdentifier(t *table.Table) int

	// FindBy returns the rows of t whose field matches query.
	FindBy(t *table.Table, field, query string) (*table.Table, error)
}

// LoadResult is the outcome of RecordStore.Load.
type LoadResult struct {
	Table        *table.Table
	Source       LoadSource
	RestoredFrom string // backup path when Source is LoadSourceBackup
	Warning      error
}

// Unreadable reports whether r is the empty fallback for a corrupt file.
func (r *LoadResult) Unreadable() bool {
	return r.Source == LoadSourceEmpty && failure.IsStorage(r.Warning)
}

// SaveResult is the outcome of RecordStore.Save.
type SaveResult struct {
	Path       string
	BackupPath string
	Pruned     []string
	Push       *PushResult // nil when sync is disabled or the push failed
	Warnings   []error
}
