package primary

import (
	"context"
	"errors"

	"github.com/example/maintlog/internal/core/syncstate"
	"github.com/example/maintlog/internal/core/table"
)

// SyncService defines the primary port for remote synchronization of one
// dataset.
type SyncService interface {
	// Enabled reports whether a credential and remote path are configured.
	Enabled() bool

	// State returns the session sync state.
	State() syncstate.State

	// Status summarizes local and remote agreement.
	Status(ctx context.Context) (*SyncStatus, error)

	// Pull fetches the remote table. A missing remote yields a nil Table.
	Pull(ctx context.Context) (*PullResult, error)

	// ApplyPull replaces the live file with a pulled table after backing up
	// the local one.
	ApplyPull(ctx context.Context, pulled *PullResult) (*SaveResult, error)

	// Push uploads t. Without force, a remote that moved since the last
	// sync is rejected with a conflict.
	Push(ctx context.Context, t *table.Table, force bool) (*PushResult, error)

	// History lists recent sync attempts, newest first.
	History(ctx context.Context, limit int) ([]*SyncEvent, error)
}

// PullResult is the outcome of SyncService.Pull.
type PullResult struct {
	Table       *table.Table
	Revision    string
	Fingerprint string
}

// PushResult is the outcome of SyncService.Push.
type PushResult struct {
	Revision    string
	Fingerprint string
	Noop        bool
}

// SyncStatus summarizes the sync state of a dataset.
type SyncStatus struct {
	Dataset          string
	Enabled          bool
	State            syncstate.State
	RemotePath       string
	LocalFingerprint string
	LocalChanged     bool // local file differs from the last synced content
	LastSync         *SyncEvent
}

// SyncEvent represents a sync attempt at the port boundary.
type SyncEvent struct {
	ID          string
	Dataset     string
	Action      string
	Outcome     string
	Revision    string
	Fingerprint string
	Detail      string
	CreatedAt   string
}

// ErrSyncDisabled is returned by sync operations when no credential or
// repository is configured.
var ErrSyncDisabled = errors.New("remote sync is not configured")
