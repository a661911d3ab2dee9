package primary

import (
	"context"
	"time"
)

// BackupService defines the primary port for dataset backups.
type BackupService interface {
	// CreateBackup snapshots the live file. Returns "" when there is nothing
	// to back up.
	CreateBackup(ctx context.Context) (string, error)

	// PruneBackups keeps the max most recent backups; max <= 0 uses the
	// configured retention.
	PruneBackups(ctx context.Context, max int) ([]string, error)

	// LatestBackup returns the newest backup path, or "".
	LatestBackup(ctx context.Context) (string, error)

	// ListBackups lists backups, newest first.
	ListBackups(ctx context.Context) ([]*Backup, error)

	// RestoreBackup overwrites the live file with a backup.
	RestoreBackup(ctx context.Context, name string) error
}

// Backup represents a backup slot at the port boundary.
type Backup struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}
