package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/maintlog/internal/ports/primary"
)

// BackupAdapter translates backup commands for one dataset.
type BackupAdapter struct {
	service primary.BackupService
	out     io.Writer
}

// NewBackupAdapter creates a new BackupAdapter.
func NewBackupAdapter(service primary.BackupService, out io.Writer) *BackupAdapter {
	return &BackupAdapter{
		service: service,
		out:     out,
	}
}

// Create snapshots the live file.
func (a *BackupAdapter) Create(ctx context.Context) error {
	path, err := a.service.CreateBackup(ctx)
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintln(a.out, "Nothing to back up (file missing or empty)")
		return nil
	}
	fmt.Fprintf(a.out, "✓ Backup created: %s\n", path)
	return nil
}

// List prints the backups, newest first.
func (a *BackupAdapter) List(ctx context.Context) error {
	backups, err := a.service.ListBackups(ctx)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Fprintln(a.out, "No backups found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-40s %10s  %s\n", "NAME", "SIZE", "MODIFIED")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────")
	for _, b := range backups {
		fmt.Fprintf(a.out, "%-40s %10d  %s\n", b.Name, b.Size, formatDateTime(b.ModTime))
	}
	fmt.Fprintln(a.out)
	return nil
}

// Prune keeps the max most recent backups.
func (a *BackupAdapter) Prune(ctx context.Context, max int) error {
	removed, err := a.service.PruneBackups(ctx, max)
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		fmt.Fprintln(a.out, "No backups pruned")
		return nil
	}
	fmt.Fprintf(a.out, "✓ Pruned %d backup(s)\n", len(removed))
	for _, p := range removed {
		fmt.Fprintf(a.out, "  - %s\n", p)
	}
	return nil
}

// Restore overwrites the live file with a backup.
func (a *BackupAdapter) Restore(ctx context.Context, name string) error {
	if err := a.service.RestoreBackup(ctx, name); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Restored %s\n", name)
	return nil
}

// Latest prints the newest backup path.
func (a *BackupAdapter) Latest(ctx context.Context) error {
	path, err := a.service.LatestBackup(ctx)
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintln(a.out, "No backups found")
		return nil
	}
	fmt.Fprintln(a.out, path)
	return nil
}
