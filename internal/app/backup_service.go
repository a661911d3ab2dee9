package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/maintlog/internal/ports/primary"
	"github.com/example/maintlog/internal/ports/secondary"
)

// BackupServiceImpl implements the BackupService interface.
type BackupServiceImpl struct {
	backups    secondary.BackupStore
	maxBackups int
	logger     *zap.Logger
}

// NewBackupService creates a new BackupService with injected dependencies.
func NewBackupService(backups secondary.BackupStore, maxBackups int, logger *zap.Logger) *BackupServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupServiceImpl{
		backups:    backups,
		maxBackups: maxBackups,
		logger:     logger,
	}
}

// CreateBackup snapshots the live file.
func (s *BackupServiceImpl) CreateBackup(ctx context.Context) (string, error) {
	path, err := s.backups.Create(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	if path != "" {
		s.logger.Info("backup created", zap.String("path", path))
	}
	return path, nil
}

// PruneBackups keeps the max most recent backups.
func (s *BackupServiceImpl) PruneBackups(ctx context.Context, max int) ([]string, error) {
	if max <= 0 {
		max = s.maxBackups
	}
	return s.backups.Prune(ctx, max)
}

// LatestBackup returns the newest backup path.
func (s *BackupServiceImpl) LatestBackup(ctx context.Context) (string, error) {
	return s.backups.Latest(ctx)
}

// ListBackups lists backups, newest first.
func (s *BackupServiceImpl) ListBackups(ctx context.Context) ([]*primary.Backup, error) {
	records, err := s.backups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	out := make([]*primary.Backup, len(records))
	for i, r := range records {
		out[i] = &primary.Backup{Name: r.Name, Path: r.Path, Size: r.Size, ModTime: r.ModTime}
	}
	return out, nil
}

// RestoreBackup overwrites the live file with a backup. The current live
// file is snapshotted first so the restore itself can be undone.
func (s *BackupServiceImpl) RestoreBackup(ctx context.Context, name string) error {
	if _, err := s.backups.Create(ctx); err != nil {
		return fmt.Errorf("failed to snapshot before restore: %w", err)
	}
	if err := s.backups.Restore(ctx, name); err != nil {
		return fmt.Errorf("failed to restore %s: %w", name, err)
	}
	s.logger.Info("backup restored", zap.String("name", name))
	return nil
}

// Ensure BackupServiceImpl implements the interface
var _ primary.BackupService = (*BackupServiceImpl)(nil)
