package app

import (
	"context"
	"testing"

	"github.com/example/maintlog/internal/core/order"
)

func TestBackupService_PruneUsesRetentionByDefault(t *testing.T) {
	s := newTestStack(order.Schema, 100, nil)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if _, err := s.store.Save(ctx, sampleOrders()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	service := NewBackupService(s.backups, 3, nil)

	pruned, err := service.PruneBackups(ctx, 0)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(pruned) != 1 {
		t.Errorf("expected 1 pruned backup, got %v", pruned)
	}
	list, _ := service.ListBackups(ctx)
	if len(list) != 3 || list[0].Name != "backup_004.csv" {
		t.Errorf("expected 3 backups newest first, got %+v", list)
	}
}

func TestBackupService_CreateWithoutFile(t *testing.T) {
	s := newTestStack(order.Schema, 10, nil)
	service := NewBackupService(s.backups, 10, nil)

	path, err := service.CreateBackup(context.Background())

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if path != "" {
		t.Errorf("expected no backup for a missing file, got %q", path)
	}
}

func TestBackupService_RestoreSnapshotsFirst(t *testing.T) {
	s := newTestStack(order.Schema, 10, nil)
	ctx := context.Background()
	if _, err := s.store.Save(ctx, sampleOrders()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	edited := sampleOrders()
	edited.Remove(0)
	if _, err := s.store.Save(ctx, edited); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	service := NewBackupService(s.backups, 10, nil)

	if err := service.RestoreBackup(ctx, "backup_001.csv"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !s.file.table.Equal(sampleOrders()) {
		t.Error("expected the first snapshot restored")
	}
	latest, _ := service.LatestBackup(ctx)
	if latest != "backups/backup_003.csv" || s.file.files[latest].Len() != 1 {
		t.Errorf("expected pre-restore snapshot of the edited table, got %s", latest)
	}
}

func TestBackupService_RestoreUnknown(t *testing.T) {
	s := newTestStack(order.Schema, 10, nil)
	service := NewBackupService(s.backups, 10, nil)

	if err := service.RestoreBackup(context.Background(), "nope.csv"); err == nil {
		t.Error("expected error restoring an unknown backup")
	}
}
