package app

import (
	"context"
	"testing"

	"github.com/example/maintlog/internal/ports/primary"
	"github.com/example/maintlog/internal/ports/secondary"
)

func TestListLogs_Filters(t *testing.T) {
	repo := &mockChangeLogRepository{records: []*secondary.ChangeLogRecord{
		{ID: "CL-1", Dataset: "orders", RecordID: "1", Actor: "ana", Action: "create", CreatedAt: "2025-07-01T10:00:00.000000Z"},
		{ID: "CL-2", Dataset: "orders", RecordID: "1", Actor: "robson", Action: "update", Field: "Status", OldValue: "Pendente", NewValue: "Concluído", CreatedAt: "2025-07-01T11:00:00.000000Z"},
		{ID: "CL-3", Dataset: "equipment", RecordID: "4", Action: "delete", CreatedAt: "2025-07-02T09:00:00.000000Z"},
	}}
	service := NewLogService(repo)
	ctx := context.Background()

	entries, err := service.ListLogs(ctx, primary.LogFilters{Dataset: "orders"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "CL-2" {
		t.Errorf("expected orders entries newest first, got %+v", entries)
	}
	if entries[0].Field != "Status" || entries[0].NewValue != "Concluído" {
		t.Errorf("unexpected entry %+v", entries[0])
	}

	entries, _ = service.ListLogs(ctx, primary.LogFilters{Actor: "ana"})
	if len(entries) != 1 || entries[0].Action != "create" {
		t.Errorf("expected ana's create, got %+v", entries)
	}
}

func TestPruneLogs(t *testing.T) {
	repo := &mockChangeLogRepository{pruned: 5}
	service := NewLogService(repo)

	n, err := service.PruneLogs(context.Background(), 30)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n != 5 || repo.lastDays != 30 {
		t.Errorf("expected 5 pruned at 30 days, got %d at %d", n, repo.lastDays)
	}

	if _, err := service.PruneLogs(context.Background(), 0); err == nil {
		t.Error("expected error for zero days")
	}
}
