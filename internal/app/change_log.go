package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/maintlog/internal/core/table"
	"github.com/example/maintlog/internal/ports/secondary"
)

// changeRecorder writes change log entries after a successful save. Change
// log failures are logged and never fail the operation.
type changeRecorder struct {
	writer secondary.LogWriter
	logger *zap.Logger
}

func (c changeRecorder) created(ctx context.Context, dataset, recordID string) {
	if c.writer == nil {
		return
	}
	c.check(c.writer.LogCreate(ctx, dataset, recordID))
}

func (c changeRecorder) deleted(ctx context.Context, dataset, recordID string) {
	if c.writer == nil {
		return
	}
	c.check(c.writer.LogDelete(ctx, dataset, recordID))
}

// rowChanged logs one update entry per canonical column whose value changed.
func (c changeRecorder) rowChanged(ctx context.Context, schema *table.Schema, recordID string, before, after table.Row) {
	if c.writer == nil {
		return
	}
	for _, col := range schema.ColumnNames() {
		if before[col] != after[col] {
			c.check(c.writer.LogUpdate(ctx, schema.Name, recordID, col, before[col], after[col]))
		}
	}
}

func (c changeRecorder) check(err error) {
	if err != nil {
		c.logger.Warn("failed to write change log", zap.Error(err))
	}
}

func pick(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}

func cloneRow(r table.Row) table.Row {
	c := make(table.Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}
