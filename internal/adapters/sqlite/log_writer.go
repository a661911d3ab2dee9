package sqlite

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/maintlog/internal/ctxutil"
	"github.com/example/maintlog/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.LogWriter using ChangeLogRepository.
type LogWriterAdapter struct {
	logRepo secondary.ChangeLogRepository
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(logRepo secondary.ChangeLogRepository) *LogWriterAdapter {
	return &LogWriterAdapter{logRepo: logRepo}
}

// LogCreate logs the creation of a record.
func (w *LogWriterAdapter) LogCreate(ctx context.Context, dataset, recordID string) error {
	return w.writeLog(ctx, dataset, recordID, "create", "", "", "")
}

// LogUpdate logs a field change on a record.
func (w *LogWriterAdapter) LogUpdate(ctx context.Context, dataset, recordID, field, oldValue, newValue string) error {
	return w.writeLog(ctx, dataset, recordID, "update", field, oldValue, newValue)
}

// LogDelete logs the removal of a record.
func (w *LogWriterAdapter) LogDelete(ctx context.Context, dataset, recordID string) error {
	return w.writeLog(ctx, dataset, recordID, "delete", "", "", "")
}

func (w *LogWriterAdapter) writeLog(ctx context.Context, dataset, recordID, action, field, oldValue, newValue string) error {
	return w.logRepo.Create(ctx, &secondary.ChangeLogRecord{
		ID:       uuid.NewString(),
		Dataset:  dataset,
		RecordID: recordID,
		Actor:    ctxutil.ActorFromContext(ctx),
		Action:   action,
		Field:    field,
		OldValue: oldValue,
		NewValue: newValue,
	})
}

var _ secondary.LogWriter = (*LogWriterAdapter)(nil)
