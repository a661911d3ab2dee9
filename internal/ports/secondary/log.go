package secondary

import "context"

// LogWriter defines the interface for writing change log entries.
// Implementations extract the actor from context.
type LogWriter interface {
	// LogCreate logs the creation of a record.
	LogCreate(ctx context.Context, dataset, recordID string) error

	// LogUpdate logs a field change on a record.
	// field, oldValue, newValue describe what changed.
	LogUpdate(ctx context.Context, dataset, recordID, field, oldValue, newValue string) error

	// LogDelete logs the removal of a record.
	LogDelete(ctx context.Context, dataset, recordID string) error
}

// ChangeLogRepository defines the secondary port for change log persistence.
type ChangeLogRepository interface {
	// Create persists a new change log entry.
	Create(ctx context.Context, entry *ChangeLogRecord) error

	// List retrieves entries matching the given filters, newest first.
	List(ctx context.Context, filters ChangeLogFilters) ([]*ChangeLogRecord, error)

	// PruneOlderThan deletes entries older than the given number of days.
	PruneOlderThan(ctx context.Context, days int) (int, error)
}

// ChangeLogRecord represents a change log entry as stored in persistence.
type ChangeLogRecord struct {
	ID        string
	Dataset   string
	RecordID  string
	Actor     string // Empty string means null
	Action    string // 'create', 'update', 'delete'
	Field     string // Empty string means null - for updates only
	OldValue  string
	NewValue  string
	CreatedAt string
}

// ChangeLogFilters contains filter options for querying the change log.
type ChangeLogFilters struct {
	Dataset  string
	RecordID string
	Actor    string
	Action   string
	Limit    int
}
