package primary

import "context"

// LogService defines the primary port for the record change log.
type LogService interface {
	// ListLogs retrieves change log entries matching the given filters.
	ListLogs(ctx context.Context, filters LogFilters) ([]*LogEntry, error)

	// PruneLogs deletes entries older than the specified number of days.
	PruneLogs(ctx context.Context, olderThanDays int) (int, error)
}

// LogEntry represents a change log entry at the port boundary.
type LogEntry struct {
	ID        string
	Dataset   string
	RecordID  string
	Actor     string
	Action    string // 'create', 'update', 'delete'
	Field     string // For updates only
	OldValue  string
	NewValue  string
	CreatedAt string
}

// LogFilters contains filter options for querying the change log.
type LogFilters struct {
	Dataset  string
	RecordID string
	Actor    string
	Action   string
	Limit    int
}
