package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/maintlog/internal/ports/secondary"
)

// ChangeLogRepository implements secondary.ChangeLogRepository with SQLite.
type ChangeLogRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewChangeLogRepository creates a new SQLite change log repository.
func NewChangeLogRepository(db *sql.DB) *ChangeLogRepository {
	return &ChangeLogRepository{db: db, now: time.Now}
}

// WithClock replaces the clock used to stamp entries.
func (r *ChangeLogRepository) WithClock(now func() time.Time) *ChangeLogRepository {
	r.now = now
	return r
}

// Create persists a new change log entry.
func (r *ChangeLogRepository) Create(ctx context.Context, entry *secondary.ChangeLogRecord) error {
	if entry.CreatedAt == "" {
		entry.CreatedAt = r.now().UTC().Format(timestampLayout)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO change_log (id, dataset, record_id, actor, action, field, old_value, new_value, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Dataset,
		entry.RecordID,
		nullString(entry.Actor),
		entry.Action,
		nullString(entry.Field),
		entry.OldValue,
		entry.NewValue,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create change log entry: %w", err)
	}
	return nil
}

// List retrieves entries matching the given filters, newest first.
func (r *ChangeLogRepository) List(ctx context.Context, filters secondary.ChangeLogFilters) ([]*secondary.ChangeLogRecord, error) {
	query := `SELECT id, dataset, record_id, actor, action, field, old_value, new_value, created_at FROM change_log WHERE 1=1`
	args := []any{}

	if filters.Dataset != "" {
		query += " AND dataset = ?"
		args = append(args, filters.Dataset)
	}

	if filters.RecordID != "" {
		query += " AND record_id = ?"
		args = append(args, filters.RecordID)
	}

	if filters.Actor != "" {
		query += " AND actor = ?"
		args = append(args, filters.Actor)
	}

	if filters.Action != "" {
		query += " AND action = ?"
		args = append(args, filters.Action)
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list change log: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.ChangeLogRecord
	for rows.Next() {
		var actor, field sql.NullString
		entry := &secondary.ChangeLogRecord{}
		err := rows.Scan(&entry.ID,
			&entry.Dataset,
			&entry.RecordID,
			&actor,
			&entry.Action,
			&field,
			&entry.OldValue,
			&entry.NewValue,
			&entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan change log entry: %w", err)
		}
		entry.Actor = actor.String
		entry.Field = field.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// PruneOlderThan deletes entries older than the given number of days.
func (r *ChangeLogRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	cutoff := r.now().UTC().AddDate(0, 0, -days).Format(timestampLayout)
	result, err := r.db.ExecContext(ctx, "DELETE FROM change_log WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune change log: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

var _ secondary.ChangeLogRepository = (*ChangeLogRepository)(nil)
