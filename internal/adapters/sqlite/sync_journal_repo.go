// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/maintlog/internal/ports/secondary"
)

// timestampLayout sorts lexically in time order.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

// SyncJournalRepository implements secondary.SyncJournal with SQLite.
type SyncJournalRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSyncJournalRepository creates a new SQLite sync journal.
func NewSyncJournalRepository(db *sql.DB) *SyncJournalRepository {
	return &SyncJournalRepository{db: db, now: time.Now}
}

// WithClock replaces the clock used to stamp entries.
func (r *SyncJournalRepository) WithClock(now func() time.Time) *SyncJournalRepository {
	r.now = now
	return r
}

// Record persists one sync attempt.
func (r *SyncJournalRepository) Record(ctx context.Context, event *secondary.SyncEventRecord) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt == "" {
		event.CreatedAt = r.now().UTC().Format(timestampLayout)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sync_events (id, dataset, action, outcome, revision, fingerprint, detail, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.Dataset,
		event.Action,
		event.Outcome,
		nullString(event.Revision),
		nullString(event.Fingerprint),
		event.Detail,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record sync event: %w", err)
	}
	return nil
}

// LastSuccess returns the most recent ok or noop event of the dataset.
func (r *SyncJournalRepository) LastSuccess(ctx context.Context, dataset string) (*secondary.SyncEventRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, dataset, action, outcome, revision, fingerprint, detail, created_at FROM sync_events
		 WHERE dataset = ? AND outcome IN (?, ?) ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		dataset, secondary.SyncOutcomeOK, secondary.SyncOutcomeNoop,
	)
	event, err := scanSyncEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last sync event: %w", err)
	}
	return event, nil
}

// List returns the most recent events of the dataset, newest first.
func (r *SyncJournalRepository) List(ctx context.Context, dataset string, limit int) ([]*secondary.SyncEventRecord, error) {
	query := `SELECT id, dataset, action, outcome, revision, fingerprint, detail, created_at FROM sync_events WHERE 1=1`
	args := []any{}

	if dataset != "" {
		query += " AND dataset = ?"
		args = append(args, dataset)
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync events: %w", err)
	}
	defer rows.Close()

	var events []*secondary.SyncEventRecord
	for rows.Next() {
		event, err := scanSyncEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSyncEvent(s scanner) (*secondary.SyncEventRecord, error) {
	var revision, fingerprint sql.NullString
	event := &secondary.SyncEventRecord{}
	err := s.Scan(&event.ID,
		&event.Dataset,
		&event.Action,
		&event.Outcome,
		&revision,
		&fingerprint,
		&event.Detail,
		&event.CreatedAt)
	if err != nil {
		return nil, err
	}
	event.Revision = revision.String
	event.Fingerprint = fingerprint.String
	return event, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ secondary.SyncJournal = (*SyncJournalRepository)(nil)
