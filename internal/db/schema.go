package db

import (
	"database/sql"
)

// SchemaSQL is the complete schema for fresh installs. It reflects the state
// after all migrations; tests load it through GetSchemaSQL.
const SchemaSQL = `
-- Sync journal: one row per pull or push attempt
CREATE TABLE IF NOT EXISTS sync_events (
	id TEXT PRIMARY KEY,
	dataset TEXT NOT NULL,
	action TEXT NOT NULL CHECK (action IN ('pull', 'push')),
	outcome TEXT NOT NULL CHECK (outcome IN ('ok', 'noop', 'not_found', 'conflict', 'failed')),
	revision TEXT,
	fingerprint TEXT,
	detail TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sync_events_dataset ON sync_events(dataset, created_at);

-- Change log: record-level audit trail of the datasets
CREATE TABLE IF NOT EXISTS change_log (
	id TEXT PRIMARY KEY,
	dataset TEXT NOT NULL,
	record_id TEXT NOT NULL,
	actor TEXT,
	action TEXT NOT NULL CHECK (action IN ('create', 'update', 'delete')),
	field TEXT,
	old_value TEXT NOT NULL DEFAULT '',
	new_value TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_change_log_record ON change_log(dataset, record_id);
CREATE INDEX IF NOT EXISTS idx_change_log_created ON change_log(created_at);
`

// InitSchema creates the schema on a fresh database, or runs the pending
// migrations on an existing one.
func InitSchema(database *sql.DB) error {
	var tableCount int
	err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}
	if tableCount > 0 {
		return RunMigrations(database)
	}

	if _, err := database.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(database); err != nil {
		return err
	}
	// Mark all migrations as applied for fresh installs
	for _, m := range migrations {
		if _, err := database.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
