package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func tableExists(t *testing.T, database *sql.DB, name string) bool {
	t.Helper()
	var n int
	if err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&n); err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	return n == 1
}

func TestOpen_FreshInstall(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".maintlog", FileName)

	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer database.Close()

	for _, name := range []string{"sync_events", "change_log", "schema_version"} {
		if !tableExists(t, database, name) {
			t.Errorf("table %s missing", name)
		}
	}

	var version int
	if err := database.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version); err != nil {
		t.Fatalf("failed to read version: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("version = %d, want %d", version, len(migrations))
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer second.Close()
}

func TestRunMigrations_UpgradesOldJournal(t *testing.T) {
	database, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer database.Close()
	database.SetMaxOpenConns(1)

	// A journal written before the change log existed.
	if err := createVersionTable(database); err != nil {
		t.Fatalf("createVersionTable failed: %v", err)
	}
	tx, _ := database.Begin()
	if err := migrationV1(tx); err != nil {
		t.Fatalf("migrationV1 failed: %v", err)
	}
	tx.Commit()
	database.Exec("INSERT INTO schema_version (version) VALUES (1)")

	if err := InitSchema(database); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}
	if !tableExists(t, database, "change_log") {
		t.Error("change_log should be created by migration 2")
	}
}
