package main

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestRollbackSchema_RevertsNewestMigration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geomaster.db")
	if err := rollbackSchema(path); err != nil {
		t.Fatalf("rollbackSchema: %v", err)
	}

	d, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()

	var tables int
	if err := d.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('users', 'features')`).Scan(&tables); err != nil {
		t.Fatalf("query tables: %v", err)
	}
	if tables != 1 {
		t.Fatalf("tables after rollback = %d, want only users", tables)
	}
	var applied int
	if err := d.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied); err != nil {
		t.Fatalf("query migrations: %v", err)
	}
	if applied != 1 {
		t.Fatalf("applied migrations = %d, want 1", applied)
	}
}
