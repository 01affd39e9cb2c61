package system

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func corruptVersion(t *testing.T, path string, version int) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to delete schema version: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
		t.Fatalf("failed to insert schema version: %v", err)
	}
}
