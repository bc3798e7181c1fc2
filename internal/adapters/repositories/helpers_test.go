package repositories

import (
	"database/sql"
	"testing"
	"trip-planner-service/internal/platform/db"

	_ "modernc.org/sqlite"
)

// setupTestDB opens a private in-memory sqlite DB with the schema applied.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, _, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite memory DB: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := InitSchema(conn); err != nil {
		t.Fatalf("init schema failed: %v", err)
	}

	return conn
}

func countRows(t *testing.T, conn *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
