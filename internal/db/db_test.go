package db

import (
	"path/filepath"
	"testing"
)

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("mysql", "x"); err == nil {
		t.Error("expected error for unknown driver")
	}
	if _, err := Dialect("mysql"); err == nil {
		t.Error("expected error for unknown dialect")
	}
}

func TestOpenPostgresRequiresDSN(t *testing.T) {
	if _, err := Open(DriverPostgres, ""); err == nil {
		t.Error("expected error for empty dsn")
	}
}

func TestOpenSQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "skrinja.sqlite3")

	conn, err := Open(DriverSQLite, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()

	// Running twice must be harmless.
	for range 2 {
		if err := EnsureSchema(conn, DriverSQLite); err != nil {
			t.Fatalf("EnsureSchema: %v", err)
		}
	}

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM state`).Scan(&n); err != nil {
		t.Fatalf("querying state table: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty state table, got %d rows", n)
	}
}

func TestNewTestDB(t *testing.T) {
	conn := NewTestDB(t)
	if _, err := conn.Exec(`INSERT INTO state (bucket, payload) VALUES ('a', x'5b5d')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	var payload []byte
	if err := conn.QueryRow(`SELECT payload FROM state WHERE bucket = 'a'`).Scan(&payload); err != nil {
		t.Fatalf("select: %v", err)
	}
	if string(payload) != "[]" {
		t.Errorf("payload = %q, want []", payload)
	}
}
