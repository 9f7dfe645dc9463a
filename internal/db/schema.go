package db

import (
	"database/sql"
	"fmt"
)

// The whole inventory lives in one table: each bucket holds a JSON document.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS state (
    bucket  TEXT PRIMARY KEY,
    payload BLOB NOT NULL
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS state (
    bucket  TEXT PRIMARY KEY,
    payload BYTEA NOT NULL
);
`

// EnsureSchema creates the state table if it doesn't already exist.
func EnsureSchema(db *sql.DB, driver string) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = sqliteSchema
	case DriverPostgres:
		schema = postgresSchema
	default:
		return fmt.Errorf("unknown storage driver %q", driver)
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
