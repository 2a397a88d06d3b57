package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens a SQLite database file. A single connection avoids
// "database is locked" errors from concurrent writers.
func OpenSQLite(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}
	return conn, nil
}
