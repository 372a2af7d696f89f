package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Open opens (creating if necessary) the SQLite store at path and verifies
// the connection. The store is a single file; its parent directory is
// created on demand.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("platform/db: create store dir: %w", err)
		}
	}

	handle, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("platform/db: open store: %w", err)
	}

	// SQLite serializes writers at the file level; a single connection keeps
	// the one-writer assumption explicit on our side as well.
	handle.SetMaxOpenConns(1)

	if err := handle.Ping(); err != nil {
		handle.Close()
		return nil, fmt.Errorf("platform/db: ping store: %w", err)
	}

	return handle, nil
}
