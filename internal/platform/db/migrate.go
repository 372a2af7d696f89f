package db

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	barcode TEXT UNIQUE NOT NULL,
	name TEXT NOT NULL,
	price REAL NOT NULL,
	stock REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS sales (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT NOT NULL,
	subtotal REAL NOT NULL DEFAULT 0,
	discount REAL NOT NULL DEFAULT 0,
	tax_rate REAL NOT NULL DEFAULT 0,
	tax_amount REAL NOT NULL DEFAULT 0,
	total REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS sale_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sale_id INTEGER NOT NULL,
	product_id INTEGER NOT NULL,
	quantity REAL NOT NULL,
	price REAL NOT NULL,
	line_total REAL NOT NULL,
	FOREIGN KEY (sale_id) REFERENCES sales(id) ON DELETE CASCADE,
	FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	display_name TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'Administrador',
	is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS customers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	phone TEXT,
	email TEXT,
	address TEXT
);

CREATE TABLE IF NOT EXISTS suppliers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	phone TEXT,
	email TEXT,
	address TEXT
);

CREATE TABLE IF NOT EXISTS expenses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT NOT NULL,
	concept TEXT NOT NULL,
	amount REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS purchases (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT NOT NULL,
	supplier_id INTEGER,
	total REAL NOT NULL,
	FOREIGN KEY (supplier_id) REFERENCES suppliers(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS purchase_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	purchase_id INTEGER NOT NULL,
	product_id INTEGER NOT NULL,
	quantity REAL NOT NULL,
	cost REAL NOT NULL,
	line_total REAL NOT NULL,
	FOREIGN KEY (purchase_id) REFERENCES purchases(id) ON DELETE CASCADE,
	FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS branches (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT UNIQUE NOT NULL,
	address TEXT
);
`

// Migrate creates the schema idempotently. Beyond table creation the only
// supported evolution is adding columns; rows written by older versions keep
// the column defaults.
func Migrate(ctx context.Context, handle *sql.DB) error {
	if _, err := handle.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("platform/db: create schema: %w", err)
	}

	additive := []struct {
		table, column, ddl string
	}{
		{"sales", "subtotal", "REAL NOT NULL DEFAULT 0"},
		{"sales", "discount", "REAL NOT NULL DEFAULT 0"},
		{"sales", "tax_rate", "REAL NOT NULL DEFAULT 0"},
		{"sales", "tax_amount", "REAL NOT NULL DEFAULT 0"},
		{"users", "role", "TEXT NOT NULL DEFAULT 'Administrador'"},
	}
	for _, col := range additive {
		if err := ensureColumn(ctx, handle, col.table, col.column, col.ddl); err != nil {
			return err
		}
	}

	return nil
}

func ensureColumn(ctx context.Context, handle *sql.DB, table, column, ddl string) error {
	rows, err := handle.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return fmt.Errorf("platform/db: table info %s: %w", table, err)
	}
	defer rows.Close()

	exists := false
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return fmt.Errorf("platform/db: scan table info: %w", err)
		}
		if name == column {
			exists = true
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if exists {
		return nil
	}

	if _, err := handle.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, ddl)); err != nil {
		return fmt.Errorf("platform/db: add column %s.%s: %w", table, column, err)
	}
	return nil
}
