package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrateIsIdempotent(t *testing.T) {
	handle, err := Open(filepath.Join(t.TempDir(), "pos.db"))
	require.NoError(t, err)
	defer handle.Close()

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, handle))
	require.NoError(t, Migrate(ctx, handle))

	// All tables exist and are usable after the double migration.
	_, err = handle.Exec(`INSERT INTO products (barcode, name, price, stock) VALUES ('1', 'x', 1, 1)`)
	require.NoError(t, err)
}

func TestMigrateAddsColumnsToOldSchema(t *testing.T) {
	handle, err := Open(filepath.Join(t.TempDir(), "pos.db"))
	require.NoError(t, err)
	defer handle.Close()
	ctx := context.Background()

	// A store created by an earlier version: sales without the money
	// breakdown columns, users without a role.
	_, err = handle.Exec(`CREATE TABLE sales (id INTEGER PRIMARY KEY AUTOINCREMENT, created_at TEXT NOT NULL, total REAL NOT NULL)`)
	require.NoError(t, err)
	_, err = handle.Exec(`CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT, username TEXT UNIQUE NOT NULL, password_hash TEXT NOT NULL, display_name TEXT NOT NULL, is_active INTEGER NOT NULL DEFAULT 1)`)
	require.NoError(t, err)
	_, err = handle.Exec(`INSERT INTO sales (created_at, total) VALUES ('2024-01-01 10:00:00', 16.5)`)
	require.NoError(t, err)

	require.NoError(t, Migrate(ctx, handle))

	// Old rows pick up the column defaults.
	var subtotal, discount float64
	require.NoError(t, handle.QueryRow(`SELECT subtotal, discount FROM sales WHERE id = 1`).Scan(&subtotal, &discount))
	require.Zero(t, subtotal)
	require.Zero(t, discount)

	_, err = handle.Exec(`INSERT INTO users (username, password_hash, display_name) VALUES ('admin', 'h', 'Admin')`)
	require.NoError(t, err)
	var role string
	require.NoError(t, handle.QueryRow(`SELECT role FROM users WHERE username = 'admin'`).Scan(&role))
	require.Equal(t, "Administrador", role)
}

func TestBackupAndRestoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "pos.db")
	backupPath := filepath.Join(dir, "copia.db")

	handle, err := Open(storePath)
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), handle))
	_, err = handle.Exec(`INSERT INTO products (barcode, name, price, stock) VALUES ('1', 'x', 1, 1)`)
	require.NoError(t, err)
	require.NoError(t, handle.Close())

	require.NoError(t, Backup(storePath, backupPath))

	original, err := os.ReadFile(storePath)
	require.NoError(t, err)
	copied, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	require.Equal(t, original, copied)

	// Mutate the live store, then restore the backup over it.
	handle, err = Open(storePath)
	require.NoError(t, err)
	_, err = handle.Exec(`DELETE FROM products`)
	require.NoError(t, err)
	require.NoError(t, handle.Close())

	require.NoError(t, Restore(storePath, backupPath))

	handle, err = Open(storePath)
	require.NoError(t, err)
	defer handle.Close()
	var count int
	require.NoError(t, handle.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count))
	require.Equal(t, 1, count)

	// No staging files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestRestoreMissingSourceLeavesStoreIntact(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "pos.db")

	handle, err := Open(storePath)
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), handle))
	require.NoError(t, handle.Close())

	before, err := os.ReadFile(storePath)
	require.NoError(t, err)

	require.Error(t, Restore(storePath, filepath.Join(dir, "no-existe.db")))

	after, err := os.ReadFile(storePath)
	require.NoError(t, err)
	require.Equal(t, before, after)
}
