package db

import (
	"context"
	"database/sql"
	"fmt"
)

// WithTx executes a function within a short-lived transaction. Every public
// operation opens exactly one such session and commits or rolls back before
// returning.
func WithTx(ctx context.Context, handle *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := handle.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("platform/db: begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("platform/db: commit tx: %w", err)
	}

	return nil
}
