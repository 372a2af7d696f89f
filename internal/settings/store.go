// Package settings is a generic string key-value store for configuration
// consumed by the presentation layer (currency symbol, ticket footer,
// company identity).
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Store reads and writes settings rows.
type Store struct {
	handle *sql.DB
}

// NewStore constructs a Store.
func NewStore(handle *sql.DB) *Store {
	return &Store{handle: handle}
}

// Get returns the value for key, or fallback when the key is absent. A
// missing key is not an error.
func (s *Store) Get(ctx context.Context, key, fallback string) (string, error) {
	var value string
	err := s.handle.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fallback, nil
		}
		return "", fmt.Errorf("settings: get %q: %w", key, err)
	}
	return value, nil
}

// Set upserts key to value. A key never has more than one row.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.handle.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("settings: set %q: %w", key, err)
	}
	return nil
}

// EnsureDefaults seeds the settings the ticket printer expects when they
// have never been configured.
func (s *Store) EnsureDefaults(ctx context.Context) error {
	defaults := map[string]string{
		"currency_symbol": "$",
		"ticket_footer":   "Gracias por su compra",
	}
	for key, value := range defaults {
		current, err := s.Get(ctx, key, "")
		if err != nil {
			return err
		}
		if current != "" {
			continue
		}
		if err := s.Set(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}
