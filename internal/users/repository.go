package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/puntoventa/puntoventa/internal/platform/db"
	"github.com/puntoventa/puntoventa/internal/shared"
)

// Repository provides SQLite backed persistence for user accounts.
type Repository struct {
	handle *sql.DB
}

// NewRepository constructs a repository.
func NewRepository(handle *sql.DB) *Repository {
	return &Repository{handle: handle}
}

// FindByUsername fetches a user by username. A miss is shared.ErrNotFound.
func (r *Repository) FindByUsername(ctx context.Context, username string) (User, error) {
	var user User
	err := r.handle.QueryRowContext(ctx,
		`SELECT id, username, password_hash, display_name, role, is_active FROM users WHERE username = ?`,
		username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.DisplayName, &user.Role, &user.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, fmt.Errorf("users: find by username: %w", err)
	}
	return user, nil
}

// List returns all users ordered by username. Password hashes are included;
// callers must not expose them.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.handle.QueryContext(ctx,
		`SELECT id, username, password_hash, display_name, role, is_active FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()

	var accounts []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.DisplayName, &user.Role, &user.IsActive); err != nil {
			return nil, fmt.Errorf("users: scan user: %w", err)
		}
		accounts = append(accounts, user)
	}
	return accounts, rows.Err()
}

// Count reports how many accounts exist.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.handle.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("users: count: %w", err)
	}
	return n, nil
}

// Create inserts a new account with an already-hashed password. A taken
// username yields ErrDuplicateUsername.
func (r *Repository) Create(ctx context.Context, user User) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.handle, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`, user.Username).Scan(&exists); err != nil {
			return fmt.Errorf("users: check username: %w", err)
		}
		if exists {
			return ErrDuplicateUsername
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO users (username, password_hash, display_name, role, is_active) VALUES (?, ?, ?, ?, ?)`,
			user.Username, user.PasswordHash, user.DisplayName, user.Role, user.IsActive)
		if err != nil {
			return fmt.Errorf("users: insert user: %w", err)
		}
		id, err = res.LastInsertId()
		return err
	})
	return id, err
}

// Update rewrites an account. An empty PasswordHash keeps the stored hash.
// The duplicate-username rule is scoped to rows other than id.
func (r *Repository) Update(ctx context.Context, id int64, user User) error {
	return db.WithTx(ctx, r.handle, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = ? AND id <> ?)`, user.Username, id).Scan(&exists); err != nil {
			return fmt.Errorf("users: check username: %w", err)
		}
		if exists {
			return ErrDuplicateUsername
		}

		var err error
		if user.PasswordHash != "" {
			_, err = tx.ExecContext(ctx,
				`UPDATE users SET username = ?, password_hash = ?, display_name = ?, role = ?, is_active = ? WHERE id = ?`,
				user.Username, user.PasswordHash, user.DisplayName, user.Role, user.IsActive, id)
		} else {
			_, err = tx.ExecContext(ctx,
				`UPDATE users SET username = ?, display_name = ?, role = ?, is_active = ? WHERE id = ?`,
				user.Username, user.DisplayName, user.Role, user.IsActive, id)
		}
		if err != nil {
			return fmt.Errorf("users: update user: %w", err)
		}
		return nil
	})
}

// Delete removes an account.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.handle.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("users: delete user: %w", err)
	}
	return nil
}
