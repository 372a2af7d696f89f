package masterdata

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/puntoventa/puntoventa/internal/platform/db"
)

const timeLayout = "2006-01-02 15:04:05"

// Repository persists contact-list entities in the SQLite store.
type Repository struct {
	handle *sql.DB
	now    func() time.Time
}

// NewRepository constructs Repository.
func NewRepository(handle *sql.DB) *Repository {
	return &Repository{handle: handle, now: time.Now}
}

// ListCustomers returns all customers ordered by name.
func (r *Repository) ListCustomers(ctx context.Context) ([]Contact, error) {
	return r.listContacts(ctx, "customers")
}

// AddCustomer inserts a customer.
func (r *Repository) AddCustomer(ctx context.Context, c Contact) (int64, error) {
	return r.addContact(ctx, "customers", c)
}

// UpdateCustomer rewrites a customer.
func (r *Repository) UpdateCustomer(ctx context.Context, id int64, c Contact) error {
	return r.updateContact(ctx, "customers", id, c)
}

// DeleteCustomer removes a customer.
func (r *Repository) DeleteCustomer(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "customers", id)
}

// ListSuppliers returns all suppliers ordered by name.
func (r *Repository) ListSuppliers(ctx context.Context) ([]Contact, error) {
	return r.listContacts(ctx, "suppliers")
}

// AddSupplier inserts a supplier.
func (r *Repository) AddSupplier(ctx context.Context, c Contact) (int64, error) {
	return r.addContact(ctx, "suppliers", c)
}

// UpdateSupplier rewrites a supplier.
func (r *Repository) UpdateSupplier(ctx context.Context, id int64, c Contact) error {
	return r.updateContact(ctx, "suppliers", id, c)
}

// DeleteSupplier removes a supplier. Purchases referencing it keep their
// rows with the supplier reference nulled out; the null-out is written
// explicitly here instead of leaning on the engine's SET NULL action.
func (r *Repository) DeleteSupplier(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.handle, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE purchases SET supplier_id = NULL WHERE supplier_id = ?`, id); err != nil {
			return fmt.Errorf("masterdata: detach purchases: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM suppliers WHERE id = ?`, id); err != nil {
			return fmt.Errorf("masterdata: delete supplier: %w", err)
		}
		return nil
	})
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.handle.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("masterdata: list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("masterdata: scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// AddCategory inserts a category; a taken name yields ErrDuplicateName.
func (r *Repository) AddCategory(ctx context.Context, name string) (int64, error) {
	return r.addNamed(ctx, `INSERT INTO categories (name) VALUES (?)`,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE name = ?)`, name)
}

// DeleteCategory removes a category.
func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "categories", id)
}

// ListBranches returns all branches ordered by name.
func (r *Repository) ListBranches(ctx context.Context) ([]Branch, error) {
	rows, err := r.handle.QueryContext(ctx, `SELECT id, name, COALESCE(address, '') FROM branches ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("masterdata: list branches: %w", err)
	}
	defer rows.Close()

	var branches []Branch
	for rows.Next() {
		var b Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Address); err != nil {
			return nil, fmt.Errorf("masterdata: scan branch: %w", err)
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

// AddBranch inserts a branch; a taken name yields ErrDuplicateName.
func (r *Repository) AddBranch(ctx context.Context, name, address string) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.handle, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM branches WHERE name = ?)`, name).Scan(&exists); err != nil {
			return fmt.Errorf("masterdata: check branch name: %w", err)
		}
		if exists {
			return ErrDuplicateName
		}
		res, err := tx.ExecContext(ctx, `INSERT INTO branches (name, address) VALUES (?, ?)`, name, address)
		if err != nil {
			return fmt.Errorf("masterdata: insert branch: %w", err)
		}
		id, err = res.LastInsertId()
		return err
	})
	return id, err
}

// DeleteBranch removes a branch.
func (r *Repository) DeleteBranch(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "branches", id)
}

// ListExpenses returns all expenses, newest first.
func (r *Repository) ListExpenses(ctx context.Context) ([]Expense, error) {
	rows, err := r.handle.QueryContext(ctx, `SELECT id, created_at, concept, amount FROM expenses ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("masterdata: list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var (
			e         Expense
			createdAt string
		)
		if err := rows.Scan(&e.ID, &createdAt, &e.Concept, &e.Amount); err != nil {
			return nil, fmt.Errorf("masterdata: scan expense: %w", err)
		}
		e.CreatedAt, err = time.ParseInLocation(timeLayout, createdAt, time.Local)
		if err != nil {
			return nil, fmt.Errorf("masterdata: parse expense timestamp: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// AddExpense inserts an expense with a server-assigned timestamp.
func (r *Repository) AddExpense(ctx context.Context, concept string, amount float64) (int64, error) {
	res, err := r.handle.ExecContext(ctx, `INSERT INTO expenses (created_at, concept, amount) VALUES (?, ?, ?)`,
		r.now().Format(timeLayout), concept, amount)
	if err != nil {
		return 0, fmt.Errorf("masterdata: insert expense: %w", err)
	}
	return res.LastInsertId()
}

// DeleteExpense removes an expense.
func (r *Repository) DeleteExpense(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "expenses", id)
}

func (r *Repository) listContacts(ctx context.Context, table string) ([]Contact, error) {
	rows, err := r.handle.QueryContext(ctx,
		`SELECT id, name, COALESCE(phone, ''), COALESCE(email, ''), COALESCE(address, '') FROM `+table+` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("masterdata: list %s: %w", table, err)
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address); err != nil {
			return nil, fmt.Errorf("masterdata: scan %s: %w", table, err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *Repository) addContact(ctx context.Context, table string, c Contact) (int64, error) {
	res, err := r.handle.ExecContext(ctx,
		`INSERT INTO `+table+` (name, phone, email, address) VALUES (?, ?, ?, ?)`,
		c.Name, c.Phone, c.Email, c.Address)
	if err != nil {
		return 0, fmt.Errorf("masterdata: insert into %s: %w", table, err)
	}
	return res.LastInsertId()
}

func (r *Repository) updateContact(ctx context.Context, table string, id int64, c Contact) error {
	_, err := r.handle.ExecContext(ctx,
		`UPDATE `+table+` SET name = ?, phone = ?, email = ?, address = ? WHERE id = ?`,
		c.Name, c.Phone, c.Email, c.Address, id)
	if err != nil {
		return fmt.Errorf("masterdata: update %s: %w", table, err)
	}
	return nil
}

func (r *Repository) addNamed(ctx context.Context, insert, existsQuery, name string) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.handle, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, existsQuery, name).Scan(&exists); err != nil {
			return fmt.Errorf("masterdata: check name: %w", err)
		}
		if exists {
			return ErrDuplicateName
		}
		res, err := tx.ExecContext(ctx, insert, name)
		if err != nil {
			return fmt.Errorf("masterdata: insert: %w", err)
		}
		id, err = res.LastInsertId()
		return err
	})
	return id, err
}

func (r *Repository) deleteRow(ctx context.Context, table string, id int64) error {
	if _, err := r.handle.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id); err != nil {
		return fmt.Errorf("masterdata: delete from %s: %w", table, err)
	}
	return nil
}
