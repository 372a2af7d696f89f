package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/puntoventa/puntoventa/internal/platform/db"
	"github.com/puntoventa/puntoventa/internal/shared"
)

// Repository persists products in the SQLite store.
type Repository struct {
	handle *sql.DB
}

// NewRepository constructs a Repository.
func NewRepository(handle *sql.DB) *Repository {
	return &Repository{handle: handle}
}

const productColumns = "id, barcode, name, price, stock"

// FindByBarcode fetches a product by its barcode. A miss is
// shared.ErrNotFound, never a fault.
func (r *Repository) FindByBarcode(ctx context.Context, barcode string) (Product, error) {
	row := r.handle.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE barcode = ?`, barcode)
	return scanProduct(row)
}

// FindByID fetches a product by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (Product, error) {
	row := r.handle.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

// List returns products whose barcode or name contains search as a
// substring, or every product when search is empty, ordered by name.
func (r *Repository) List(ctx context.Context, search string) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []any{}
	if search != "" {
		query += ` WHERE barcode LIKE ? OR name LIKE ?`
		like := "%" + search + "%"
		args = append(args, like, like)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.handle.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Barcode, &p.Name, &p.Price, &p.Stock); err != nil {
			return nil, fmt.Errorf("catalog: scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Create inserts a product. A taken barcode yields ErrDuplicateBarcode and
// leaves existing rows untouched.
func (r *Repository) Create(ctx context.Context, input ProductInput) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.handle, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE barcode = ?)`, input.Barcode).Scan(&exists); err != nil {
			return fmt.Errorf("catalog: check barcode: %w", err)
		}
		if exists {
			return ErrDuplicateBarcode
		}

		res, err := tx.ExecContext(ctx, `INSERT INTO products (barcode, name, price, stock) VALUES (?, ?, ?, ?)`,
			input.Barcode, input.Name, input.Price, input.Stock)
		if err != nil {
			return fmt.Errorf("catalog: insert product: %w", err)
		}
		id, err = res.LastInsertId()
		return err
	})
	return id, err
}

// Update rewrites a product. The duplicate-barcode rule is scoped to rows
// other than id.
func (r *Repository) Update(ctx context.Context, id int64, input ProductInput) error {
	return db.WithTx(ctx, r.handle, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE barcode = ? AND id <> ?)`, input.Barcode, id).Scan(&exists); err != nil {
			return fmt.Errorf("catalog: check barcode: %w", err)
		}
		if exists {
			return ErrDuplicateBarcode
		}

		_, err := tx.ExecContext(ctx, `UPDATE products SET barcode = ?, name = ?, price = ?, stock = ? WHERE id = ?`,
			input.Barcode, input.Name, input.Price, input.Stock, id)
		if err != nil {
			return fmt.Errorf("catalog: update product: %w", err)
		}
		return nil
	})
}

// Delete removes a product. The referential guard is checked explicitly so
// the behavior does not depend on the engine's RESTRICT default: a product
// referenced by any sale or purchase item refuses deletion with
// ErrProductReferenced.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.handle, func(tx *sql.Tx) error {
		var referenced bool
		err := tx.QueryRowContext(ctx, `SELECT EXISTS(
			SELECT 1 FROM sale_items WHERE product_id = ?
			UNION
			SELECT 1 FROM purchase_items WHERE product_id = ?
		)`, id, id).Scan(&referenced)
		if err != nil {
			return fmt.Errorf("catalog: check references: %w", err)
		}
		if referenced {
			return ErrProductReferenced
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
			return fmt.Errorf("catalog: delete product: %w", err)
		}
		return nil
	})
}

func scanProduct(row *sql.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Barcode, &p.Name, &p.Price, &p.Stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, fmt.Errorf("catalog: scan product: %w", err)
	}
	return p, nil
}
