package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/puntoventa/puntoventa/internal/platform/db"
)

// timeLayout is how timestamps are persisted. The store keeps them as text
// so the calendar-date queries can use SQLite's DATE().
const timeLayout = "2006-01-02 15:04:05"

// TxRepository exposes the write operations the service runs inside one
// atomic session.
type TxRepository interface {
	InsertSale(ctx context.Context, sale Sale) (int64, error)
	InsertSaleLines(ctx context.Context, saleID int64, lines []SaleLine) error
	InsertPurchase(ctx context.Context, purchase Purchase) (int64, error)
	InsertPurchaseLines(ctx context.Context, purchaseID int64, lines []PurchaseLine) error
	AdjustStock(ctx context.Context, productID int64, delta float64) error
}

// Repository persists ledger data in the SQLite store.
type Repository struct {
	handle *sql.DB
}

// NewRepository constructs Repository.
func NewRepository(handle *sql.DB) *Repository {
	return &Repository{handle: handle}
}

// WithTx executes the callback inside a single transaction; any error rolls
// back every row and stock delta written by the callback.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.handle, func(tx *sql.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type txRepository struct {
	tx *sql.Tx
}

func (r *txRepository) InsertSale(ctx context.Context, sale Sale) (int64, error) {
	res, err := r.tx.ExecContext(ctx, `INSERT INTO sales (created_at, subtotal, discount, tax_rate, tax_amount, total)
VALUES (?, ?, ?, ?, ?, ?)`,
		sale.CreatedAt.Format(timeLayout), sale.Subtotal, sale.Discount, sale.TaxRate, sale.TaxAmount, sale.Total)
	if err != nil {
		return 0, fmt.Errorf("ledger: insert sale: %w", err)
	}
	return res.LastInsertId()
}

func (r *txRepository) InsertSaleLines(ctx context.Context, saleID int64, lines []SaleLine) error {
	for _, line := range lines {
		if _, err := r.tx.ExecContext(ctx, `INSERT INTO sale_items (sale_id, product_id, quantity, price, line_total)
VALUES (?, ?, ?, ?, ?)`,
			saleID, line.ProductID, line.Quantity, line.UnitPrice, line.LineTotal); err != nil {
			return fmt.Errorf("ledger: insert sale item: %w", err)
		}
	}
	return nil
}

func (r *txRepository) InsertPurchase(ctx context.Context, purchase Purchase) (int64, error) {
	var supplier any
	if purchase.SupplierID != nil {
		supplier = *purchase.SupplierID
	}
	res, err := r.tx.ExecContext(ctx, `INSERT INTO purchases (created_at, supplier_id, total) VALUES (?, ?, ?)`,
		purchase.CreatedAt.Format(timeLayout), supplier, purchase.Total)
	if err != nil {
		return 0, fmt.Errorf("ledger: insert purchase: %w", err)
	}
	return res.LastInsertId()
}

func (r *txRepository) InsertPurchaseLines(ctx context.Context, purchaseID int64, lines []PurchaseLine) error {
	for _, line := range lines {
		if _, err := r.tx.ExecContext(ctx, `INSERT INTO purchase_items (purchase_id, product_id, quantity, cost, line_total)
VALUES (?, ?, ?, ?, ?)`,
			purchaseID, line.ProductID, line.Quantity, line.Cost, line.LineTotal); err != nil {
			return fmt.Errorf("ledger: insert purchase item: %w", err)
		}
	}
	return nil
}

func (r *txRepository) AdjustStock(ctx context.Context, productID int64, delta float64) error {
	if _, err := r.tx.ExecContext(ctx, `UPDATE products SET stock = stock + ? WHERE id = ?`, delta, productID); err != nil {
		return fmt.Errorf("ledger: adjust stock: %w", err)
	}
	return nil
}

// DailySummary groups sale items whose parent sale falls on the given
// calendar date, summing quantity and revenue per product.
func (r *Repository) DailySummary(ctx context.Context, date time.Time) ([]ProductTotal, error) {
	return r.queryTotals(ctx, `SELECT p.barcode, p.name, SUM(si.quantity), SUM(si.line_total)
FROM sale_items si
JOIN sales s ON s.id = si.sale_id
JOIN products p ON p.id = si.product_id
WHERE DATE(s.created_at) = DATE(?)
GROUP BY p.id, p.barcode, p.name
ORDER BY SUM(si.quantity) DESC`, date.Format("2006-01-02"))
}

// TopProducts applies the same grouping over every sale ever recorded,
// capped at limit rows.
func (r *Repository) TopProducts(ctx context.Context, limit int) ([]ProductTotal, error) {
	return r.queryTotals(ctx, `SELECT p.barcode, p.name, SUM(si.quantity), SUM(si.line_total)
FROM sale_items si
JOIN products p ON p.id = si.product_id
GROUP BY p.id, p.barcode, p.name
ORDER BY SUM(si.quantity) DESC
LIMIT ?`, limit)
}

func (r *Repository) queryTotals(ctx context.Context, query string, args ...any) ([]ProductTotal, error) {
	rows, err := r.handle.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ledger: query totals: %w", err)
	}
	defer rows.Close()

	var totals []ProductTotal
	for rows.Next() {
		var row ProductTotal
		if err := rows.Scan(&row.Barcode, &row.Name, &row.Quantity, &row.Total); err != nil {
			return nil, fmt.Errorf("ledger: scan totals: %w", err)
		}
		totals = append(totals, row)
	}
	return totals, rows.Err()
}

// SalesForDate lists sale headers on the given calendar date, oldest first.
func (r *Repository) SalesForDate(ctx context.Context, date time.Time) ([]Sale, error) {
	rows, err := r.handle.QueryContext(ctx, `SELECT id, created_at, subtotal, discount, tax_rate, tax_amount, total
FROM sales
WHERE DATE(created_at) = DATE(?)
ORDER BY created_at`, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("ledger: sales for date: %w", err)
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var (
			sale      Sale
			createdAt string
		)
		if err := rows.Scan(&sale.ID, &createdAt, &sale.Subtotal, &sale.Discount, &sale.TaxRate, &sale.TaxAmount, &sale.Total); err != nil {
			return nil, fmt.Errorf("ledger: scan sale: %w", err)
		}
		sale.CreatedAt, err = time.ParseInLocation(timeLayout, createdAt, time.Local)
		if err != nil {
			return nil, fmt.Errorf("ledger: parse sale timestamp: %w", err)
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

// ClearTransactions purges all sales, purchases, expenses and their item
// tables in one transaction. Products, contacts and settings are untouched.
func (r *Repository) ClearTransactions(ctx context.Context) error {
	return db.WithTx(ctx, r.handle, func(tx *sql.Tx) error {
		for _, table := range []string{"sale_items", "sales", "purchase_items", "purchases", "expenses"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("ledger: clear %s: %w", table, err)
			}
		}
		return nil
	})
}
