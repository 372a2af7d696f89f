package ledger

import (
	"errors"
	"time"
)

// Sale is a committed transaction header. Rows are immutable after commit;
// the only mutation is the bulk wipe in ClearTransactions.
type Sale struct {
	ID        int64
	CreatedAt time.Time
	Subtotal  float64
	Discount  float64
	TaxRate   float64
	TaxAmount float64
	Total     float64
}

// SaleLine is one cart line item at sale time. Price and line total are
// caller-supplied snapshots; the engine does not recompute them against the
// catalog.
type SaleLine struct {
	ProductID int64
	Quantity  float64
	UnitPrice float64
	LineTotal float64
}

// Purchase is a committed inbound transaction header. SupplierID is nil
// when the purchase has no supplier attached.
type Purchase struct {
	ID         int64
	CreatedAt  time.Time
	SupplierID *int64
	Total      float64
}

// PurchaseLine is one line item of a purchase.
type PurchaseLine struct {
	ProductID int64
	Quantity  float64
	Cost      float64
	LineTotal float64
}

// ProductTotal aggregates quantity and revenue per product for the summary
// queries.
type ProductTotal struct {
	Barcode  string
	Name     string
	Quantity float64
	Total    float64
}

// ErrEmptyCart rejects a sale or purchase with zero items before any write.
var ErrEmptyCart = errors.New("ledger: cart has no items")
