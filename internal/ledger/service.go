package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	DailySummary(ctx context.Context, date time.Time) ([]ProductTotal, error)
	TopProducts(ctx context.Context, limit int) ([]ProductTotal, error)
	SalesForDate(ctx context.Context, date time.Time) ([]Sale, error)
	ClearTransactions(ctx context.Context) error
}

var _ RepositoryPort = (*Repository)(nil)

// Service is the transactional ledger engine. It turns caller-owned cart
// snapshots into durable sale and purchase records while keeping stock
// quantities consistent.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// RecordSale commits a sale: one header, one row per cart line and a stock
// decrement per distinct product, all within a single transaction. It
// returns the new sale id and the charged total.
//
// Money math, floored at zero before tax:
//
//	subtotal  = Σ line total
//	taxable   = max(0, subtotal - max(0, discount))
//	taxAmount = taxable × taxRate
//	total     = taxable + taxAmount
//
// Stock has no floor; a sale may drive it negative (informational tracking
// of oversold quantities).
func (s *Service) RecordSale(ctx context.Context, lines []SaleLine, discount, taxRate float64) (int64, float64, error) {
	if len(lines) == 0 {
		return 0, 0, ErrEmptyCart
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(decimal.NewFromFloat(line.LineTotal))
	}
	disc := decimal.Max(decimal.Zero, decimal.NewFromFloat(discount))
	taxable := decimal.Max(decimal.Zero, subtotal.Sub(disc))
	taxAmount := taxable.Mul(decimal.NewFromFloat(taxRate))
	total := taxable.Add(taxAmount)

	sale := Sale{
		CreatedAt: s.now(),
		Subtotal:  subtotal.InexactFloat64(),
		Discount:  disc.InexactFloat64(),
		TaxRate:   taxRate,
		TaxAmount: taxAmount.InexactFloat64(),
		Total:     total.InexactFloat64(),
	}

	var saleID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertSale(ctx, sale)
		if err != nil {
			return err
		}
		if err := tx.InsertSaleLines(ctx, id, lines); err != nil {
			return err
		}
		for _, delta := range stockDeltas(saleQuantities(lines)) {
			if err := tx.AdjustStock(ctx, delta.productID, -delta.quantity); err != nil {
				return err
			}
		}
		saleID = id
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return saleID, sale.Total, nil
}

// RecordPurchase commits a purchase symmetrically to RecordSale: header,
// items and per-product stock increments in one transaction. supplierID may
// be nil. Purchases carry no discount or tax modeling; the total is the sum
// of line totals.
func (s *Service) RecordPurchase(ctx context.Context, lines []PurchaseLine, supplierID *int64) (int64, float64, error) {
	if len(lines) == 0 {
		return 0, 0, ErrEmptyCart
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(decimal.NewFromFloat(line.LineTotal))
	}

	purchase := Purchase{
		CreatedAt:  s.now(),
		SupplierID: supplierID,
		Total:      total.InexactFloat64(),
	}

	var purchaseID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertPurchase(ctx, purchase)
		if err != nil {
			return err
		}
		if err := tx.InsertPurchaseLines(ctx, id, lines); err != nil {
			return err
		}
		for _, delta := range stockDeltas(purchaseQuantities(lines)) {
			if err := tx.AdjustStock(ctx, delta.productID, delta.quantity); err != nil {
				return err
			}
		}
		purchaseID = id
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return purchaseID, purchase.Total, nil
}

// DailySummary reports per-product sold quantity and revenue for one
// calendar date, busiest product first.
func (s *Service) DailySummary(ctx context.Context, date time.Time) ([]ProductTotal, error) {
	return s.repo.DailySummary(ctx, date)
}

// TopProducts reports the best-selling products over the whole ledger.
func (s *Service) TopProducts(ctx context.Context, limit int) ([]ProductTotal, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.TopProducts(ctx, limit)
}

// SalesForDate lists sale headers for one calendar date.
func (s *Service) SalesForDate(ctx context.Context, date time.Time) ([]Sale, error) {
	return s.repo.SalesForDate(ctx, date)
}

// ClearTransactions wipes all recorded sales, purchases and expenses.
func (s *Service) ClearTransactions(ctx context.Context) error {
	return s.repo.ClearTransactions(ctx)
}

type stockDelta struct {
	productID int64
	quantity  float64
}

type quantity struct {
	productID int64
	amount    float64
}

func saleQuantities(lines []SaleLine) []quantity {
	out := make([]quantity, len(lines))
	for i, line := range lines {
		out[i] = quantity{productID: line.ProductID, amount: line.Quantity}
	}
	return out
}

func purchaseQuantities(lines []PurchaseLine) []quantity {
	out := make([]quantity, len(lines))
	for i, line := range lines {
		out[i] = quantity{productID: line.ProductID, amount: line.Quantity}
	}
	return out
}

// stockDeltas sums quantities per distinct product, preserving first-seen
// order so writes stay deterministic.
func stockDeltas(quantities []quantity) []stockDelta {
	index := make(map[int64]int, len(quantities))
	var deltas []stockDelta
	for _, q := range quantities {
		if i, ok := index[q.productID]; ok {
			deltas[i].quantity += q.amount
			continue
		}
		index[q.productID] = len(deltas)
		deltas = append(deltas, stockDelta{productID: q.productID, quantity: q.amount})
	}
	return deltas
}
