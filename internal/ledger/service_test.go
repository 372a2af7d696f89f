package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	sales         []Sale
	saleLines     map[int64][]SaleLine
	purchases     []Purchase
	purchaseLines map[int64][]PurchaseLine
	stock         map[int64]float64
	nextID        int64

	failOn string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		saleLines:     make(map[int64][]SaleLine),
		purchaseLines: make(map[int64][]PurchaseLine),
		stock:         make(map[int64]float64),
	}
}

// WithTx stages writes and discards them when the callback fails, so the
// fake honors the same all-or-nothing contract as the real store.
func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	staged := r.clone()
	tx := &memoryTx{repo: staged}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	*r = *staged
	return nil
}

func (r *memoryRepo) clone() *memoryRepo {
	out := newMemoryRepo()
	out.sales = append(out.sales, r.sales...)
	out.purchases = append(out.purchases, r.purchases...)
	for id, lines := range r.saleLines {
		out.saleLines[id] = append([]SaleLine(nil), lines...)
	}
	for id, lines := range r.purchaseLines {
		out.purchaseLines[id] = append([]PurchaseLine(nil), lines...)
	}
	for id, qty := range r.stock {
		out.stock[id] = qty
	}
	out.nextID = r.nextID
	out.failOn = r.failOn
	return out
}

func (r *memoryRepo) DailySummary(ctx context.Context, date time.Time) ([]ProductTotal, error) {
	return nil, nil
}

func (r *memoryRepo) TopProducts(ctx context.Context, limit int) ([]ProductTotal, error) {
	return nil, nil
}

func (r *memoryRepo) SalesForDate(ctx context.Context, date time.Time) ([]Sale, error) {
	return nil, nil
}

func (r *memoryRepo) ClearTransactions(ctx context.Context) error {
	r.sales = nil
	r.purchases = nil
	r.saleLines = make(map[int64][]SaleLine)
	r.purchaseLines = make(map[int64][]PurchaseLine)
	return nil
}

var errInjected = errors.New("injected failure")

type memoryTx struct {
	repo *memoryRepo
}

func (tx *memoryTx) InsertSale(ctx context.Context, sale Sale) (int64, error) {
	if tx.repo.failOn == "sale" {
		return 0, errInjected
	}
	tx.repo.nextID++
	sale.ID = tx.repo.nextID
	tx.repo.sales = append(tx.repo.sales, sale)
	return sale.ID, nil
}

func (tx *memoryTx) InsertSaleLines(ctx context.Context, saleID int64, lines []SaleLine) error {
	if tx.repo.failOn == "saleLines" {
		return errInjected
	}
	tx.repo.saleLines[saleID] = append(tx.repo.saleLines[saleID], lines...)
	return nil
}

func (tx *memoryTx) InsertPurchase(ctx context.Context, purchase Purchase) (int64, error) {
	if tx.repo.failOn == "purchase" {
		return 0, errInjected
	}
	tx.repo.nextID++
	purchase.ID = tx.repo.nextID
	tx.repo.purchases = append(tx.repo.purchases, purchase)
	return purchase.ID, nil
}

func (tx *memoryTx) InsertPurchaseLines(ctx context.Context, purchaseID int64, lines []PurchaseLine) error {
	tx.repo.purchaseLines[purchaseID] = append(tx.repo.purchaseLines[purchaseID], lines...)
	return nil
}

func (tx *memoryTx) AdjustStock(ctx context.Context, productID int64, delta float64) error {
	if tx.repo.failOn == "stock" {
		return errInjected
	}
	tx.repo.stock[productID] += delta
	return nil
}

func TestRecordSaleTotals(t *testing.T) {
	repo := newMemoryRepo()
	repo.stock[1] = 5
	svc := NewService(repo)
	ctx := context.Background()

	saleID, total, err := svc.RecordSale(ctx, []SaleLine{
		{ProductID: 1, Quantity: 2, UnitPrice: 10, LineTotal: 20},
	}, 5, 0.1)
	require.NoError(t, err)
	require.NotZero(t, saleID)
	require.InDelta(t, 16.5, total, 1e-9)

	require.Len(t, repo.sales, 1)
	sale := repo.sales[0]
	require.InDelta(t, 20.0, sale.Subtotal, 1e-9)
	require.InDelta(t, 5.0, sale.Discount, 1e-9)
	require.InDelta(t, 0.1, sale.TaxRate, 1e-9)
	require.InDelta(t, 1.5, sale.TaxAmount, 1e-9)
	require.InDelta(t, 16.5, sale.Total, 1e-9)
	require.False(t, sale.CreatedAt.IsZero())

	require.InDelta(t, 3.0, repo.stock[1], 1e-9)
	require.Len(t, repo.saleLines[saleID], 1)
}

func TestRecordSaleDiscountFloor(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	// Discount above the subtotal floors the taxable amount at zero.
	_, total, err := svc.RecordSale(ctx, []SaleLine{
		{ProductID: 1, Quantity: 1, UnitPrice: 10, LineTotal: 10},
	}, 25, 0.16)
	require.NoError(t, err)
	require.Zero(t, total)

	// A negative discount is clamped, not credited.
	_, total, err = svc.RecordSale(ctx, []SaleLine{
		{ProductID: 1, Quantity: 1, UnitPrice: 10, LineTotal: 10},
	}, -5, 0)
	require.NoError(t, err)
	require.InDelta(t, 10.0, total, 1e-9)
	require.Zero(t, repo.sales[1].Discount)
}

func TestRecordSaleEmptyCart(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	_, _, err := svc.RecordSale(context.Background(), nil, 0, 0)
	require.ErrorIs(t, err, ErrEmptyCart)
	require.Empty(t, repo.sales)
	require.Empty(t, repo.stock)
}

func TestRecordSaleSumsQuantityPerProduct(t *testing.T) {
	repo := newMemoryRepo()
	repo.stock[7] = 10
	svc := NewService(repo)

	// The same product scanned twice decrements stock once by the sum.
	saleID, _, err := svc.RecordSale(context.Background(), []SaleLine{
		{ProductID: 7, Quantity: 2, UnitPrice: 4, LineTotal: 8},
		{ProductID: 7, Quantity: 3, UnitPrice: 4, LineTotal: 12},
	}, 0, 0)
	require.NoError(t, err)
	require.InDelta(t, 5.0, repo.stock[7], 1e-9)
	require.Len(t, repo.saleLines[saleID], 2)
}

func TestRecordSaleAllowsNegativeStock(t *testing.T) {
	repo := newMemoryRepo()
	repo.stock[1] = 1
	svc := NewService(repo)

	// Overselling is not guarded; stock goes negative.
	_, _, err := svc.RecordSale(context.Background(), []SaleLine{
		{ProductID: 1, Quantity: 4, UnitPrice: 2, LineTotal: 8},
	}, 0, 0)
	require.NoError(t, err)
	require.InDelta(t, -3.0, repo.stock[1], 1e-9)
}

func TestRecordSaleRollsBackOnFailure(t *testing.T) {
	for _, failpoint := range []string{"sale", "saleLines", "stock"} {
		repo := newMemoryRepo()
		repo.stock[1] = 5
		repo.failOn = failpoint
		svc := NewService(repo)

		_, _, err := svc.RecordSale(context.Background(), []SaleLine{
			{ProductID: 1, Quantity: 2, UnitPrice: 10, LineTotal: 20},
		}, 0, 0)
		require.ErrorIs(t, err, errInjected, failpoint)
		require.Empty(t, repo.sales, failpoint)
		require.Empty(t, repo.saleLines, failpoint)
		require.InDelta(t, 5.0, repo.stock[1], 1e-9, failpoint)
	}
}

func TestRecordPurchaseTotals(t *testing.T) {
	repo := newMemoryRepo()
	repo.stock[1] = 5
	svc := NewService(repo)

	purchaseID, total, err := svc.RecordPurchase(context.Background(), []PurchaseLine{
		{ProductID: 1, Quantity: 10, Cost: 8, LineTotal: 80},
	}, nil)
	require.NoError(t, err)
	require.InDelta(t, 80.0, total, 1e-9)
	require.InDelta(t, 15.0, repo.stock[1], 1e-9)

	require.Len(t, repo.purchases, 1)
	require.Nil(t, repo.purchases[0].SupplierID)
	require.Len(t, repo.purchaseLines[purchaseID], 1)
}

func TestRecordPurchaseWithSupplier(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	supplierID := int64(3)
	_, _, err := svc.RecordPurchase(context.Background(), []PurchaseLine{
		{ProductID: 2, Quantity: 1, Cost: 5, LineTotal: 5},
	}, &supplierID)
	require.NoError(t, err)
	require.NotNil(t, repo.purchases[0].SupplierID)
	require.Equal(t, supplierID, *repo.purchases[0].SupplierID)
}

func TestRecordPurchaseEmptyCart(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	_, _, err := svc.RecordPurchase(context.Background(), nil, nil)
	require.ErrorIs(t, err, ErrEmptyCart)
	require.Empty(t, repo.purchases)
}

func TestRecordPurchaseRollsBackOnFailure(t *testing.T) {
	repo := newMemoryRepo()
	repo.stock[1] = 2
	repo.failOn = "stock"
	svc := NewService(repo)

	_, _, err := svc.RecordPurchase(context.Background(), []PurchaseLine{
		{ProductID: 1, Quantity: 10, Cost: 8, LineTotal: 80},
	}, nil)
	require.ErrorIs(t, err, errInjected)
	require.Empty(t, repo.purchases)
	require.InDelta(t, 2.0, repo.stock[1], 1e-9)
}
