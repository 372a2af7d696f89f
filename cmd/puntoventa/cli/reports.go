package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/puntoventa/puntoventa/internal/ledger"
)

// LedgerPort is the slice of the ledger engine the report commands need.
type LedgerPort interface {
	DailySummary(ctx context.Context, date time.Time) ([]ledger.ProductTotal, error)
	TopProducts(ctx context.Context, limit int) ([]ledger.ProductTotal, error)
}

// ReportsCLI prints ledger aggregations for operators.
type ReportsCLI struct {
	engine LedgerPort
}

// NewReportsCLI constructs a new helper instance.
func NewReportsCLI(engine LedgerPort) *ReportsCLI {
	return &ReportsCLI{engine: engine}
}

type productTotalRow struct {
	Barcode  string  `json:"barcode"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Total    float64 `json:"total"`
}

// Summary writes the per-product summary for one calendar date as JSON.
func (c *ReportsCLI) Summary(ctx context.Context, out io.Writer, day string) error {
	date, err := time.ParseInLocation("2006-01-02", day, time.Local)
	if err != nil {
		return fmt.Errorf("cli: parse date %q: %w", day, err)
	}
	totals, err := c.engine.DailySummary(ctx, date)
	if err != nil {
		return err
	}
	return writeTotals(out, totals)
}

// Top writes the all-time best sellers as JSON, capped at limit rows.
func (c *ReportsCLI) Top(ctx context.Context, out io.Writer, limit int) error {
	totals, err := c.engine.TopProducts(ctx, limit)
	if err != nil {
		return err
	}
	return writeTotals(out, totals)
}

func writeTotals(out io.Writer, totals []ledger.ProductTotal) error {
	rows := make([]productTotalRow, len(totals))
	for i, t := range totals {
		rows[i] = productTotalRow{Barcode: t.Barcode, Name: t.Name, Quantity: t.Quantity, Total: t.Total}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
