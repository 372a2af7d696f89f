package catalog

import (
	"context"
	"errors"
	"fmt"
)

// sample products loaded by the bootstrap path when the catalog is empty.
var sampleProducts = []ProductInput{
	{Barcode: "7501055354651", Name: "Coca Cola 600ml", Price: 18.0, Stock: 50},
	{Barcode: "7501000111409", Name: "Sabritas Clásicas 45g", Price: 17.0, Stock: 40},
	{Barcode: "7501000632256", Name: "Bimbo Pan Blanco", Price: 45.0, Stock: 20},
	{Barcode: "7501000610124", Name: "Leche Lala 1L", Price: 28.0, Stock: 30},
	{Barcode: "7501001335606", Name: "Atún Herdez 140g", Price: 24.0, Stock: 25},
}

// SeedSampleData inserts the demo catalog when no products exist yet.
// Subsequent calls are no-ops.
func (s *Service) SeedSampleData(ctx context.Context) error {
	existing, err := s.repo.List(ctx, "")
	if err != nil {
		return fmt.Errorf("catalog: seed: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, input := range sampleProducts {
		if _, err := s.repo.Create(ctx, input); err != nil {
			if errors.Is(err, ErrDuplicateBarcode) {
				continue
			}
			return fmt.Errorf("catalog: seed: %w", err)
		}
	}
	return nil
}
