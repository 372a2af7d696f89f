package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/puntoventa/puntoventa/internal/shared"
)

type fakeRepo struct {
	products map[int64]Product
	nextID   int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: make(map[int64]Product)}
}

func (r *fakeRepo) FindByBarcode(ctx context.Context, barcode string) (Product, error) {
	for _, p := range r.products {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return Product{}, shared.ErrNotFound
}

func (r *fakeRepo) FindByID(ctx context.Context, id int64) (Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return Product{}, shared.ErrNotFound
}

func (r *fakeRepo) List(ctx context.Context, search string) ([]Product, error) {
	var out []Product
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeRepo) Create(ctx context.Context, input ProductInput) (int64, error) {
	if _, err := r.FindByBarcode(ctx, input.Barcode); err == nil {
		return 0, ErrDuplicateBarcode
	}
	r.nextID++
	r.products[r.nextID] = Product{ID: r.nextID, Barcode: input.Barcode, Name: input.Name, Price: input.Price, Stock: input.Stock}
	return r.nextID, nil
}

func (r *fakeRepo) Update(ctx context.Context, id int64, input ProductInput) error {
	r.products[id] = Product{ID: id, Barcode: input.Barcode, Name: input.Name, Price: input.Price, Stock: input.Stock}
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id int64) error {
	delete(r.products, id)
	return nil
}

func TestServiceRejectsInvalidInput(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, ProductInput{Barcode: "", Name: "Sin código", Price: 1})
	require.ErrorIs(t, err, ErrInvalidProduct)

	_, err = svc.Create(ctx, ProductInput{Barcode: "123", Name: "", Price: 1})
	require.ErrorIs(t, err, ErrInvalidProduct)

	_, err = svc.Create(ctx, ProductInput{Barcode: "123", Name: "Negativo", Price: -1})
	require.ErrorIs(t, err, ErrInvalidProduct)

	// Nothing reached the repository.
	require.Empty(t, repo.products)

	err = svc.Update(ctx, 0, ProductInput{Barcode: "123", Name: "X", Price: 1})
	require.ErrorIs(t, err, ErrInvalidProduct)

	require.ErrorIs(t, svc.Delete(ctx, -1), ErrInvalidProduct)
}

func TestServicePassesThroughDuplicates(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, ProductInput{Barcode: "123", Name: "Uno", Price: 1})
	require.NoError(t, err)

	_, err = svc.Create(ctx, ProductInput{Barcode: "123", Name: "Dos", Price: 2})
	require.ErrorIs(t, err, ErrDuplicateBarcode)
	require.Len(t, repo.products, 1)
}

func TestServiceLookups(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, ProductInput{Barcode: "123", Name: "Uno", Price: 1, Stock: 2})
	require.NoError(t, err)

	byBarcode, err := svc.FindByBarcode(ctx, "123")
	require.NoError(t, err)
	require.Equal(t, id, byBarcode.ID)

	_, err = svc.FindByBarcode(ctx, "missing")
	require.ErrorIs(t, err, shared.ErrNotFound)
}
