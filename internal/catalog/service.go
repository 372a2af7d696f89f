package catalog

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// RepositoryPort abstracts persistence for the service.
type RepositoryPort interface {
	FindByBarcode(ctx context.Context, barcode string) (Product, error)
	FindByID(ctx context.Context, id int64) (Product, error)
	List(ctx context.Context, search string) ([]Product, error)
	Create(ctx context.Context, input ProductInput) (int64, error)
	Update(ctx context.Context, id int64, input ProductInput) error
	Delete(ctx context.Context, id int64) error
}

var _ RepositoryPort = (*Repository)(nil)

// Service wraps catalog business rules.
type Service struct {
	repo     RepositoryPort
	validate *validator.Validate
}

// NewService constructs a new Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// FindByBarcode resolves a scanned barcode into a product.
func (s *Service) FindByBarcode(ctx context.Context, barcode string) (Product, error) {
	return s.repo.FindByBarcode(ctx, barcode)
}

// FindByID fetches one product.
func (s *Service) FindByID(ctx context.Context, id int64) (Product, error) {
	return s.repo.FindByID(ctx, id)
}

// List searches the catalog.
func (s *Service) List(ctx context.Context, search string) ([]Product, error) {
	return s.repo.List(ctx, search)
}

// Create validates and stores a new product.
func (s *Service) Create(ctx context.Context, input ProductInput) (int64, error) {
	if err := s.validate.Struct(input); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}
	return s.repo.Create(ctx, input)
}

// Update validates and rewrites an existing product.
func (s *Service) Update(ctx context.Context, id int64, input ProductInput) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid id", ErrInvalidProduct)
	}
	if err := s.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}
	return s.repo.Update(ctx, id, input)
}

// Delete removes a product unless ledger items still reference it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid id", ErrInvalidProduct)
	}
	return s.repo.Delete(ctx, id)
}
