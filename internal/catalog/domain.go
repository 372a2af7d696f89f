package catalog

import "errors"

// Product is a catalog entry resolved by its scanned barcode. Stock is a
// real quantity so fractional units (weighed goods) are representable; no
// lower bound is enforced on it.
type Product struct {
	ID      int64
	Barcode string
	Name    string
	Price   float64
	Stock   float64
}

// ProductInput carries the caller-supplied fields for create and update.
type ProductInput struct {
	Barcode string  `validate:"required"`
	Name    string  `validate:"required"`
	Price   float64 `validate:"gte=0"`
	Stock   float64
}

// ErrDuplicateBarcode indicates the barcode is already taken by another
// product. Safe to surface and retry.
var ErrDuplicateBarcode = errors.New("catalog: barcode already exists")

// ErrProductReferenced blocks deletion of a product still referenced by
// sale or purchase items.
var ErrProductReferenced = errors.New("catalog: product referenced by ledger items")

// ErrInvalidProduct indicates the input failed validation.
var ErrInvalidProduct = errors.New("catalog: invalid product")
