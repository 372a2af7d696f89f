// Package masterdata holds the contact-list entities the presentation layer
// manages directly: customers, suppliers, categories, branches and expenses.
// Their CRUD is deliberately thin; the ledger depends on them only for
// supplier references.
package masterdata

import (
	"errors"
	"time"
)

// Contact is a customer or supplier record.
type Contact struct {
	ID      int64
	Name    string
	Phone   string
	Email   string
	Address string
}

// Category is a named product grouping.
type Category struct {
	ID   int64
	Name string
}

// Branch is a named store location.
type Branch struct {
	ID      int64
	Name    string
	Address string
}

// Expense is a dated money outflow outside the purchase ledger.
type Expense struct {
	ID        int64
	CreatedAt time.Time
	Concept   string
	Amount    float64
}

// ErrDuplicateName indicates a category or branch name is already taken.
var ErrDuplicateName = errors.New("masterdata: name already exists")
