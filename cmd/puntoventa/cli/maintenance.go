package cli

import (
	"context"
	"errors"
)

// StorePort abstracts the whole-file backup and restore operations.
type StorePort interface {
	Backup(dst string) error
	Restore(src string) error
}

// WipePort clears the transactional ledger.
type WipePort interface {
	ClearTransactions(ctx context.Context) error
}

// MaintenanceCLI offers operational helpers for the store file and the
// transaction wipe.
type MaintenanceCLI struct {
	store StorePort
	wipe  WipePort
}

// NewMaintenanceCLI constructs a new helper instance.
func NewMaintenanceCLI(store StorePort, wipe WipePort) *MaintenanceCLI {
	return &MaintenanceCLI{store: store, wipe: wipe}
}

// ErrPathRequired indicates a missing backup or restore path argument.
var ErrPathRequired = errors.New("cli: path required")

// Backup copies the store file out to dst.
func (c *MaintenanceCLI) Backup(dst string) error {
	if dst == "" {
		return ErrPathRequired
	}
	return c.store.Backup(dst)
}

// Restore replaces the store file with the copy at src.
func (c *MaintenanceCLI) Restore(src string) error {
	if src == "" {
		return ErrPathRequired
	}
	return c.store.Restore(src)
}

// ClearTransactions purges all sales, purchases and expenses.
func (c *MaintenanceCLI) ClearTransactions(ctx context.Context) error {
	return c.wipe.ClearTransactions(ctx)
}
