package db

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Backup copies the store file at storePath to dst, byte for byte. The
// caller must not have a transaction in flight.
func Backup(storePath, dst string) error {
	if err := copyFile(storePath, dst); err != nil {
		return fmt.Errorf("platform/db: backup store: %w", err)
	}
	return nil
}

// Restore replaces the store file at storePath with the file at src. The
// incoming copy is staged next to the store and renamed over it so a failed
// copy never leaves a truncated store behind. Open handles must be closed
// before calling and reopened after.
func Restore(storePath, src string) error {
	if dir := filepath.Dir(storePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("platform/db: create store dir: %w", err)
		}
	}

	staged := fmt.Sprintf("%s.restore-%s", storePath, uuid.NewString())
	if err := copyFile(src, staged); err != nil {
		return fmt.Errorf("platform/db: stage restore: %w", err)
	}
	if err := os.Rename(staged, storePath); err != nil {
		_ = os.Remove(staged)
		return fmt.Errorf("platform/db: replace store: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
