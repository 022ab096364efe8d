package store

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
)

const filePerm = 0o600

// atomicWrite writes data to a file atomically using
// write-then-rename. The temp name carries a uuid suffix so two
// processes writing the same record never collide on the temp file.
func atomicWrite(path string, data []byte) error {
	tmpPath := path + ".tmp-" + uuid.NewString()
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return fmt.Errorf("failed to create temp file: %v: %w", err, taskmderrors.ErrFileSystem)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write task file: %v: %w", err, taskmderrors.ErrFileSystem)
	}

	// Ensure data is persisted before rename.
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync task file: %v: %w", err, taskmderrors.ErrFileSystem)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close task file: %v: %w", err, taskmderrors.ErrFileSystem)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename task file: %v: %w", err, taskmderrors.ErrFileSystem)
	}
	return nil
}
