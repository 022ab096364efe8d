// Package workspace resolves the taskmd workspace on disk.
//
// A workspace is any directory containing a .taskmd metadata
// directory. Resolution walks up from the working directory, the same
// way version control tools find their repository root.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/taskmd/internal/constants"
	"github.com/mrz1836/taskmd/internal/domain"
	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
)

const dirPerm = 0o750

// Workspace locates the directories a store operates on.
type Workspace struct {
	// Root is the directory containing the metadata directory.
	Root string

	// MetaDir is the .taskmd directory holding config, lock, and logs.
	MetaDir string
}

// Find walks up from startDir looking for a metadata directory.
// An empty startDir means the current working directory.
func Find(startDir string) (*Workspace, error) {
	dir := startDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %v: %w", err, taskmderrors.ErrFileSystem)
		}
		dir = cwd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path '%s': %v: %w", startDir, err, taskmderrors.ErrFileSystem)
	}

	for {
		meta := filepath.Join(dir, constants.MetaDirName)
		if info, err := os.Stat(meta); err == nil && info.IsDir() {
			return &Workspace{Root: dir, MetaDir: meta}, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("no %s directory found above '%s': %w",
				constants.MetaDirName, startDir, taskmderrors.ErrWorkspaceNotFound)
		}
		dir = parent
	}
}

// Init creates a workspace metadata directory under dir.
func Init(dir string) (*Workspace, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %v: %w", err, taskmderrors.ErrFileSystem)
		}
		dir = cwd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path '%s': %v: %w", dir, err, taskmderrors.ErrFileSystem)
	}

	meta := filepath.Join(dir, constants.MetaDirName)
	if _, err := os.Stat(meta); err == nil {
		return nil, fmt.Errorf("workspace at '%s': %w", dir, taskmderrors.ErrWorkspaceExists)
	}
	if err := os.MkdirAll(meta, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create '%s': %v: %w", meta, err, taskmderrors.ErrFileSystem)
	}
	return &Workspace{Root: dir, MetaDir: meta}, nil
}

// TasksDir resolves the task file directory for the given config.
// A relative tasksDir resolves against the workspace root.
func (w *Workspace) TasksDir(cfg *domain.Config) string {
	dir := cfg.TasksDir
	if dir == "" {
		dir = constants.DefaultTasksDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(w.Root, dir)
}

// LogsDir returns the CLI log directory inside the metadata dir.
func (w *Workspace) LogsDir() string {
	return filepath.Join(w.MetaDir, constants.LogsDirName)
}
