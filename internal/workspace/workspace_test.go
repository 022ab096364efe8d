package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskmd/internal/constants"
	"github.com/mrz1836/taskmd/internal/domain"
	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
)

func TestInit(t *testing.T) {
	t.Parallel()

	t.Run("creates the metadata directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		ws, err := Init(dir)
		require.NoError(t, err)

		assert.Equal(t, dir, ws.Root)
		assert.DirExists(t, ws.MetaDir)
		assert.Equal(t, filepath.Join(dir, constants.MetaDirName), ws.MetaDir)
	})

	t.Run("fails when a workspace already exists", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		_, err := Init(dir)
		require.NoError(t, err)

		_, err = Init(dir)
		require.Error(t, err)
		assert.ErrorIs(t, err, taskmderrors.ErrWorkspaceExists)
	})
}

func TestFind(t *testing.T) {
	t.Parallel()

	t.Run("finds the workspace in the start directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		created, err := Init(dir)
		require.NoError(t, err)

		found, err := Find(dir)
		require.NoError(t, err)
		assert.Equal(t, created.Root, found.Root)
		assert.Equal(t, created.MetaDir, found.MetaDir)
	})

	t.Run("walks up from a nested directory", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		_, err := Init(root)
		require.NoError(t, err)

		nested := filepath.Join(root, "a", "b", "c")
		require.NoError(t, os.MkdirAll(nested, 0o750))

		found, err := Find(nested)
		require.NoError(t, err)
		assert.Equal(t, root, found.Root)
	})

	t.Run("fails when no workspace exists above", func(t *testing.T) {
		t.Parallel()
		_, err := Find(t.TempDir())
		require.Error(t, err)
		assert.ErrorIs(t, err, taskmderrors.ErrWorkspaceNotFound)
	})

	t.Run("a stray file named like the metadata dir does not count", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, constants.MetaDirName), []byte("nope"), 0o600))

		_, err := Find(dir)
		require.Error(t, err)
		assert.ErrorIs(t, err, taskmderrors.ErrWorkspaceNotFound)
	})
}

func TestTasksDir(t *testing.T) {
	t.Parallel()

	ws := &Workspace{Root: "/work/project", MetaDir: "/work/project/.taskmd"}

	t.Run("relative resolves against the root", func(t *testing.T) {
		t.Parallel()
		dir := ws.TasksDir(&domain.Config{TasksDir: "my-tasks"})
		assert.Equal(t, filepath.Join("/work/project", "my-tasks"), dir)
	})

	t.Run("absolute is used as-is", func(t *testing.T) {
		t.Parallel()
		dir := ws.TasksDir(&domain.Config{TasksDir: "/var/tasks"})
		assert.Equal(t, "/var/tasks", dir)
	})

	t.Run("empty falls back to the default", func(t *testing.T) {
		t.Parallel()
		dir := ws.TasksDir(&domain.Config{})
		assert.Equal(t, filepath.Join("/work/project", constants.DefaultTasksDir), dir)
	})
}
