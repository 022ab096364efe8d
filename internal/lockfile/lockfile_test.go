package lockfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskmd/internal/domain"
	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
)

// newTestManager builds a Manager with a short acquisition budget so
// contention tests stay fast.
func newTestManager(t *testing.T, metaDir string) *Manager {
	t.Helper()
	m := New(metaDir, Options{
		Command:       "test",
		Timeout:       200 * time.Millisecond,
		RetryInterval: 10 * time.Millisecond,
	})
	t.Cleanup(m.Dispose)
	return m
}

// writeLockRecord plants a lock file with the given owner and age.
func writeLockRecord(t *testing.T, path string, pid int, age time.Duration) {
	t.Helper()
	record := domain.Lock{
		PID:       pid,
		Command:   "planted",
		Timestamp: time.Now().Add(-age).UnixMilli(),
	}
	data, err := json.Marshal(record)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func TestManagerAcquire(t *testing.T) {
	t.Parallel()

	t.Run("acquires and releases", func(t *testing.T) {
		t.Parallel()
		metaDir := t.TempDir()
		m := newTestManager(t, metaDir)

		require.NoError(t, m.Acquire())
		assert.True(t, m.Held())
		assert.FileExists(t, m.Path())

		require.NoError(t, m.Release())
		assert.False(t, m.Held())
		assert.NoFileExists(t, m.Path())
	})

	t.Run("creates the metadata directory when missing", func(t *testing.T) {
		t.Parallel()
		metaDir := filepath.Join(t.TempDir(), "nested", ".taskmd")
		m := newTestManager(t, metaDir)

		require.NoError(t, m.Acquire())
		assert.FileExists(t, m.Path())
	})

	t.Run("acquire is idempotent while held", func(t *testing.T) {
		t.Parallel()
		m := newTestManager(t, t.TempDir())
		require.NoError(t, m.Acquire())
		require.NoError(t, m.Acquire())
		assert.True(t, m.Held())
	})

	t.Run("writes a valid lock record", func(t *testing.T) {
		t.Parallel()
		m := newTestManager(t, t.TempDir())
		require.NoError(t, m.Acquire())

		data, err := os.ReadFile(m.Path())
		require.NoError(t, err)
		record, err := parseLock(data)
		require.NoError(t, err)
		assert.Equal(t, os.Getpid(), record.PID)
		assert.Equal(t, "test", record.Command)
		assert.Positive(t, record.Timestamp)
	})

	t.Run("times out against a live owner", func(t *testing.T) {
		t.Parallel()
		metaDir := t.TempDir()
		holder := newTestManager(t, metaDir)
		require.NoError(t, holder.Acquire())

		contender := newTestManager(t, metaDir)
		err := contender.Acquire()
		require.Error(t, err)
		assert.ErrorIs(t, err, taskmderrors.ErrLockTimeout)
		assert.Contains(t, err.Error(), "failed to acquire lock after 20 retries")
		assert.False(t, contender.Held())

		// The holder's lock survives the failed contention.
		assert.True(t, holder.Held())
		assert.FileExists(t, holder.Path())
	})

	t.Run("succeeds after the holder releases", func(t *testing.T) {
		t.Parallel()
		metaDir := t.TempDir()
		holder := newTestManager(t, metaDir)
		require.NoError(t, holder.Acquire())

		done := make(chan error, 1)
		contender := newTestManager(t, metaDir)
		go func() { done <- contender.Acquire() }()

		time.Sleep(50 * time.Millisecond)
		require.NoError(t, holder.Release())

		require.NoError(t, <-done)
		assert.True(t, contender.Held())
	})
}

func TestManagerStaleReclaim(t *testing.T) {
	t.Parallel()

	t.Run("reclaims a lock past the staleness threshold", func(t *testing.T) {
		t.Parallel()
		metaDir := t.TempDir()
		m := newTestManager(t, metaDir)

		// Owned by this very-much-alive process, but old enough to
		// sweep.
		writeLockRecord(t, m.Path(), os.Getpid(), time.Minute)

		require.NoError(t, m.Acquire())
		assert.True(t, m.Held())
	})

	t.Run("reclaims a corrupted lock file", func(t *testing.T) {
		t.Parallel()
		metaDir := t.TempDir()
		m := newTestManager(t, metaDir)
		require.NoError(t, os.WriteFile(m.Path(), []byte("not json at all"), 0o600))

		require.NoError(t, m.Acquire())
	})

	t.Run("reclaims a lock with unexpected fields", func(t *testing.T) {
		t.Parallel()
		metaDir := t.TempDir()
		m := newTestManager(t, metaDir)
		require.NoError(t, os.WriteFile(m.Path(),
			[]byte(`{"pid":1,"command":"x","timestamp":1,"hostname":"box"}`), 0o600))

		require.NoError(t, m.Acquire())
	})

	t.Run("does not reclaim a fresh lock from a live owner", func(t *testing.T) {
		t.Parallel()
		metaDir := t.TempDir()
		m := newTestManager(t, metaDir)
		writeLockRecord(t, m.Path(), os.Getpid(), 0)

		err := m.Acquire()
		require.Error(t, err)
		assert.ErrorIs(t, err, taskmderrors.ErrLockTimeout)
	})
}

func TestManagerRelease(t *testing.T) {
	t.Parallel()

	t.Run("release without holding is a no-op", func(t *testing.T) {
		t.Parallel()
		m := newTestManager(t, t.TempDir())
		require.NoError(t, m.Release())
	})

	t.Run("never removes another process's lock", func(t *testing.T) {
		t.Parallel()
		metaDir := t.TempDir()
		m := newTestManager(t, metaDir)

		// PID 1 is always some other process.
		writeLockRecord(t, m.Path(), 1, 0)

		require.NoError(t, m.Release())
		assert.FileExists(t, m.Path())
	})

	t.Run("release after external removal is a no-op", func(t *testing.T) {
		t.Parallel()
		m := newTestManager(t, t.TempDir())
		require.NoError(t, m.Acquire())
		require.NoError(t, os.Remove(m.Path()))
		require.NoError(t, m.Release())
	})
}
