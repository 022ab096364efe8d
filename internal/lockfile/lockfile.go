// Package lockfile provides the cross-process advisory mutex guarding
// a taskmd workspace.
//
// The lock is a JSON file ({pid, command, timestamp}) created with
// O_EXCL in the workspace metadata directory. An acquirer that finds
// the file already present reads it and reclaims it when the owning
// process is provably dead or the record is older than the staleness
// threshold; a corrupted lock file is treated as stale for
// availability. Otherwise it sleeps a fixed interval and retries, up
// to a bounded retry count. Crash recovery is entirely this reclaim
// path: a process killed mid-critical-section leaves its lock behind
// for the next acquirer to sweep.
package lockfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mrz1836/taskmd/internal/clock"
	"github.com/mrz1836/taskmd/internal/constants"
	"github.com/mrz1836/taskmd/internal/domain"
	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
	"github.com/mrz1836/taskmd/internal/schema"
)

// Directory and file permission constants.
const (
	dirPerm  = 0o750 // Secure directory permissions
	filePerm = 0o600 // Secure file permissions
)

// Options configures a Manager. Zero values fall back to the package
// defaults.
type Options struct {
	// Command is the free-form invocation description recorded in the
	// lock file. Defaults to the process arguments.
	Command string

	// Timeout is the total acquisition budget. The retry count is
	// Timeout divided by RetryInterval. Default 5s.
	Timeout time.Duration

	// StaleAfter is the lock age beyond which any process may reclaim
	// it regardless of owner liveness. Default 30s.
	StaleAfter time.Duration

	// RetryInterval is the fixed sleep between attempts while a live
	// owner holds the lock. Default 100ms.
	RetryInterval time.Duration

	// Clock supplies timestamps; defaults to the system clock.
	Clock clock.Clock
}

// Manager is a cross-process mutex backed by a lock file. It is safe
// for concurrent use within a process, though each CLI invocation is a
// single logical thread of control and concurrency arises across
// processes.
type Manager struct {
	path          string
	command       string
	staleAfter    time.Duration
	retryInterval time.Duration
	maxRetries    int
	clk           clock.Clock

	mu   sync.Mutex
	held bool
}

// New creates a Manager for the lock file inside metaDir.
func New(metaDir string, opts Options) *Manager {
	if opts.Command == "" {
		opts.Command = processCommand()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultLockTimeoutMs * time.Millisecond
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = constants.LockStaleAfter
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = constants.LockRetryInterval
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	maxRetries := int(opts.Timeout / opts.RetryInterval)
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Manager{
		path:          filepath.Join(metaDir, constants.LockFileName),
		command:       opts.Command,
		staleAfter:    opts.StaleAfter,
		retryInterval: opts.RetryInterval,
		maxRetries:    maxRetries,
		clk:           opts.Clock,
	}
}

// Path returns the lock file path.
func (m *Manager) Path() string {
	return m.path
}

// Held reports whether this Manager currently holds the lock.
func (m *Manager) Held() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held
}

// Acquire obtains the workspace lock, sweeping stale locks and
// retrying against live owners until the bounded retry count is
// exhausted, at which point it returns an error wrapping
// errors.ErrLockTimeout.
func (m *Manager) Acquire() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.held {
		return nil
	}

	// The parent directory may already exist; that is not an error.
	if err := os.MkdirAll(filepath.Dir(m.path), dirPerm); err != nil {
		return fmt.Errorf("failed to create lock directory: %v: %w", err, taskmderrors.ErrFileSystem)
	}

	for attempt := 0; attempt < m.maxRetries; attempt++ {
		created, err := m.tryCreate()
		if err != nil {
			return err
		}
		if created {
			m.held = true
			registerCleanup(m)
			return nil
		}
		if m.reclaimIfStale() {
			// The lock file is gone; retry immediately without
			// burning a sleep interval.
			attempt--
			continue
		}
		time.Sleep(m.retryInterval)
	}

	return fmt.Errorf("failed to acquire lock after %d retries: %w", m.maxRetries, taskmderrors.ErrLockTimeout)
}

// tryCreate attempts to exclusively create the lock file. It returns
// (false, nil) when the file already exists.
func (m *Manager) tryCreate() (bool, error) {
	f, err := os.OpenFile(m.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm) //#nosec G304 -- path is constructed from the workspace metadata dir
	if err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create lock file: %v: %w", err, taskmderrors.ErrFileSystem)
	}

	record := domain.Lock{
		PID:       os.Getpid(),
		Command:   m.command,
		Timestamp: m.clk.Now().UnixMilli(),
	}
	data, err := json.Marshal(record)
	if err == nil {
		_, err = f.Write(data)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(m.path)
		return false, fmt.Errorf("failed to write lock file: %v: %w", err, taskmderrors.ErrFileSystem)
	}
	return true, nil
}

// reclaimIfStale removes the existing lock file when it is corrupted,
// its owner is dead, or it is older than the staleness threshold.
// Returns true when the caller should retry immediately.
func (m *Manager) reclaimIfStale() bool {
	data, err := os.ReadFile(m.path) //#nosec G304 -- path is constructed from the workspace metadata dir
	if err != nil {
		// Already released or swept by somebody else.
		return os.IsNotExist(err)
	}

	record, err := parseLock(data)
	if err != nil {
		// Unparseable lock files are treated as stale for
		// availability.
		_ = os.Remove(m.path)
		return true
	}

	if !isProcessAlive(record.PID) {
		_ = os.Remove(m.path)
		return true
	}

	if record.Age(m.clk.Now()) > m.staleAfter {
		_ = os.Remove(m.path)
		return true
	}

	return false
}

// Release deletes the lock file if this process owns it. Releasing a
// lock held by another process, or no lock at all, is a silent no-op:
// a process must never remove a lock it does not own.
func (m *Manager) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer unregisterCleanup(m)
	m.held = false

	data, err := os.ReadFile(m.path) //#nosec G304 -- path is constructed from the workspace metadata dir
	if err != nil {
		return nil
	}
	record, err := parseLock(data)
	if err != nil || record.PID != os.Getpid() {
		return nil
	}
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %v: %w", err, taskmderrors.ErrFileSystem)
	}
	return nil
}

// Dispose releases the lock if held and unregisters this Manager from
// the shared cleanup registry. Call it when a Manager is no longer
// needed, e.g. in tests that create many instances.
func (m *Manager) Dispose() {
	_ = m.Release()
}

// parseLock decodes and validates a lock file payload.
func parseLock(data []byte) (*domain.Lock, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, taskmderrors.Wrap(err, "invalid lock file")
	}
	return schema.ValidateLock(raw)
}

// processCommand describes this invocation for the lock record.
func processCommand() string {
	if len(os.Args) == 0 {
		return "taskmd"
	}
	cmd := filepath.Base(os.Args[0])
	for _, arg := range os.Args[1:] {
		cmd += " " + arg
	}
	return cmd
}
