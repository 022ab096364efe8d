package lockfile

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// cleanupRegistry is the process-wide registry of lock managers with a
// held lock. Signal handlers are installed once when the first manager
// registers and removed when the last one leaves, so creating many
// managers (as tests do) never piles up listeners.
var cleanupRegistry = struct {
	mu        sync.Mutex
	managers  map[*Manager]struct{}
	sigCh     chan os.Signal
	done      chan struct{}
	installed bool
}{managers: make(map[*Manager]struct{})}

// registerCleanup adds a manager holding a lock to the registry,
// installing the shared signal handlers on first use.
func registerCleanup(m *Manager) {
	cleanupRegistry.mu.Lock()
	defer cleanupRegistry.mu.Unlock()

	cleanupRegistry.managers[m] = struct{}{}
	if cleanupRegistry.installed {
		return
	}

	// Buffer of 1 ensures signal.Notify doesn't drop signals if the
	// watcher is busy.
	cleanupRegistry.sigCh = make(chan os.Signal, 1)
	cleanupRegistry.done = make(chan struct{})
	signal.Notify(cleanupRegistry.sigCh, os.Interrupt, syscall.SIGTERM)
	go watchSignals(cleanupRegistry.sigCh, cleanupRegistry.done)
	cleanupRegistry.installed = true
}

// unregisterCleanup removes a manager from the registry, tearing the
// signal handlers down when no held locks remain.
func unregisterCleanup(m *Manager) {
	cleanupRegistry.mu.Lock()
	defer cleanupRegistry.mu.Unlock()

	delete(cleanupRegistry.managers, m)
	if len(cleanupRegistry.managers) > 0 || !cleanupRegistry.installed {
		return
	}

	signal.Stop(cleanupRegistry.sigCh)
	close(cleanupRegistry.done)
	cleanupRegistry.installed = false
}

// watchSignals releases every held lock when the process is
// interrupted or terminated, then exits. Normal completion tears the
// watcher down through the done channel instead.
func watchSignals(sigCh chan os.Signal, done chan struct{}) {
	select {
	case <-done:
		return
	case <-sigCh:
		ReleaseAll()
		signal.Stop(sigCh)
		os.Exit(1)
	}
}

// ReleaseAll releases every lock currently held by this process. It is
// called from the signal path and may also be deferred from main as a
// last-resort guard on abnormal exits.
func ReleaseAll() {
	cleanupRegistry.mu.Lock()
	held := make([]*Manager, 0, len(cleanupRegistry.managers))
	for m := range cleanupRegistry.managers {
		held = append(held, m)
	}
	cleanupRegistry.mu.Unlock()

	for _, m := range held {
		_ = m.Release()
	}
}
