//go:build unix

package lockfile

import (
	"errors"
	"syscall"
)

// isProcessAlive probes pid with a no-op signal. "No such process"
// means dead; anything else, permission-denied included, means the
// process exists and the lock owner is alive.
func isProcessAlive(pid int) bool {
	err := syscall.Kill(pid, 0)
	if err == nil {
		return true
	}
	return !errors.Is(err, syscall.ESRCH)
}
