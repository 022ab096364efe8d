package domain

import "time"

// Lock is the ephemeral advisory lock record, persisted as a JSON file
// in the workspace metadata directory. At most one should exist per
// workspace at a time. It is created on acquire, deleted on release by
// its owner, or deleted by any other process that proves it stale.
type Lock struct {
	// PID is the owning process id.
	PID int `json:"pid"`

	// Command is a free-form description of the owning invocation.
	Command string `json:"command"`

	// Timestamp is the creation time in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// Age returns how old the lock is at the given instant.
func (l *Lock) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(l.Timestamp))
}
