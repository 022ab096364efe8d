// Package constants provides shared constant values for taskmd.
// These constants are used across all internal packages to ensure
// consistent file naming, schema versioning, and limits.
package constants

import "time"

// SchemaVersion is the single currently-supported schema version for
// all persisted records (tasks, config, lock file).
const SchemaVersion = 1

// MaxRecordFields is the ceiling on the total number of fields in a
// task record, core and caller-defined fields combined. The check runs
// after merging, at write time.
const MaxRecordFields = 100

// Default limits applied when the workspace has no config file, and
// the hard maxima the config schema enforces.
const (
	// DefaultLockTimeoutMs is the default total time budget for lock
	// acquisition, in milliseconds.
	DefaultLockTimeoutMs = 5000

	// MaxLockTimeoutMs is the largest configurable lock timeout.
	MaxLockTimeoutMs = 300000

	// DefaultMaxTaskSizeBytes is the default cap on a serialized task
	// file (1 MiB).
	DefaultMaxTaskSizeBytes = 1 << 20

	// MaxTaskSizeBytesLimit is the largest configurable task size cap
	// (10 MiB).
	MaxTaskSizeBytesLimit = 10 << 20

	// DefaultMaxTitleLength caps task titles in characters.
	DefaultMaxTitleLength = 200

	// DefaultMaxDescriptionLength caps task bodies in characters when a
	// description limit is configured.
	DefaultMaxDescriptionLength = 65536
)

// Lock manager timing defaults.
const (
	// LockStaleAfter is how old a lock file may be before any other
	// process may reclaim it regardless of owner liveness.
	LockStaleAfter = 30 * time.Second

	// LockRetryInterval is the fixed sleep between acquisition attempts
	// when the lock is held by a live owner.
	LockRetryInterval = 100 * time.Millisecond
)
