// Package errors provides centralized error handling for taskmd.
//
// This package defines sentinel errors used for programmatic error
// categorization throughout the application. All error types can be
// checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrValidation indicates that input failed schema or shape
	// validation. Wrapping messages always name the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates that no record exists for the given id.
	ErrNotFound = errors.New("task not found")

	// ErrFileSystem indicates an underlying filesystem failure
	// (permission denied, disk full, missing path) during a store
	// operation.
	ErrFileSystem = errors.New("filesystem operation failed")

	// ErrLockTimeout indicates the lock acquisition retry loop was
	// exhausted without obtaining the lock.
	ErrLockTimeout = errors.New("lock acquisition timeout")

	// ErrTaskTooLarge indicates a serialized task exceeded the
	// configured maximum size.
	ErrTaskTooLarge = errors.New("task exceeds maximum size")

	// ErrTooManyFields indicates a task exceeded the total field
	// ceiling after merging core and caller-defined fields.
	ErrTooManyFields = errors.New("too many fields")

	// ErrWorkspaceNotFound indicates no workspace metadata directory
	// was found walking up from the working directory.
	ErrWorkspaceNotFound = errors.New("workspace not found")

	// ErrWorkspaceExists indicates an attempt to initialize a workspace
	// that already exists.
	ErrWorkspaceExists = errors.New("workspace already exists")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrCycle indicates a reference cycle was found while encoding
	// caller-supplied data. Self-referential data cannot be serialized
	// to a text format.
	ErrCycle = errors.New("reference cycle detected")

	// ErrDependentTasks indicates a delete was refused because other
	// tasks still depend on the target.
	ErrDependentTasks = errors.New("task has dependents")

	// ErrInvalidOutputFormat indicates an invalid output format was
	// specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")
)
