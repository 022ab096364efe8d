package cli

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", taskmderrors.ErrValidation, ExitInvalidInput},
		{"wrapped validation", fmt.Errorf("title: %w", taskmderrors.ErrValidation), ExitInvalidInput},
		{"too large", taskmderrors.ErrTaskTooLarge, ExitInvalidInput},
		{"too many fields", taskmderrors.ErrTooManyFields, ExitInvalidInput},
		{"bad format", taskmderrors.ErrInvalidOutputFormat, ExitInvalidInput},
		{"not found", taskmderrors.ErrNotFound, ExitNotFound},
		{"lock timeout", taskmderrors.ErrLockTimeout, ExitLockTimeout},
		{"filesystem", taskmderrors.ErrFileSystem, ExitError},
		{"no workspace", taskmderrors.ErrWorkspaceNotFound, ExitError},
		{"plain", fmt.Errorf("boom"), ExitError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestFormatVersion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dev", formatVersion(BuildInfo{}))
	assert.Equal(t, "1.2.0", formatVersion(BuildInfo{Version: "1.2.0"}))
	assert.Equal(t, "1.2.0 (abc123, 2026-08-30)", formatVersion(BuildInfo{
		Version: "1.2.0", Commit: "abc123", Date: "2026-08-30",
	}))
}

func TestIsValidOutputFormat(t *testing.T) {
	t.Parallel()

	for _, format := range ValidOutputFormats() {
		assert.True(t, IsValidOutputFormat(format), format)
	}
	assert.False(t, IsValidOutputFormat("xml"))
	assert.False(t, IsValidOutputFormat(""))
	assert.False(t, IsValidOutputFormat("TABLE"))
}
