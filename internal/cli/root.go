package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
	"github.com/mrz1836/taskmd/internal/workspace"
)

// BuildInfo contains version information set at build time via
// ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the initialized logger for use by subcommands.
// This is set during PersistentPreRunE and should be accessed via
// Logger. Access is protected by globalLoggerMu for thread safety.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// Logger returns the initialized logger for use by subcommands.
//
// IMPORTANT: This function MUST only be called after the root
// command's PersistentPreRunE has executed. Calling it before
// initialization will return a zero-value logger that discards all
// log output.
func Logger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// newRootCmd creates and returns the root command for the taskmd CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "taskmd",
		Short: "taskmd - markdown task records with concurrency-safe storage",
		Long: `taskmd manages tasks as markdown files with YAML front matter, stored
in a workspace directory and safe to mutate from concurrent processes.

Each task lives in its own <id>-<slug>.md file. Mutations are guarded
by a cross-process lock with crash recovery; writes are atomic, so a
concurrent reader never sees a partial file. Caller-defined fields in
the front matter are preserved verbatim across every edit.`,
		Version: formatVersion(info),
		// Run displays help when the root command is invoked without
		// subcommands. This ensures PersistentPreRunE runs for flag
		// validation.
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Optional .env file before env binding.
			_ = godotenv.Load()

			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}

			// File logging only when a workspace already exists.
			logsDir := ""
			if ws, err := workspace.Find(flags.Dir); err == nil {
				logsDir = ws.LogsDir()
			}

			globalLoggerMu.Lock()
			globalLogger = InitLogger(flags.Verbose, flags.Quiet, logsDir)
			globalLoggerMu.Unlock()

			return nil
		},
		// SilenceUsage prevents printing usage on error (we handle our
		// own error messages).
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	cmd.AddCommand(
		newInitCmd(flags),
		newAddCmd(flags),
		newListCmd(flags),
		newShowCmd(flags),
		newUpdateCmd(flags),
		newDeleteCmd(flags),
		newExportCmd(flags),
		newGrepCmd(flags),
		newConfigCmd(flags),
		newWatchCmd(flags),
	)

	return cmd
}

// formatVersion builds the --version string.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		return "dev"
	}
	if info.Commit == "" {
		return info.Version
	}
	return fmt.Sprintf("%s (%s, %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command and returns the process exit code,
// mapping error categories to distinct codes so scripts can tell a
// schema violation from a missing record or a lock timeout.
func Execute(ctx context.Context, info BuildInfo) int {
	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, info)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return ExitSuccess
}

// exitCode maps an error to its CLI exit code.
func exitCode(err error) int {
	switch {
	case stderrors.Is(err, taskmderrors.ErrNotFound):
		return ExitNotFound
	case stderrors.Is(err, taskmderrors.ErrLockTimeout):
		return ExitLockTimeout
	case stderrors.Is(err, taskmderrors.ErrValidation),
		stderrors.Is(err, taskmderrors.ErrTaskTooLarge),
		stderrors.Is(err, taskmderrors.ErrTooManyFields),
		stderrors.Is(err, taskmderrors.ErrInvalidOutputFormat):
		return ExitInvalidInput
	default:
		return ExitError
	}
}
