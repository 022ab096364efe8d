// Package cli provides the command-line interface for taskmd.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes for the CLI.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0
	// ExitError indicates a general error.
	ExitError = 1
	// ExitInvalidInput indicates invalid user input or a schema
	// violation.
	ExitInvalidInput = 2
	// ExitNotFound indicates no record exists for the given id.
	ExitNotFound = 3
	// ExitLockTimeout indicates lock acquisition exhausted its retries.
	ExitLockTimeout = 4
)

// Output format constants for list/export rendering.
const (
	OutputTable  = "table"
	OutputCSV    = "csv"
	OutputYAML   = "yaml"
	OutputNDJSON = "ndjson"
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// Dir overrides the directory the workspace search starts from.
	Dir string
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet suppresses non-essential output (warn level only).
	Quiet bool
}

// AddGlobalFlags adds global flags to a command.
// These flags are available to all subcommands via PersistentFlags.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVarP(&flags.Dir, "dir", "C", "", "start the workspace search from this directory")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// BindGlobalFlags binds global flags to Viper for environment variable
// support. The TASKMD_ prefix is used (e.g., TASKMD_DIR,
// TASKMD_VERBOSE).
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	// Use Root().PersistentFlags() to find flags defined on the root
	// command, even when called from a subcommand's PersistentPreRunE.
	rootFlags := cmd.Root().PersistentFlags()

	for _, name := range []string{"dir", "verbose", "quiet"} {
		if err := v.BindPFlag(name, rootFlags.Lookup(name)); err != nil {
			return err
		}
	}

	v.SetEnvPrefix("TASKMD")
	v.AutomaticEnv()

	return nil
}

// ValidOutputFormats returns the list of valid export format values.
func ValidOutputFormats() []string {
	return []string{OutputTable, OutputCSV, OutputYAML, OutputNDJSON}
}

// IsValidOutputFormat checks if the given format is a valid export
// format.
func IsValidOutputFormat(format string) bool {
	for _, valid := range ValidOutputFormats() {
		if format == valid {
			return true
		}
	}
	return false
}
