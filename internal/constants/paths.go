package constants

// Workspace metadata layout.
const (
	// MetaDirName is the workspace metadata directory, discovered by
	// walking up from the working directory.
	MetaDirName = ".taskmd"

	// ConfigFileName is the strict-schema config file inside the
	// metadata directory.
	ConfigFileName = "config.json"

	// LockFileName is the advisory lock file inside the metadata
	// directory. At most one should exist per workspace at a time.
	LockFileName = "lock"

	// DefaultTasksDir is the task file directory relative to the
	// workspace root when config does not override it.
	DefaultTasksDir = "tasks"

	// LogsDirName is the directory for CLI log files inside the
	// metadata directory.
	LogsDirName = "logs"

	// CLILogFileName is the rotating log file for CLI invocations.
	CLILogFileName = "taskmd.log"
)

// TaskFileExt is the extension for task record files (<id>-<slug>.md).
const TaskFileExt = ".md"
