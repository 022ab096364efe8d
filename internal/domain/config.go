package domain

import "github.com/mrz1836/taskmd/internal/constants"

// Config is the strict-schema workspace configuration, persisted as
// config.json in the workspace metadata directory. Absence of the file
// is valid and implies Defaults(). Unknown fields are rejected.
type Config struct {
	// Schema is the config schema version.
	Schema int `json:"schema" yaml:"schema" mapstructure:"schema"`

	// LockTimeoutMs is the total time budget for lock acquisition in
	// milliseconds. Positive, at most constants.MaxLockTimeoutMs.
	LockTimeoutMs int `json:"lockTimeoutMs" yaml:"lockTimeoutMs" mapstructure:"lockTimeoutMs"`

	// MaxTaskSizeBytes caps the serialized size of a task file.
	// Positive, at most constants.MaxTaskSizeBytesLimit.
	MaxTaskSizeBytes int `json:"maxTaskSizeBytes" yaml:"maxTaskSizeBytes" mapstructure:"maxTaskSizeBytes"`

	// MaxTitleLength caps task titles in characters. Optional.
	MaxTitleLength int `json:"maxTitleLength,omitempty" yaml:"maxTitleLength" mapstructure:"maxTitleLength"`

	// MaxDescriptionLength caps task bodies in characters. Optional.
	MaxDescriptionLength int `json:"maxDescriptionLength,omitempty" yaml:"maxDescriptionLength" mapstructure:"maxDescriptionLength"`

	// TasksDir overrides the task file directory. A relative path
	// resolves against the workspace root. Optional.
	TasksDir string `json:"tasksDir,omitempty" yaml:"tasksDir" mapstructure:"tasksDir"`
}

// DefaultConfig returns the configuration used when the workspace has
// no config file.
func DefaultConfig() *Config {
	return &Config{
		Schema:               constants.SchemaVersion,
		LockTimeoutMs:        constants.DefaultLockTimeoutMs,
		MaxTaskSizeBytes:     constants.DefaultMaxTaskSizeBytes,
		MaxTitleLength:       constants.DefaultMaxTitleLength,
		MaxDescriptionLength: constants.DefaultMaxDescriptionLength,
		TasksDir:             constants.DefaultTasksDir,
	}
}
