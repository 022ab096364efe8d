package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskmd/internal/constants"
	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
)

// validConfigMap builds a complete valid config object as JSON decoding
// would produce it, numbers included.
func validConfigMap() map[string]any {
	return map[string]any{
		"schema":           float64(1),
		"lockTimeoutMs":    float64(5000),
		"maxTaskSizeBytes": float64(1048576),
	}
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	t.Run("accepts a minimal valid config", func(t *testing.T) {
		t.Parallel()
		cfg, err := ValidateConfig(validConfigMap())
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.Schema)
		assert.Equal(t, 5000, cfg.LockTimeoutMs)
		assert.Equal(t, 1048576, cfg.MaxTaskSizeBytes)
	})

	t.Run("accepts optional fields", func(t *testing.T) {
		t.Parallel()
		m := validConfigMap()
		m["maxTitleLength"] = float64(120)
		m["maxDescriptionLength"] = float64(4096)
		m["tasksDir"] = "work/tasks"

		cfg, err := ValidateConfig(m)
		require.NoError(t, err)
		assert.Equal(t, 120, cfg.MaxTitleLength)
		assert.Equal(t, 4096, cfg.MaxDescriptionLength)
		assert.Equal(t, "work/tasks", cfg.TasksDir)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()
		m := validConfigMap()
		m["lockTimeout"] = float64(1000)

		_, err := ValidateConfig(m)
		require.Error(t, err)
		assert.ErrorIs(t, err, taskmderrors.ErrValidation)
		assert.Contains(t, err.Error(), "Unknown field 'lockTimeout' in Config")
	})

	t.Run("rejects non-object input", func(t *testing.T) {
		t.Parallel()
		_, err := ValidateConfig([]any{"nope"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Config must be an object")
	})

	t.Run("requires core fields", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"schema", "lockTimeoutMs", "maxTaskSizeBytes"} {
			m := validConfigMap()
			delete(m, name)
			_, err := ValidateConfig(m)
			require.Error(t, err, name)
			assert.Contains(t, err.Error(), "Missing required core field '"+name+"' in Config")
		}
	})

	t.Run("rejects non-positive numbers", func(t *testing.T) {
		t.Parallel()
		m := validConfigMap()
		m["lockTimeoutMs"] = float64(0)
		_, err := ValidateConfig(m)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Core field 'lockTimeoutMs' in Config must be positive, got 0")
	})

	t.Run("rejects values over the hard maxima", func(t *testing.T) {
		t.Parallel()
		m := validConfigMap()
		m["lockTimeoutMs"] = float64(constants.MaxLockTimeoutMs + 1)
		_, err := ValidateConfig(m)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be at most")

		m = validConfigMap()
		m["maxTaskSizeBytes"] = float64(constants.MaxTaskSizeBytesLimit + 1)
		_, err = ValidateConfig(m)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be at most")
	})

	t.Run("rejects fractional numbers", func(t *testing.T) {
		t.Parallel()
		m := validConfigMap()
		m["lockTimeoutMs"] = 2.5
		_, err := ValidateConfig(m)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be of type integer, got number")
	})

	t.Run("rejects empty tasksDir", func(t *testing.T) {
		t.Parallel()
		m := validConfigMap()
		m["tasksDir"] = ""
		_, err := ValidateConfig(m)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Core field 'tasksDir' in Config must be a non-empty string")
	})
}

func TestValidateLock(t *testing.T) {
	t.Parallel()

	t.Run("accepts a valid lock record", func(t *testing.T) {
		t.Parallel()
		lock, err := ValidateLock(map[string]any{
			"pid":       float64(4242),
			"command":   "taskmd add",
			"timestamp": float64(1756500000000),
		})
		require.NoError(t, err)
		assert.Equal(t, 4242, lock.PID)
		assert.Equal(t, "taskmd add", lock.Command)
		assert.Equal(t, int64(1756500000000), lock.Timestamp)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()
		_, err := ValidateLock(map[string]any{
			"pid":       float64(1),
			"command":   "x",
			"timestamp": float64(1),
			"hostname":  "box",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown field 'hostname' in LockFile")
	})

	t.Run("rejects missing and non-positive fields", func(t *testing.T) {
		t.Parallel()
		_, err := ValidateLock(map[string]any{"pid": float64(1), "command": "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Missing required core field 'timestamp' in LockFile")

		_, err = ValidateLock(map[string]any{"pid": float64(-3), "command": "x", "timestamp": float64(1)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Core field 'pid' in LockFile must be a positive integer, got -3")
	})

	t.Run("rejects non-object input", func(t *testing.T) {
		t.Parallel()
		_, err := ValidateLock(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LockFile must be an object")
	})
}
