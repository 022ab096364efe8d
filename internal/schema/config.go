package schema

import (
	"github.com/go-viper/mapstructure/v2"

	"github.com/mrz1836/taskmd/internal/constants"
	"github.com/mrz1836/taskmd/internal/domain"
	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
)

// configFieldSet lists every key the strict Config schema accepts.
var configFieldSet = map[string]struct{}{
	"schema":               {},
	"lockTimeoutMs":        {},
	"maxTaskSizeBytes":     {},
	"maxTitleLength":       {},
	"maxDescriptionLength": {},
	"tasksDir":             {},
}

// ValidateConfig validates a parsed config object strictly: every key
// must be a declared field with the declared type, numeric fields must
// be within their domain ranges, and unknown keys are rejected.
func ValidateConfig(input any) (*domain.Config, error) {
	fields, ok := asFields(input)
	if !ok {
		return nil, validationErr("%s must be an object", KindConfig)
	}

	for _, key := range fields.Keys() {
		if _, known := configFieldSet[key]; !known {
			return nil, validationErr("Unknown field '%s' in %s", key, KindConfig)
		}
	}

	schemaVersion, err := requireInt(fields, KindConfig, "schema")
	if err != nil {
		return nil, err
	}
	if schemaVersion != constants.SchemaVersion {
		return nil, validationErr("Core field 'schema' in %s must equal %d, got %d",
			KindConfig, constants.SchemaVersion, schemaVersion)
	}

	lockTimeout, err := requireInt(fields, KindConfig, "lockTimeoutMs")
	if err != nil {
		return nil, err
	}
	if lockTimeout <= 0 {
		return nil, validationErr("Core field 'lockTimeoutMs' in %s must be positive, got %d", KindConfig, lockTimeout)
	}
	if lockTimeout > constants.MaxLockTimeoutMs {
		return nil, validationErr("Core field 'lockTimeoutMs' in %s must be at most %d, got %d",
			KindConfig, constants.MaxLockTimeoutMs, lockTimeout)
	}

	maxSize, err := requireInt(fields, KindConfig, "maxTaskSizeBytes")
	if err != nil {
		return nil, err
	}
	if maxSize <= 0 {
		return nil, validationErr("Core field 'maxTaskSizeBytes' in %s must be positive, got %d", KindConfig, maxSize)
	}
	if maxSize > constants.MaxTaskSizeBytesLimit {
		return nil, validationErr("Core field 'maxTaskSizeBytes' in %s must be at most %d, got %d",
			KindConfig, constants.MaxTaskSizeBytesLimit, maxSize)
	}

	for _, name := range []string{"maxTitleLength", "maxDescriptionLength"} {
		n, present, err := optionalInt(fields, KindConfig, name)
		if err != nil {
			return nil, err
		}
		if present && n <= 0 {
			return nil, validationErr("Core field '%s' in %s must be positive, got %d", name, KindConfig, n)
		}
	}

	if v, present := fields.Get("tasksDir"); present {
		s, ok := v.(string)
		if !ok {
			return nil, validationErr("Core field 'tasksDir' in %s must be of type string, got %s",
				KindConfig, typeName(v))
		}
		if s == "" {
			return nil, validationErr("Core field 'tasksDir' in %s must be a non-empty string", KindConfig)
		}
	}

	// Shape is proven valid; decode the map into the typed config.
	var cfg domain.Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &cfg,
		// JSON hands back float64 for every number.
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, taskmderrors.Wrap(err, "failed to build config decoder")
	}
	if err := dec.Decode(fields.Map()); err != nil {
		return nil, taskmderrors.Wrap(err, "failed to decode config")
	}
	return &cfg, nil
}
