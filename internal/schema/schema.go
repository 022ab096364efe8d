// Package schema validates parsed record data against the core record
// schemas.
//
// Two modes exist. Strict validation (Config, LockFile) rejects any
// key outside the declared schema. Permissive-core validation (Task)
// applies the same strict rules to the eight core fields but passes
// every other key through unexamined, so caller-defined fields survive
// read-modify-write cycles verbatim.
//
// All failures wrap errors.ErrValidation and carry a message naming
// the offending field.
package schema

import (
	"fmt"
	"math"
	"sort"
	"time"

	taskmderrors "github.com/mrz1836/taskmd/internal/errors"
	"github.com/mrz1836/taskmd/internal/frontmatter"
)

// Record kind names used in validation messages.
const (
	KindTask   = "Task"
	KindConfig = "Config"
	KindLock   = "LockFile"
)

// validationErr builds a field-naming validation error.
func validationErr(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), taskmderrors.ErrValidation)
}

// asFields normalizes validator input. It accepts the codec's ordered
// field collection or a plain JSON-decoded map; anything else (nil
// included) is not an object.
func asFields(input any) (*frontmatter.Fields, bool) {
	switch v := input.(type) {
	case *frontmatter.Fields:
		if v == nil {
			return nil, false
		}
		return v, true
	case map[string]any:
		if v == nil {
			return nil, false
		}
		f := frontmatter.New()
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			f.Set(k, v[k])
		}
		return f, true
	default:
		return nil, false
	}
}

// asInt coerces YAML-decoded (int) and JSON-decoded (float64) numerics
// to int. Non-integral floats do not coerce.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// asTime coerces a front-matter timestamp. YAML hands back time.Time
// for unquoted timestamp scalars and string for quoted ones; both are
// accepted, strings must be ISO-8601.
func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	default:
		return time.Time{}, false
	}
}

// typeName describes a decoded value for "got <actual>" messages.
func typeName(v any) string {
	switch n := v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, uint64:
		return "integer"
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) && !math.IsNaN(n) {
			return "integer"
		}
		return "number"
	case time.Time:
		return "timestamp"
	case []any:
		return "array"
	case map[string]any, *frontmatter.Fields:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// requireInt fetches a required integer field.
func requireInt(f *frontmatter.Fields, kind, name string) (int, error) {
	v, ok := f.Get(name)
	if !ok {
		return 0, validationErr("Missing required core field '%s' in %s", name, kind)
	}
	n, ok := asInt(v)
	if !ok {
		return 0, validationErr("Core field '%s' in %s must be of type integer, got %s", name, kind, typeName(v))
	}
	return n, nil
}

// requireString fetches a required string field.
func requireString(f *frontmatter.Fields, kind, name string) (string, error) {
	v, ok := f.Get(name)
	if !ok {
		return "", validationErr("Missing required core field '%s' in %s", name, kind)
	}
	s, ok := v.(string)
	if !ok {
		return "", validationErr("Core field '%s' in %s must be of type string, got %s", name, kind, typeName(v))
	}
	return s, nil
}

// optionalInt fetches an optional integer field, returning ok=false
// when absent.
func optionalInt(f *frontmatter.Fields, kind, name string) (int, bool, error) {
	v, present := f.Get(name)
	if !present {
		return 0, false, nil
	}
	n, ok := asInt(v)
	if !ok {
		return 0, false, validationErr("Core field '%s' in %s must be of type integer, got %s", name, kind, typeName(v))
	}
	return n, true, nil
}
