package store

import (
	"strings"
	"time"
)

// timeLayout is the on-disk timestamp format for the core created and
// updated fields.
const timeLayout = time.RFC3339

// durationMs converts a millisecond count from config into a Duration.
func durationMs(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// normalizeValue converts typed slices from CLI callers into the plain
// decoded shapes the validator expects.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []int:
		out := make([]any, len(t))
		for i, n := range t {
			out[i] = n
		}
		return out
	default:
		return v
	}
}
