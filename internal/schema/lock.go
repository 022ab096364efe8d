package schema

import "github.com/mrz1836/taskmd/internal/domain"

// lockFieldSet lists every key the strict LockFile schema accepts.
var lockFieldSet = map[string]struct{}{
	"pid":       {},
	"command":   {},
	"timestamp": {},
}

// ValidateLock validates a parsed lock file object strictly. Unknown
// keys are rejected; pid and timestamp must be positive integers.
func ValidateLock(input any) (*domain.Lock, error) {
	fields, ok := asFields(input)
	if !ok {
		return nil, validationErr("%s must be an object", KindLock)
	}

	for _, key := range fields.Keys() {
		if _, known := lockFieldSet[key]; !known {
			return nil, validationErr("Unknown field '%s' in %s", key, KindLock)
		}
	}

	pid, err := requireInt(fields, KindLock, "pid")
	if err != nil {
		return nil, err
	}
	if pid <= 0 {
		return nil, validationErr("Core field 'pid' in %s must be a positive integer, got %d", KindLock, pid)
	}

	command, err := requireString(fields, KindLock, "command")
	if err != nil {
		return nil, err
	}

	timestamp, err := requireInt(fields, KindLock, "timestamp")
	if err != nil {
		return nil, err
	}
	if timestamp <= 0 {
		return nil, validationErr("Core field 'timestamp' in %s must be a positive integer, got %d", KindLock, timestamp)
	}

	return &domain.Lock{PID: pid, Command: command, Timestamp: int64(timestamp)}, nil
}
