package constants

// TaskStatus represents the lifecycle state of a task record.
type TaskStatus string

// Task status values. These are the only values the schema accepts for
// the core "status" field.
const (
	// TaskStatusPending indicates a task that has not been started.
	TaskStatusPending TaskStatus = "pending"

	// TaskStatusInProgress indicates a task being actively worked on.
	TaskStatusInProgress TaskStatus = "in-progress"

	// TaskStatusDone indicates a completed task.
	TaskStatusDone TaskStatus = "done"
)

// AllTaskStatuses returns every valid task status, in lifecycle order.
func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusDone}
}

// IsValid reports whether s is a recognized task status.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

// String returns the status as a plain string.
func (s TaskStatus) String() string {
	return string(s)
}
