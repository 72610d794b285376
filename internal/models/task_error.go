package models

// TaskErrorCode is the closed set of expected task-domain failures. The
// transport layer owns the mapping from code to wire status.
type TaskErrorCode int

const (
	// TaskErrorUserNotFound means the referenced user does not exist.
	// Only raised when creating a task for a missing assignee.
	TaskErrorUserNotFound TaskErrorCode = iota + 1
	// TaskErrorNotFound means the task (or the user of a list lookup)
	// is absent.
	TaskErrorNotFound
	// TaskErrorForbiddenAccess means the caller lacks permission.
	TaskErrorForbiddenAccess
)

func (c TaskErrorCode) String() string {
	switch c {
	case TaskErrorUserNotFound:
		return "user_not_found"
	case TaskErrorNotFound:
		return "not_found"
	case TaskErrorForbiddenAccess:
		return "forbidden_access"
	default:
		return "unknown"
	}
}

// TaskError is the error payload carried by task operation Results.
type TaskError struct {
	Message string        `json:"message"`
	Code    TaskErrorCode `json:"code"`
	Details string        `json:"details,omitempty"`
}

func (e TaskError) Error() string { return e.Message }

func NewUserNotFoundError(message string) TaskError {
	return TaskError{Message: message, Code: TaskErrorUserNotFound}
}

func NewNotFoundError(message string) TaskError {
	return TaskError{Message: message, Code: TaskErrorNotFound}
}

// NewForbiddenAccessError always carries the same caller-facing message.
func NewForbiddenAccessError() TaskError {
	return TaskError{
		Message: "You do not have permission to access this task.",
		Code:    TaskErrorForbiddenAccess,
	}
}
