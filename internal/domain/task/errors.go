package task

import "errors"

var (
	// ErrTaskNotFound indicates the task doesn't exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrRemarkNotFound indicates the task has no remark to operate on.
	ErrRemarkNotFound = errors.New("remark not found")
	// ErrEmptyRemark indicates an empty remark body.
	ErrEmptyRemark = errors.New("remark body is empty")
	// ErrUnknownStatus indicates a status label outside the enumerated set.
	ErrUnknownStatus = errors.New("unknown task status")
	// ErrInvalidTransition indicates a status transition the table forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidInput indicates missing required task fields.
	ErrInvalidInput = errors.New("invalid task input")
)
