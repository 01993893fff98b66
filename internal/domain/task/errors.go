package task

import "errors"

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskCompleted        = errors.New("completed tasks cannot be edited")
	ErrTaskAwaitingApproval = errors.New("task is awaiting approval and cannot be edited until it is resolved")
	ErrTaskNotEditable      = errors.New("task cannot be edited in its current status")
)
