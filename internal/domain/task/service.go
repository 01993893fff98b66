package task

import (
	"context"
)

type TaskService interface {
	// UpdateTask applies a partial update guarded by the task's current status
	UpdateTask(ctx context.Context, req UpdateTaskRequest) (TaskResponse, error)

	// CreateTask assigns a new task (staff only)
	CreateTask(ctx context.Context, req CreateTaskRequest) (TaskResponse, error)

	// ListTasks returns the caller's tasks, or every task for staff
	ListTasks(ctx context.Context) ([]TaskResponse, error)
}
