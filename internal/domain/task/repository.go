package task

import (
	"context"
)

type TaskRepository interface {
	Create(ctx context.Context, t Task) (Task, error)
	GetByID(ctx context.Context, id string) (Task, error)
	// LockByID reads the task and holds it until the surrounding transaction ends.
	LockByID(ctx context.Context, id string) (Task, error)
	Update(ctx context.Context, t Task) error
	ListByAssignee(ctx context.Context, userID string) ([]Task, error)
	List(ctx context.Context) ([]Task, error)
}
