package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/task"
)

type taskRepository struct {
	store *Store
}

func (r *taskRepository) Create(ctx context.Context, t task.Task) (task.Task, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := newID()
	if err != nil {
		return task.Task{}, err
	}
	t.ID = id
	t.UpdatedAt = t.CreatedAt
	s.tasks[id] = t
	return t, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (task.Task, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return task.Task{}, task.ErrTaskNotFound
	}
	return t, nil
}

// LockByID reads like GetByID; the store's transactor already serializes writers.
func (r *taskRepository) LockByID(ctx context.Context, id string) (task.Task, error) {
	return r.GetByID(ctx, id)
}

func (r *taskRepository) Update(ctx context.Context, t task.Task) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[t.ID]; !ok {
		return task.ErrTaskNotFound
	}
	s.tasks[t.ID] = t
	return nil
}

func (r *taskRepository) ListByAssignee(ctx context.Context, userID string) ([]task.Task, error) {
	return r.list(func(t task.Task) bool { return t.AssignedTo == userID }), nil
}

func (r *taskRepository) List(ctx context.Context) ([]task.Task, error) {
	return r.list(func(task.Task) bool { return true }), nil
}

func (r *taskRepository) list(keep func(task.Task) bool) []task.Task {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []task.Task
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
