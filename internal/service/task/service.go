package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timeutil"
)

type TaskServiceImpl struct {
	tx database.Transactor
	task.TaskRepository
	user.UserRepository
	clock timeutil.Clock
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.UTC().Format(time.RFC3339)
	return &format
}

func toTaskResponse(t task.Task) task.TaskResponse {
	return task.TaskResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		DueDate:     timePtrToString(t.DueAt),
		Status:      string(t.Status),
		Notes:       t.Notes,
		AssignedTo:  t.AssignedTo,
		ProjectID:   t.ProjectID,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		CompletedAt: timePtrToString(t.CompletedAt),
	}
}

// UpdateTask implements task.TaskService.
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, req task.UpdateTaskRequest) (task.TaskResponse, error) {
	if err := req.ValidateID(); err != nil {
		return task.TaskResponse{}, err
	}

	identity, err := user.IdentityFromContext(ctx)
	if err != nil {
		return task.TaskResponse{}, err
	}

	var updated task.Task
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.TaskRepository.LockByID(ctx, req.ID)
		if err != nil {
			return err
		}
		// Tasks of other users are reported as missing.
		if !identity.IsStaff && current.AssignedTo != identity.UserID {
			return task.ErrTaskNotFound
		}
		// A locked state wins over a bad payload.
		if err := current.CheckEditable(); err != nil {
			return err
		}
		if err := req.Validate(); err != nil {
			return err
		}

		current.Apply(req.Patch(), s.clock.Now())
		if err := s.TaskRepository.Update(ctx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return task.TaskResponse{}, err
	}

	slog.Info("task updated", "task_id", updated.ID, "status", updated.Status, "user_id", identity.UserID)

	return toTaskResponse(updated), nil
}

// CreateTask implements task.TaskService.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, req task.CreateTaskRequest) (task.TaskResponse, error) {
	identity, err := user.IdentityFromContext(ctx)
	if err != nil {
		return task.TaskResponse{}, err
	}
	if !identity.IsStaff {
		return task.TaskResponse{}, user.ErrStaffPrivilegeRequired
	}

	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	if _, err := s.UserRepository.GetByID(ctx, req.AssignedTo); err != nil {
		return task.TaskResponse{}, err
	}

	created, err := s.TaskRepository.Create(ctx, task.Task{
		Name:        req.Name,
		Description: req.Description,
		DueAt:       req.DueAt,
		Status:      task.StatusPending,
		Notes:       req.Notes,
		AssignedTo:  req.AssignedTo,
		ProjectID:   req.ProjectID,
		CreatedAt:   s.clock.Now(),
	})
	if err != nil {
		return task.TaskResponse{}, fmt.Errorf("failed to create task: %w", err)
	}

	slog.Info("task created", "task_id", created.ID, "assigned_to", created.AssignedTo, "created_by", identity.UserID)

	return toTaskResponse(created), nil
}

// ListTasks implements task.TaskService.
func (s *TaskServiceImpl) ListTasks(ctx context.Context) ([]task.TaskResponse, error) {
	identity, err := user.IdentityFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var tasks []task.Task
	if identity.IsStaff {
		tasks, err = s.TaskRepository.List(ctx)
	} else {
		tasks, err = s.TaskRepository.ListByAssignee(ctx, identity.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	responses := make([]task.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		responses = append(responses, toTaskResponse(t))
	}
	return responses, nil
}

func NewTaskService(tx database.Transactor, taskRepo task.TaskRepository, userRepo user.UserRepository, clock timeutil.Clock) task.TaskService {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	return &TaskServiceImpl{
		tx:             tx,
		TaskRepository: taskRepo,
		UserRepository: userRepo,
		clock:          clock,
	}
}
