package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const taskColumns = `id, name, description, due_at, status, notes, assigned_to, project_id,
	created_at, completed_at, updated_at`

type taskRepositoryImpl struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) task.TaskRepository {
	return &taskRepositoryImpl{db: db}
}

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.DueAt,
		&t.Status,
		&t.Notes,
		&t.AssignedTo,
		&t.ProjectID,
		&t.CreatedAt,
		&t.CompletedAt,
		&t.UpdatedAt,
	)
	return t, err
}

// Create implements task.TaskRepository.
func (r *taskRepositoryImpl) Create(ctx context.Context, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return task.Task{}, err
	}

	query := `
		INSERT INTO tasks (id, name, description, due_at, status, notes, assigned_to, project_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING ` + taskColumns

	created, err := scanTask(q.QueryRow(ctx, query,
		id.String(),
		t.Name,
		t.Description,
		t.DueAt,
		t.Status,
		t.Notes,
		t.AssignedTo,
		t.ProjectID,
		t.CreatedAt,
	))
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

// GetByID implements task.TaskRepository.
func (r *taskRepositoryImpl) GetByID(ctx context.Context, id string) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	t, err := scanTask(q.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// LockByID implements task.TaskRepository.
func (r *taskRepositoryImpl) LockByID(ctx context.Context, id string) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	t, err := scanTask(q.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("failed to lock task: %w", err)
	}
	return t, nil
}

// Update implements task.TaskRepository.
func (r *taskRepositoryImpl) Update(ctx context.Context, t task.Task) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE tasks
		SET description = $1, due_at = $2, status = $3, notes = $4, completed_at = $5, updated_at = $6
		WHERE id = $7
	`

	tag, err := q.Exec(ctx, query, t.Description, t.DueAt, t.Status, t.Notes, t.CompletedAt, t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

// ListByAssignee implements task.TaskRepository.
func (r *taskRepositoryImpl) ListByAssignee(ctx context.Context, userID string) ([]task.Task, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE assigned_to = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return collectTasks(rows)
}

// List implements task.TaskRepository.
func (r *taskRepositoryImpl) List(ctx context.Context) ([]task.Task, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return collectTasks(rows)
}

func collectTasks(rows pgx.Rows) ([]task.Task, error) {
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
