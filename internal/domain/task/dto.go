package task

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CreateTaskRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"max=5000"`
	DueDate     *string `json:"due_date,omitempty"` // RFC3339
	AssignedTo  string  `json:"assigned_to" validate:"required,uuid"`
	ProjectID   *string `json:"project_id,omitempty" validate:"omitempty,uuid"`
	Notes       string  `json:"notes" validate:"max=5000"`

	DueAt *time.Time `json:"-"`
}

func (r *CreateTaskRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)

	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		var ok bool
		if errs, ok = err.(validator.ValidationErrors); !ok {
			return err
		}
	}

	if r.DueDate != nil && *r.DueDate != "" {
		due, valid := validator.IsValidDateTime(*r.DueDate)
		if !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "due_date",
				Message: "due_date must be an ISO8601 timestamp",
			})
		} else {
			due = due.UTC()
			r.DueAt = &due
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateTaskRequest carries the whitelisted mutable fields; absent fields stay unchanged.
type UpdateTaskRequest struct {
	ID          string  `json:"-"`
	Status      *string `json:"status,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

// ValidateID checks only the path id, so the task can be loaded before the payload is judged.
func (r *UpdateTaskRequest) ValidateID() error {
	if !validator.IsValidUUID(r.ID) {
		return validator.ValidationErrors{{
			Field:   "id",
			Message: "id must be a valid UUID",
		}}
	}
	return nil
}

func (r *UpdateTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if r.Status != nil {
		*r.Status = strings.ToLower(strings.TrimSpace(*r.Status))
		if !Status(*r.Status).Valid() {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: pending, in_progress, completed, awaiting_approval, extension_approved",
			})
		}
	}

	if r.Notes != nil && len(*r.Notes) > 5000 {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 5000 characters",
		})
	}

	if r.Description != nil && len(*r.Description) > 5000 {
		errs = append(errs, validator.ValidationError{
			Field:   "description",
			Message: "description must not exceed 5000 characters",
		})
	}

	if r.DueDate != nil {
		if _, valid := validator.IsValidDateTime(*r.DueDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "due_date",
				Message: "due_date must be an ISO8601 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Patch converts a validated request into the domain merge set.
func (r UpdateTaskRequest) Patch() Patch {
	var p Patch
	if r.Status != nil {
		s := Status(*r.Status)
		p.Status = &s
	}
	p.Notes = r.Notes
	p.Description = r.Description
	if r.DueDate != nil {
		if due, ok := validator.IsValidDateTime(*r.DueDate); ok {
			due = due.UTC()
			p.DueAt = &due
		}
	}
	return p
}

type TaskResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
	Status      string  `json:"status"`
	Notes       string  `json:"notes"`
	AssignedTo  string  `json:"assigned_to"`
	ProjectID   *string `json:"project_id"`
	CreatedAt   string  `json:"created_at"`
	CompletedAt *string `json:"completed_at"`
}
