package task

import (
	"time"
)

type Status string

const (
	StatusPending           Status = "pending"
	StatusInProgress        Status = "in_progress"
	StatusCompleted         Status = "completed"
	StatusAwaitingApproval  Status = "awaiting_approval"
	StatusExtensionApproved Status = "extension_approved"
)

var Statuses = []Status{
	StatusPending,
	StatusInProgress,
	StatusCompleted,
	StatusAwaitingApproval,
	StatusExtensionApproved,
}

// EditableStatuses lists the states in which the standard update path may mutate a task.
var EditableStatuses = []Status{StatusPending, StatusInProgress, StatusExtensionApproved}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s Status) Editable() bool {
	for _, v := range EditableStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Task struct {
	ID          string
	Name        string
	Description string
	DueAt       *time.Time
	Status      Status
	Notes       string
	AssignedTo  string
	ProjectID   *string
	CreatedAt   time.Time
	CompletedAt *time.Time
	UpdatedAt   time.Time
}

// CheckEditable returns why the current status blocks an update, or nil.
func (t Task) CheckEditable() error {
	if t.Status.Editable() {
		return nil
	}
	switch t.Status {
	case StatusCompleted:
		return ErrTaskCompleted
	case StatusAwaitingApproval:
		return ErrTaskAwaitingApproval
	default:
		return ErrTaskNotEditable
	}
}

// Patch holds the fields the standard update path may change. Nil means unchanged.
type Patch struct {
	Status      *Status
	Notes       *string
	Description *string
	DueAt       *time.Time
}

// Apply merges p into t. Moving to completed stamps CompletedAt; leaving it clears it.
func (t *Task) Apply(p Patch, now time.Time) {
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueAt != nil {
		due := *p.DueAt
		t.DueAt = &due
	}
	if p.Status != nil && *p.Status != t.Status {
		t.Status = *p.Status
		if t.Status == StatusCompleted {
			t.CompletedAt = &now
		} else {
			t.CompletedAt = nil
		}
	}
	t.UpdatedAt = now
}
