package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth and user errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, user.ErrUnauthenticated):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrStaffPrivilegeRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyClockedIn),
		errors.Is(err, attendance.ErrAlreadyClockedOut),
		errors.Is(err, attendance.ErrBreakStillActive),
		errors.Is(err, attendance.ErrBreakAlreadyActive):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrSessionNotOpen),
		errors.Is(err, attendance.ErrClockOutBeforeClockIn),
		errors.Is(err, attendance.ErrBreakEndBeforeStart):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrNotClockedIn),
		errors.Is(err, attendance.ErrSessionNotFound),
		errors.Is(err, attendance.ErrActiveBreakNotFound):
		NotFound(w, err.Error())

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrRequestAlreadyDecided):
		Conflict(w, "Leave request already processed")

	// Task domain errors
	case errors.Is(err, task.ErrTaskNotFound):
		NotFound(w, "Task not found")
	case errors.Is(err, task.ErrTaskCompleted),
		errors.Is(err, task.ErrTaskAwaitingApproval),
		errors.Is(err, task.ErrTaskNotEditable):
		StateForbidden(w, err.Error())

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
