package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CreateLeaveRequestRequest struct {
	LeaveType string `json:"leave_type" validate:"required,oneof=annual sick casual maternity"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"max=1000"`

	// Parsed by Validate
	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	r.LeaveType = strings.ToLower(strings.TrimSpace(r.LeaveType))
	r.Reason = strings.TrimSpace(r.Reason)

	if err := validator.Struct(r); err != nil {
		return err
	}

	r.Start, _ = validator.IsValidDate(r.StartDate)
	r.End, _ = validator.IsValidDate(r.EndDate)
	if r.End.Before(r.Start) {
		return validator.ValidationErrors{{
			Field:   "end_date",
			Message: ErrInvalidDateRange.Error(),
		}}
	}

	return nil
}

type DecideLeaveRequestRequest struct {
	ID     string `json:"-" validate:"required,uuid"`
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

func (r *DecideLeaveRequestRequest) Validate() error {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	if err := validator.Struct(r); err != nil {
		return err
	}
	return nil
}

type LeaveRequestResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	LeaveType string  `json:"leave_type"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Days      int     `json:"days"`
	Reason    string  `json:"reason"`
	Status    string  `json:"status"`
	DecidedBy *string `json:"decided_by,omitempty"`
	DecidedAt *string `json:"decided_at,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type BalanceResponse struct {
	Annual    float64 `json:"annual"`
	Sick      float64 `json:"sick"`
	Casual    float64 `json:"casual"`
	Maternity float64 `json:"maternity"`
}
