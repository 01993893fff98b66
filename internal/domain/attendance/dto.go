package attendance

import (
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// CLOCK IN / CLOCK OUT DTOs
// ========================================

type ClockInResponse struct {
	RecordID      string `json:"record_id"`
	TimeClockedIn string `json:"time_clocked_in"`
}

type ClockOutRequest struct {
	RecordID string `json:"record_id"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	r.RecordID = strings.TrimSpace(r.RecordID)
	if r.RecordID != "" && !validator.IsValidUUID(r.RecordID) {
		errs = append(errs, validator.ValidationError{
			Field:   "record_id",
			Message: "record_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockOutResponse struct {
	RecordID     string  `json:"record_id"`
	HoursWorked  float64 `json:"hours_worked"`
	ExtraHours   float64 `json:"extra_hours"`
	ClockedOutAt string  `json:"clocked_out_at"`
}

type ActiveClockInResponse struct {
	Active        bool    `json:"active"`
	TimeClockedIn *string `json:"time_clocked_in,omitempty"`
	RecordID      *string `json:"record_id"`
}

type ClockInStatusResponse struct {
	ClockedIn     bool    `json:"clockedIn"`
	TimeClockedIn *string `json:"time_clocked_in,omitempty"`
}

type HoursWorkedTodayResponse struct {
	HoursWorked float64 `json:"hoursWorked"`
}

// ========================================
// BREAK DTOs
// ========================================

type StartBreakRequest struct {
	RecordID   string `json:"record_id" validate:"required,uuid"`
	BreakType  string `json:"break_type" validate:"required,oneof=short lunch tea meeting"`
	BreakNotes string `json:"break_notes" validate:"max=500"`
}

func (r *StartBreakRequest) Validate() error {
	r.RecordID = strings.TrimSpace(r.RecordID)
	r.BreakType = strings.ToLower(strings.TrimSpace(r.BreakType))
	r.BreakNotes = strings.TrimSpace(r.BreakNotes)
	return validator.Struct(r)
}

type StartBreakResponse struct {
	BreakID        string `json:"break_id"`
	BreakStartTime string `json:"break_start_time"`
}

type EndBreakRequest struct {
	BreakID string `json:"break_id" validate:"required,uuid"`
}

func (r *EndBreakRequest) Validate() error {
	r.BreakID = strings.TrimSpace(r.BreakID)
	return validator.Struct(r)
}

type EndBreakResponse struct {
	BreakID       string  `json:"break_id"`
	BreakDuration float64 `json:"break_duration"`
}

type ActiveBreakRequest struct {
	RecordID string `json:"record_id" validate:"required,uuid"`
}

func (r *ActiveBreakRequest) Validate() error {
	r.RecordID = strings.TrimSpace(r.RecordID)
	return validator.Struct(r)
}

type ActiveBreakResponse struct {
	Active         bool    `json:"active"`
	BreakID        *string `json:"break_id,omitempty"`
	BreakStartTime *string `json:"break_start_time,omitempty"`
}

// ========================================
// TIMESHEET DTOs
// ========================================

type TimesheetFilter struct {
	Date *string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

func (f *TimesheetFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Date != nil && *f.Date != "" {
		if _, valid := validator.IsValidDate(*f.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BreakResponse struct {
	BreakID        string  `json:"break_id"`
	BreakType      string  `json:"break_type"`
	BreakNotes     string  `json:"break_notes"`
	BreakStartTime string  `json:"break_start_time"`
	BreakEndTime   *string `json:"break_end_time"`
	BreakDuration  float64 `json:"break_duration"`
}

type TimesheetEntry struct {
	RecordID       string          `json:"record_id"`
	TimeClockedIn  string          `json:"time_clocked_in"`
	TimeClockedOut *string         `json:"time_clocked_out"`
	Duration       string          `json:"duration"`
	HoursWorked    float64         `json:"hours_worked"`
	ExtraHours     float64         `json:"extra_hours"`
	Breaks         []BreakResponse `json:"breaks"`
}
