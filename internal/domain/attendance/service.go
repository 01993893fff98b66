package attendance

import (
	"context"
)

// AttendanceService defines the clock-in/clock-out and break workflows of the
// authenticated user carried by ctx.
type AttendanceService interface {
	// ClockIn opens a new session; fails with ErrAlreadyClockedIn while one is open
	ClockIn(ctx context.Context) (ClockInResponse, error)

	// ClockOut closes the given session, or the open one when RecordID is empty
	ClockOut(ctx context.Context, req ClockOutRequest) (ClockOutResponse, error)

	// ActiveClockIn reports the caller's open session
	ActiveClockIn(ctx context.Context) (ActiveClockInResponse, error)

	// ClockInStatus reports whether the caller is clocked in
	ClockInStatus(ctx context.Context) (ClockInStatusResponse, error)

	// HoursWorkedToday sums closed sessions of today plus live hours of the open one
	HoursWorkedToday(ctx context.Context) (HoursWorkedTodayResponse, error)

	// Timesheet lists the sessions and breaks of one day
	Timesheet(ctx context.Context, filter TimesheetFilter) ([]TimesheetEntry, error)

	StartBreak(ctx context.Context, req StartBreakRequest) (StartBreakResponse, error)
	EndBreak(ctx context.Context, req EndBreakRequest) (EndBreakResponse, error)
	ActiveBreak(ctx context.Context, req ActiveBreakRequest) (ActiveBreakResponse, error)
}
