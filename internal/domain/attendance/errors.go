package attendance

import "errors"

// Attendance domain errors
var (
	// Clock-in / clock-out errors
	ErrAlreadyClockedIn      = errors.New("you are already clocked in")
	ErrNotClockedIn          = errors.New("no active clock-in found")
	ErrAlreadyClockedOut     = errors.New("this record has already been clocked out")
	ErrBreakStillActive      = errors.New("end your active break before clocking out")
	ErrClockOutBeforeClockIn = errors.New("clock-out time cannot be before clock-in time")

	// Break errors
	ErrSessionNotOpen      = errors.New("no open clock-in record found for this user")
	ErrBreakAlreadyActive  = errors.New("a break is already active for this record")
	ErrActiveBreakNotFound = errors.New("active break not found")
	ErrBreakEndBeforeStart = errors.New("break end time cannot be before its start time")

	// General errors
	ErrSessionNotFound = errors.New("clock-in record not found")
)
