package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timeutil"
)

// Session is one clock-in to clock-out work period. ClockOut is nil while open.
type Session struct {
	ID          string
	UserID      string
	ClockIn     time.Time
	ClockOut    *time.Time
	HoursWorked float64
	ExtraHours  float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s Session) IsOpen() bool {
	return s.ClockOut == nil
}

// Close stamps the clock-out time and recomputes the derived hours.
func (s *Session) Close(at time.Time, standardDayHours float64) error {
	if !s.IsOpen() {
		return ErrAlreadyClockedOut
	}
	if at.Before(s.ClockIn) {
		return ErrClockOutBeforeClockIn
	}
	s.ClockOut = &at
	s.HoursWorked = timeutil.HoursBetween(s.ClockIn, at)
	s.ExtraHours = timeutil.ExtraHours(s.HoursWorked, standardDayHours)
	s.UpdatedAt = at
	return nil
}

// HoursAt returns stored hours for a closed session, or live elapsed hours at now.
func (s Session) HoursAt(now time.Time) float64 {
	if !s.IsOpen() {
		return s.HoursWorked
	}
	return timeutil.HoursBetween(s.ClockIn, now)
}

type BreakCategory string

const (
	BreakShort   BreakCategory = "short"
	BreakLunch   BreakCategory = "lunch"
	BreakTea     BreakCategory = "tea"
	BreakMeeting BreakCategory = "meeting"
)

var BreakCategories = []BreakCategory{BreakShort, BreakLunch, BreakTea, BreakMeeting}

func (c BreakCategory) Valid() bool {
	for _, v := range BreakCategories {
		if c == v {
			return true
		}
	}
	return false
}

// Break is a pause nested inside exactly one session. End is nil while active.
type Break struct {
	ID        string
	SessionID string
	Category  BreakCategory
	Notes     string
	Start     time.Time
	End       *time.Time
	CreatedAt time.Time
}

func (b Break) IsActive() bool {
	return b.End == nil
}

// Finish stamps the end of an active break.
func (b *Break) Finish(at time.Time) error {
	if !b.IsActive() {
		return ErrActiveBreakNotFound
	}
	if at.Before(b.Start) {
		return ErrBreakEndBeforeStart
	}
	b.End = &at
	return nil
}

// DurationHours is 0 until the break has ended.
func (b Break) DurationHours() float64 {
	if b.End == nil {
		return 0
	}
	return timeutil.HoursBetween(b.Start, *b.End)
}
