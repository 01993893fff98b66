package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timeutil"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.SessionRepository
	attendance.BreakRepository
	clock            timeutil.Clock
	standardDayHours float64
}

// timePtrToString safely converts a *time.Time to an RFC3339 string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.UTC().Format(time.RFC3339)
	return &format
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func alreadyClockedIn(open attendance.Session) error {
	return fmt.Errorf("%w since %s", attendance.ErrAlreadyClockedIn, formatTime(open.ClockIn))
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context) (attendance.ClockInResponse, error) {
	identity, err := user.IdentityFromContext(ctx)
	if err != nil {
		return attendance.ClockInResponse{}, err
	}

	existing, err := a.SessionRepository.GetOpenByUser(ctx, identity.UserID)
	if err == nil {
		return attendance.ClockInResponse{}, alreadyClockedIn(existing)
	}
	if !errors.Is(err, attendance.ErrNotClockedIn) {
		return attendance.ClockInResponse{}, fmt.Errorf("failed to check open session: %w", err)
	}

	var created attendance.Session
	err = a.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = a.SessionRepository.Create(ctx, attendance.Session{
			UserID:  identity.UserID,
			ClockIn: a.clock.Now(),
		})
		return err
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyClockedIn) {
			// Lost a race with a concurrent clock-in; report the winner's time.
			if winner, getErr := a.SessionRepository.GetOpenByUser(ctx, identity.UserID); getErr == nil {
				return attendance.ClockInResponse{}, alreadyClockedIn(winner)
			}
			return attendance.ClockInResponse{}, err
		}
		return attendance.ClockInResponse{}, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("clocked in", "user_id", identity.UserID, "record_id", created.ID)

	return attendance.ClockInResponse{
		RecordID:      created.ID,
		TimeClockedIn: formatTime(created.ClockIn),
	}, nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.ClockOutResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ClockOutResponse{}, err
	}

	identity, err := user.IdentityFromContext(ctx)
	if err != nil {
		return attendance.ClockOutResponse{}, err
	}

	var closed attendance.Session
	err = a.tx.WithinTx(ctx, func(ctx context.Context) error {
		recordID := req.RecordID
		if recordID == "" {
			open, err := a.SessionRepository.GetOpenByUser(ctx, identity.UserID)
			if err != nil {
				return err
			}
			recordID = open.ID
		}

		session, err := a.SessionRepository.LockByID(ctx, recordID, identity.UserID)
		if err != nil {
			return err
		}
		if !session.IsOpen() {
			return attendance.ErrAlreadyClockedOut
		}

		_, err = a.BreakRepository.GetActiveBySession(ctx, session.ID)
		if err == nil {
			return attendance.ErrBreakStillActive
		}
		if !errors.Is(err, attendance.ErrActiveBreakNotFound) {
			return fmt.Errorf("failed to check active break: %w", err)
		}

		if err := session.Close(a.clock.Now(), a.standardDayHours); err != nil {
			return err
		}
		if err := a.SessionRepository.Close(ctx, session); err != nil {
			return err
		}
		closed = session
		return nil
	})
	if err != nil {
		return attendance.ClockOutResponse{}, err
	}

	slog.Info("clocked out",
		"user_id", identity.UserID,
		"record_id", closed.ID,
		"hours_worked", closed.HoursWorked,
		"extra_hours", closed.ExtraHours,
	)

	return attendance.ClockOutResponse{
		RecordID:     closed.ID,
		HoursWorked:  closed.HoursWorked,
		ExtraHours:   closed.ExtraHours,
		ClockedOutAt: formatTime(*closed.ClockOut),
	}, nil
}

// openSession returns the caller's open session, or ok=false when there is none.
func (a *AttendanceServiceImpl) openSession(ctx context.Context, userID string) (attendance.Session, bool, error) {
	open, err := a.SessionRepository.GetOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, attendance.ErrNotClockedIn) {
			return attendance.Session{}, false, nil
		}
		return attendance.Session{}, false, fmt.Errorf("failed to get open session: %w", err)
	}
	return open, true, nil
}

// ActiveClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ActiveClockIn(ctx context.Context) (attendance.ActiveClockInResponse, error) {
	identity, err := user.IdentityFromContext(ctx)
	if err != nil {
		return attendance.ActiveClockInResponse{}, err
	}

	open, ok, err := a.openSession(ctx, identity.UserID)
	if err != nil || !ok {
		return attendance.ActiveClockInResponse{}, err
	}

	return attendance.ActiveClockInResponse{
		Active:        true,
		TimeClockedIn: timePtrToString(&open.ClockIn),
		RecordID:      &open.ID,
	}, nil
}

// ClockInStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockInStatus(ctx context.Context) (attendance.ClockInStatusResponse, error) {
	identity, err := user.IdentityFromContext(ctx)
	if err != nil {
		return attendance.ClockInStatusResponse{}, err
	}

	open, ok, err := a.openSession(ctx, identity.UserID)
	if err != nil || !ok {
		return attendance.ClockInStatusResponse{}, err
	}

	return attendance.ClockInStatusResponse{
		ClockedIn:     true,
		TimeClockedIn: timePtrToString(&open.ClockIn),
	}, nil
}

// HoursWorkedToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) HoursWorkedToday(ctx context.Context) (attendance.HoursWorkedTodayResponse, error) {
	identity, err := user.IdentityFromContext(ctx)
	if err != nil {
		return attendance.HoursWorkedTodayResponse{}, err
	}

	now := a.clock.Now()
	dayStart := timeutil.StartOfDay(now)

	sessions, err := a.SessionRepository.ListByUserBetween(ctx, identity.UserID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return attendance.HoursWorkedTodayResponse{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	var total float64
	for _, s := range sessions {
		if !s.IsOpen() {
			total += s.HoursWorked
		}
	}

	open, ok, err := a.openSession(ctx, identity.UserID)
	if err != nil {
		return attendance.HoursWorkedTodayResponse{}, err
	}
	// An open session started before today belongs to its own day.
	if ok && !open.ClockIn.Before(dayStart) {
		total += open.HoursAt(now)
	}

	return attendance.HoursWorkedTodayResponse{HoursWorked: timeutil.RoundHours(total)}, nil
}

// Timesheet implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Timesheet(ctx context.Context, filter attendance.TimesheetFilter) ([]attendance.TimesheetEntry, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	identity, err := user.IdentityFromContext(ctx)
	if err != nil {
		return nil, err
	}

	now := a.clock.Now()
	day := timeutil.StartOfDay(now)
	if filter.Date != nil && *filter.Date != "" {
		day, err = timeutil.ParseDate(*filter.Date)
		if err != nil {
			return nil, err
		}
	}

	sessions, err := a.SessionRepository.ListByUserBetween(ctx, identity.UserID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	breaks, err := a.BreakRepository.ListBySessions(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list breaks: %w", err)
	}

	bySession := make(map[string][]attendance.BreakResponse, len(sessions))
	for _, b := range breaks {
		bySession[b.SessionID] = append(bySession[b.SessionID], attendance.BreakResponse{
			BreakID:        b.ID,
			BreakType:      string(b.Category),
			BreakNotes:     b.Notes,
			BreakStartTime: formatTime(b.Start),
			BreakEndTime:   timePtrToString(b.End),
			BreakDuration:  b.DurationHours(),
		})
	}

	entries := make([]attendance.TimesheetEntry, 0, len(sessions))
	for _, s := range sessions {
		hours := s.HoursAt(now)
		rowBreaks := bySession[s.ID]
		if rowBreaks == nil {
			rowBreaks = []attendance.BreakResponse{}
		}
		entries = append(entries, attendance.TimesheetEntry{
			RecordID:       s.ID,
			TimeClockedIn:  formatTime(s.ClockIn),
			TimeClockedOut: timePtrToString(s.ClockOut),
			Duration:       timeutil.FormatHours(hours),
			HoursWorked:    hours,
			ExtraHours:     s.ExtraHours,
			Breaks:         rowBreaks,
		})
	}

	return entries, nil
}

// StartBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) StartBreak(ctx context.Context, req attendance.StartBreakRequest) (attendance.StartBreakResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.StartBreakResponse{}, err
	}

	identity, err := user.IdentityFromContext(ctx)
	if err != nil {
		return attendance.StartBreakResponse{}, err
	}

	var created attendance.Break
	err = a.tx.WithinTx(ctx, func(ctx context.Context) error {
		session, err := a.SessionRepository.LockByID(ctx, req.RecordID, identity.UserID)
		if err != nil {
			if errors.Is(err, attendance.ErrSessionNotFound) {
				return attendance.ErrSessionNotOpen
			}
			return err
		}
		if !session.IsOpen() {
			return attendance.ErrSessionNotOpen
		}

		_, err = a.BreakRepository.GetActiveBySession(ctx, session.ID)
		if err == nil {
			return attendance.ErrBreakAlreadyActive
		}
		if !errors.Is(err, attendance.ErrActiveBreakNotFound) {
			return fmt.Errorf("failed to check active break: %w", err)
		}

		created, err = a.BreakRepository.Create(ctx, attendance.Break{
			SessionID: session.ID,
			Category:  attendance.BreakCategory(req.BreakType),
			Notes:     req.BreakNotes,
			Start:     a.clock.Now(),
		})
		return err
	})
	if err != nil {
		return attendance.StartBreakResponse{}, err
	}

	slog.Info("break started", "user_id", identity.UserID, "record_id", req.RecordID, "break_id", created.ID, "break_type", created.Category)

	return attendance.StartBreakResponse{
		BreakID:        created.ID,
		BreakStartTime: formatTime(created.Start),
	}, nil
}

// EndBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) EndBreak(ctx context.Context, req attendance.EndBreakRequest) (attendance.EndBreakResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EndBreakResponse{}, err
	}

	identity, err := user.IdentityFromContext(ctx)
	if err != nil {
		return attendance.EndBreakResponse{}, err
	}

	var ended attendance.Break
	err = a.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := a.BreakRepository.GetActiveForUser(ctx, req.BreakID, identity.UserID)
		if err != nil {
			return err
		}
		if err := b.Finish(a.clock.Now()); err != nil {
			return err
		}
		if err := a.BreakRepository.Finish(ctx, b); err != nil {
			return err
		}
		ended = b
		return nil
	})
	if err != nil {
		return attendance.EndBreakResponse{}, err
	}

	slog.Info("break ended", "user_id", identity.UserID, "break_id", ended.ID, "duration_hours", ended.DurationHours())

	return attendance.EndBreakResponse{
		BreakID:       ended.ID,
		BreakDuration: ended.DurationHours(),
	}, nil
}

// ActiveBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ActiveBreak(ctx context.Context, req attendance.ActiveBreakRequest) (attendance.ActiveBreakResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ActiveBreakResponse{}, err
	}

	identity, err := user.IdentityFromContext(ctx)
	if err != nil {
		return attendance.ActiveBreakResponse{}, err
	}

	if _, err := a.SessionRepository.GetByID(ctx, req.RecordID, identity.UserID); err != nil {
		if errors.Is(err, attendance.ErrSessionNotFound) {
			return attendance.ActiveBreakResponse{}, nil
		}
		return attendance.ActiveBreakResponse{}, fmt.Errorf("failed to get session: %w", err)
	}

	b, err := a.BreakRepository.GetActiveBySession(ctx, req.RecordID)
	if err != nil {
		if errors.Is(err, attendance.ErrActiveBreakNotFound) {
			return attendance.ActiveBreakResponse{}, nil
		}
		return attendance.ActiveBreakResponse{}, fmt.Errorf("failed to get active break: %w", err)
	}

	return attendance.ActiveBreakResponse{
		Active:         true,
		BreakID:        &b.ID,
		BreakStartTime: timePtrToString(&b.Start),
	}, nil
}

func NewAttendanceService(
	tx database.Transactor,
	sessionRepository attendance.SessionRepository,
	breakRepository attendance.BreakRepository,
	clock timeutil.Clock,
	standardDayHours float64,
) attendance.AttendanceService {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	if standardDayHours <= 0 {
		standardDayHours = timeutil.DefaultStandardDayHours
	}
	return &AttendanceServiceImpl{
		tx:                tx,
		SessionRepository: sessionRepository,
		BreakRepository:   breakRepository,
		clock:             clock,
		standardDayHours:  standardDayHours,
	}
}
