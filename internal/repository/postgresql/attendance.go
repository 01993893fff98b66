package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	openSessionIndex  = "attendance_sessions_one_open_per_user"
	activeBreakIndex  = "attendance_breaks_one_active_per_session"
	sessionColumns    = `id, user_id, clock_in, clock_out, hours_worked, extra_hours, created_at, updated_at`
	breakColumns      = `b.id, b.session_id, b.category, b.notes, b.started_at, b.ended_at, b.created_at`
	sessionLookupBase = `SELECT ` + sessionColumns + ` FROM attendance_sessions WHERE id = $1 AND user_id = $2`
)

type sessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) attendance.SessionRepository {
	return &sessionRepository{db: db}
}

func scanSession(row pgx.Row) (attendance.Session, error) {
	var s attendance.Session
	err := row.Scan(
		&s.ID, &s.UserID, &s.ClockIn, &s.ClockOut,
		&s.HoursWorked, &s.ExtraHours,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements attendance.SessionRepository.
func (r *sessionRepository) Create(ctx context.Context, session attendance.Session) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Session{}, err
	}

	query := `
		INSERT INTO attendance_sessions (id, user_id, clock_in, created_at, updated_at)
		VALUES ($1, $2, $3, $3, $3)
		RETURNING ` + sessionColumns

	created, err := scanSession(q.QueryRow(ctx, query, id.String(), session.UserID, session.ClockIn))
	if err != nil {
		if isUniqueViolation(err, openSessionIndex) {
			return attendance.Session{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	return created, nil
}

// GetByID implements attendance.SessionRepository.
func (r *sessionRepository) GetByID(ctx context.Context, id string, userID string) (attendance.Session, error) {
	return r.get(ctx, sessionLookupBase, id, userID)
}

// LockByID implements attendance.SessionRepository.
func (r *sessionRepository) LockByID(ctx context.Context, id string, userID string) (attendance.Session, error) {
	return r.get(ctx, sessionLookupBase+` FOR UPDATE`, id, userID)
}

func (r *sessionRepository) get(ctx context.Context, query string, id string, userID string) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSession(q.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// GetOpenByUser implements attendance.SessionRepository.
func (r *sessionRepository) GetOpenByUser(ctx context.Context, userID string) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE user_id = $1
		  AND clock_out IS NULL
		ORDER BY clock_in DESC
		LIMIT 1
	`

	s, err := scanSession(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrNotClockedIn
		}
		return attendance.Session{}, fmt.Errorf("failed to get open session: %w", err)
	}
	return s, nil
}

// Close implements attendance.SessionRepository.
func (r *sessionRepository) Close(ctx context.Context, session attendance.Session) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET clock_out = $1, hours_worked = $2, extra_hours = $3, updated_at = $4
		WHERE id = $5 AND clock_out IS NULL
	`

	tag, err := q.Exec(ctx, query,
		session.ClockOut, session.HoursWorked, session.ExtraHours, session.UpdatedAt, session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAlreadyClockedOut
	}
	return nil
}

// ListByUserBetween implements attendance.SessionRepository.
func (r *sessionRepository) ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE user_id = $1
		  AND clock_in >= $2
		  AND clock_in < $3
		ORDER BY clock_in ASC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []attendance.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

type breakRepository struct {
	db *database.DB
}

func NewBreakRepository(db *database.DB) attendance.BreakRepository {
	return &breakRepository{db: db}
}

func scanBreak(row pgx.Row) (attendance.Break, error) {
	var b attendance.Break
	err := row.Scan(&b.ID, &b.SessionID, &b.Category, &b.Notes, &b.Start, &b.End, &b.CreatedAt)
	return b, err
}

// Create implements attendance.BreakRepository.
func (r *breakRepository) Create(ctx context.Context, b attendance.Break) (attendance.Break, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Break{}, err
	}

	query := `
		INSERT INTO attendance_breaks AS b (id, session_id, category, notes, started_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING ` + breakColumns

	created, err := scanBreak(q.QueryRow(ctx, query, id.String(), b.SessionID, b.Category, b.Notes, b.Start))
	if err != nil {
		if isUniqueViolation(err, activeBreakIndex) {
			return attendance.Break{}, attendance.ErrBreakAlreadyActive
		}
		return attendance.Break{}, fmt.Errorf("failed to create break: %w", err)
	}
	return created, nil
}

// GetActiveBySession implements attendance.BreakRepository.
func (r *breakRepository) GetActiveBySession(ctx context.Context, sessionID string) (attendance.Break, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + breakColumns + `
		FROM attendance_breaks b
		WHERE b.session_id = $1
		  AND b.ended_at IS NULL
	`

	b, err := scanBreak(q.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Break{}, attendance.ErrActiveBreakNotFound
		}
		return attendance.Break{}, fmt.Errorf("failed to get active break: %w", err)
	}
	return b, nil
}

// GetActiveForUser implements attendance.BreakRepository.
func (r *breakRepository) GetActiveForUser(ctx context.Context, breakID string, userID string) (attendance.Break, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + breakColumns + `
		FROM attendance_breaks b
		INNER JOIN attendance_sessions s ON s.id = b.session_id
		WHERE b.id = $1
		  AND s.user_id = $2
		  AND b.ended_at IS NULL
		FOR UPDATE OF b
	`

	b, err := scanBreak(q.QueryRow(ctx, query, breakID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Break{}, attendance.ErrActiveBreakNotFound
		}
		return attendance.Break{}, fmt.Errorf("failed to get break: %w", err)
	}
	return b, nil
}

// Finish implements attendance.BreakRepository.
func (r *breakRepository) Finish(ctx context.Context, b attendance.Break) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE attendance_breaks SET ended_at = $1 WHERE id = $2 AND ended_at IS NULL`,
		b.End, b.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish break: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrActiveBreakNotFound
	}
	return nil
}

// ListBySessions implements attendance.BreakRepository.
func (r *breakRepository) ListBySessions(ctx context.Context, sessionIDs []string) ([]attendance.Break, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + breakColumns + `
		FROM attendance_breaks b
		WHERE b.session_id = ANY($1::uuid[])
		ORDER BY b.started_at ASC
	`

	rows, err := q.Query(ctx, query, sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list breaks: %w", err)
	}
	defer rows.Close()

	var breaks []attendance.Break
	for rows.Next() {
		b, err := scanBreak(rows)
		if err != nil {
			return nil, err
		}
		breaks = append(breaks, b)
	}
	return breaks, rows.Err()
}
