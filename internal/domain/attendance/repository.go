package attendance

import (
	"context"
	"time"
)

// SessionRepository stores attendance sessions. Implementations must guarantee at most
// one open session per user and report a violation as ErrAlreadyClockedIn.
type SessionRepository interface {
	// Create inserts a new open session.
	Create(ctx context.Context, session Session) (Session, error)

	// GetByID returns the session only when it belongs to userID, else ErrSessionNotFound.
	GetByID(ctx context.Context, id string, userID string) (Session, error)

	// LockByID is GetByID that also holds a row lock until the surrounding transaction ends.
	LockByID(ctx context.Context, id string, userID string) (Session, error)

	// GetOpenByUser returns the most recent session with no clock-out, else ErrNotClockedIn.
	GetOpenByUser(ctx context.Context, userID string) (Session, error)

	// Close persists clock-out and hours. Returns ErrAlreadyClockedOut if it was closed meanwhile.
	Close(ctx context.Context, session Session) error

	// ListByUserBetween returns sessions clocked in within [from, to), oldest first.
	ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]Session, error)
}

// BreakRepository stores break intervals. Implementations must guarantee at most one
// active break per session and report a violation as ErrBreakAlreadyActive.
type BreakRepository interface {
	Create(ctx context.Context, b Break) (Break, error)

	// GetActiveBySession returns the active break of a session, else ErrActiveBreakNotFound.
	GetActiveBySession(ctx context.Context, sessionID string) (Break, error)

	// GetActiveForUser returns an active break whose session belongs to userID,
	// else ErrActiveBreakNotFound.
	GetActiveForUser(ctx context.Context, breakID string, userID string) (Break, error)

	// Finish persists the end time. Returns ErrActiveBreakNotFound if already ended.
	Finish(ctx context.Context, b Break) error

	// ListBySessions returns all breaks of the given sessions, ordered by start.
	ListBySessions(ctx context.Context, sessionIDs []string) ([]Break, error)
}
