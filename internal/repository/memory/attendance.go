package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

type sessionRepository struct {
	store *Store
}

// Create inserts the session unless the user already has an open one. The check and
// the insert happen under the same lock.
func (r *sessionRepository) Create(ctx context.Context, session attendance.Session) (attendance.Session, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.sessions {
		if existing.UserID == session.UserID && existing.IsOpen() {
			return attendance.Session{}, attendance.ErrAlreadyClockedIn
		}
	}

	id, err := newID()
	if err != nil {
		return attendance.Session{}, err
	}
	session.ID = id
	session.ClockOut = nil
	session.CreatedAt = session.ClockIn
	session.UpdatedAt = session.ClockIn
	s.sessions[id] = session
	return session, nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id string, userID string) (attendance.Session, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok || session.UserID != userID {
		return attendance.Session{}, attendance.ErrSessionNotFound
	}
	return session, nil
}

// LockByID relies on the transactor for exclusion.
func (r *sessionRepository) LockByID(ctx context.Context, id string, userID string) (attendance.Session, error) {
	return r.GetByID(ctx, id, userID)
}

func (r *sessionRepository) GetOpenByUser(ctx context.Context, userID string) (attendance.Session, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		found attendance.Session
		ok    bool
	)
	for _, session := range s.sessions {
		if session.UserID != userID || !session.IsOpen() {
			continue
		}
		if !ok || session.ClockIn.After(found.ClockIn) {
			found, ok = session, true
		}
	}
	if !ok {
		return attendance.Session{}, attendance.ErrNotClockedIn
	}
	return found, nil
}

func (r *sessionRepository) Close(ctx context.Context, session attendance.Session) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sessions[session.ID]
	if !ok {
		return attendance.ErrSessionNotFound
	}
	if !stored.IsOpen() {
		return attendance.ErrAlreadyClockedOut
	}
	stored.ClockOut = session.ClockOut
	stored.HoursWorked = session.HoursWorked
	stored.ExtraHours = session.ExtraHours
	stored.UpdatedAt = session.UpdatedAt
	s.sessions[session.ID] = stored
	return nil
}

func (r *sessionRepository) ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]attendance.Session, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var sessions []attendance.Session
	for _, session := range s.sessions {
		if session.UserID != userID {
			continue
		}
		if session.ClockIn.Before(from) || !session.ClockIn.Before(to) {
			continue
		}
		sessions = append(sessions, session)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ClockIn.Before(sessions[j].ClockIn) })
	return sessions, nil
}

type breakRepository struct {
	store *Store
}

func (r *breakRepository) Create(ctx context.Context, b attendance.Break) (attendance.Break, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.breaks {
		if existing.SessionID == b.SessionID && existing.IsActive() {
			return attendance.Break{}, attendance.ErrBreakAlreadyActive
		}
	}

	id, err := newID()
	if err != nil {
		return attendance.Break{}, err
	}
	b.ID = id
	b.End = nil
	b.CreatedAt = b.Start
	s.breaks[id] = b
	return b, nil
}

func (r *breakRepository) GetActiveBySession(ctx context.Context, sessionID string) (attendance.Break, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.breaks {
		if b.SessionID == sessionID && b.IsActive() {
			return b, nil
		}
	}
	return attendance.Break{}, attendance.ErrActiveBreakNotFound
}

func (r *breakRepository) GetActiveForUser(ctx context.Context, breakID string, userID string) (attendance.Break, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.breaks[breakID]
	if !ok || !b.IsActive() {
		return attendance.Break{}, attendance.ErrActiveBreakNotFound
	}
	if session, ok := s.sessions[b.SessionID]; !ok || session.UserID != userID {
		return attendance.Break{}, attendance.ErrActiveBreakNotFound
	}
	return b, nil
}

func (r *breakRepository) Finish(ctx context.Context, b attendance.Break) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.breaks[b.ID]
	if !ok || !stored.IsActive() {
		return attendance.ErrActiveBreakNotFound
	}
	stored.End = b.End
	s.breaks[b.ID] = stored
	return nil
}

func (r *breakRepository) ListBySessions(ctx context.Context, sessionIDs []string) ([]attendance.Break, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[string]struct{}, len(sessionIDs))
	for _, id := range sessionIDs {
		wanted[id] = struct{}{}
	}

	var breaks []attendance.Break
	for _, b := range s.breaks {
		if _, ok := wanted[b.SessionID]; ok {
			breaks = append(breaks, b)
		}
	}
	sort.Slice(breaks, func(i, j int) bool { return breaks[i].Start.Before(breaks[j].Start) })
	return breaks, nil
}
