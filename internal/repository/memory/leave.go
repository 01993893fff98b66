package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
)

type leaveRequestRepository struct {
	store *Store
}

func (r *leaveRequestRepository) Create(ctx context.Context, request leave.Request) (leave.Request, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := newID()
	if err != nil {
		return leave.Request{}, err
	}
	request.ID = id
	request.UpdatedAt = request.CreatedAt
	s.leaveRequests[id] = request
	return request, nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.Request, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.leaveRequests[id]
	if !ok {
		return leave.Request{}, leave.ErrLeaveRequestNotFound
	}
	return request, nil
}

func (r *leaveRequestRepository) ListByUser(ctx context.Context, userID string) ([]leave.Request, error) {
	requests := r.filter(func(lr leave.Request) bool { return lr.UserID == userID })
	sort.SliceStable(requests, func(i, j int) bool {
		if requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].ID > requests[j].ID
		}
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

func (r *leaveRequestRepository) ListApprovedByUser(ctx context.Context, userID string, category *leave.Category) ([]leave.Request, error) {
	requests := r.filter(func(lr leave.Request) bool {
		if lr.UserID != userID || lr.Status != leave.RequestStatusApproved {
			return false
		}
		return category == nil || lr.Category == *category
	})
	sort.Slice(requests, func(i, j int) bool { return requests[i].StartDate.Before(requests[j].StartDate) })
	return requests, nil
}

func (r *leaveRequestRepository) Decide(ctx context.Context, request leave.Request) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.leaveRequests[request.ID]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if stored.Status != leave.RequestStatusPending {
		return leave.ErrRequestAlreadyDecided
	}
	stored.Status = request.Status
	stored.DecidedBy = request.DecidedBy
	stored.DecidedAt = request.DecidedAt
	stored.UpdatedAt = request.UpdatedAt
	s.leaveRequests[request.ID] = stored
	return nil
}

func (r *leaveRequestRepository) filter(keep func(leave.Request) bool) []leave.Request {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []leave.Request
	for _, lr := range s.leaveRequests {
		if keep(lr) {
			out = append(out, lr)
		}
	}
	return out
}

type leaveBalanceRepository struct {
	store *Store
}

func (r *leaveBalanceRepository) GetByUser(ctx context.Context, userID string) (leave.Balance, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.leaveBalances[userID]
	if !ok {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	return b, nil
}

func (r *leaveBalanceRepository) Upsert(ctx context.Context, balance leave.Balance) (leave.Balance, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.leaveBalances[balance.UserID] = balance
	return balance, nil
}
