package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timeutil"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.RequestRepository
	leave.BalanceRepository
	user.UserRepository
	ceilings leave.Entitlements
	clock    timeutil.Clock
}

func toRequestResponse(r leave.Request) leave.LeaveRequestResponse {
	resp := leave.LeaveRequestResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		LeaveType: string(r.Category),
		StartDate: r.StartDate.Format(timeutil.DateLayout),
		EndDate:   r.EndDate.Format(timeutil.DateLayout),
		Days:      r.Days(),
		Reason:    r.Reason,
		Status:    string(r.Status),
		DecidedBy: r.DecidedBy,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.DecidedAt != nil {
		decidedAt := r.DecidedAt.UTC().Format(time.RFC3339)
		resp.DecidedAt = &decidedAt
	}
	return resp
}

// recompute rebuilds and stores the ledger of userID from its approved requests.
func (l *LeaveServiceImpl) recompute(ctx context.Context, userID string) (leave.Balance, error) {
	var saved leave.Balance
	err := l.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := l.BalanceRepository.GetByUser(ctx, userID)
		found := err == nil
		if err != nil {
			if !errors.Is(err, leave.ErrBalanceNotFound) {
				return fmt.Errorf("failed to get leave balance: %w", err)
			}
			slog.Info("creating leave balance", "user_id", userID)
		}

		approved, err := l.RequestRepository.ListApprovedByUser(ctx, userID, nil)
		if err != nil {
			return fmt.Errorf("failed to list approved leave requests: %w", err)
		}

		b := leave.Recompute(userID, l.ceilings, approved)
		if found && b.SameAmounts(existing) {
			saved = existing
			return nil
		}
		b.UpdatedAt = l.clock.Now()

		saved, err = l.BalanceRepository.Upsert(ctx, b)
		return err
	})
	return saved, err
}

// GetOrRecomputeBalance implements leave.LeaveService.
func (l *LeaveServiceImpl) GetOrRecomputeBalance(ctx context.Context) (leave.BalanceResponse, error) {
	identity, err := user.IdentityFromContext(ctx)
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	b, err := l.recompute(ctx, identity.UserID)
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	return leave.BalanceResponse{
		Annual:    b.Annual,
		Sick:      b.Sick,
		Casual:    b.Casual,
		Maternity: b.Maternity,
	}, nil
}

// CreateRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	identity, err := user.IdentityFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	created, err := l.RequestRepository.Create(ctx, leave.Request{
		UserID:    identity.UserID,
		Category:  leave.Category(req.LeaveType),
		StartDate: req.Start,
		EndDate:   req.End,
		Reason:    req.Reason,
		Status:    leave.RequestStatusPending,
		CreatedAt: l.clock.Now(),
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	slog.Info("leave request submitted", "user_id", identity.UserID, "request_id", created.ID, "leave_type", created.Category, "days", created.Days())

	return toRequestResponse(created), nil
}

// ListMyRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListMyRequests(ctx context.Context) ([]leave.LeaveRequestResponse, error) {
	identity, err := user.IdentityFromContext(ctx)
	if err != nil {
		return nil, err
	}

	requests, err := l.RequestRepository.ListByUser(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, toRequestResponse(r))
	}
	return responses, nil
}

// DecideRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) DecideRequest(ctx context.Context, req leave.DecideLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	identity, err := user.IdentityFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !identity.IsStaff {
		return leave.LeaveRequestResponse{}, user.ErrStaffPrivilegeRequired
	}

	var decided leave.Request
	err = l.tx.WithinTx(ctx, func(ctx context.Context) error {
		request, err := l.RequestRepository.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if request.Status != leave.RequestStatusPending {
			return leave.ErrRequestAlreadyDecided
		}

		now := l.clock.Now()
		request.Status = leave.RequestStatus(req.Status)
		request.DecidedBy = &identity.UserID
		request.DecidedAt = &now
		request.UpdatedAt = now

		if err := l.RequestRepository.Decide(ctx, request); err != nil {
			return err
		}
		decided = request
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("leave request decided", "request_id", decided.ID, "status", decided.Status, "decided_by", identity.UserID)

	return toRequestResponse(decided), nil
}

// RecomputeAll implements leave.LeaveService.
func (l *LeaveServiceImpl) RecomputeAll(ctx context.Context) (int, error) {
	ids, err := l.UserRepository.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	for i, id := range ids {
		if _, err := l.recompute(ctx, id); err != nil {
			return i, fmt.Errorf("failed to recompute balance of user %s: %w", id, err)
		}
	}

	slog.Info("leave balances recomputed", "users", len(ids))
	return len(ids), nil
}

func NewLeaveService(
	tx database.Transactor,
	requestRepo leave.RequestRepository,
	balanceRepo leave.BalanceRepository,
	userRepo user.UserRepository,
	ceilings leave.Entitlements,
	clock timeutil.Clock,
) leave.LeaveService {
	if ceilings == nil {
		ceilings = leave.DefaultEntitlements()
	}
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	return &LeaveServiceImpl{
		tx:                tx,
		RequestRepository: requestRepo,
		BalanceRepository: balanceRepo,
		UserRepository:    userRepo,
		ceilings:          ceilings,
		clock:             clock,
	}
}
