package leave

import (
	"context"
)

type LeaveService interface {
	// GetOrRecomputeBalance rebuilds the caller's ledger from approved requests and stores it
	GetOrRecomputeBalance(ctx context.Context) (BalanceResponse, error)

	CreateRequest(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	ListMyRequests(ctx context.Context) ([]LeaveRequestResponse, error)

	// DecideRequest approves or rejects a pending request (staff only)
	DecideRequest(ctx context.Context, req DecideLeaveRequestRequest) (LeaveRequestResponse, error)

	// RecomputeAll rebuilds every user's ledger and returns how many were written
	RecomputeAll(ctx context.Context) (int, error)
}
