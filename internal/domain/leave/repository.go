package leave

import (
	"context"
)

// RequestRepository - interface for leave_requests table
type RequestRepository interface {
	Create(ctx context.Context, request Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	ListByUser(ctx context.Context, userID string) ([]Request, error)

	// ListApprovedByUser returns approved requests of the user, optionally narrowed to one category.
	ListApprovedByUser(ctx context.Context, userID string, category *Category) ([]Request, error)

	// Decide moves a pending request to its final status, else ErrRequestAlreadyDecided.
	Decide(ctx context.Context, request Request) error
}

// BalanceRepository - interface for leave_balances table
type BalanceRepository interface {
	// GetByUser returns the stored ledger or ErrBalanceNotFound.
	GetByUser(ctx context.Context, userID string) (Balance, error)

	// Upsert writes the whole ledger, creating it on first use.
	Upsert(ctx context.Context, balance Balance) (Balance, error)
}
