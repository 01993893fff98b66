package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const leaveRequestColumns = `id, user_id, category, start_date, end_date, reason, status,
	decided_by, decided_at, created_at, updated_at`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.RequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.Request, error) {
	var lr leave.Request
	err := row.Scan(
		&lr.ID,
		&lr.UserID,
		&lr.Category,
		&lr.StartDate,
		&lr.EndDate,
		&lr.Reason,
		&lr.Status,
		&lr.DecidedBy,
		&lr.DecidedAt,
		&lr.CreatedAt,
		&lr.UpdatedAt,
	)
	return lr, err
}

func collectLeaveRequests(rows pgx.Rows) ([]leave.Request, error) {
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// Create implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return leave.Request{}, err
	}

	query := `
		INSERT INTO leave_requests (id, user_id, category, start_date, end_date, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING ` + leaveRequestColumns

	created, err := scanLeaveRequest(q.QueryRow(ctx, query,
		id.String(),
		request.UserID,
		request.Category,
		request.StartDate,
		request.EndDate,
		request.Reason,
		request.Status,
		request.CreatedAt,
	))
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

// GetByID implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return lr, nil
}

// ListByUser implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return collectLeaveRequests(rows)
}

// ListApprovedByUser implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) ListApprovedByUser(ctx context.Context, userID string, category *leave.Category) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE user_id = $1
		  AND status = $2
		  AND ($3::text IS NULL OR category = $3)
		ORDER BY start_date ASC
	`

	var cat *string
	if category != nil {
		c := string(*category)
		cat = &c
	}

	rows, err := q.Query(ctx, query, userID, leave.RequestStatusApproved, cat)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave requests: %w", err)
	}
	return collectLeaveRequests(rows)
}

// Decide implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) Decide(ctx context.Context, request leave.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1, decided_by = $2, decided_at = $3, updated_at = $4
		WHERE id = $5 AND status = $6
	`

	tag, err := q.Exec(ctx, query,
		request.Status,
		request.DecidedBy,
		request.DecidedAt,
		request.UpdatedAt,
		request.ID,
		leave.RequestStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to decide leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrRequestAlreadyDecided
	}
	return nil
}

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// GetByUser implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByUser(ctx context.Context, userID string) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT user_id, annual, sick, casual, maternity, updated_at
		FROM leave_balances
		WHERE user_id = $1
	`

	var b leave.Balance
	err := q.QueryRow(ctx, query, userID).Scan(&b.UserID, &b.Annual, &b.Sick, &b.Casual, &b.Maternity, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b, nil
}

// Upsert implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) Upsert(ctx context.Context, balance leave.Balance) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (user_id, annual, sick, casual, maternity, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET annual = EXCLUDED.annual,
			sick = EXCLUDED.sick,
			casual = EXCLUDED.casual,
			maternity = EXCLUDED.maternity,
			updated_at = EXCLUDED.updated_at
		RETURNING user_id, annual, sick, casual, maternity, updated_at
	`

	var saved leave.Balance
	err := q.QueryRow(ctx, query,
		balance.UserID,
		balance.Annual,
		balance.Sick,
		balance.Casual,
		balance.Maternity,
		balance.UpdatedAt,
	).Scan(&saved.UserID, &saved.Annual, &saved.Sick, &saved.Casual, &saved.Maternity, &saved.UpdatedAt)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to upsert leave balance: %w", err)
	}
	return saved, nil
}
