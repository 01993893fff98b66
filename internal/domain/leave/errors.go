package leave

import "errors"

var (
	ErrLeaveRequestNotFound  = errors.New("leave request not found")
	ErrRequestAlreadyDecided = errors.New("leave request has already been approved or rejected")
	ErrBalanceNotFound       = errors.New("leave balance not found")
	ErrInvalidDateRange      = errors.New("end_date must not be before start_date")
)
