package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrUserEmailExists        = errors.New("email already registered")
	ErrUnauthenticated        = errors.New("authentication required")
	ErrStaffPrivilegeRequired = errors.New("staff privilege required")
)
