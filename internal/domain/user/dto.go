package user

import (
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// CreateUserRequest is used by the maintenance CLI to bootstrap accounts.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,max=150"`
	Password string `json:"password" validate:"required,min=8"`
	IsStaff  bool   `json:"is_staff"`
}

func (r *CreateUserRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FullName = strings.TrimSpace(r.FullName)
	return validator.Struct(r)
}
