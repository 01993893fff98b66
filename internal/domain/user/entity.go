package user

import (
	"context"
	"time"
)

type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash *string
	IsStaff      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID  string
	IsStaff bool
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller identity, or ErrUnauthenticated.
func IdentityFromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, ErrUnauthenticated
	}
	return id, nil
}
