package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == newUser.Email {
			return user.User{}, user.ErrUserEmailExists
		}
	}

	if newUser.ID == "" {
		id, err := newID()
		if err != nil {
			return user.User{}, err
		}
		newUser.ID = id
	}
	if newUser.CreatedAt.IsZero() {
		newUser.CreatedAt = time.Now().UTC()
		newUser.UpdatedAt = newUser.CreatedAt
	}
	s.users[newUser.ID] = newUser
	return newUser, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) ListIDs(ctx context.Context) ([]string, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]user.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })

	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids, nil
}
