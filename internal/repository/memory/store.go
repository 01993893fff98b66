// Package memory keeps every repository in process memory. It backs the
// STORE_DRIVER=memory mode and the service and handler tests.
package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

// Store is the shared state behind the memory repositories.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users         map[string]user.User
	sessions      map[string]attendance.Session
	breaks        map[string]attendance.Break
	leaveRequests map[string]leave.Request
	leaveBalances map[string]leave.Balance
	tasks         map[string]task.Task
}

func NewStore() *Store {
	return &Store{
		users:         make(map[string]user.User),
		sessions:      make(map[string]attendance.Session),
		breaks:        make(map[string]attendance.Break),
		leaveRequests: make(map[string]leave.Request),
		leaveBalances: make(map[string]leave.Balance),
		tasks:         make(map[string]task.Task),
	}
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

type txKey struct{}

type transactor struct {
	store *Store
}

// NewTransactor serializes transactional units. Writes are not rolled back on error;
// services validate before they write.
func NewTransactor(store *Store) database.Transactor {
	return &transactor{store: store}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}

// Repositories bundles every memory repository over one Store.
type Repositories struct {
	Users         user.UserRepository
	Sessions      attendance.SessionRepository
	Breaks        attendance.BreakRepository
	LeaveRequests leave.RequestRepository
	LeaveBalances leave.BalanceRepository
	Tasks         task.TaskRepository
	Transactor    database.Transactor
}

func NewRepositories(store *Store) Repositories {
	return Repositories{
		Users:         &userRepository{store: store},
		Sessions:      &sessionRepository{store: store},
		Breaks:        &breakRepository{store: store},
		LeaveRequests: &leaveRequestRepository{store: store},
		LeaveBalances: &leaveBalanceRepository{store: store},
		Tasks:         &taskRepository{store: store},
		Transactor:    NewTransactor(store),
	}
}
