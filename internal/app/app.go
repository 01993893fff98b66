// Package app assembles repositories and services for the binaries under cmd/.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	leaveService "github.com/cmlabs-hris/attendance-backend-go/internal/service/leave"
	taskService "github.com/cmlabs-hris/attendance-backend-go/internal/service/task"
)

type Repositories struct {
	Users         user.UserRepository
	Sessions      attendance.SessionRepository
	Breaks        attendance.BreakRepository
	LeaveRequests leave.RequestRepository
	LeaveBalances leave.BalanceRepository
	Tasks         task.TaskRepository
	Transactor    database.Transactor

	// DB is nil for the memory driver.
	DB *database.DB
}

// Close releases the connection pool, if any.
func (r Repositories) Close() {
	if r.DB != nil {
		r.DB.Close()
	}
}

// OpenRepositories builds the repositories selected by STORE_DRIVER.
func OpenRepositories(cfg *config.Config) (Repositories, error) {
	switch cfg.Database.Driver {
	case config.StoreDriverMemory:
		slog.Warn("using in-memory store, data is lost on restart")
		m := memory.NewRepositories(memory.NewStore())
		return Repositories{
			Users:         m.Users,
			Sessions:      m.Sessions,
			Breaks:        m.Breaks,
			LeaveRequests: m.LeaveRequests,
			LeaveBalances: m.LeaveBalances,
			Tasks:         m.Tasks,
			Transactor:    m.Transactor,
		}, nil
	case config.StoreDriverPostgres:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return Repositories{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		return Repositories{
			Users:         postgresql.NewUserRepository(db),
			Sessions:      postgresql.NewSessionRepository(db),
			Breaks:        postgresql.NewBreakRepository(db),
			LeaveRequests: postgresql.NewLeaveRequestRepository(db),
			LeaveBalances: postgresql.NewLeaveBalanceRepository(db),
			Tasks:         postgresql.NewTaskRepository(db),
			Transactor:    postgresql.NewTransactor(db),
			DB:            db,
		}, nil
	default:
		return Repositories{}, fmt.Errorf("unsupported store driver %q", cfg.Database.Driver)
	}
}

// Migrate applies pending schema migrations. It is a no-op for the memory driver.
func (r Repositories) Migrate(ctx context.Context) ([]string, error) {
	if r.DB == nil {
		return nil, nil
	}
	return postgresql.Migrate(ctx, r.DB)
}

type Services struct {
	JWT        jwt.Service
	Auth       auth.AuthService
	Attendance attendance.AttendanceService
	Leave      leave.LeaveService
	Task       task.TaskService
}

// NewServices wires every service over repos. A nil clock means the system clock.
func NewServices(cfg *config.Config, repos Repositories, clock timeutil.Clock) Services {
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	return Services{
		JWT:  jwtService,
		Auth: authService.NewAuthService(repos.Users, jwtService),
		Attendance: attendanceService.NewAttendanceService(
			repos.Transactor,
			repos.Sessions,
			repos.Breaks,
			clock,
			cfg.Attendance.StandardDayHours,
		),
		Leave: leaveService.NewLeaveService(
			repos.Transactor,
			repos.LeaveRequests,
			repos.LeaveBalances,
			repos.Users,
			cfg.Entitlements(),
			clock,
		),
		Task: taskService.NewTaskService(repos.Transactor, repos.Tasks, repos.Users, clock),
	}
}
