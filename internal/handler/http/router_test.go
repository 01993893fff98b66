package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	leaveService "github.com/cmlabs-hris/attendance-backend-go/internal/service/leave"
	taskService "github.com/cmlabs-hris/attendance-backend-go/internal/service/task"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	routerTestSecret    = "router-test-secret"
	routerTestAccessExp = "1h"
	routerTestPassword  = "password123"
)

type testServer struct {
	router  *chi.Mux
	clock   *timeutil.FixedClock
	repos   memory.Repositories
	staffID string
	empID   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repos := memory.NewRepositories(memory.NewStore())
	clock := timeutil.NewFixedClock(time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC))
	jwtSvc := jwt.NewJWTService(routerTestSecret, routerTestAccessExp)

	ctx := context.Background()
	staff, err := authService.CreateUser(ctx, repos.Users, user.CreateUserRequest{
		Email: "lead@example.com", FullName: "Team Lead", Password: routerTestPassword, IsStaff: true,
	})
	require.NoError(t, err)
	emp, err := authService.CreateUser(ctx, repos.Users, user.CreateUserRequest{
		Email: "dev@example.com", FullName: "Developer", Password: routerTestPassword,
	})
	require.NoError(t, err)

	router := NewRouter(
		RouterOptions{
			Logger:         slog.New(slog.NewJSONHandler(io.Discard, nil)),
			LogLevel:       slog.LevelError,
			AllowedOrigins: []string{"*"},
		},
		jwtSvc,
		NewAuthHandler(authService.NewAuthService(repos.Users, jwtSvc)),
		NewAttendanceHandler(attendanceService.NewAttendanceService(repos.Transactor, repos.Sessions, repos.Breaks, clock, timeutil.DefaultStandardDayHours)),
		NewLeaveHandler(leaveService.NewLeaveService(repos.Transactor, repos.LeaveRequests, repos.LeaveBalances, repos.Users, nil, clock)),
		NewTaskHandler(taskService.NewTaskService(repos.Transactor, repos.Tasks, repos.Users, clock)),
	)

	return &testServer{router: router, clock: clock, repos: repos, staffID: staff.ID, empID: emp.ID}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec.Code, env
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()

	code, env := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": routerTestPassword,
	})
	require.Equal(t, http.StatusOK, code)

	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	return tokens.AccessToken
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	t.Run("success", func(t *testing.T) {
		code, env := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "lead@example.com", "password": routerTestPassword,
		})
		assert.Equal(t, http.StatusOK, code)
		var tokens struct {
			AccessToken string `json:"access_token"`
			IsStaff     bool   `json:"is_staff"`
		}
		decodeData(t, env, &tokens)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.True(t, tokens.IsStaff)
	})

	t.Run("wrong password", func(t *testing.T) {
		code, env := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "lead@example.com", "password": "not-the-password",
		})
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.False(t, env.Success)
	})

	t.Run("missing email", func(t *testing.T) {
		code, env := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"password": routerTestPassword,
		})
		assert.Equal(t, http.StatusBadRequest, code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/v1/clockin-status", "/api/v1/timesheet/today", "/api/v1/tasks", "/api/v1/leave-balance"} {
		code, env := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, code, path)
		assert.False(t, env.Success, path)
	}

	code, _ := s.do(t, http.MethodGet, "/api/v1/clockin-status", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAttendanceFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "dev@example.com")

	code, env := s.do(t, http.MethodGet, "/api/v1/clockin-status", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"clockedIn":false}`, string(env.Data))

	code, env = s.do(t, http.MethodPost, "/api/v1/clock-in", token, nil)
	require.Equal(t, http.StatusCreated, code)
	var clockIn struct {
		RecordID      string `json:"record_id"`
		TimeClockedIn string `json:"time_clocked_in"`
	}
	decodeData(t, env, &clockIn)
	require.NotEmpty(t, clockIn.RecordID)
	assert.Equal(t, "2026-10-19T08:00:00Z", clockIn.TimeClockedIn)

	code, env = s.do(t, http.MethodPost, "/api/v1/clock-in", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)
	assert.Contains(t, env.Error.Message, "2026-10-19T08:00:00Z")

	code, env = s.do(t, http.MethodGet, "/api/v1/check-active-clockin", token, nil)
	require.Equal(t, http.StatusOK, code)
	var active struct {
		Active   bool    `json:"active"`
		RecordID *string `json:"record_id"`
	}
	decodeData(t, env, &active)
	assert.True(t, active.Active)
	require.NotNil(t, active.RecordID)
	assert.Equal(t, clockIn.RecordID, *active.RecordID)

	s.clock.Advance(2 * time.Hour)
	code, env = s.do(t, http.MethodPost, "/api/v1/take-break", token, map[string]string{
		"record_id": clockIn.RecordID, "break_type": "lunch", "break_notes": "canteen",
	})
	require.Equal(t, http.StatusCreated, code)
	var brk struct {
		BreakID string `json:"break_id"`
	}
	decodeData(t, env, &brk)
	require.NotEmpty(t, brk.BreakID)

	code, env = s.do(t, http.MethodPost, "/api/v1/take-break", token, map[string]string{
		"record_id": clockIn.RecordID, "break_type": "short",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	code, env = s.do(t, http.MethodGet, "/api/v1/check-active-break?record_id="+clockIn.RecordID, token, nil)
	require.Equal(t, http.StatusOK, code)
	var activeBreak struct {
		Active  bool    `json:"active"`
		BreakID *string `json:"break_id"`
	}
	decodeData(t, env, &activeBreak)
	assert.True(t, activeBreak.Active)

	code, env = s.do(t, http.MethodPost, "/api/v1/clock-out", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	s.clock.Advance(30 * time.Minute)
	code, env = s.do(t, http.MethodPost, "/api/v1/end-break", token, map[string]string{"break_id": brk.BreakID})
	require.Equal(t, http.StatusOK, code)
	var ended struct {
		BreakDuration float64 `json:"break_duration"`
	}
	decodeData(t, env, &ended)
	assert.Equal(t, 0.5, ended.BreakDuration)

	code, _ = s.do(t, http.MethodPost, "/api/v1/end-break", token, map[string]string{"break_id": brk.BreakID})
	assert.Equal(t, http.StatusNotFound, code)

	s.clock.Advance(7 * time.Hour)
	code, env = s.do(t, http.MethodPost, "/api/v1/clock-out", token, nil)
	require.Equal(t, http.StatusOK, code)
	var out struct {
		RecordID    string  `json:"record_id"`
		HoursWorked float64 `json:"hours_worked"`
		ExtraHours  float64 `json:"extra_hours"`
	}
	decodeData(t, env, &out)
	assert.Equal(t, clockIn.RecordID, out.RecordID)
	assert.Equal(t, 9.5, out.HoursWorked)
	assert.Equal(t, 1.5, out.ExtraHours)

	code, env = s.do(t, http.MethodPost, "/api/v1/clock-out", token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(t, http.MethodGet, "/api/v1/timesheet/today", token, nil)
	require.Equal(t, http.StatusOK, code)
	var today struct {
		HoursWorked float64 `json:"hoursWorked"`
	}
	decodeData(t, env, &today)
	assert.Equal(t, 9.5, today.HoursWorked)

	code, env = s.do(t, http.MethodGet, "/api/v1/timesheet?date=2026-10-19", token, nil)
	require.Equal(t, http.StatusOK, code)
	var sheet []struct {
		RecordID string `json:"record_id"`
		Duration string `json:"duration"`
		Breaks   []struct {
			BreakType string `json:"break_type"`
		} `json:"breaks"`
	}
	decodeData(t, env, &sheet)
	require.Len(t, sheet, 1)
	assert.Equal(t, "9h 30m", sheet[0].Duration)
	require.Len(t, sheet[0].Breaks, 1)
	assert.Equal(t, "lunch", sheet[0].Breaks[0].BreakType)
}

func TestTakeBreakValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "dev@example.com")

	code, env := s.do(t, http.MethodPost, "/api/v1/take-break", token, map[string]string{
		"record_id": "not-a-uuid", "break_type": "nap",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "record_id")
	assert.Contains(t, env.Error.Details, "break_type")
}

func TestTaskRoutes(t *testing.T) {
	s := newTestServer(t)
	staffToken := s.login(t, "lead@example.com")
	empToken := s.login(t, "dev@example.com")

	code, _ := s.do(t, http.MethodPost, "/api/v1/tasks", empToken, map[string]string{
		"name": "Write report", "assigned_to": s.empID,
	})
	assert.Equal(t, http.StatusForbidden, code)

	code, env := s.do(t, http.MethodPost, "/api/v1/tasks", staffToken, map[string]string{
		"name": "Write report", "assigned_to": s.empID,
	})
	require.Equal(t, http.StatusCreated, code)
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeData(t, env, &created)
	assert.Equal(t, "pending", created.Status)

	code, env = s.do(t, http.MethodGet, "/api/v1/tasks", empToken, nil)
	require.Equal(t, http.StatusOK, code)
	var tasks []struct {
		ID string `json:"id"`
	}
	decodeData(t, env, &tasks)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)

	code, env = s.do(t, http.MethodPatch, "/api/v1/tasks/"+created.ID+"/update", empToken, map[string]string{
		"status": "completed", "notes": "done",
	})
	require.Equal(t, http.StatusOK, code)
	var updated struct {
		Status      string  `json:"status"`
		Notes       string  `json:"notes"`
		CompletedAt *string `json:"completed_at"`
	}
	decodeData(t, env, &updated)
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, "done", updated.Notes)
	assert.NotNil(t, updated.CompletedAt)

	code, env = s.do(t, http.MethodPatch, "/api/v1/tasks/"+created.ID+"/update", empToken, map[string]string{
		"notes": "one more thing",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
}

func TestLeaveRoutes(t *testing.T) {
	s := newTestServer(t)
	staffToken := s.login(t, "lead@example.com")
	empToken := s.login(t, "dev@example.com")

	balanceOf := func() float64 {
		code, env := s.do(t, http.MethodGet, "/api/v1/leave-balance", empToken, nil)
		require.Equal(t, http.StatusOK, code)
		var b struct {
			Sick float64 `json:"sick"`
		}
		decodeData(t, env, &b)
		return b.Sick
	}
	before := balanceOf()

	code, env := s.do(t, http.MethodPost, "/api/v1/leave-requests", empToken, map[string]string{
		"leave_type": "sick", "start_date": "2026-10-20", "end_date": "2026-10-21", "reason": "flu",
	})
	require.Equal(t, http.StatusCreated, code)
	var req struct {
		ID     string `json:"id"`
		Days   int    `json:"days"`
		Status string `json:"status"`
	}
	decodeData(t, env, &req)
	assert.Equal(t, 2, req.Days)
	assert.Equal(t, "pending", req.Status)

	code, _ = s.do(t, http.MethodPatch, "/api/v1/leave-requests/"+req.ID+"/decision", empToken, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(t, http.MethodPatch, "/api/v1/leave-requests/"+req.ID+"/decision", staffToken, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, code)
	var decided struct {
		Status string `json:"status"`
	}
	decodeData(t, env, &decided)
	assert.Equal(t, "approved", decided.Status)

	code, env = s.do(t, http.MethodPatch, "/api/v1/leave-requests/"+req.ID+"/decision", staffToken, map[string]string{"status": "rejected"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	assert.Equal(t, before-2, balanceOf())

	code, env = s.do(t, http.MethodGet, "/api/v1/leave-requests", empToken, nil)
	require.Equal(t, http.StatusOK, code)
	var mine []struct {
		ID string `json:"id"`
	}
	decodeData(t, env, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, req.ID, mine[0].ID)
}
