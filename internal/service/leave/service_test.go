package leave

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc   leave.LeaveService
	repos memory.Repositories
	clock *timeutil.FixedClock
	staff context.Context
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repos := memory.NewRepositories(memory.NewStore())
	clock := timeutil.NewFixedClock(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))
	svc := NewLeaveService(repos.Transactor, repos.LeaveRequests, repos.LeaveBalances, repos.Users, leave.DefaultEntitlements(), clock)

	staff, err := repos.Users.Create(context.Background(), user.User{Email: "staff@example.com", FullName: "Staff", IsStaff: true})
	require.NoError(t, err)

	return fixture{
		svc:   svc,
		repos: repos,
		clock: clock,
		staff: user.WithIdentity(context.Background(), user.Identity{UserID: staff.ID, IsStaff: true}),
	}
}

func (f fixture) employee(t *testing.T, email string) context.Context {
	t.Helper()
	u, err := f.repos.Users.Create(context.Background(), user.User{Email: email, FullName: email})
	require.NoError(t, err)
	return user.WithIdentity(context.Background(), user.Identity{UserID: u.ID})
}

func (f fixture) approve(t *testing.T, ctx context.Context, leaveType, start, end string) leave.LeaveRequestResponse {
	t.Helper()
	created, err := f.svc.CreateRequest(ctx, leave.CreateLeaveRequestRequest{LeaveType: leaveType, StartDate: start, EndDate: end})
	require.NoError(t, err)

	decided, err := f.svc.DecideRequest(f.staff, leave.DecideLeaveRequestRequest{ID: created.ID, Status: "approved"})
	require.NoError(t, err)
	return decided
}

func TestGetOrRecomputeBalance(t *testing.T) {
	t.Run("fresh user has full ceilings", func(t *testing.T) {
		f := newFixture(t)
		ctx := f.employee(t, "a@example.com")

		b, err := f.svc.GetOrRecomputeBalance(ctx)
		require.NoError(t, err)
		assert.Equal(t, leave.BalanceResponse{Annual: 21, Sick: 14, Casual: 7, Maternity: 40}, b)
	})

	t.Run("approved requests are deducted", func(t *testing.T) {
		f := newFixture(t)
		ctx := f.employee(t, "a@example.com")

		f.approve(t, ctx, "annual", "2026-03-02", "2026-03-04")
		f.approve(t, ctx, "sick", "2026-04-01", "2026-04-01")

		b, err := f.svc.GetOrRecomputeBalance(ctx)
		require.NoError(t, err)
		assert.Equal(t, 18.0, b.Annual)
		assert.Equal(t, 13.0, b.Sick)
		assert.Equal(t, 7.0, b.Casual)
		assert.Equal(t, 40.0, b.Maternity)
	})

	t.Run("pending and rejected requests do not count", func(t *testing.T) {
		f := newFixture(t)
		ctx := f.employee(t, "a@example.com")

		_, err := f.svc.CreateRequest(ctx, leave.CreateLeaveRequestRequest{LeaveType: "casual", StartDate: "2026-05-01", EndDate: "2026-05-02"})
		require.NoError(t, err)

		rejected, err := f.svc.CreateRequest(ctx, leave.CreateLeaveRequestRequest{LeaveType: "casual", StartDate: "2026-06-01", EndDate: "2026-06-02"})
		require.NoError(t, err)
		_, err = f.svc.DecideRequest(f.staff, leave.DecideLeaveRequestRequest{ID: rejected.ID, Status: "rejected"})
		require.NoError(t, err)

		b, err := f.svc.GetOrRecomputeBalance(ctx)
		require.NoError(t, err)
		assert.Equal(t, 7.0, b.Casual)
	})

	t.Run("clamped at zero", func(t *testing.T) {
		f := newFixture(t)
		ctx := f.employee(t, "a@example.com")

		f.approve(t, ctx, "casual", "2026-01-01", "2026-01-10")

		b, err := f.svc.GetOrRecomputeBalance(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0.0, b.Casual)
	})

	t.Run("idempotent", func(t *testing.T) {
		f := newFixture(t)
		ctx := f.employee(t, "a@example.com")
		f.approve(t, ctx, "annual", "2026-03-02", "2026-03-02")

		first, err := f.svc.GetOrRecomputeBalance(ctx)
		require.NoError(t, err)
		second, err := f.svc.GetOrRecomputeBalance(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestGetOrRecomputeBalance_SkipsUnchangedWrite(t *testing.T) {
	f := newFixture(t)
	ctx := f.employee(t, "a@example.com")
	identity, err := user.IdentityFromContext(ctx)
	require.NoError(t, err)
	first := f.clock.Now()

	_, err = f.svc.GetOrRecomputeBalance(ctx)
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	_, err = f.svc.GetOrRecomputeBalance(ctx)
	require.NoError(t, err)

	stored, err := f.repos.LeaveBalances.GetByUser(context.Background(), identity.UserID)
	require.NoError(t, err)
	assert.Equal(t, first, stored.UpdatedAt)

	f.approve(t, ctx, "casual", "2026-10-20", "2026-10-20")
	f.clock.Advance(time.Hour)
	b, err := f.svc.GetOrRecomputeBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6.0, b.Casual)

	stored, err = f.repos.LeaveBalances.GetByUser(context.Background(), identity.UserID)
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now(), stored.UpdatedAt)
}

func TestCreateRequest_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := f.employee(t, "a@example.com")

	cases := []struct {
		name  string
		req   leave.CreateLeaveRequestRequest
		field string
	}{
		{"unknown type", leave.CreateLeaveRequestRequest{LeaveType: "holiday", StartDate: "2026-03-02", EndDate: "2026-03-02"}, "leave_type"},
		{"bad start", leave.CreateLeaveRequestRequest{LeaveType: "sick", StartDate: "03/02/2026", EndDate: "2026-03-02"}, "start_date"},
		{"end before start", leave.CreateLeaveRequestRequest{LeaveType: "sick", StartDate: "2026-03-04", EndDate: "2026-03-02"}, "end_date"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := f.svc.CreateRequest(ctx, c.req)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), c.field)
		})
	}
}

func TestDecideRequest(t *testing.T) {
	f := newFixture(t)
	ctx := f.employee(t, "a@example.com")

	created, err := f.svc.CreateRequest(ctx, leave.CreateLeaveRequestRequest{LeaveType: "maternity", StartDate: "2026-07-01", EndDate: "2026-07-05"})
	require.NoError(t, err)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, 5, created.Days)

	_, err = f.svc.DecideRequest(ctx, leave.DecideLeaveRequestRequest{ID: created.ID, Status: "approved"})
	assert.ErrorIs(t, err, user.ErrStaffPrivilegeRequired)

	_, err = f.svc.DecideRequest(f.staff, leave.DecideLeaveRequestRequest{ID: "0192a6f0-0000-7000-8000-0000000000ff", Status: "approved"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	decided, err := f.svc.DecideRequest(f.staff, leave.DecideLeaveRequestRequest{ID: created.ID, Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, "approved", decided.Status)
	require.NotNil(t, decided.DecidedAt)

	_, err = f.svc.DecideRequest(f.staff, leave.DecideLeaveRequestRequest{ID: created.ID, Status: "rejected"})
	assert.ErrorIs(t, err, leave.ErrRequestAlreadyDecided)

	mine, err := f.svc.ListMyRequests(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "approved", mine[0].Status)
}

func TestRecomputeAll(t *testing.T) {
	f := newFixture(t)
	a := f.employee(t, "a@example.com")
	f.employee(t, "b@example.com")
	f.approve(t, a, "annual", "2026-03-02", "2026-03-06")

	n, err := f.svc.RecomputeAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	aID, err := user.IdentityFromContext(a)
	require.NoError(t, err)
	stored, err := f.repos.LeaveBalances.GetByUser(context.Background(), aID.UserID)
	require.NoError(t, err)
	assert.Equal(t, 16.0, stored.Annual)
}
