package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "date", Message: "bad"}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"already clocked in", fmt.Errorf("%w since 2026-10-19T08:00:00Z", attendance.ErrAlreadyClockedIn), http.StatusBadRequest, "CONFLICT"},
		{"break active", attendance.ErrBreakAlreadyActive, http.StatusBadRequest, "CONFLICT"},
		{"session not open", attendance.ErrSessionNotOpen, http.StatusBadRequest, "BAD_REQUEST"},
		{"no active break", attendance.ErrActiveBreakNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"task completed", task.ErrTaskCompleted, http.StatusBadRequest, "FORBIDDEN"},
		{"task missing", task.ErrTaskNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"staff only", user.ErrStaffPrivilegeRequired, http.StatusForbidden, "FORBIDDEN"},
		{"unauthenticated", user.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"leave decided", leave.ErrRequestAlreadyDecided, http.StatusBadRequest, "CONFLICT"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, c.err)

			assert.Equal(t, c.status, rec.Code)
			var body Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, c.code, body.Error.Code)
		})
	}
}

func TestHandleError_ConflictCarriesClockInTime(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, fmt.Errorf("%w since 2026-10-19T08:00:00Z", attendance.ErrAlreadyClockedIn))

	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body.Error.Message, "2026-10-19T08:00:00Z")
}
