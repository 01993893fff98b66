package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_CheckEditable(t *testing.T) {
	cases := map[Status]error{
		StatusPending:           nil,
		StatusInProgress:        nil,
		StatusExtensionApproved: nil,
		StatusCompleted:         ErrTaskCompleted,
		StatusAwaitingApproval:  ErrTaskAwaitingApproval,
		Status("archived"):      ErrTaskNotEditable,
	}
	for status, want := range cases {
		err := Task{Status: status}.CheckEditable()
		if want == nil {
			assert.NoError(t, err, status)
		} else {
			assert.ErrorIs(t, err, want, status)
		}
	}
}

func TestTask_Apply(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	tk := Task{Name: "Report", Description: "old", Status: StatusPending}

	notes := "started"
	tk.Apply(Patch{Notes: &notes}, now)
	assert.Equal(t, "started", tk.Notes)
	assert.Equal(t, "old", tk.Description)
	assert.Equal(t, StatusPending, tk.Status)

	completed := StatusCompleted
	tk.Apply(Patch{Status: &completed}, now.Add(time.Hour))
	require.NotNil(t, tk.CompletedAt)
	assert.Equal(t, now.Add(time.Hour), *tk.CompletedAt)

	reopened := StatusInProgress
	tk.Apply(Patch{Status: &reopened}, now.Add(2*time.Hour))
	assert.Nil(t, tk.CompletedAt)
	assert.Equal(t, now.Add(2*time.Hour), tk.UpdatedAt)
}
