package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

func setupJobsTest(tracker *mockJobTracker) func() {
	old := jobTracker
	oldTenant := activeTenant
	jobTracker = tracker
	activeTenant = "t1"
	return func() {
		jobTracker = old
		activeTenant = oldTenant
	}
}

func TestJobsStatusCmd(t *testing.T) {
	tracker := &mockJobTracker{jobs: map[string]domain.Job{
		"job-1": {
			ID:       "job-1",
			Kind:     domain.JobKindSync,
			Status:   domain.JobRunning,
			Progress: 40,
			Phase:    "processing cat-112233.pdf",
		},
	}}
	defer setupJobsTest(tracker)()

	out, err := execute("jobs", "status", "job-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Job job-1 (sync)")
	assert.Contains(t, out, "running, 40%")
	assert.Contains(t, out, "processing cat-112233.pdf")
}

func TestJobsStatusCmd_FailedJobShowsError(t *testing.T) {
	tracker := &mockJobTracker{jobs: map[string]domain.Job{
		"job-2": {
			ID:     "job-2",
			Kind:   domain.JobKindSync,
			Status: domain.JobFailed,
			Error:  "listing files: permission denied",
		},
	}}
	defer setupJobsTest(tracker)()

	out, err := execute("jobs", "status", "job-2")
	require.NoError(t, err)
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "permission denied")
}

func TestJobsStatusCmd_Unknown(t *testing.T) {
	defer setupJobsTest(&mockJobTracker{jobs: map[string]domain.Job{}})()

	_, err := execute("jobs", "status", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestJobsListCmd(t *testing.T) {
	tracker := &mockJobTracker{list: []domain.Job{
		{ID: "job-2", Kind: domain.JobKindSync, Status: domain.JobRunning, Progress: 10},
		{ID: "job-1", Kind: domain.JobKindSync, Status: domain.JobCompleted, Progress: 100},
	}}
	defer setupJobsTest(tracker)()

	out, err := execute("jobs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "job-2")
	assert.Contains(t, out, "job-1")
}

func TestJobsListCmd_Empty(t *testing.T) {
	defer setupJobsTest(&mockJobTracker{})()

	out, err := execute("jobs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No jobs recorded")
}
