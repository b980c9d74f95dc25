package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

func TestJobStoreLifecycle(t *testing.T) {
	store := NewJobStore()
	ctx := context.Background()

	job := domain.Job{
		ID:        "job-1",
		TenantID:  "t1",
		Kind:      domain.JobKindSync,
		Status:    domain.JobRunning,
		StartedAt: time.Now(),
	}
	require.NoError(t, store.CreateJob(ctx, job))
	assert.ErrorIs(t, store.CreateJob(ctx, job), domain.ErrAlreadyExists)

	job.Status = domain.JobCompleted
	job.Progress = 100
	require.NoError(t, store.UpdateJob(ctx, job))

	got, err := store.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)

	_, err = store.GetJob(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
	assert.ErrorIs(t, store.UpdateJob(ctx, domain.Job{ID: "missing"}), domain.ErrJobNotFound)
}

func TestJobStoreListNewestFirstPerTenant(t *testing.T) {
	store := NewJobStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.CreateJob(ctx, domain.Job{
		ID: "old", TenantID: "t1", StartedAt: now.Add(-time.Hour),
	}))
	require.NoError(t, store.CreateJob(ctx, domain.Job{
		ID: "new", TenantID: "t1", StartedAt: now,
	}))
	require.NoError(t, store.CreateJob(ctx, domain.Job{
		ID: "other", TenantID: "t2", StartedAt: now,
	}))

	jobs, err := store.ListJobs(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "new", jobs[0].ID)
	assert.Equal(t, "old", jobs[1].ID)
}
