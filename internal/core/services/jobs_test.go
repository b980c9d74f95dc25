package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analista-digital/licita-cli/internal/adapters/driven/storage/memory"
	"github.com/analista-digital/licita-cli/internal/core/domain"
)

func TestJobLifecycle(t *testing.T) {
	svc := NewJobService(memory.NewJobStore())
	ctx := context.Background()

	job, err := svc.Start(ctx, "t1", domain.JobKindSync)
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, domain.JobRunning, job.Status)

	require.NoError(t, svc.Progress(ctx, job.ID, "extracting text", 3, 10))
	got, err := svc.Status(ctx, "t1", job.ID)
	require.NoError(t, err)
	assert.Equal(t, "extracting text", got.Phase)
	assert.Equal(t, 30, got.Progress)

	require.NoError(t, svc.Complete(ctx, job.ID))
	got, err = svc.Status(ctx, "t1", job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	assert.False(t, got.FinishedAt.IsZero())
}

func TestJobTerminalStateIsFinal(t *testing.T) {
	svc := NewJobService(memory.NewJobStore())
	ctx := context.Background()

	job, err := svc.Start(ctx, "t1", domain.JobKindAnalysis)
	require.NoError(t, err)
	require.NoError(t, svc.Fail(ctx, job.ID, "llm timeout"))

	assert.ErrorIs(t, svc.Complete(ctx, job.ID), domain.ErrJobFinished)
	assert.ErrorIs(t, svc.Progress(ctx, job.ID, "late", 1, 2), domain.ErrJobFinished)

	got, err := svc.Status(ctx, "t1", job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobFailed, got.Status)
	assert.Equal(t, "llm timeout", got.Error)
}

func TestJobTenantScoping(t *testing.T) {
	svc := NewJobService(memory.NewJobStore())
	ctx := context.Background()

	job, err := svc.Start(ctx, "t1", domain.JobKindSync)
	require.NoError(t, err)

	_, err = svc.Status(ctx, "t2", job.ID)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)

	_, err = svc.Start(ctx, "", domain.JobKindSync)
	assert.ErrorIs(t, err, domain.ErrInvalidTenant)

	jobs, err := svc.List(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	other, err := svc.List(ctx, "t2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestJobStatusUnknownID(t *testing.T) {
	svc := NewJobService(memory.NewJobStore())
	_, err := svc.Status(context.Background(), "t1", "missing")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}
