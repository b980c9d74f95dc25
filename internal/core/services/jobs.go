package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/analista-digital/licita-cli/internal/core/domain"
	"github.com/analista-digital/licita-cli/internal/core/ports/driven"
	"github.com/analista-digital/licita-cli/internal/core/ports/driving"
	"github.com/analista-digital/licita-cli/internal/logger"
)

// Ensure JobService implements the interface.
var _ driving.JobTracker = (*JobService)(nil)

// JobService manages background job lifecycles on top of a job store.
// running -> completed | failed is the only valid transition; updates on a
// finished job fail with domain.ErrJobFinished.
type JobService struct {
	store driven.JobStore
}

// NewJobService creates a job tracker backed by the given store.
func NewJobService(store driven.JobStore) *JobService {
	return &JobService{store: store}
}

// Start registers a new running job for the tenant.
func (s *JobService) Start(ctx context.Context, tenantID, kind string) (domain.Job, error) {
	if tenantID == "" {
		return domain.Job{}, domain.ErrInvalidTenant
	}

	job := domain.Job{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Kind:      kind,
		Status:    domain.JobRunning,
		StartedAt: time.Now(),
	}
	if err := s.store.CreateJob(ctx, job); err != nil {
		return domain.Job{}, fmt.Errorf("create job: %w", err)
	}
	logger.Debug("Job %s started (%s, tenant %s)", job.ID, kind, tenantID)
	return job, nil
}

// Progress updates phase and counters of a running job. Progress is derived
// from the counters and clamped to [0,100].
func (s *JobService) Progress(ctx context.Context, id, phase string, processed, total int) error {
	return s.update(ctx, id, func(job *domain.Job) {
		job.Phase = phase
		job.Processed = processed
		job.Total = total
		if total > 0 {
			pct := processed * 100 / total
			if pct < 0 {
				pct = 0
			}
			if pct > 100 {
				pct = 100
			}
			job.Progress = pct
		}
	})
}

// Complete marks a running job completed.
func (s *JobService) Complete(ctx context.Context, id string) error {
	return s.update(ctx, id, func(job *domain.Job) {
		job.Status = domain.JobCompleted
		job.Progress = 100
		job.FinishedAt = time.Now()
	})
}

// Fail marks a running job failed with a message.
func (s *JobService) Fail(ctx context.Context, id, msg string) error {
	return s.update(ctx, id, func(job *domain.Job) {
		job.Status = domain.JobFailed
		job.Error = msg
		job.FinishedAt = time.Now()
	})
}

// Status returns one job, scoped to the tenant. Jobs of other tenants are
// indistinguishable from absent ones.
func (s *JobService) Status(ctx context.Context, tenantID, id string) (domain.Job, error) {
	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return domain.Job{}, err
	}
	if job.TenantID != tenantID {
		return domain.Job{}, domain.ErrJobNotFound
	}
	return job, nil
}

// List returns the tenant's jobs, newest first.
func (s *JobService) List(ctx context.Context, tenantID string) ([]domain.Job, error) {
	if tenantID == "" {
		return nil, domain.ErrInvalidTenant
	}
	return s.store.ListJobs(ctx, tenantID)
}

func (s *JobService) update(ctx context.Context, id string, mutate func(*domain.Job)) error {
	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return err
	}
	if job.Status.IsTerminal() {
		return fmt.Errorf("%w: job %s is %s", domain.ErrJobFinished, id, job.Status)
	}
	mutate(&job)
	return s.store.UpdateJob(ctx, job)
}
