package driven

import (
	"context"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

// JobStore persists background job records.
type JobStore interface {
	// CreateJob stores a new job. Returns domain.ErrAlreadyExists on a
	// duplicate id.
	CreateJob(ctx context.Context, job domain.Job) error

	// GetJob returns one job. Returns domain.ErrJobNotFound when absent.
	GetJob(ctx context.Context, id string) (domain.Job, error)

	// UpdateJob replaces a job record.
	UpdateJob(ctx context.Context, job domain.Job) error

	// ListJobs returns the jobs of one tenant, newest first.
	ListJobs(ctx context.Context, tenantID string) ([]domain.Job, error)
}
