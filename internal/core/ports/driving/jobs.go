package driving

import (
	"context"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

// JobTracker exposes background job lifecycle management.
type JobTracker interface {
	// Start registers a new running job for the tenant and returns it.
	Start(ctx context.Context, tenantID, kind string) (domain.Job, error)

	// Progress updates phase and counters of a running job.
	Progress(ctx context.Context, id, phase string, processed, total int) error

	// Complete marks a running job completed.
	Complete(ctx context.Context, id string) error

	// Fail marks a running job failed with a message.
	Fail(ctx context.Context, id, msg string) error

	// Status returns a job scoped to the tenant. A job belonging to
	// another tenant surfaces as domain.ErrJobNotFound.
	Status(ctx context.Context, tenantID, id string) (domain.Job, error)

	// List returns the tenant's jobs, newest first.
	List(ctx context.Context, tenantID string) ([]domain.Job, error)
}
