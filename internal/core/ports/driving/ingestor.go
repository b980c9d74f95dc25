package driving

import (
	"context"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

// SyncOptions configures one certificate ingestion run.
type SyncOptions struct {
	// Force reprocesses files already present in the store.
	Force bool
}

// CertificateIngestor walks the certificate tree and keeps the stores
// up to date.
type CertificateIngestor interface {
	// Sync runs ingestion synchronously and returns the finished job
	// record with counts.
	Sync(ctx context.Context, tenantID string, opts SyncOptions) (domain.Job, error)

	// SyncAsync starts ingestion in the background and returns the job id.
	SyncAsync(ctx context.Context, tenantID string, opts SyncOptions) (string, error)
}
