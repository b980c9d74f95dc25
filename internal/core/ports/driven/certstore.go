package driven

import (
	"context"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

// CertificateQuery selects whole-certificate documents from a store.
// Pattern fields hold RE2 sources; adapters compile them case-insensitively
// (or translate them to the backend's regex operator).
type CertificateQuery struct {
	// TenantID scopes the query. Required.
	TenantID string

	// TermPatterns match either the file name or the body text. A document
	// qualifies when ANY pattern matches. Empty means no term filter.
	TermPatterns []string

	// DomainPatterns additionally require ANY match on file name or body.
	// Empty means no domain prefilter.
	DomainPatterns []string

	// Limit caps the number of returned certificates. Zero means the
	// adapter's default.
	Limit int
}

// ChunkQuery selects text chunks from a store.
type ChunkQuery struct {
	// TenantID scopes the query. Required.
	TenantID string

	// TermPatterns match the chunk content or its source name. A chunk
	// qualifies when ANY pattern matches.
	TermPatterns []string

	// DomainPatterns additionally require ANY match on content or source.
	DomainPatterns []string

	// RequireCertificateMark restricts results to chunks carrying CAT
	// wording (certificate title or the CAT abbreviation).
	RequireCertificateMark bool

	// Limit caps the number of returned chunks.
	Limit int
}

// CertificateStore persists whole certificates.
type CertificateStore interface {
	// UpsertCertificate inserts or replaces a certificate, keyed by
	// (TenantID, SourceID).
	UpsertCertificate(ctx context.Context, cert domain.Certificate) error

	// FindCertificates returns certificates matching the query.
	FindCertificates(ctx context.Context, q CertificateQuery) ([]domain.Certificate, error)

	// GetCertificate returns one certificate by source id.
	// Returns domain.ErrNotFound when absent.
	GetCertificate(ctx context.Context, tenantID, sourceID string) (domain.Certificate, error)

	// ListCertificates returns all certificates for a tenant.
	ListCertificates(ctx context.Context, tenantID string) ([]domain.Certificate, error)

	// DeleteCertificate removes a certificate and its chunks.
	DeleteCertificate(ctx context.Context, tenantID, sourceID string) error

	// CountCertificates returns the number of stored certificates.
	CountCertificates(ctx context.Context, tenantID string) (int, error)
}

// ChunkStore persists the chunked representation of certificates.
type ChunkStore interface {
	// ReplaceChunks atomically swaps all chunks of a source.
	ReplaceChunks(ctx context.Context, tenantID, sourceID string, chunks []domain.Chunk) error

	// FindChunks returns chunks matching the query.
	FindChunks(ctx context.Context, q ChunkQuery) ([]domain.Chunk, error)

	// CountChunks returns the number of stored chunks for a tenant.
	CountChunks(ctx context.Context, tenantID string) (int, error)
}
