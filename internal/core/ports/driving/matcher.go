package driving

import (
	"context"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

// CertificateMatcher retrieves and ranks technical-capacity certificates
// against a tender object.
type CertificateMatcher interface {
	// FindMatches runs hybrid retrieval for the tender object text,
	// searching the configured stores plus the given in-memory files, and
	// returns ranked, deduplicated certificates.
	FindMatches(ctx context.Context, objectText string, localFiles []domain.LocalFile, limit int, opts domain.MatchOptions) ([]domain.RankedCertificate, error)
}
