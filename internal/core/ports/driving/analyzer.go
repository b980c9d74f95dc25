package driving

import (
	"context"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

// TenderAnalyzer runs the full viability analysis of a tender.
type TenderAnalyzer interface {
	// Analyze parses the tender, extracts and classifies requirements,
	// matches certificates, and produces the weighted recommendation.
	Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisReport, error)
}
