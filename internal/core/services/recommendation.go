package services

import (
	"regexp"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

// Verdict aggregation: bucket scores, the technical floor for aligned
// certificates, and the weighted participation recommendation.
const (
	technicalWeight      = 0.60
	administrativeWeight = 0.40

	// alignedTechFloor is the minimum technical score granted when the
	// company holds at least one domain-aligned certificate. A single
	// misread requirement must not sink an otherwise qualified bid.
	alignedTechFloor = 0.70

	recommendThreshold   = 0.75
	conditionalThreshold = 0.55
)

var (
	statusNoneRx    = regexp.MustCompile(`(?i)\bn[aã]o\s+atendido\b`)
	statusPartialRx = regexp.MustCompile(`(?i)atendido\s+parcialmente`)
	statusOKRx      = regexp.MustCompile(`(?i)\batendido\b`)
)

// StatusFromText reads the verdict out of a free-text justification.
// Negation is checked first so "não atendido" never reads as "atendido".
// Returns "" when the text carries no verdict at all.
func StatusFromText(text string) domain.OutcomeStatus {
	switch {
	case statusNoneRx.MatchString(text):
		return domain.OutcomeNone
	case statusPartialRx.MatchString(text):
		return domain.OutcomePartial
	case statusOKRx.MatchString(text):
		return domain.OutcomeOK
	default:
		return ""
	}
}

// Summarize aggregates outcomes of one bucket. Outcomes whose status is
// empty are skipped and do not count toward the total.
func Summarize(outcomes []domain.RequirementOutcome) domain.BucketSummary {
	var s domain.BucketSummary
	for _, o := range outcomes {
		switch o.Status {
		case domain.OutcomeOK:
			s.OK++
		case domain.OutcomePartial:
			s.Partial++
		case domain.OutcomeNone:
			s.None++
		default:
			continue
		}
		s.Total++
	}
	if s.Total > 0 {
		s.Score = (float64(s.OK) + 0.5*float64(s.Partial)) / float64(s.Total)
	}
	return s
}

// BuildRecommendation combines the bucket summaries into the final
// weighted verdict.
//
// Two adjustments apply before weighting. With zero evaluated technical
// requirements, a synthetic single-item bucket is scored 1 or 0 from
// certificate alignment alone, so the global score never silently treats
// "nothing evaluated" as "nothing required". And when an aligned
// certificate exists, the technical score is floored at 0.70.
func BuildRecommendation(tech, admin domain.BucketSummary, hasAlignedCertificate bool) domain.Recommendation {
	if tech.Total == 0 {
		tech = domain.BucketSummary{Total: 1}
		if hasAlignedCertificate {
			tech.OK = 1
			tech.Score = 1
		} else {
			tech.None = 1
		}
	} else if hasAlignedCertificate && tech.Score < alignedTechFloor {
		tech.Score = alignedTechFloor
	}

	global := technicalWeight*tech.Score + administrativeWeight*admin.Score

	label := domain.RecommendationAvoid
	switch {
	case global >= recommendThreshold:
		label = domain.RecommendationParticipate
	case global >= conditionalThreshold:
		label = domain.RecommendationConditional
	}

	return domain.Recommendation{
		Label:          label,
		GlobalScore:    global,
		Technical:      tech,
		Administrative: admin,
	}
}
