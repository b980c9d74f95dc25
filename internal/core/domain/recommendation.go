package domain

// RecommendationLabel is the participation verdict for a tender.
type RecommendationLabel string

// Recommendation labels, from best to worst.
const (
	// RecommendationParticipate: the evidence supports participating.
	RecommendationParticipate RecommendationLabel = "PARTICIPAÇÃO RECOMENDADA"

	// RecommendationConditional: participation is possible if the
	// identified gaps are remediated before the deadline.
	RecommendationConditional RecommendationLabel = "PARTICIPAÇÃO POSSÍVEL (CONDICIONADA)"

	// RecommendationAvoid: participation is not recommended.
	RecommendationAvoid RecommendationLabel = "PARTICIPAÇÃO NÃO RECOMENDADA"
)

// Recommendation is the weighted viability verdict.
type Recommendation struct {
	// Label is the participation verdict.
	Label RecommendationLabel

	// GlobalScore is the weighted combination of the technical and
	// administrative bucket scores, in [0,1].
	GlobalScore float64

	// Technical and Administrative are the per-bucket summaries the
	// global score was derived from.
	Technical      BucketSummary
	Administrative BucketSummary
}
