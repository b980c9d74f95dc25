package domain

// RequirementKind labels an eligibility clause as technical or administrative.
type RequirementKind string

// Requirement kinds.
const (
	RequirementTechnical      RequirementKind = "TECH"
	RequirementAdministrative RequirementKind = "ADMIN"
)

// OutcomeStatus is the verdict for one evaluated requirement.
type OutcomeStatus string

// Outcome statuses.
const (
	OutcomeOK      OutcomeStatus = "ok"
	OutcomePartial OutcomeStatus = "partial"
	OutcomeNone    OutcomeStatus = "none"
)

// RequirementOutcome is the result of evaluating one requirement against
// the evidence corpus. Outcomes live only for the duration of one analysis.
type RequirementOutcome struct {
	// Requirement is the atomic eligibility clause, as extracted.
	Requirement string

	// Kind is the classification of the requirement.
	Kind RequirementKind

	// Status is the verdict.
	Status OutcomeStatus

	// Justification is the free-text rationale shown in the report.
	Justification string
}

// BucketSummary aggregates outcomes of one kind (technical or administrative).
type BucketSummary struct {
	OK      int
	Partial int
	None    int
	Total   int

	// Score is (OK + 0.5*Partial) / Total, or 0 when Total is 0.
	Score float64
}

// RankedCertificate pairs a certificate with its alignment score for one
// specific object-text query. Recomputed per analysis, never persisted.
type RankedCertificate struct {
	Certificate

	Score float64
}

// ProfessionalSuggestion is the best-fit responsible professional (RT)
// derived from the ranked certificates.
type ProfessionalSuggestion struct {
	// Name is the professional's name, when known.
	Name string

	// CertificateNumber is the supporting CAT number.
	CertificateNumber string

	// Year is the supporting certificate's year.
	Year int

	// IssuingBody is the supporting certificate's issuer.
	IssuingBody string

	// Scope is the supporting certificate's scope summary.
	Scope string

	// SourceFile is the file the suggestion was derived from.
	SourceFile string
}

// EvidenceHit is a scored text fragment found for one requirement.
type EvidenceHit struct {
	// SourceID identifies the file or chunk source.
	SourceID string

	// Content is the matched text.
	Content string

	// Score is the similarity score used for ranking.
	Score float64
}
