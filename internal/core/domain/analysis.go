package domain

import "time"

// TenderHeader holds the structured fields parsed from the opening pages
// of a tender document. Any field may be empty.
type TenderHeader struct {
	// Agency is the contracting body ("órgão licitante").
	Agency string

	// Modality is the procurement modality (e.g. "concorrência eletrônica").
	Modality string

	// Type is the judgment criterion ("menor preço", "técnica e preço").
	Type string

	// Object is the free-text description of what the bid procures.
	Object string

	// BudgetValue is the expense classification and estimated value.
	BudgetValue string

	// ExecutionTerm is the contract execution term, as written.
	ExecutionTerm string

	// ProposalDeadline is the proposal submission deadline, as written.
	ProposalDeadline string
}

// AnalysisRequest describes one viability analysis run.
type AnalysisRequest struct {
	// TenantID scopes store queries to one company. Required whenever a
	// persistent store is configured.
	TenantID string

	// TenderText is the extracted text of the main tender document.
	TenderText string

	// LotText is the text of the lot under analysis, when the tender is
	// split into lots scored separately.
	LotText string

	// LocalFiles are the uploaded annexes, searched in memory only.
	LocalFiles []LocalFile

	// Profile is the company's compliance self-declaration, used for the
	// administrative requirement checklist.
	Profile CompanyProfile

	// Limit caps the number of certificates retrieved per query.
	// Zero selects the default.
	Limit int
}

// AnalysisReport is the structured result of one analysis run.
// Rendering (Markdown/PDF) is a collaborator concern.
type AnalysisReport struct {
	Header TenderHeader

	// Certificates are the ranked, deduplicated, domain-filtered matches.
	Certificates []RankedCertificate

	// DomainAligned reports whether at least one top certificate scored
	// above the alignment threshold for the tender's object.
	DomainAligned bool

	// Suggestion is the best-fit responsible professional, when found.
	Suggestion *ProfessionalSuggestion

	// CapabilityNotes compare requirement capacity figures (kVA, kV, TR,
	// addressable alarm) against the suggested certificate.
	CapabilityNotes []string

	// Outcomes are the per-requirement verdicts in extraction order.
	Outcomes []RequirementOutcome

	// Recommendation is the weighted viability verdict.
	Recommendation Recommendation

	// ExecutiveSummary is a model-written digest of the detailed
	// analyses. Empty when no completion service is configured.
	ExecutiveSummary string

	GeneratedAt time.Time
}

// CompanyProfile carries the tenant's self-declared compliance checklist,
// used to evaluate administrative requirements deterministically.
type CompanyProfile struct {
	Name      string
	Checklist ComplianceChecklist
}

// ComplianceChecklist is the flat set of administrative compliance flags.
// Each flag answers "does the company currently hold this document/status".
type ComplianceChecklist struct {
	CNPJActive               bool
	CorporateCharter         bool
	PowerOfAttorney          bool
	RepresentativeAccredited bool
	FGTSRegular              bool
	SocialSecurityRegular    bool
	TaxRegular               bool
	BalanceSheet             bool
	BankruptcyCertificate    bool
	FinancialQualification   bool
	SmallBusinessFramework   bool
	SimplesNacional          bool
	IndependentProposal      bool
	NoImpedingFact           bool
	BidGuarantee             bool
	ContractGuarantee        bool
	Insurance                bool
	SiteVisit                bool
	CapacityAttestations     bool
	LicenseMarks             bool
	CouncilRegistration      bool
	ResponsibleProfessional  bool
}
