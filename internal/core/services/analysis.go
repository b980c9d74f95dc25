package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/analista-digital/licita-cli/internal/core/domain"
	"github.com/analista-digital/licita-cli/internal/core/ports/driving"
	"github.com/analista-digital/licita-cli/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.TenderAnalyzer = (*AnalysisService)(nil)

const (
	// analysisMatchLimit is how many certificates the retrieval stage is
	// asked for during a full analysis.
	analysisMatchLimit = 8

	// minAlignScore is the alignment score a certificate needs for the
	// tender to count as domain-aligned.
	minAlignScore = 5.0

	// rankedFloor keeps near-misses in the report so the reader sees what
	// almost qualified.
	rankedFloor = minAlignScore - 2

	// topCertificates is how many ranked certificates decide alignment and
	// back the quick technical verdicts.
	topCertificates = 2
)

var (
	// excludedReqRx drops platform-access chores the model tends to
	// extract as requirements. They say nothing about viability.
	excludedReqRx = regexp.MustCompile(`(?i)credenciamento\s+(?:no|na|junto)|chave\s+e\s+senha|licitanet|comprasnet|\bbll\b|enviar\s+(?:a\s+)?proposta`)

	// quickTechRx marks capacity requirements that the ranked certificates
	// answer directly, with no per-requirement model round-trip.
	quickTechRx = regexp.MustCompile(`(?i)\b(cat(?:s)?|experi[êe]ncia|acervo|atestado(?:s)?|capacita[çc][aã]o\s+t[ée]cnica)\b`)
)

// AnalysisService orchestrates the full viability analysis: header parsing,
// certificate retrieval and ranking, requirement extraction and evaluation,
// and the weighted recommendation.
type AnalysisService struct {
	matcher      driving.CertificateMatcher
	requirements *RequirementService
	evidence     *EvidenceService
}

// NewAnalysisService creates the analysis orchestrator. The matcher is
// required; requirement and evidence services degrade gracefully when their
// AI collaborators are absent.
func NewAnalysisService(
	matcher driving.CertificateMatcher,
	requirements *RequirementService,
	evidence *EvidenceService,
) *AnalysisService {
	return &AnalysisService{
		matcher:      matcher,
		requirements: requirements,
		evidence:     evidence,
	}
}

// Analyze runs one viability analysis.
func (s *AnalysisService) Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisReport, error) {
	var report domain.AnalysisReport

	if strings.TrimSpace(req.TenderText) == "" {
		return report, fmt.Errorf("%w: tender text is empty", domain.ErrInvalidInput)
	}

	logger.Section("Tender Analysis")
	report.Header = ParseTenderHeader(req.TenderText)
	objectText := report.Header.Object
	if objectText == "" {
		objectText = req.TenderText
	}
	logger.Debug("Object: %q", report.Header.Object)

	limit := req.Limit
	if limit <= 0 {
		limit = analysisMatchLimit
	}
	matches, err := s.matcher.FindMatches(ctx, objectText, req.LocalFiles, limit, domain.MatchOptions{TenantID: req.TenantID})
	if err != nil {
		return report, fmt.Errorf("certificate retrieval: %w", err)
	}

	ranked := s.rankForAlignment(matches, objectText, req.LotText)
	report.Certificates = ranked
	report.DomainAligned = isDomainAligned(ranked)
	logger.Info("Ranked %d certificates, domain aligned: %v", len(ranked), report.DomainAligned)

	reqs, err := s.extractRequirements(ctx, req.TenderText)
	if err != nil {
		return report, err
	}

	report.Outcomes = s.evaluateRequirements(ctx, reqs, ranked, report.DomainAligned, req)

	var tech, admin []domain.RequirementOutcome
	for _, o := range report.Outcomes {
		if o.Kind == domain.RequirementAdministrative {
			admin = append(admin, o)
		} else {
			tech = append(tech, o)
		}
	}
	report.Recommendation = BuildRecommendation(Summarize(tech), Summarize(admin), report.DomainAligned)

	report.Suggestion = SuggestBestProfessional(ranked, objectText)

	capabilityQuery := objectText
	if len(reqs) > 0 {
		capabilityQuery += "\n" + strings.Join(reqs, "\n")
	}
	report.CapabilityNotes = CapabilityNotes(capabilityQuery, ranked, topCertificates)

	if s.evidence != nil {
		analyses := make([]string, 0, len(report.Outcomes))
		for _, o := range report.Outcomes {
			analyses = append(analyses, o.Justification)
		}
		summary, err := s.evidence.ExecutiveSummary(ctx, analyses, objectText)
		if err != nil {
			logger.Warn("Executive summary failed: %v", err)
		} else {
			report.ExecutiveSummary = summary
		}
	}

	report.GeneratedAt = time.Now()
	return report, nil
}

// rankForAlignment re-scores the retrieved certificates against the tender
// object and lot, keeping everything above the near-miss floor.
func (s *AnalysisService) rankForAlignment(matches []domain.RankedCertificate, objectText, lotText string) []domain.RankedCertificate {
	certs := make([]domain.Certificate, 0, len(matches))
	for _, m := range matches {
		certs = append(certs, m.Certificate)
	}
	ranked := RankCertificates(certs, objectText, lotText)
	ranked = UniqueCertificates(ranked)

	kept := ranked[:0]
	for _, r := range ranked {
		if r.Score >= rankedFloor {
			kept = append(kept, r)
		}
	}
	return kept
}

// isDomainAligned reports whether any top certificate clears the alignment
// threshold.
func isDomainAligned(ranked []domain.RankedCertificate) bool {
	top := ranked
	if len(top) > topCertificates {
		top = top[:topCertificates]
	}
	for _, r := range top {
		if r.Score >= minAlignScore {
			return true
		}
	}
	return false
}

// extractRequirements pulls the eligibility clauses out of the tender and
// drops platform-access chores. A missing completion service is not an
// error: the analysis proceeds on certificates alone.
func (s *AnalysisService) extractRequirements(ctx context.Context, tenderText string) ([]string, error) {
	if s.requirements == nil {
		return nil, nil
	}
	reqs, err := s.requirements.ExtractRequirements(ctx, tenderText)
	if errors.Is(err, domain.ErrLLMUnavailable) {
		logger.Info("No completion service configured, skipping requirement extraction")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	kept := reqs[:0]
	for _, r := range reqs {
		if excludedReqRx.MatchString(r) {
			logger.Debug("Excluded platform requirement: %q", r)
			continue
		}
		kept = append(kept, r)
	}
	return kept, nil
}

// evaluateRequirements produces one outcome per requirement.
// Administrative clauses are checked against the company profile.
// Capacity clauses answered by the ranked certificates are settled
// deterministically; everything else goes through evidence search and the
// model analyst.
func (s *AnalysisService) evaluateRequirements(
	ctx context.Context,
	reqs []string,
	ranked []domain.RankedCertificate,
	domainAligned bool,
	req domain.AnalysisRequest,
) []domain.RequirementOutcome {
	top := ranked
	if len(top) > topCertificates {
		top = top[:topCertificates]
	}

	out := make([]domain.RequirementOutcome, 0, len(reqs))
	for _, r := range reqs {
		switch ClassifyRequirement(r) {
		case domain.RequirementAdministrative:
			out = append(out, EvaluateAdminRequirement(r, req.Profile))
		default:
			if quickTechRx.MatchString(r) && len(top) > 0 {
				out = append(out, quickTechOutcome(r, top, domainAligned))
				continue
			}
			out = append(out, s.analyzedOutcome(ctx, r, req))
		}
	}
	return out
}

// quickTechOutcome settles a capacity requirement from the ranked
// certificates alone: full when the tender is domain-aligned, partial when
// the certificates exist but sit outside the tender's domain.
func quickTechOutcome(requirement string, top []domain.RankedCertificate, domainAligned bool) domain.RequirementOutcome {
	var b strings.Builder
	if domainAligned {
		b.WriteString("**ATENDIDO** — acervo técnico compatível com o objeto:\n")
	} else {
		b.WriteString("**ATENDIDO PARCIALMENTE** — acervo técnico existente, porém de alinhamento limitado com o objeto:\n")
	}
	for _, c := range top {
		b.WriteString(fmt.Sprintf("- CAT %s (%d) — %s\n", orUnknown(c.CertificateNumber), c.Year, orUnknown(c.FileName)))
	}

	status := domain.OutcomePartial
	if domainAligned {
		status = domain.OutcomeOK
	}
	return domain.RequirementOutcome{
		Requirement:   requirement,
		Kind:          domain.RequirementTechnical,
		Status:        status,
		Justification: strings.TrimRight(b.String(), "\n"),
	}
}

// analyzedOutcome runs evidence search plus the model analyst for one
// technical requirement. Without a model the verdict degrades to partial
// instead of failing the whole analysis.
func (s *AnalysisService) analyzedOutcome(ctx context.Context, requirement string, req domain.AnalysisRequest) domain.RequirementOutcome {
	degraded := domain.RequirementOutcome{
		Requirement:   requirement,
		Kind:          domain.RequirementTechnical,
		Status:        domain.OutcomePartial,
		Justification: "**ATENDIDO PARCIALMENTE** — análise automática indisponível para este requisito.",
	}
	if s.evidence == nil {
		return degraded
	}

	hits := s.evidence.FindEvidence(ctx, requirement, req.LocalFiles, req.TenantID)
	outcome, err := s.evidence.AnalyzeRequirement(ctx, requirement, hits)
	if err != nil {
		logger.Warn("Requirement analysis degraded for %q: %v", requirement, err)
		return degraded
	}
	if outcome.Status == "" {
		outcome.Status = domain.OutcomePartial
	}
	return outcome
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "não identificado"
	}
	return s
}
