package services

import (
	"fmt"
	"regexp"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

// Administrative requirements are evaluated against the company's
// self-declared compliance checklist. No model is involved: the same
// requirement and checklist always produce the same verdict.

type adminRule struct {
	rx   *regexp.Regexp
	flag func(domain.ComplianceChecklist) bool
}

// adminRules map requirement wording to checklist flags. Order matters:
// the first matching rule decides.
var adminRules = []adminRule{
	{regexp.MustCompile(`(?i)cnpj`), func(c domain.ComplianceChecklist) bool { return c.CNPJActive }},
	{regexp.MustCompile(`(?i)contrato\s+social|estatuto`), func(c domain.ComplianceChecklist) bool { return c.CorporateCharter }},
	{regexp.MustCompile(`(?i)procur[aã]o`), func(c domain.ComplianceChecklist) bool { return c.PowerOfAttorney }},
	{regexp.MustCompile(`(?i)preposto|credenciamento`), func(c domain.ComplianceChecklist) bool { return c.RepresentativeAccredited }},
	{regexp.MustCompile(`(?i)fgts|crf`), func(c domain.ComplianceChecklist) bool { return c.FGTSRegular }},
	{regexp.MustCompile(`(?i)inss|previd[eê]ncia`), func(c domain.ComplianceChecklist) bool { return c.SocialSecurityRegular }},
	{regexp.MustCompile(`(?i)fazenda|pgfn|receita|d[ií]vida\s+ativa|regularidade\s+(federal|estadual|municipal)|icms|iss|cndt`), func(c domain.ComplianceChecklist) bool { return c.TaxRegular }},
	{regexp.MustCompile(`(?i)balan[çc]o|demonstra[cç][oõ]es?\s+cont[aá]beis`), func(c domain.ComplianceChecklist) bool { return c.BalanceSheet }},
	{regexp.MustCompile(`(?i)fal[eê]ncia|recupera[cç][aã]o\s+judicial`), func(c domain.ComplianceChecklist) bool { return c.BankruptcyCertificate }},
	{regexp.MustCompile(`(?i)capacidade\s+financeira|qualifica[cç][aã]o\s+econ[oô]mico`), func(c domain.ComplianceChecklist) bool { return c.FinancialQualification }},
	{regexp.MustCompile(`(?i)me/epp|microempresa|empresa\s+de\s+pequeno\s+porte`), func(c domain.ComplianceChecklist) bool { return c.SmallBusinessFramework }},
	{regexp.MustCompile(`(?i)simples\s+nacional`), func(c domain.ComplianceChecklist) bool { return c.SimplesNacional }},
	{regexp.MustCompile(`(?i)proposta\s+independente`), func(c domain.ComplianceChecklist) bool { return c.IndependentProposal }},
	{regexp.MustCompile(`(?i)fato\s+impeditivo|inexist[eê]ncia\s+de\s+fato`), func(c domain.ComplianceChecklist) bool { return c.NoImpedingFact }},
	{regexp.MustCompile(`(?i)garantia\s+de\s+proposta`), func(c domain.ComplianceChecklist) bool { return c.BidGuarantee }},
	{regexp.MustCompile(`(?i)garantia\s+contratual`), func(c domain.ComplianceChecklist) bool { return c.ContractGuarantee }},
	{regexp.MustCompile(`(?i)seguros?`), func(c domain.ComplianceChecklist) bool { return c.Insurance }},
	{regexp.MustCompile(`(?i)vistoria\s+t[eé]cnica`), func(c domain.ComplianceChecklist) bool { return c.SiteVisit }},
	{regexp.MustCompile(`(?i)atestado(?:s)?\s+de?\s+capacidade`), func(c domain.ComplianceChecklist) bool { return c.CapacityAttestations }},
	{regexp.MustCompile(`(?i)\b(cat|art|rrt)\b`), func(c domain.ComplianceChecklist) bool { return c.LicenseMarks }},
	{regexp.MustCompile(`(?i)registro\s+no?\s+conselho|crea|cau|crbio|crq`), func(c domain.ComplianceChecklist) bool { return c.CouncilRegistration }},
	{regexp.MustCompile(`(?i)respons[aá]vel\s+t[eé]cnico`), func(c domain.ComplianceChecklist) bool { return c.ResponsibleProfessional }},
}

// EvaluateAdminRequirement checks one administrative requirement against
// the company checklist. Requirements no rule recognises come back partial:
// an unmapped item is a gap in the checklist, not proof of non-compliance.
func EvaluateAdminRequirement(requirement string, profile domain.CompanyProfile) domain.RequirementOutcome {
	out := domain.RequirementOutcome{
		Requirement: requirement,
		Kind:        domain.RequirementAdministrative,
	}

	for _, rule := range adminRules {
		if !rule.rx.MatchString(requirement) {
			continue
		}
		if rule.flag(profile.Checklist) {
			out.Status = domain.OutcomeOK
			out.Justification = fmt.Sprintf("Requisito: %s\n\n**ATENDIDO** — Avaliado com base no checklist de compliance da empresa.", requirement)
		} else {
			out.Status = domain.OutcomeNone
			out.Justification = fmt.Sprintf("Requisito: %s\n\n**NÃO ATENDIDO** — Avaliado com base no checklist de compliance da empresa.", requirement)
		}
		return out
	}

	out.Status = domain.OutcomePartial
	out.Justification = fmt.Sprintf("Requisito: %s\n\n**ATENDIDO PARCIALMENTE** — Item administrativo sem mapeamento explícito no checklist.", requirement)
	return out
}
