package services

import (
	"regexp"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

// Requirement classification. Technical wording wins over administrative
// wording: "atestado de capacidade técnica" must land in the technical
// bucket even though "atestado" also shows up in documental sections.
var (
	techReqRx = regexp.MustCompile(`(?i)\b(cat(?:s)?|capacidade\s+t[eé]cnica|capacit[aã]o\s+t[eé]cnica|atestado(?:s)?\s+de?\s+capacidade|acervo\s+t[eé]cnico|experi[êe]ncia(?:\s+t[eé]cnica)?|respons[aá]vel\s+t[eé]cnico|RT)\b`)

	adminReqRx = regexp.MustCompile(`(?i)\b(cnpj|contrato\s+social|estatuto|procur[aã]o|preposto|credenciamento|regularidade\s+(?:federal|estadual|municipal)|receita|pgfn|d[ií]vida\s+ativa|fgts|crf|inss|previd[eê]ncia|fazenda\s+nacional|icms|iss|cndt|balan[çc]o\s+patrimonial|demonstra[cç][oõ]es?\s+cont[aá]beis|certid[aã]o\s+fal[eê]ncia|recupera[cç][aã]o\s+judicial|me/epp|microempresa|empresa\s+de\s+pequeno\s+porte|simples\s+nacional|sicaf|habilita[cç][aã]o|capacidade\s+financeira|qualifica[cç][aã]o\s+econ[oô]mico[-\s]*financeira|declara[cç][oõ]es?|proposta\s+independente|fato\s+impeditivo|garantia\s+de\s+proposta|garantia\s+contratual|seguros?|vistoria\s+t[eé]cnica)\b`)

	// Secondary net for administrative phrasings the main pattern misses.
	adminFallbackRx = regexp.MustCompile(`(?i)certid[aã]o|cnpj|contrato|estatuto|balan[çc]o|regularidade|sicaf|fgts|inss|fazenda|simples|procur[aã]o|preposto|garantia|vistoria`)
)

// ClassifyRequirement sorts one extracted requirement into the technical or
// administrative bucket. Unrecognised requirements default to technical,
// where the evidence pipeline can still say something useful about them.
func ClassifyRequirement(req string) domain.RequirementKind {
	if techReqRx.MatchString(req) {
		return domain.RequirementTechnical
	}
	if adminReqRx.MatchString(req) {
		return domain.RequirementAdministrative
	}
	if adminFallbackRx.MatchString(req) {
		return domain.RequirementAdministrative
	}
	return domain.RequirementTechnical
}
