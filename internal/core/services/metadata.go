package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/analista-digital/licita-cli/internal/core/domain"
	"github.com/analista-digital/licita-cli/internal/core/taxonomy"
)

// Certificate metadata extraction. Everything here is regex-driven and
// deterministic; the same bytes always produce the same metadata.

var (
	wsRx = regexp.MustCompile(`\s+`)

	certNumBodyRx = regexp.MustCompile(`(?i)CAT\s*[NºNo\.:\- ]+\s*([0-9\-/\.]+)`)
	certNumNameRx = regexp.MustCompile(`(?i)cat\s*(?:n[ºo]\s*)?[\-:\s]*(\d{2,}/?\d{0,4})`)

	agencyBodyRx = regexp.MustCompile(`(?i)\b(PM de [A-ZÁ-Ú][\w\s\-]+|UFAL|CELPE|CHESF|SEINFRA|SINFRA|PMJP|UFRPE|SEDUC|COMPESA|CAGEPA|PM\w+)\b`)
	agencyNameRx = regexp.MustCompile(`(?i)\b(CELPE|CHESF|PM\s+DE\s+[A-ZÇÃÕ ]+|PREFEITURA\s+DE\s+[A-ZÇÃÕ ]+|CREA-?[A-Z]{2})\b`)

	yearRx = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

	// Label-to-label captures: extraction runs over whitespace-collapsed
	// text, so the end of a field is the next known label, not a newline.
	professionalStrictRx = regexp.MustCompile(`(?i)Profissional\s*:\s*(.+?)\s+(?:Registro|RNP|T[íi]tulo)`)
	professionalLooseRx  = regexp.MustCompile(`(?i)Profissional:\s*(.+?)(?:\s+(?:Registro|RNP|T[íi]tulo|CREA|Contratante|Empresa)\b|$)`)
	titleRx              = regexp.MustCompile(`(?i)T[íi]tulo profissional\s*:\s*(.+?)(?:\s+(?:Registro|RNP|CREA|Contratante|Empresa|Endere[çc]o|Atividade)\b|$)`)

	completedRx  = regexp.MustCompile(`(?i)atividade\s+conclu[ií]da`)
	inProgressRx = regexp.MustCompile(`(?i)atividade\s+em\s+andamento`)

	scopeRx = regexp.MustCompile(`(?i)(?:OBJETO|OBJETIVO|DESCRI[ÇC][AÃ]O(?: DA OBRA OU SERVI[ÇC]O)?|ATIVIDADE T[ÉE]CNICA|OBSERVA[ÇC][AÃ]O(?:ES)?)\s*[:\-]\s*([\s\S]{0,400}?)(?:\.\s|;|\n|$)`)
)

// fileHints is the metadata recoverable from a file name alone.
type fileHints struct {
	CertNum string
	Year    int
	Agency  string
	Domains []taxonomy.Domain
}

// parseFilenameHints extracts certificate number, year, issuing body and
// domain hints from a file name. Operators encode a lot into names
// ("CAT 4521-2019 CELPE subestação.pdf"); scoring leans on these when the
// body text is OCR noise.
func parseFilenameHints(fileName string) fileHints {
	var h fileHints
	if m := certNumNameRx.FindStringSubmatch(strings.ToLower(fileName)); m != nil {
		h.CertNum = m[1]
	}
	if m := yearRx.FindStringSubmatch(fileName); m != nil {
		h.Year, _ = strconv.Atoi(m[1])
	}
	if m := agencyNameRx.FindStringSubmatch(fileName); m != nil {
		h.Agency = strings.TrimSpace(m[0])
	}
	h.Domains = taxonomy.FilenameDomains(fileName)
	return h
}

// PlausibleYear returns the most recent plausible year cited in the text:
// a four-digit year within [1990, current year + 1]. Legal citations drag
// old years into certificates ("Lei 5.194 de 1966"); taking the maximum of
// the plausible range sidesteps them. Returns 0 when nothing qualifies.
func PlausibleYear(text string) int {
	max := 0
	ceiling := time.Now().Year() + 1
	for _, m := range yearRx.FindAllStringSubmatch(text, -1) {
		y, _ := strconv.Atoi(m[1])
		if y >= 1990 && y <= ceiling && y > max {
			max = y
		}
	}
	return max
}

// ExtractCertificate builds a certificate record from a source name and its
// extracted text. Fields it cannot find stay zero; callers fill tenant and
// manager from the directory layout.
func ExtractCertificate(sourceID, fileName, text string) domain.Certificate {
	t := strings.TrimSpace(wsRx.ReplaceAllString(text, " "))
	hints := parseFilenameHints(fileName)

	cert := domain.Certificate{
		SourceID: sourceID,
		FileName: fileName,
		RawText:  t,
	}

	if m := certNumBodyRx.FindStringSubmatch(t); m != nil {
		cert.CertificateNumber = m[1]
	} else {
		cert.CertificateNumber = hints.CertNum
	}

	if m := agencyBodyRx.FindStringSubmatch(t); m != nil {
		cert.IssuingBody = strings.TrimSpace(m[0])
	} else {
		cert.IssuingBody = hints.Agency
	}

	if y := PlausibleYear(t); y > 0 {
		cert.Year = y
	} else {
		cert.Year = hints.Year
	}

	cert.HasLicenseMark = taxonomy.HasLicenseMark(t)
	cert.HasCouncilRegistration = taxonomy.HasCouncilMark(t)
	cert.MentionsConstruction = taxonomy.MentionsConstruction(t)
	cert.MentionsMaintenance = taxonomy.MentionsMaintenance(t)

	if m := professionalStrictRx.FindStringSubmatch(t); m != nil {
		cert.ProfessionalName = strings.TrimSpace(m[1])
	} else if m := professionalLooseRx.FindStringSubmatch(t); m != nil {
		cert.ProfessionalName = strings.TrimSpace(m[1])
	}
	if m := titleRx.FindStringSubmatch(t); m != nil {
		cert.ProfessionalTitle = strings.TrimSpace(m[1])
	}

	switch {
	case completedRx.MatchString(t):
		cert.Completion = domain.CompletionCompleted
	case inProgressRx.MatchString(t):
		cert.Completion = domain.CompletionInProgress
	default:
		cert.Completion = domain.CompletionUnknown
	}

	cert.ScopeSummary = extractScope(t)

	seen := make(map[string]bool)
	for _, dom := range taxonomy.Signatures(t) {
		if !seen[string(dom)] {
			seen[string(dom)] = true
			cert.DomainTags = append(cert.DomainTags, string(dom))
		}
	}
	for _, dom := range hints.Domains {
		if !seen[string(dom)] {
			seen[string(dom)] = true
			cert.DomainTags = append(cert.DomainTags, string(dom))
		}
	}

	return cert
}

// extractScope pulls the object/activity block out of the body, falling
// back to a truncated opening snippet.
func extractScope(t string) string {
	if m := scopeRx.FindStringSubmatch(t); m != nil {
		if s := strings.TrimSpace(m[1]); s != "" {
			return s
		}
	}
	const snippet = 300
	runes := []rune(t)
	if len(runes) <= snippet {
		return strings.TrimSpace(t)
	}
	return strings.TrimSpace(string(runes[:snippet])) + "..."
}
