package services

import (
	"regexp"
	"strings"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

// Tender header parsing. Tenders in this corpus are OCR'd PDFs; every
// field is best-effort and may come back empty.

const maxObjectChars = 300

var (
	agencyHeaderRx    = regexp.MustCompile(`(?i)(?:Órg[ãa]o\s+Licitante|ENTIDADE\s+CONTRATANTE|CONTRATANTE|ÓRG[ÃA]O)[:\s]+(.+)`)
	agencyAltRx       = regexp.MustCompile(`(?i)(?:Cliente|Promotor(?:a)?|Contratante)\s*[:\-]\s*(.+)`)
	modalityRx        = regexp.MustCompile(`(?i)(CONCORR[ÊE]NCIA\s+ELETR[ÔO]NICA[^\n]*)`)
	modalityAltRx     = regexp.MustCompile(`(?i)(Preg[aã]o\s+Eletr[ôo]nico\s*N[ºo]\s*[^\n]+)`)
	modalityLooseRx   = regexp.MustCompile(`(?i)((?:Preg[aã]o|Concorr[êe]ncia|Tomada de Pre[çc]os)[^\n]{0,80})`)
	typeRx            = regexp.MustCompile(`(?i)Tipo\s*[:\-]\s*(.+)`)
	typeJudgmentRx    = regexp.MustCompile(`(?i)TIPO\s*DE\s*JULGAMENTO\s*[:\-]\s*(.+)`)
	typeCriterionRx   = regexp.MustCompile(`(?i)Crit[ée]ri[oa]\s*de\s*Julgamento\s*[:\-]\s*(.+)`)
	executionRx       = regexp.MustCompile(`(?i)Prazo\s+de\s+execu[cç][aã]o[^:\n]*[:\-\s]+(.+)`)
	executionAltRx    = regexp.MustCompile(`(?i)Vig[êe]ncia\s*[:\-]\s*(.+)`)
	budgetClassRx     = regexp.MustCompile(`(?i)Classifica[cç][aã]o\s+de\s+Despesa\s*[:\-\s]+(.+)`)
	budgetValueRx     = regexp.MustCompile(`(?i)(?:Valor\s+Estimado|Valor\s+do\s+Objeto|Or[çc]amento\s+Estimado)[^:\n]*[:\-\s]+(.+)`)
	deadlineRx        = regexp.MustCompile(`(?i)Prazo\s+m[aá]ximo\s+para\s+proposta\s*[:\-\s]+(.+)`)
	deadlineAltRx     = regexp.MustCompile(`(?i)Data\s+limite\s+para\s+propostas\s*[:\-\s]+(.+)`)
	objectBlockRx     = regexp.MustCompile(`(?is)(?:^|\n)\s*(?:DO\s+OBJETO|OBJETO(?:\s+LICITADO)?|CL[ÁA]USULA\s+\d+\s*-\s*OBJETO)\s*[:\-]?\s*\n(.{1,1000}?.{0,200}?)(?:\n\s*(?:CL[ÁA]USULA|ITEM|CAP[ÍI]TULO|SE[ÇC][AÃ]O)\b|$)`)
	objectInlineRx    = regexp.MustCompile(`(?is)Objeto(?:\s+licitado)?\s*[:\-]\s*(.{1,1000}?.{0,200}?)(?:\n{2,}|ITEM|CL[ÁA]USULA|$)`)
	objectLineRx      = regexp.MustCompile(`(?i)objeto`)
	pageNumberLineRx  = regexp.MustCompile(`(?m)^\s*\d+\s*/\s*\d+\s*$`)
	noticeTrailerRx   = regexp.MustCompile(`(?is)AVISO DE LICITA[ÇC][AÃ]O.*$`)
	urlRx             = regexp.MustCompile(`(?i)https?://\S+`)
	multiSpaceRx      = regexp.MustCompile(`\s{2,}`)
)

// firstLine captures group 1 of the first matching pattern, cut at the
// end of its line.
func firstLine(text string, rxs ...*regexp.Regexp) string {
	for _, rx := range rxs {
		if m := rx.FindStringSubmatch(text); m != nil {
			v := m[1]
			if i := strings.IndexByte(v, '\n'); i >= 0 {
				v = v[:i]
			}
			return normalizeField(v)
		}
	}
	return ""
}

// normalizeField cleans one header value and rejects OCR junk.
func normalizeField(v string) string {
	s := strings.TrimSpace(v)
	if s == "" || s == "-" {
		return ""
	}
	lower := strings.ToLower(s)
	if lower == "para" || strings.Contains(lower, "integrante da administração") {
		return ""
	}
	return multiSpaceRx.ReplaceAllString(s, " ")
}

// tidyObject strips OCR pollution out of the object block and caps its
// length.
func tidyObject(s string) string {
	cleaned := pageNumberLineRx.ReplaceAllString(s, "")
	cleaned = noticeTrailerRx.ReplaceAllString(cleaned, "")
	cleaned = urlRx.ReplaceAllString(cleaned, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return ""
	}
	runes := []rune(cleaned)
	if len(runes) > maxObjectChars {
		return string(runes[:maxObjectChars]) + "…"
	}
	return cleaned
}

// extractObject finds the tender object: a labelled block first, an inline
// label next, and as a last resort the first line mentioning "objeto".
// Returned text keeps its line structure so tidyObject can strip per-line
// OCR artifacts.
func extractObject(text string) string {
	if m := objectBlockRx.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := objectInlineRx.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	for _, line := range strings.Split(text, "\n") {
		if objectLineRx.MatchString(line) {
			return line
		}
	}
	return ""
}

// ParseTenderHeader extracts the structured header fields from tender text.
func ParseTenderHeader(text string) domain.TenderHeader {
	budget := make([]string, 0, 2)
	if v := firstLine(text, budgetClassRx); v != "" {
		budget = append(budget, v)
	}
	if v := firstLine(text, budgetValueRx); v != "" {
		budget = append(budget, v)
	}

	return domain.TenderHeader{
		Agency:           firstLine(text, agencyHeaderRx, agencyAltRx),
		Modality:         firstLine(text, modalityRx, modalityAltRx, modalityLooseRx),
		Type:             firstLine(text, typeRx, typeJudgmentRx, typeCriterionRx),
		Object:           tidyObject(extractObject(text)),
		BudgetValue:      strings.Join(budget, " | "),
		ExecutionTerm:    firstLine(text, executionRx, executionAltRx),
		ProposalDeadline: firstLine(text, deadlineRx, deadlineAltRx),
	}
}
