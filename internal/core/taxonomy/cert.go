package taxonomy

import "regexp"

// Fingerprints for recognising technical-capacity certificates (CATs)
// among arbitrary uploaded files.
var (
	catNameRx         = regexp.MustCompile(`(?i)cat|certid[aã]o.*acervo|acervo.*t[ée]cnico`)
	tenderNameRx      = regexp.MustCompile(`(?i)edital`)
	catTitleRx        = regexp.MustCompile(`(?i)Certid[aã]o de Acervo T[ée]cnico`)
	catNumberedRx     = regexp.MustCompile(`(?i)CAT\s*[NºNo\.:\- ]+\s*\d{3,}`)
	licenseMarkRx     = regexp.MustCompile(`(?i)\bART\b|Anota[cç][aã]o de Responsabilidade T[ée]cnica`)
	councilMarkRx     = regexp.MustCompile(`(?i)\bCREA\b|\bCAU\b`)
	maintenanceRx     = regexp.MustCompile(`(?i)manuten[cç][aã]o|preventiva|corretiva|predial`)
	constructionRx    = regexp.MustCompile(`(?i)\bobras?\b|edifica[cç][aã]o|constru[cç][aã]o`)
	completionMarkRx  = regexp.MustCompile(`(?i)\batividade conclu[ií]da|obra conclu[ií]da|conclu[ií]d[ao]\b`)
	inProgressMarkRx  = regexp.MustCompile(`(?i)em\s+andamento|em\s+execu[çc][aã]o`)
	electricalTitleRx = regexp.MustCompile(`(?i)eletric`)
)

// LooksLikeCertificateName reports whether a file name suggests a CAT.
// Tender documents ("edital") are excluded even when they mention CATs.
func LooksLikeCertificateName(name string) bool {
	return catNameRx.MatchString(name) && !tenderNameRx.MatchString(name)
}

// HasCertificateFingerprint reports whether the body text carries the
// strong CAT fingerprint: the certificate title plus a numbered CAT mark.
// Either signal alone is too weak; tender bodies quote both terms loosely.
func HasCertificateFingerprint(text string) bool {
	return catTitleRx.MatchString(text) && catNumberedRx.MatchString(text)
}

// HasLicenseMark reports an ART (technical responsibility record) mention.
func HasLicenseMark(text string) bool { return licenseMarkRx.MatchString(text) }

// HasCouncilMark reports a CREA (engineering council) mention.
func HasCouncilMark(text string) bool { return councilMarkRx.MatchString(text) }

// MentionsMaintenance reports maintenance-activity wording.
func MentionsMaintenance(text string) bool { return maintenanceRx.MatchString(text) }

// MentionsConstruction reports construction-work wording.
func MentionsConstruction(text string) bool { return constructionRx.MatchString(text) }

// MentionsCompletion reports concluded-activity wording.
func MentionsCompletion(text string) bool { return completionMarkRx.MatchString(text) }

// MentionsInProgress reports in-progress wording.
func MentionsInProgress(text string) bool { return inProgressMarkRx.MatchString(text) }

// IsElectricalTitle reports whether a professional title reads electrical
// ("engenheiro eletricista" and variants).
func IsElectricalTitle(title string) bool { return electricalTitleRx.MatchString(title) }
