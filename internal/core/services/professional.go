package services

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/analista-digital/licita-cli/internal/core/domain"
	"github.com/analista-digital/licita-cli/internal/core/taxonomy"
)

// Responsible-professional (RT) suggestion and capacity-figure comparison.

var (
	maintenanceHintRx = regexp.MustCompile(`(?i)manuten[cç][aã]o|predial|edifica`)
	substationHintRx  = regexp.MustCompile(`(?i)subesta[cç][aã]o|kva|disjuntor|transformador`)
	substationBodyRx  = regexp.MustCompile(`(?i)subest|kva|transformador|disjuntor`)
	hvacHintRx        = regexp.MustCompile(`(?i)climatiza[cç][aã]o|chiller|\btr\b|vrf`)
	hvacBodyRx        = regexp.MustCompile(`(?i)climatiza|chiller|\btr\b|vrf`)
	fireHintRx        = regexp.MustCompile(`(?i)inc[êe]ndio|hidrante|sprinkler|sdai|endere[cç]a`)
	fireBodyRx        = fireHintRx
)

// SuggestBestProfessional picks the responsible professional whose
// certificate best fits the tender object. Only certificates with domain
// overlap qualify; among those, domain agreement and contextual keyword
// matches dominate, metadata marks refine, and the certificate year is a
// small tie-breaker. Returns nil when no certificate overlaps.
func SuggestBestProfessional(matches []domain.RankedCertificate, objectHint string) *domain.ProfessionalSuggestion {
	if len(matches) == 0 {
		return nil
	}

	pool := make([]domain.Certificate, 0, len(matches))
	for _, m := range matches {
		if taxonomy.HasDomainOverlap(objectHint, m.RawText, m.FileName) {
			pool = append(pool, m.Certificate)
		}
	}
	if len(pool) == 0 {
		return nil
	}

	objDomains := make(map[taxonomy.Domain]bool)
	for _, dom := range taxonomy.Signatures(objectHint) {
		objDomains[dom] = true
	}

	best := pool[0]
	bestScore := -1.0
	for _, cert := range pool {
		s := suggestionScore(cert, objectHint, objDomains)
		if s > bestScore {
			bestScore = s
			best = cert
		}
	}

	return &domain.ProfessionalSuggestion{
		Name:              professionalName(best),
		CertificateNumber: best.CertificateNumber,
		Year:              certificateYear(best),
		IssuingBody:       best.IssuingBody,
		Scope:             best.ScopeSummary,
		SourceFile:        best.FileName,
	}
}

func suggestionScore(cert domain.Certificate, objectHint string, objDomains map[taxonomy.Domain]bool) float64 {
	var s float64

	for dom := range certDomainSet(cert) {
		if objDomains[dom] {
			s += 2
		}
	}

	if maintenanceHintRx.MatchString(objectHint) {
		if cert.MentionsMaintenance {
			s += 3
		}
		if cert.MentionsConstruction {
			s += 1
		}
	}
	if substationHintRx.MatchString(objectHint) && substationBodyRx.MatchString(cert.RawText) {
		s += 2
	}
	if hvacHintRx.MatchString(objectHint) && hvacBodyRx.MatchString(cert.RawText) {
		s += 2
	}
	if fireHintRx.MatchString(objectHint) && fireBodyRx.MatchString(cert.RawText) {
		s += 2
	}

	if cert.HasLicenseMark {
		s += 2
	}
	if cert.HasCouncilRegistration {
		s += 1
	}

	if taxonomy.IsElectricalTitle(cert.ProfessionalTitle) && substationHintRx.MatchString(objectHint) {
		s += 1
	}

	// Year as a fractional tie-breaker only; it must never beat a
	// whole-point bonus.
	s += float64(certificateYear(cert)) / 1000

	return s
}

// professionalName prefers the parsed name and falls back to the leading
// file-name segment, where operators usually put the professional.
func professionalName(cert domain.Certificate) string {
	if cert.ProfessionalName != "" {
		return cert.ProfessionalName
	}
	name := cert.FileName
	if name == "" {
		name = cert.SourceID
	}
	if i := strings.IndexAny(name, `/\`); i > 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

// Capabilities are the capacity figures cited by tenders in this corpus:
// transformer power (kVA), voltage class (kV), refrigeration tonnage (TR)
// and whether the fire alarm system is addressable.
type Capabilities struct {
	KVA         int
	KV          int
	TR          int
	Addressable bool
}

var (
	kvaRx         = regexp.MustCompile(`(\d{2,5})\s*kva`)
	kvRx          = regexp.MustCompile(`(\d{2,3})\s*kv\b`)
	trRx          = regexp.MustCompile(`(\d{2,5})\s*tr\b`)
	addressableRx = regexp.MustCompile(`endere[cç][aá]vel`)
	conventionRx  = regexp.MustCompile(`convencional`)
)

// ParseCapabilities extracts capacity figures from text. Absent figures
// stay zero.
func ParseCapabilities(text string) Capabilities {
	t := strings.ToLower(text)
	num := func(rx *regexp.Regexp) int {
		if m := rx.FindStringSubmatch(t); m != nil {
			n, _ := strconv.Atoi(m[1])
			return n
		}
		return 0
	}
	return Capabilities{
		KVA:         num(kvaRx),
		KV:          num(kvRx),
		TR:          num(trRx),
		Addressable: addressableRx.MatchString(t),
	}
}

// CompareRequirementWithCertificate compares each capacity figure the
// requirement cites against the certificate, producing one line per
// figure: superior, equal, inferior, or not cited. Figures the requirement
// does not mention produce nothing.
func CompareRequirementWithCertificate(reqText, certText string) []string {
	rq := ParseCapabilities(reqText)
	ct := ParseCapabilities(certText)

	var out []string
	compare := func(req, cat int, unit string) {
		switch {
		case cat == 0:
			out = append(out, fmt.Sprintf("⚠ exige ≥ %d %s e a CAT não cita %s", req, unit, unit))
		case cat > req:
			out = append(out, fmt.Sprintf("✅ **superior**: %d %s > exigido %d %s", cat, unit, req, unit))
		case cat == req:
			out = append(out, fmt.Sprintf("✅ **igual**: %d %s", cat, unit))
		default:
			out = append(out, fmt.Sprintf("❌ **inferior**: %d %s < exigido %d %s", cat, unit, req, unit))
		}
	}

	if rq.KVA > 0 {
		compare(rq.KVA, ct.KVA, "kVA")
	}
	if rq.KV > 0 {
		compare(rq.KV, ct.KV, "kV")
	}
	if rq.TR > 0 {
		compare(rq.TR, ct.TR, "TR")
	}

	if rq.Addressable {
		lower := strings.ToLower(certText)
		switch {
		case addressableRx.MatchString(lower):
			out = append(out, "✅ **igual**: sistema de alarme **endereçável** citado")
		case conventionRx.MatchString(lower):
			out = append(out, "❌ **inferior**: CAT cita sistema **convencional**, edital exige **endereçável**")
		default:
			out = append(out, "⚠ exige **endereçável**, CAT não deixa explícito")
		}
	}

	return out
}

// CapabilityNotes compares the tender object against the top-ranked
// certificates, collecting distinct comparison lines in rank order.
func CapabilityNotes(objectText string, matches []domain.RankedCertificate, topN int) []string {
	if topN <= 0 || topN > len(matches) {
		topN = len(matches)
	}
	seen := make(map[string]bool)
	var notes []string
	ordered := make([]domain.RankedCertificate, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Score > ordered[j].Score })
	for _, m := range ordered[:topN] {
		for _, line := range CompareRequirementWithCertificate(objectText, m.RawText) {
			if !seen[line] {
				seen[line] = true
				notes = append(notes, line)
			}
		}
	}
	return notes
}
