package services

import (
	"sort"
	"strings"

	"github.com/analista-digital/licita-cli/internal/core/domain"
	"github.com/analista-digital/licita-cli/internal/core/taxonomy"
)

// Certificate scoring against a tender object and lot. The weights favour
// domain agreement over everything else: a certificate from the wrong
// discipline must not outrank a weaker one from the right discipline.
const (
	objectDomainBonus   = 8.0
	lotDomainBonus      = 4.0
	intruderPenalty     = 7.0
	licenseBonus        = 2.0
	councilBonus        = 1.0
	maintenanceBonus    = 1.0
	constructionBonus   = 1.0
	titleAffinityBonus  = 1.0
	overlapFallbackCap  = 4.0
	zeroOverlapPenalty  = 5.0
	recencyPivotYear    = 2015
	recencyScaleDivisor = 10.0
)

// certDomainSet merges text signatures with filename hints.
func certDomainSet(cert domain.Certificate) map[taxonomy.Domain]bool {
	set := make(map[taxonomy.Domain]bool)
	for _, dom := range taxonomy.Signatures(strings.ToLower(cert.RawText)) {
		set[dom] = true
	}
	for _, tag := range cert.DomainTags {
		set[taxonomy.Domain(tag)] = true
	}
	return set
}

// ScoreCertificate ranks one certificate against the tender object and,
// when present, the lot under analysis. The score is unbounded on both
// ends; only the ordering matters.
func ScoreCertificate(cert domain.Certificate, objectText, lotText string) float64 {
	objSigs := taxonomy.Signatures(objectText)
	lotSigs := taxonomy.Signatures(lotText)
	catSigs := certDomainSet(cert)

	var sc float64

	for _, dom := range objSigs {
		if catSigs[dom] {
			sc += objectDomainBonus
		}
	}
	for _, dom := range lotSigs {
		if catSigs[dom] {
			sc += lotDomainBonus
		}
	}

	// A certificate whose domains the object does not mention is likely
	// from another discipline entirely.
	if len(objSigs) > 0 {
		objSet := make(map[taxonomy.Domain]bool, len(objSigs))
		for _, dom := range objSigs {
			objSet[dom] = true
		}
		for _, dom := range taxonomy.Domains() {
			if !objSet[dom] && catSigs[dom] {
				sc -= intruderPenalty
			}
		}
	}

	if cert.HasLicenseMark {
		sc += licenseBonus
	}
	if cert.HasCouncilRegistration {
		sc += councilBonus
	}
	if cert.MentionsMaintenance {
		sc += maintenanceBonus
	}
	if cert.MentionsConstruction {
		sc += constructionBonus
	}

	if yr := certificateYear(cert); yr > 0 {
		sc += float64(yr-recencyPivotYear) / recencyScaleDivisor
	}

	if taxonomy.IsElectricalTitle(cert.ProfessionalTitle) && containsDomain(objSigs, taxonomy.Eletrica) {
		sc += titleAffinityBonus
	}

	// Untyped object: fall back to token overlap, and punish certificates
	// sharing nothing at all with it.
	if len(objSigs) == 0 {
		ov := float64(taxonomy.TokenOverlap(objectText, cert.RawText))
		if ov > overlapFallbackCap {
			ov = overlapFallbackCap
		}
		sc += ov
		if ov == 0 {
			sc -= zeroOverlapPenalty
		}
	}

	return sc
}

// certificateYear prefers the text-derived year and falls back to 0.
// Year is already the filename fallback when the text had none.
func certificateYear(cert domain.Certificate) int {
	if y := PlausibleYear(cert.RawText); y > 0 {
		return y
	}
	return cert.Year
}

func containsDomain(doms []taxonomy.Domain, want taxonomy.Domain) bool {
	for _, dom := range doms {
		if dom == want {
			return true
		}
	}
	return false
}

// RankCertificates scores, filters and orders certificates for an
// object/lot pair. Certificates without domain overlap with the object are
// dropped before scoring; ordering is stable for equal scores.
func RankCertificates(certs []domain.Certificate, objectText, lotText string) []domain.RankedCertificate {
	ranked := make([]domain.RankedCertificate, 0, len(certs))
	for _, cert := range certs {
		if !taxonomy.HasDomainOverlap(objectText, cert.RawText, cert.FileName) {
			continue
		}
		ranked = append(ranked, domain.RankedCertificate{
			Certificate: cert,
			Score:       ScoreCertificate(cert, objectText, lotText),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// UniqueCertificates removes duplicates keeping the first occurrence.
// The key combines source, certificate number and file name, so the same
// CAT reaching the candidate list through different retrieval paths
// collapses into one entry. Idempotent by construction.
func UniqueCertificates(certs []domain.RankedCertificate) []domain.RankedCertificate {
	seen := make(map[string]bool, len(certs))
	out := make([]domain.RankedCertificate, 0, len(certs))
	for _, c := range certs {
		key := c.SourceID + "|" + c.CertificateNumber + "|" + c.FileName
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
