// Package taxonomy maps Brazilian engineering tender language onto a small
// set of domains (eletrica, civil, incendio, clima, agua, saude_social).
// All matching is regex-based, case-insensitive and deterministic: the same
// text always yields the same domain set, independent of any external service.
package taxonomy

import "regexp"

// Domain is one engineering discipline recognised in tender and
// certificate text.
type Domain string

// Recognised domains.
const (
	Eletrica    Domain = "eletrica"
	Civil       Domain = "civil"
	Incendio    Domain = "incendio"
	Clima       Domain = "clima"
	Agua        Domain = "agua"
	SaudeSocial Domain = "saude_social"
)

// lexicon holds per-domain patterns over document body text. Patterns are
// RE2 source fragments; they are compiled once at init with (?i).
//
// Note: Go's regexp has no lookahead, so short abbreviations like "ip" rely
// on \b alone. \b does not fire between two word characters, which already
// keeps "ip" from matching inside "ip65" or "equipamento".
var lexicon = map[Domain][]string{
	Eletrica: {
		`subesta`, `kva`, `\bkv\b`, `transformador`, `disjuntor`, `qgbt`,
		`cabine primária`, `baixa tensão`, `média tensão`, `proteção elétrica`,
		`religadores?`, `seccionadoras?`, `barramentos?`, `\bLT\b`, `\bLD\b`,
		// iluminação pública
		`ilumina[çc][aã]o\s+p[úu]blica`, `lumin[áa]ri[ao]s?`, `\bled\b`,
		`fotoc[eé]lula`, `rel[eé]\s*fot[oô]el[eé]trico`,
		`poste(s)?\s+de\s+ilumina`, `bra[çc]o\s+de\s+luz`,
		`parque\s+de\s+ilumina`, `pontos?\s+de\s+luz`,
		`ilumina[çc][aã]o\s+vi[áa]ria`, `driver\s+de\s+lumin[áa]ria`,
		`\brel[eé]\b`, `\bip\b`,
	},
	Civil: {
		`edifica`, `paviment`, `obra civil`, `concreto`, `alvenaria`, `fund[aá]cao`,
		`creche`, `escola`, `pr[eé]dio`, `manuten[çc][aã]o predial`, `reforma`,
	},
	Incendio: {
		`inc[êe]ndio`, `sdai`, `sprinkler`, `hidrante`, `bomba de incêndio`,
		`endere[cç]a`, `alarme`, `detec[çc][aã]o`,
	},
	Clima: {
		`climatiza`, `ar condicionado`, `chiller`, `fan ?coil`, `vrf`, `\btr\b`,
		`split`, `self contained`,
	},
	Agua: {
		`micromedi`, `hidr[oó]metro`, `adu[cç][aã]o`, `\beta\b`, `\bete\b`, `\betap\b`,
		`po[çc]o`, `submers[ií]vel`, `per[íi]metros de irriga`, `bomba d[' ]?água`,
	},
	SaudeSocial: {
		`sa[úu]de`, `sistema\s+[úu]nico\s+de\s+sa[úu]de|\bSUS\b`,
		`assist[êe]ncia\s+social`, `\bSUAS\b`, `\bCRAS\b`, `\bCREAS\b`,
		`unidade\s+b[áa]sica\s+de\s+sa[úu]de|\bUBS\b`, `\bUPA\b`, `posto\s+de\s+sa[úu]de`,
		`hospital`, `cl[ií]nica`, `ambulat[óo]rio`,
		// idosos / home care
		`idos[oa]s?`, `geriatr`, `geronto`, `casa\s+lar`,
		`institui[çc][aã]o\s+de\s+longa\s+perman[êe]ncia|\bILPI\b`,
		`cuidad(?:or|ora)(?:es)?\s+de\s+idos[oa]s?`,
		`cuidado\s+domiciliar`, `home\s*care`,
		`enferm(?:eir[oa]s?)?`, `t[ée]cnico\s+de\s+enfermagem`,
		`curativos?`, `medica[çc][aã]o`,
	},
}

// filenameSynonyms extends the lexicon for filename-only matching, where
// the text is short and abbreviations carry more weight.
var filenameSynonyms = map[Domain][]string{
	Eletrica: {
		`\bLT\b`, `\bLD\b`, `linha viva`, `linha morta`,
		`\b69\s*kV\b`, `\b138\s*kV\b`, `\b230\s*kV\b`,
		`subesta[cç][aã]o`, `\bSE\b`, `alimentador`, `barramento`,
		`disjuntor`, `religador`, `transformador`,
		`ilumina[çc][aã]o\s+p[úu]blica`, `lumin[áa]ria`, `\bled\b`,
		`poste\s+de\s+ilumina`, `bra[çc]o\s+de\s+luz`,
		`fotoc[eé]lula`, `rel[eé]\s*fot[oô]el[eé]trico`,
		`parque\s+de\s+ilumina`, `pontos?\s+de\s+luz`, `\bip\b`,
	},
	Civil: {
		`reforma`, `manuten[cç][aã]o predial`, `edifica[cç][aã]o`, `escola`,
		`creche`, `obra civil`, `alvenaria`, `concreto`,
	},
	Incendio: {
		`hidrante`, `sprinkler`, `SDAI`, `alarme de inc[êe]ndio`,
		`endere[cç][aá]vel`, `detec[çc][aã]o`,
	},
	Clima: {
		`ar condicionado`, `VRF`, `chiller`, `fan ?coil`, `\bTR\b`,
		`self contained`, `split`,
	},
	Agua: {
		`adu[cç][aã]o`, `\beta\b`, `\bete\b`, `\betap\b`, `po[çc]o`, `hidr[oó]metro`,
	},
	SaudeSocial: {
		`\bUBS\b`, `\bUPA\b`, `\bSUS\b`, `\bCRAS\b`, `\bCREAS\b`, `\bILPI\b`,
		`home\s*care`, `cuidador(?:a)?\s+de\s+idos`, `geriatr`, `geronto`,
		`enfermagem`, `hospital`, `cl[íi]nica`, `ambulatório`,
	},
}

// allDomains fixes the iteration order so results are stable across runs.
var allDomains = []Domain{Eletrica, Civil, Incendio, Clima, Agua, SaudeSocial}

var (
	compiledLexicon  map[Domain][]*regexp.Regexp
	compiledSynonyms map[Domain][]*regexp.Regexp
)

func init() {
	compiledLexicon = compileSet(lexicon)
	compiledSynonyms = compileSet(filenameSynonyms)
}

func compileSet(src map[Domain][]string) map[Domain][]*regexp.Regexp {
	out := make(map[Domain][]*regexp.Regexp, len(src))
	for dom, patterns := range src {
		rxs := make([]*regexp.Regexp, 0, len(patterns))
		for _, p := range patterns {
			rxs = append(rxs, regexp.MustCompile(`(?i)`+p))
		}
		out[dom] = rxs
	}
	return out
}

// Domains returns the recognised domains in stable order.
func Domains() []Domain {
	out := make([]Domain, len(allDomains))
	copy(out, allDomains)
	return out
}

// Signatures returns the domains whose lexicon matches the text, in stable
// order. An empty or non-matching text yields an empty slice.
func Signatures(text string) []Domain {
	if text == "" {
		return nil
	}
	var hits []Domain
	for _, dom := range allDomains {
		for _, rx := range compiledLexicon[dom] {
			if rx.MatchString(text) {
				hits = append(hits, dom)
				break
			}
		}
	}
	return hits
}

// FilenameDomains returns the domains suggested by a file name, combining
// the body lexicon with the filename synonym table.
func FilenameDomains(fileName string) []Domain {
	if fileName == "" {
		return nil
	}
	seen := make(map[Domain]bool)
	for _, dom := range Signatures(fileName) {
		seen[dom] = true
	}
	for _, dom := range allDomains {
		if seen[dom] {
			continue
		}
		for _, rx := range compiledSynonyms[dom] {
			if rx.MatchString(fileName) {
				seen[dom] = true
				break
			}
		}
	}
	var hits []Domain
	for _, dom := range allDomains {
		if seen[dom] {
			hits = append(hits, dom)
		}
	}
	return hits
}

// Patterns returns the raw lexicon pattern sources for a domain. Callers
// use these to build store-side prefilters; they compile case-insensitively.
func Patterns(dom Domain) []string {
	src := lexicon[dom]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// PatternsFor returns the union of lexicon pattern sources for a domain
// list, preserving domain order.
func PatternsFor(doms []Domain) []string {
	var out []string
	for _, dom := range doms {
		out = append(out, lexicon[dom]...)
	}
	return out
}

// HasDomainOverlap reports whether the certificate (text plus file name)
// shares at least one domain with the tender object. When the object text
// carries no recognisable domain, every certificate passes: an untyped
// object must not block retrieval.
func HasDomainOverlap(objectText, certText, fileName string) bool {
	objSigs := Signatures(objectText)
	if len(objSigs) == 0 {
		return true
	}
	certSigs := make(map[Domain]bool)
	for _, dom := range Signatures(certText) {
		certSigs[dom] = true
	}
	for _, dom := range Signatures(fileName) {
		certSigs[dom] = true
	}
	for _, dom := range objSigs {
		if certSigs[dom] {
			return true
		}
	}
	return false
}
