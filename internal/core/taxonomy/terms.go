package taxonomy

import (
	"regexp"
	"strings"
)

// Base terms used to query certificate stores. The focused set applies when
// the tender object names at least one domain; the broad set is the
// fallback for untyped objects.
var (
	focusedBaseTerms = []string{
		`Certidão de Acervo Técnico`,
		`\bCAT\b`,
		`atestado`,
		`responsável técnico`,
		`manuten[çc][aã]o`,
		`obra`,
	}
	broadBaseTerms = []string{
		`\bCAT\b`,
		`\bART\b`,
		`\bCREA\b`,
		`manuten[çc][aã]o`,
		`obra`,
		`atestado`,
	}
)

// BaseTerms builds the term pattern set for retrieval, seeded by the tender
// object text. With detected domains it returns the focused certificate
// vocabulary plus every pattern of those domains; otherwise the broad
// credential vocabulary alone. Order is stable and duplicates are removed.
func BaseTerms(seed string) []string {
	doms := Signatures(seed)
	if len(doms) == 0 {
		out := make([]string, len(broadBaseTerms))
		copy(out, broadBaseTerms)
		return out
	}
	seen := make(map[string]bool)
	var out []string
	add := func(t string) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, t := range focusedBaseTerms {
		add(t)
	}
	for _, dom := range doms {
		for _, t := range lexicon[dom] {
			add(t)
		}
	}
	return out
}

// Portuguese stopwords excluded from token overlap.
var stopwords = map[string]bool{
	"de": true, "da": true, "do": true, "das": true, "dos": true,
	"e": true, "em": true, "para": true, "por": true, "com": true,
	"um": true, "uma": true, "o": true, "a": true, "os": true, "as": true,
	"no": true, "na": true, "nos": true, "nas": true, "que": true,
	"ou": true, "se": true, "ao": true, "à": true, "às": true,
}

var tokenCleanRx = regexp.MustCompile(`[^a-zà-ú0-9\s]`)

func tokenize(s string) map[string]bool {
	cleaned := tokenCleanRx.ReplaceAllString(strings.ToLower(s), " ")
	set := make(map[string]bool)
	for _, w := range strings.Fields(cleaned) {
		if len([]rune(w)) >= 4 && !stopwords[w] {
			set[w] = true
		}
	}
	return set
}

// TokenOverlap counts the distinct meaningful tokens (length >= 4,
// stopwords excluded) shared by two texts. It is the scoring fallback when
// neither text carries a recognisable domain.
func TokenOverlap(a, b string) int {
	setA := tokenize(a)
	if len(setA) == 0 {
		return 0
	}
	setB := tokenize(b)
	n := 0
	for w := range setA {
		if setB[w] {
			n++
		}
	}
	return n
}
