package services

import (
	"context"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/analista-digital/licita-cli/internal/core/domain"
	"github.com/analista-digital/licita-cli/internal/core/ports/driven"
	"github.com/analista-digital/licita-cli/internal/core/ports/driving"
	"github.com/analista-digital/licita-cli/internal/core/taxonomy"
	"github.com/analista-digital/licita-cli/internal/logger"
)

// Ensure MatchService implements the interface.
var _ driving.CertificateMatcher = (*MatchService)(nil)

// Default number of certificates returned per query.
const defaultMatchLimit = 6

// Hybrid blend weights. Lexical evidence keeps 40% of the final score, so
// a store without embeddings still produces a meaningful ranking.
const (
	vectorWeight  = 0.60
	lexicalWeight = 0.40

	// lexNormalizer maps the open-ended lexical score into [0,1].
	lexNormalizer = 15.0
)

// candidate is one retrieval hit before scoring.
type candidate struct {
	source   string
	fileName string
	text     string
	vecScore float64
	hasVec   bool
}

// MatchService retrieves and ranks technical-capacity certificates.
// Every collaborator is optional; the service uses whatever is configured
// and keeps going when a source fails. Local files alone are enough to
// produce results.
type MatchService struct {
	certStore        driven.CertificateStore
	chunkStore       driven.ChunkStore
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
}

// NewMatchService creates a certificate matcher. All parameters are
// optional (can be nil).
func NewMatchService(
	certStore driven.CertificateStore,
	chunkStore driven.ChunkStore,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
) *MatchService {
	return &MatchService{
		certStore:        certStore,
		chunkStore:       chunkStore,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
	}
}

// FindMatches runs hybrid retrieval for a tender object: optional vector
// search, lexical store queries and in-memory local files feed one
// candidate pool, which is scored, domain-filtered, deduplicated and
// ranked. Results are capped at three times the limit so the analysis
// stage has slack for its own filtering.
func (s *MatchService) FindMatches(
	ctx context.Context, objectText string, localFiles []domain.LocalFile, limit int, opts domain.MatchOptions,
) ([]domain.RankedCertificate, error) {
	if limit <= 0 {
		limit = defaultMatchLimit
	}
	debug := opts.Debug
	if debug == nil {
		debug = func(domain.DebugEvent) {}
	}

	if (s.certStore != nil || s.chunkStore != nil) && opts.TenantID == "" {
		return nil, domain.ErrInvalidTenant
	}

	logger.Section("Certificate Retrieval")
	logger.Debug("Object: %d chars, limit %d, tenant %q", len(objectText), limit, opts.TenantID)

	termPatterns := taxonomy.BaseTerms(objectText)
	objDomains := taxonomy.Signatures(objectText)
	domainPatterns := taxonomy.PatternsFor(objDomains)
	logger.Debug("Domains detected: %v (%d term patterns)", objDomains, len(termPatterns))

	var candidates []candidate
	candidates = append(candidates, s.vectorCandidates(ctx, objectText, domainPatterns, limit, opts.TenantID, debug)...)
	candidates = append(candidates, s.lexicalCertCandidates(ctx, termPatterns, domainPatterns, limit, opts.TenantID, debug)...)
	candidates = append(candidates, s.lexicalChunkCandidates(ctx, termPatterns, domainPatterns, limit, opts.TenantID, debug)...)
	candidates = append(candidates, localCandidates(localFiles, termPatterns, debug)...)

	ranked := s.scoreCandidates(candidates, objectText)

	ranked = dedupeMatches(ranked)
	kept := ranked[:0]
	for _, r := range ranked {
		if taxonomy.HasDomainOverlap(objectText, r.RawText, r.FileName) {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })

	if max := limit * 3; len(kept) > max {
		kept = kept[:max]
	}
	debug(domain.DebugEvent{Kind: "scored", Count: len(kept)})
	logger.Info("Retrieval produced %d ranked certificates", len(kept))
	return kept, nil
}

// vectorCandidates runs the optional semantic stage. Any failure is
// reported through the debug callback and swallowed: the lexical stages
// must still run.
func (s *MatchService) vectorCandidates(
	ctx context.Context, objectText string, domainPatterns []string, limit int, tenantID string, debug func(domain.DebugEvent),
) []candidate {
	if s.embeddingService == nil || s.vectorIndex == nil {
		return nil
	}

	qv, err := s.embeddingService.GenerateEmbedding(ctx, objectText)
	if err != nil {
		logger.Warn("Embedding failed, continuing lexical-only: %v", err)
		debug(domain.DebugEvent{Kind: "vector_error", Source: err.Error()})
		return nil
	}

	want := limit * 3
	if want < 12 {
		want = 12
	}
	hits, err := s.vectorIndex.Query(ctx, tenantID, qv, want)
	if err != nil {
		logger.Warn("Vector query failed, continuing lexical-only: %v", err)
		debug(domain.DebugEvent{Kind: "vector_error", Source: err.Error()})
		return nil
	}

	domainRx := compilePatterns(domainPatterns)
	var out []candidate
	for _, h := range hits {
		if len(domainRx) > 0 && !anyMatch(domainRx, h.Content) && !anyMatch(domainRx, h.SourceID) {
			continue
		}
		out = append(out, candidate{
			source:   h.SourceID,
			fileName: filepath.Base(h.SourceID),
			text:     h.Content,
			vecScore: clamp01(float64(h.Similarity)),
			hasVec:   true,
		})
	}
	debug(domain.DebugEvent{Kind: "vector_certs", Count: len(out)})
	return out
}

func (s *MatchService) lexicalCertCandidates(
	ctx context.Context, termPatterns, domainPatterns []string, limit int, tenantID string, debug func(domain.DebugEvent),
) []candidate {
	if s.certStore == nil {
		return nil
	}

	certs, err := s.certStore.FindCertificates(ctx, driven.CertificateQuery{
		TenantID:       tenantID,
		TermPatterns:   termPatterns,
		DomainPatterns: domainPatterns,
		Limit:          limit * 5,
	})
	if err != nil {
		logger.Warn("Certificate store query failed: %v", err)
		debug(domain.DebugEvent{Kind: "store_error", Source: err.Error()})
		return nil
	}

	var out []candidate
	for _, c := range certs {
		if !taxonomy.LooksLikeCertificateName(c.FileName) && !certMarkRx.MatchString(c.RawText) {
			continue
		}
		out = append(out, candidate{source: c.SourceID, fileName: c.FileName, text: c.RawText})
	}
	debug(domain.DebugEvent{Kind: "lexical_certs", Count: len(out)})
	return out
}

func (s *MatchService) lexicalChunkCandidates(
	ctx context.Context, termPatterns, domainPatterns []string, limit int, tenantID string, debug func(domain.DebugEvent),
) []candidate {
	if s.chunkStore == nil {
		return nil
	}

	chunks, err := s.chunkStore.FindChunks(ctx, driven.ChunkQuery{
		TenantID:               tenantID,
		TermPatterns:           termPatterns,
		DomainPatterns:         domainPatterns,
		RequireCertificateMark: true,
		Limit:                  limit * 5,
	})
	if err != nil {
		logger.Warn("Chunk store query failed: %v", err)
		debug(domain.DebugEvent{Kind: "store_error", Source: err.Error()})
		return nil
	}

	out := make([]candidate, 0, len(chunks))
	for _, ch := range chunks {
		out = append(out, candidate{source: ch.SourceID, fileName: filepath.Base(ch.SourceID), text: ch.Content})
	}
	debug(domain.DebugEvent{Kind: "lexical_chunks", Count: len(out)})
	return out
}

// certMarkRx is the loose CAT mark accepted for whole-certificate bodies.
var certMarkRx = regexp.MustCompile(`(?i)Certid[aã]o de Acervo T[ée]cnico|\bCAT\b`)

// localCandidates searches the uploaded files in memory. A file qualifies
// when its name or body identifies a certificate AND any base term hits.
func localCandidates(files []domain.LocalFile, termPatterns []string, debug func(domain.DebugEvent)) []candidate {
	termRx := compilePatterns(termPatterns)
	var out []candidate
	for _, f := range files {
		if strings.TrimSpace(f.Text) == "" {
			continue
		}
		if !taxonomy.LooksLikeCertificateName(f.Source) && !taxonomy.HasCertificateFingerprint(f.Text) {
			continue
		}
		if !anyMatch(termRx, f.Text) {
			continue
		}
		out = append(out, candidate{source: f.Source, fileName: f.Source, text: f.Text})
	}
	debug(domain.DebugEvent{Kind: "local_files", Count: len(out)})
	return out
}

// scoreCandidates extracts metadata and computes the hybrid score for each
// candidate: 60% normalised vector similarity, 40% lexical evidence.
func (s *MatchService) scoreCandidates(candidates []candidate, objectText string) []domain.RankedCertificate {
	termRx := compilePatterns(taxonomy.BaseTerms(objectText))
	objSigs := taxonomy.Signatures(objectText)
	objSet := make(map[taxonomy.Domain]bool, len(objSigs))
	for _, dom := range objSigs {
		objSet[dom] = true
	}

	out := make([]domain.RankedCertificate, 0, len(candidates))
	for _, c := range candidates {
		cert := ExtractCertificate(c.source, c.fileName, c.text)

		var lex float64
		for _, rx := range termRx {
			if rx.MatchString(cert.RawText) {
				lex++
			}
		}
		if cert.HasLicenseMark {
			lex += 2
		}
		if cert.HasCouncilRegistration {
			lex++
		}
		if cert.MentionsMaintenance {
			lex++
		}
		if cert.MentionsConstruction {
			lex++
		}
		if taxonomy.MentionsCompletion(cert.RawText) {
			lex++
		}

		// Filename domain hints agreeing with the object are a strong
		// signal even when the body text is OCR noise.
		for _, dom := range taxonomy.FilenameDomains(c.fileName) {
			if objSet[dom] {
				lex += 3
			}
		}

		if yr := certificateYear(cert); yr > 0 {
			lex += float64(yr-2010) / 12
		}

		if len(objSigs) == 0 {
			ov := float64(taxonomy.TokenOverlap(objectText, cert.RawText))
			if ov > overlapFallbackCap {
				ov = overlapFallbackCap
			}
			lex += ov
			if ov == 0 {
				lex -= zeroOverlapPenalty
			}
		}

		vec := 0.0
		if c.hasVec {
			vec = c.vecScore
		}
		score := vectorWeight*vec + lexicalWeight*clamp01(lex/lexNormalizer)

		out = append(out, domain.RankedCertificate{Certificate: cert, Score: score})
	}
	return out
}

// dedupeMatches drops later candidates describing the same certificate:
// same source and certificate number, or the same file name. First seen
// wins, which favours vector hits over lexical re-finds of the same CAT.
func dedupeMatches(in []domain.RankedCertificate) []domain.RankedCertificate {
	out := make([]domain.RankedCertificate, 0, len(in))
	for _, c := range in {
		dup := false
		for _, kept := range out {
			if (kept.SourceID == c.SourceID && kept.CertificateNumber == c.CertificateNumber) ||
				(kept.FileName != "" && kept.FileName == c.FileName) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return out
}

func compilePatterns(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if rx, err := regexp.Compile(`(?i)` + p); err == nil {
			out = append(out, rx)
		}
	}
	return out
}

func anyMatch(rxs []*regexp.Regexp, text string) bool {
	for _, rx := range rxs {
		if rx.MatchString(text) {
			return true
		}
	}
	return false
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
