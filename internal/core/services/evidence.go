package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/analista-digital/licita-cli/internal/core/domain"
	"github.com/analista-digital/licita-cli/internal/core/ports/driven"
	"github.com/analista-digital/licita-cli/internal/core/taxonomy"
	"github.com/analista-digital/licita-cli/internal/logger"
	"github.com/analista-digital/licita-cli/internal/postprocessors/chunker"
)

const (
	// maxChunksPerFile bounds how much of one uploaded file is searched.
	maxChunksPerFile = 40

	// maxEvidenceHits is the number of fragments handed to the analyst
	// prompt per requirement.
	maxEvidenceHits = 4

	// annexBonus rewards chunks citing the same annex as the requirement.
	annexBonus = 0.1
)

var annexRefRx = regexp.MustCompile(`(?i)anexo\s+([xivlcdm0-9]+)`)

// EvidenceService finds supporting fragments for individual requirements
// and asks the completion service to judge them.
type EvidenceService struct {
	embeddingService driven.EmbeddingService
	vectorIndex      driven.VectorIndex
	llmService       driven.LLMService
	splitter         *chunker.Processor
}

// NewEvidenceService creates an evidence search service. All AI
// collaborators are optional (can be nil); without embeddings the local
// search falls back to token overlap.
func NewEvidenceService(
	embeddingService driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	llmService driven.LLMService,
) *EvidenceService {
	return &EvidenceService{
		embeddingService: embeddingService,
		vectorIndex:      vectorIndex,
		llmService:       llmService,
		splitter:         chunker.New(),
	}
}

// FindEvidence searches the uploaded files and, when available, the vector
// index for fragments supporting one requirement. Results are sorted by
// score, deduplicated by content and capped.
func (s *EvidenceService) FindEvidence(
	ctx context.Context, requirement string, files []domain.LocalFile, tenantID string,
) []domain.EvidenceHit {
	var queryVec []float32
	if s.embeddingService != nil {
		vec, err := s.embeddingService.GenerateEmbedding(ctx, requirement)
		if err != nil {
			logger.Warn("Requirement embedding failed, using lexical fallback: %v", err)
		} else {
			queryVec = vec
		}
	}

	hits := s.localHits(ctx, requirement, queryVec, files)

	if queryVec != nil && s.vectorIndex != nil {
		indexed, err := s.vectorIndex.Query(ctx, tenantID, queryVec, 5)
		if err != nil {
			logger.Warn("Vector evidence query failed: %v", err)
		} else {
			for _, h := range indexed {
				hits = append(hits, domain.EvidenceHit{
					SourceID: h.SourceID,
					Content:  h.Content,
					Score:    float64(h.Similarity),
				})
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	seen := make(map[string]bool, len(hits))
	out := hits[:0]
	for _, h := range hits {
		if seen[h.Content] {
			continue
		}
		seen[h.Content] = true
		out = append(out, h)
		if len(out) >= maxEvidenceHits {
			break
		}
	}
	return out
}

// localHits scores the chunks of each uploaded file against the
// requirement: cosine similarity when embeddings are available, token
// overlap otherwise. A chunk citing the requirement's annex gets a bonus.
func (s *EvidenceService) localHits(
	ctx context.Context, requirement string, queryVec []float32, files []domain.LocalFile,
) []domain.EvidenceHit {
	var annexRx *regexp.Regexp
	if m := annexRefRx.FindStringSubmatch(requirement); m != nil {
		annexRx = regexp.MustCompile(`(?i)anexo\s*` + regexp.QuoteMeta(strings.ToUpper(m[1])))
	}

	var hits []domain.EvidenceHit
	for _, f := range files {
		if strings.TrimSpace(f.Text) == "" {
			continue
		}
		chunks := s.splitter.SplitText(f.Text)
		if len(chunks) > maxChunksPerFile {
			chunks = chunks[:maxChunksPerFile]
		}
		for _, chunk := range chunks {
			var score float64
			if queryVec != nil {
				vec, err := s.embeddingService.GenerateEmbedding(ctx, chunk)
				if err != nil {
					continue
				}
				score = cosineSimilarity(queryVec, vec)
			} else {
				score = clamp01(float64(taxonomy.TokenOverlap(requirement, chunk)) / 10)
			}
			if annexRx != nil && annexRx.MatchString(chunk) {
				score += annexBonus
			}
			hits = append(hits, domain.EvidenceHit{SourceID: f.Source, Content: chunk, Score: score})
		}
	}
	return hits
}

const techAnalysisPromptFmt = `Você é um analista de licitações sênior. Avalie o requisito abaixo **apenas** com base nas evidências.

Requisito:
"%s"

Evidências:
%s

Responda iniciando com: **ATENDIDO**, **ATENDIDO PARCIALMENTE** ou **NÃO ATENDIDO**, seguido de justificativa curta.`

// AnalyzeRequirement asks the completion service to judge one technical
// requirement against the evidence and returns the outcome with the
// verdict parsed out of the response text.
func (s *EvidenceService) AnalyzeRequirement(
	ctx context.Context, requirement string, evidence []domain.EvidenceHit,
) (domain.RequirementOutcome, error) {
	out := domain.RequirementOutcome{
		Requirement: requirement,
		Kind:        domain.RequirementTechnical,
	}
	if s.llmService == nil {
		return out, domain.ErrLLMUnavailable
	}

	lines := make([]string, 0, len(evidence))
	for _, e := range evidence {
		lines = append(lines, fmt.Sprintf("- Trecho do arquivo '%s' (similaridade: %.3f): %q", e.SourceID, e.Score, e.Content))
	}
	evBlock := "Nenhuma evidência foi encontrada."
	if len(lines) > 0 {
		evBlock = strings.Join(lines, "\n")
	}

	analysis, err := s.llmService.Complete(ctx, fmt.Sprintf(techAnalysisPromptFmt, requirement, evBlock))
	if err != nil {
		return out, fmt.Errorf("requirement analysis: %w", err)
	}

	out.Justification = fmt.Sprintf("Requisito: %s\n\n%s", requirement, analysis)
	out.Status = StatusFromText(analysis)
	return out, nil
}

var summaryHeaderRx = regexp.MustCompile(`(?i)^\s*(?:#{1,6}\s*)?\**\s*sum[áa]rio\s+executivo\s*\**\s*:?\s*\n+`)

const summaryPromptFmt = `Você é um analista de licitações. Escreva um sumário executivo curto (até 10 linhas) da viabilidade de participação, com base no objeto licitado e nas análises abaixo. Não repita o título "Sumário Executivo".

Objeto:
%s

Análises:
%s`

// ExecutiveSummary asks the completion service for a short digest of the
// detailed analyses. Returns "" without error when no service is
// configured: the report simply omits the section.
func (s *EvidenceService) ExecutiveSummary(ctx context.Context, analyses []string, objectText string) (string, error) {
	if s.llmService == nil {
		return "", nil
	}
	raw, err := s.llmService.Complete(ctx, fmt.Sprintf(summaryPromptFmt, objectText, strings.Join(analyses, "\n\n---\n\n")))
	if err != nil {
		return "", fmt.Errorf("executive summary: %w", err)
	}
	return strings.TrimSpace(summaryHeaderRx.ReplaceAllString(strings.TrimSpace(raw), "")), nil
}

// cosineSimilarity computes the cosine similarity of two vectors over
// their shared prefix length.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(na)*math.Sqrt(nb) + 1e-9)
}
