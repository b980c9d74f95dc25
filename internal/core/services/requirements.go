package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/analista-digital/licita-cli/internal/core/domain"
	"github.com/analista-digital/licita-cli/internal/core/ports/driven"
	"github.com/analista-digital/licita-cli/internal/logger"
)

// maxExtractionChars bounds the tender text sent to the model.
const maxExtractionChars = 40000

// jsonArrayRx locates a JSON array of strings inside a chatty response.
var jsonArrayRx = regexp.MustCompile(`(?s)\[\s*(?:"[^"]*"(?:\s*,\s*"[^"]*")*\s*)?\]`)

const extractionPromptFmt = `Analise o texto do edital e extraia os principais requisitos de habilitação técnica e administrativa.
Sua resposta deve ser **apenas** um array JSON de strings, válido, sem comentários e sem texto extra.

Exemplos:
["Apresentar documentos conforme Anexo XV.","Comprovar experiência em serviços de manutenção.","Apresentar CAT do responsável técnico."]

Texto:
---
%s
---`

// RequirementService extracts eligibility requirements from tender text.
type RequirementService struct {
	llmService driven.LLMService
	promptFmt  string
}

// NewRequirementService creates a requirement extraction service.
// The llmService parameter is optional (can be nil); without it,
// ExtractRequirements returns domain.ErrLLMUnavailable.
func NewRequirementService(llmService driven.LLMService) *RequirementService {
	return &RequirementService{llmService: llmService, promptFmt: extractionPromptFmt}
}

// SetPromptTemplate overrides the extraction prompt. The template must
// contain exactly one %s placeholder for the tender text; anything else
// keeps the default.
func (s *RequirementService) SetPromptTemplate(tmpl string) {
	if strings.Count(tmpl, "%s") != 1 {
		logger.Warn("Prompt template ignored: expected exactly one %%s placeholder")
		return
	}
	s.promptFmt = tmpl
}

// ExtractRequirements asks the model for the tender's eligibility clauses
// and parses the response as a JSON array of strings. A response that does
// not contain such an array fails with domain.ErrMalformedModelOutput;
// content-shape failures are surfaced, never retried here.
func (s *RequirementService) ExtractRequirements(ctx context.Context, tenderText string) ([]string, error) {
	if s.llmService == nil {
		return nil, domain.ErrLLMUnavailable
	}

	trimmed := tenderText
	if len(trimmed) > maxExtractionChars {
		trimmed = trimmed[:maxExtractionChars]
	}

	logger.Section("Requirement Extraction")
	logger.Debug("Tender text: %d chars (sent: %d)", len(tenderText), len(trimmed))

	raw, err := s.llmService.Complete(ctx, fmt.Sprintf(s.promptFmt, trimmed))
	if err != nil {
		return nil, fmt.Errorf("requirement extraction: %w", err)
	}

	match := jsonArrayRx.FindString(raw)
	if match == "" {
		logger.Warn("Model response carried no JSON array (%d chars)", len(raw))
		return nil, fmt.Errorf("%w: response has no JSON array", domain.ErrMalformedModelOutput)
	}

	var reqs []string
	if err := json.Unmarshal([]byte(match), &reqs); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedModelOutput, err)
	}

	logger.Info("Extracted %d requirements", len(reqs))
	return reqs, nil
}

// ClassifyAll classifies extracted requirements preserving order.
func (s *RequirementService) ClassifyAll(reqs []string) []domain.RequirementOutcome {
	out := make([]domain.RequirementOutcome, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, domain.RequirementOutcome{
			Requirement: r,
			Kind:        ClassifyRequirement(r),
		})
	}
	return out
}
