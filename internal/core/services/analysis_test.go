package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

func lightingTenderText() string {
	return `EDITAL DE LICITAÇÃO Nº 045/2025
Órgão Licitante: Prefeitura Municipal do Recife
Pregão Eletrônico Nº 045/2025

DO OBJETO
Contratação de empresa especializada para manutenção do parque de
iluminação pública, com fornecimento de luminárias LED.

CLÁUSULA SEGUNDA - DA HABILITAÇÃO`
}

// scriptedLLM answers each prompt family with a fixed, plausible reply.
type scriptedLLM struct{}

func (scriptedLLM) Complete(_ context.Context, prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "array JSON"):
		return `["Apresentar CAT de serviços similares.","Certidão negativa de falência.","Credenciamento no sistema com chave e senha do Licitanet.","Comprovar equipe mínima de engenheiros eletricistas."]`, nil
	case strings.Contains(prompt, "analista de licitações sênior"):
		return "**ATENDIDO** — as evidências cobrem o requisito.", nil
	default:
		return "Participação recomendada com ressalvas administrativas.", nil
	}
}
func (scriptedLLM) GetModelName() string { return "scripted-llm" }

type failingMatcher struct{ err error }

func (f *failingMatcher) FindMatches(context.Context, string, []domain.LocalFile, int, domain.MatchOptions) ([]domain.RankedCertificate, error) {
	return nil, f.err
}

func TestAnalyzeValidation(t *testing.T) {
	svc := NewAnalysisService(NewMatchService(nil, nil, nil, nil), nil, nil)
	_, err := svc.Analyze(context.Background(), domain.AnalysisRequest{TenderText: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnalyzeMatcherErrorPropagates(t *testing.T) {
	boom := errors.New("store offline")
	svc := NewAnalysisService(&failingMatcher{err: boom}, nil, nil)
	_, err := svc.Analyze(context.Background(), domain.AnalysisRequest{TenderText: "qualquer edital"})
	assert.ErrorIs(t, err, boom)
}

func TestAnalyzeWithoutModel(t *testing.T) {
	store := seededCertStore(t)
	svc := NewAnalysisService(NewMatchService(store, nil, nil, nil), nil, nil)

	report, err := svc.Analyze(context.Background(), domain.AnalysisRequest{
		TenantID:   "t1",
		TenderText: lightingTenderText(),
	})
	require.NoError(t, err)

	assert.Equal(t, "Prefeitura Municipal do Recife", report.Header.Agency)
	assert.Contains(t, report.Header.Object, "iluminação pública")

	require.NotEmpty(t, report.Certificates)
	assert.Equal(t, "334455/2021", report.Certificates[0].CertificateNumber)
	assert.True(t, report.DomainAligned)

	// No completion service: no requirement outcomes, verdict comes from
	// the certificate alignment alone.
	assert.Empty(t, report.Outcomes)
	assert.Empty(t, report.ExecutiveSummary)
	assert.Equal(t, domain.RecommendationConditional, report.Recommendation.Label)
	assert.InDelta(t, 0.60, report.Recommendation.GlobalScore, 1e-9)

	require.NotNil(t, report.Suggestion)
	assert.Equal(t, "Ana Lima", report.Suggestion.Name)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestAnalyzeFullPipeline(t *testing.T) {
	store := seededCertStore(t)
	llm := scriptedLLM{}
	svc := NewAnalysisService(
		NewMatchService(store, nil, nil, nil),
		NewRequirementService(llm),
		NewEvidenceService(nil, nil, llm),
	)

	report, err := svc.Analyze(context.Background(), domain.AnalysisRequest{
		TenantID:   "t1",
		TenderText: lightingTenderText(),
		Profile: domain.CompanyProfile{
			Name:      "Eletro Serviços Ltda",
			Checklist: domain.ComplianceChecklist{BankruptcyCertificate: true},
		},
	})
	require.NoError(t, err)

	// The platform-access chore is dropped; three requirements remain.
	require.Len(t, report.Outcomes, 3)

	capacity := report.Outcomes[0]
	assert.Equal(t, domain.RequirementTechnical, capacity.Kind)
	assert.Equal(t, domain.OutcomeOK, capacity.Status)
	assert.Contains(t, capacity.Justification, "CAT 334455/2021")

	bankruptcy := report.Outcomes[1]
	assert.Equal(t, domain.RequirementAdministrative, bankruptcy.Kind)
	assert.Equal(t, domain.OutcomeOK, bankruptcy.Status)

	team := report.Outcomes[2]
	assert.Equal(t, domain.RequirementTechnical, team.Kind)
	assert.Equal(t, domain.OutcomeOK, team.Status)

	assert.Equal(t, domain.RecommendationParticipate, report.Recommendation.Label)
	assert.InDelta(t, 1.0, report.Recommendation.GlobalScore, 1e-9)
	assert.Equal(t, "Participação recomendada com ressalvas administrativas.", report.ExecutiveSummary)
}

func TestAnalyzeMisalignedCertificatesDegradeToPartial(t *testing.T) {
	store := seededCertStore(t)
	llm := scriptedLLM{}
	svc := NewAnalysisService(
		NewMatchService(store, nil, nil, nil),
		NewRequirementService(llm),
		NewEvidenceService(nil, nil, llm),
	)

	// Water-domain tender: the stored water certificate matches the domain
	// but the lighting one does not.
	report, err := svc.Analyze(context.Background(), domain.AnalysisRequest{
		TenantID:   "t1",
		TenderText: "Objeto: Ampliação do sistema de adução de água com instalação de hidrômetros.",
	})
	require.NoError(t, err)
	require.NotEmpty(t, report.Certificates)
	assert.Equal(t, "778899/2020", report.Certificates[0].CertificateNumber)
	assert.True(t, report.DomainAligned)
}
