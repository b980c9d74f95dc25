package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

func sampleReport() domain.AnalysisReport {
	return domain.AnalysisReport{
		Header: domain.TenderHeader{
			Agency:   "Prefeitura Municipal de Olinda",
			Modality: "Pregão Eletrônico Nº 012/2025",
			Object:   "Manutenção de iluminação pública",
		},
		Certificates: []domain.RankedCertificate{
			{
				Certificate: domain.Certificate{
					CertificateNumber: "112233/2021",
					Year:              2021,
					ScopeSummary:      "Manutenção de iluminação pública",
				},
				Score: 8.5,
			},
		},
		DomainAligned: true,
		Suggestion: &domain.ProfessionalSuggestion{
			Name:              "Ana Lima",
			CertificateNumber: "112233/2021",
			Year:              2021,
			IssuingBody:       "CREA-PE",
		},
		Outcomes: []domain.RequirementOutcome{
			{
				Requirement:   "Apresentar CAT compatível com o objeto",
				Kind:          domain.RequirementTechnical,
				Status:        domain.OutcomeOK,
				Justification: "**ATENDIDO**",
			},
		},
		Recommendation: domain.Recommendation{
			Label:       domain.RecommendationParticipate,
			GlobalScore: 0.88,
		},
		GeneratedAt: time.Now(),
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func setupAnalyzeTest(analyzer *mockAnalyzer) func() {
	old := tenderAnalyzer
	oldTenant := activeTenant
	tenderAnalyzer = analyzer
	activeTenant = "t1"
	return func() {
		tenderAnalyzer = old
		activeTenant = oldTenant
	}
}

func TestAnalyzeCmd_PrintsReport(t *testing.T) {
	analyzer := &mockAnalyzer{report: sampleReport()}
	defer setupAnalyzeTest(analyzer)()

	edital := writeTempFile(t, "edital.txt", "EDITAL DE PREGÃO")
	out, err := execute("analyze", edital)
	require.NoError(t, err)

	assert.Contains(t, out, "Prefeitura Municipal de Olinda")
	assert.Contains(t, out, "CAT 112233/2021")
	assert.Contains(t, out, "Ana Lima")
	assert.Contains(t, out, "PARTICIPAÇÃO RECOMENDADA")
	assert.Equal(t, "t1", analyzer.gotReq.TenantID)
	assert.Equal(t, "EDITAL DE PREGÃO", analyzer.gotReq.TenderText)
}

func TestAnalyzeCmd_AnnexesBecomeLocalFiles(t *testing.T) {
	analyzer := &mockAnalyzer{report: sampleReport()}
	defer setupAnalyzeTest(analyzer)()

	edital := writeTempFile(t, "edital.txt", "texto do edital")
	annex := writeTempFile(t, "anexo-i.txt", "atestado de capacidade")

	_, err := execute("analyze", edital, annex)
	require.NoError(t, err)

	require.Len(t, analyzer.gotReq.LocalFiles, 1)
	assert.Equal(t, "anexo-i.txt", analyzer.gotReq.LocalFiles[0].Source)
	assert.Equal(t, "atestado de capacidade", analyzer.gotReq.LocalFiles[0].Text)
}

func TestAnalyzeCmd_ProfileFlag(t *testing.T) {
	analyzer := &mockAnalyzer{report: sampleReport()}
	defer setupAnalyzeTest(analyzer)()
	defer func() { analyzeProfileFile = "" }()

	edital := writeTempFile(t, "edital.txt", "texto")
	profile := writeTempFile(t, "perfil.toml", `
name = "Construtora Alfa"

[checklist]
fgts_regular = true
bankruptcy_certificate = true
`)

	_, err := execute("analyze", edital, "--profile", profile)
	require.NoError(t, err)

	assert.Equal(t, "Construtora Alfa", analyzer.gotReq.Profile.Name)
	assert.True(t, analyzer.gotReq.Profile.Checklist.FGTSRegular)
	assert.True(t, analyzer.gotReq.Profile.Checklist.BankruptcyCertificate)
	assert.False(t, analyzer.gotReq.Profile.Checklist.TaxRegular)
}

func TestAnalyzeCmd_RejectsUnknownChecklistKey(t *testing.T) {
	analyzer := &mockAnalyzer{report: sampleReport()}
	defer setupAnalyzeTest(analyzer)()
	defer func() { analyzeProfileFile = "" }()

	edital := writeTempFile(t, "edital.txt", "texto")
	profile := writeTempFile(t, "perfil.toml", "[checklist]\ninexistente = true\n")

	_, err := execute("analyze", edital, "--profile", profile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inexistente")
}

func TestAnalyzeCmd_MissingFile(t *testing.T) {
	defer setupAnalyzeTest(&mockAnalyzer{})()

	_, err := execute("analyze", filepath.Join(t.TempDir(), "nada.txt"))
	assert.Error(t, err)
}

func TestAnalyzeCmd_NotConfigured(t *testing.T) {
	old := tenderAnalyzer
	tenderAnalyzer = nil
	defer func() { tenderAnalyzer = old }()

	edital := writeTempFile(t, "edital.txt", "texto")
	_, err := execute("analyze", edital)
	assert.Error(t, err)
}
