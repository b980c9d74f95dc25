package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

func TestEvaluateAdminRequirement(t *testing.T) {
	profile := domain.CompanyProfile{
		Name: "Construtora Exemplo",
		Checklist: domain.ComplianceChecklist{
			CNPJActive:       true,
			CorporateCharter: true,
			FGTSRegular:      true,
			TaxRegular:       false,
			BalanceSheet:     true,
		},
	}

	t.Run("held document is attended", func(t *testing.T) {
		out := EvaluateAdminRequirement("Apresentar prova de inscrição no CNPJ", profile)
		assert.Equal(t, domain.OutcomeOK, out.Status)
		assert.Contains(t, out.Justification, "**ATENDIDO**")
	})

	t.Run("missing document is not attended", func(t *testing.T) {
		out := EvaluateAdminRequirement("Certidão de regularidade com a Fazenda Nacional", profile)
		assert.Equal(t, domain.OutcomeNone, out.Status)
		assert.Contains(t, out.Justification, "**NÃO ATENDIDO**")
	})

	t.Run("first matching rule decides", func(t *testing.T) {
		// Mentions both FGTS (held) and fazenda (missing); FGTS comes first.
		out := EvaluateAdminRequirement("Certificado de regularidade do FGTS perante a fazenda", profile)
		assert.Equal(t, domain.OutcomeOK, out.Status)
	})

	t.Run("unmapped requirement is partial", func(t *testing.T) {
		out := EvaluateAdminRequirement("Apresentar documentos conforme Anexo XV", profile)
		assert.Equal(t, domain.OutcomePartial, out.Status)
		assert.Contains(t, out.Justification, "sem mapeamento explícito")
	})

	t.Run("deterministic", func(t *testing.T) {
		req := "Balanço patrimonial do último exercício"
		first := EvaluateAdminRequirement(req, profile)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, EvaluateAdminRequirement(req, profile))
		}
	})
}
