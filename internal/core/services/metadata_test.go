package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

func TestPlausibleYear(t *testing.T) {
	t.Run("ignores legal citation years", func(t *testing.T) {
		text := "nos termos da Lei 5.194 de 1966, atividade concluída em 2021"
		assert.Equal(t, 2021, PlausibleYear(text))
	})

	t.Run("takes the most recent plausible year", func(t *testing.T) {
		assert.Equal(t, 2019, PlausibleYear("contrato de 2017, aditivo em 2019"))
	})

	t.Run("rejects far-future years", func(t *testing.T) {
		assert.Equal(t, 2020, PlausibleYear("vigência até 2099, emitida em 2020"))
	})

	t.Run("zero when nothing qualifies", func(t *testing.T) {
		assert.Equal(t, 0, PlausibleYear("Lei de 1966 e Decreto de 1973"))
		assert.Equal(t, 0, PlausibleYear(""))
	})
}

func TestExtractCertificate(t *testing.T) {
	body := `CERTIDÃO DE ACERVO TÉCNICO
CAT Nº 123456/2020
Profissional: João da Silva Registro 12345-D
Título profissional: Engenheiro Eletricista
Contratante: CELPE
OBJETO: Manutenção preventiva e corretiva de subestação 69 kV. Demais serviços.
ART 998877 registrada no CREA-PE
Atividade concluída em 2020, nos termos da Lei 5.194 de 1966`

	cert := ExtractCertificate("gerente-a/cat-123456.pdf", "CAT 123456 CELPE subestação 2020.pdf", body)

	t.Run("core fields", func(t *testing.T) {
		assert.Equal(t, "123456/2020", cert.CertificateNumber)
		assert.Equal(t, "CELPE", cert.IssuingBody)
		assert.Equal(t, 2020, cert.Year)
		assert.Equal(t, "João da Silva", cert.ProfessionalName)
		assert.Equal(t, "Engenheiro Eletricista", cert.ProfessionalTitle)
		assert.Equal(t, domain.CompletionCompleted, cert.Completion)
	})

	t.Run("boolean marks", func(t *testing.T) {
		assert.True(t, cert.HasLicenseMark)
		assert.True(t, cert.HasCouncilRegistration)
		assert.True(t, cert.MentionsMaintenance)
	})

	t.Run("scope comes from the object block", func(t *testing.T) {
		assert.Contains(t, cert.ScopeSummary, "Manutenção preventiva e corretiva de subestação")
		assert.NotContains(t, cert.ScopeSummary, "Demais serviços")
	})

	t.Run("domain tags include electrical", func(t *testing.T) {
		assert.Contains(t, cert.DomainTags, "eletrica")
	})

	t.Run("raw text is whitespace normalised", func(t *testing.T) {
		assert.NotContains(t, cert.RawText, "\n")
	})
}

func TestExtractCertificateFilenameFallbacks(t *testing.T) {
	t.Run("number and year from the file name", func(t *testing.T) {
		cert := ExtractCertificate("g/x.pdf", "CAT 4521-2019 Maria Souza.pdf", "texto sem número nem data legível")
		assert.Equal(t, "4521", cert.CertificateNumber)
		assert.Equal(t, 2019, cert.Year)
	})

	t.Run("issuing body from the file name", func(t *testing.T) {
		cert := ExtractCertificate("g/y.pdf", "CAT 99 CHESF linha viva.pdf", "conteúdo ilegível")
		assert.Equal(t, "CHESF", cert.IssuingBody)
		assert.Contains(t, cert.DomainTags, "eletrica")
	})

	t.Run("unknown completion by default", func(t *testing.T) {
		cert := ExtractCertificate("g/z.pdf", "documento.pdf", "sem marca de status")
		assert.Equal(t, domain.CompletionUnknown, cert.Completion)
	})
}

func TestExtractScopeFallback(t *testing.T) {
	t.Run("short body returned whole", func(t *testing.T) {
		cert := ExtractCertificate("g/a.pdf", "a.pdf", "serviço de pequeno porte")
		assert.Equal(t, "serviço de pequeno porte", cert.ScopeSummary)
	})

	t.Run("long body truncated with ellipsis", func(t *testing.T) {
		long := ""
		for i := 0; i < 50; i++ {
			long += "execução de serviços continuados "
		}
		cert := ExtractCertificate("g/b.pdf", "b.pdf", long)
		assert.LessOrEqual(t, len([]rune(cert.ScopeSummary)), 304)
		assert.Contains(t, cert.ScopeSummary, "...")
	})
}
