package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

func electricalCert() domain.Certificate {
	return domain.Certificate{
		SourceID:               "gerente-a/cat-sub.pdf",
		FileName:               "CAT subestação 2021.pdf",
		RawText:                "manutenção de subestação 69 kV com troca de transformadores, atividade concluída em 2021",
		HasLicenseMark:         true,
		HasCouncilRegistration: true,
		MentionsMaintenance:    true,
		Year:                   2021,
		DomainTags:             []string{"eletrica"},
	}
}

func waterCert() domain.Certificate {
	return domain.Certificate{
		SourceID: "gerente-b/cat-adutora.pdf",
		FileName: "CAT adução 2021.pdf",
		RawText:  "execução de sistema de adução de água e instalação de hidrômetros em 2021",
		Year:     2021,
	}
}

func TestScoreCertificate(t *testing.T) {
	object := "manutenção do parque de iluminação pública com luminárias LED e subestação"

	t.Run("aligned certificate scores higher than intruder", func(t *testing.T) {
		aligned := ScoreCertificate(electricalCert(), object, "")
		intruder := ScoreCertificate(waterCert(), object, "")
		assert.Greater(t, aligned, intruder)
		assert.Negative(t, intruder)
	})

	t.Run("lot domain adds a smaller bonus", func(t *testing.T) {
		base := ScoreCertificate(electricalCert(), object, "")
		withLot := ScoreCertificate(electricalCert(), object, "lote 2: subestações e disjuntores")
		assert.InDelta(t, base+4.0, withLot, 0.001)
	})

	t.Run("metadata marks add up", func(t *testing.T) {
		cert := electricalCert()
		with := ScoreCertificate(cert, object, "")
		cert.HasLicenseMark = false
		cert.HasCouncilRegistration = false
		without := ScoreCertificate(cert, object, "")
		assert.InDelta(t, with-3.0, without, 0.001)
	})

	t.Run("recency rewards newer certificates", func(t *testing.T) {
		newer := electricalCert()
		older := electricalCert()
		older.RawText = "manutenção de subestação 69 kV com troca de transformadores, atividade concluída em 2016"
		older.Year = 2016
		assert.Greater(t, ScoreCertificate(newer, object, ""), ScoreCertificate(older, object, ""))
	})

	t.Run("electrical title affinity", func(t *testing.T) {
		cert := electricalCert()
		plain := ScoreCertificate(cert, object, "")
		cert.ProfessionalTitle = "Engenheiro Eletricista"
		assert.InDelta(t, plain+1.0, ScoreCertificate(cert, object, ""), 0.001)
	})

	t.Run("untyped object falls back to token overlap", func(t *testing.T) {
		object := "serviços continuados de portaria e limpeza predial"
		cert := domain.Certificate{RawText: "prestação de serviços de portaria e limpeza em prédios públicos"}
		overlap := ScoreCertificate(cert, object, "")
		// predial triggers the civil lexicon? no: object says "limpeza predial",
		// which matches no civil pattern, so the fallback path applies.
		assert.Positive(t, overlap)

		disjoint := domain.Certificate{RawText: "fornecimento de merenda para unidades escolares"}
		assert.Negative(t, ScoreCertificate(disjoint, object, ""))
	})
}

func TestRankCertificates(t *testing.T) {
	object := "registro e manutenção do parque de iluminação pública, luminárias LED"

	t.Run("drops certificates without domain overlap", func(t *testing.T) {
		ranked := RankCertificates([]domain.Certificate{electricalCert(), waterCert()}, object, "")
		assert.Len(t, ranked, 1)
		assert.Equal(t, "gerente-a/cat-sub.pdf", ranked[0].SourceID)
	})

	t.Run("orders by descending score", func(t *testing.T) {
		strong := electricalCert()
		weak := electricalCert()
		weak.SourceID = "gerente-a/cat-weak.pdf"
		weak.HasLicenseMark = false
		weak.MentionsMaintenance = false
		ranked := RankCertificates([]domain.Certificate{weak, strong}, object, "")
		assert.Len(t, ranked, 2)
		assert.Equal(t, "gerente-a/cat-sub.pdf", ranked[0].SourceID)
		assert.GreaterOrEqual(t, ranked[0].Score, ranked[1].Score)
	})

	t.Run("untyped object keeps everything", func(t *testing.T) {
		ranked := RankCertificates([]domain.Certificate{electricalCert(), waterCert()}, "objeto genérico", "")
		assert.Len(t, ranked, 2)
	})
}

func TestUniqueCertificates(t *testing.T) {
	a := domain.RankedCertificate{Certificate: electricalCert(), Score: 10}
	aDup := domain.RankedCertificate{Certificate: electricalCert(), Score: 3}
	b := domain.RankedCertificate{Certificate: waterCert(), Score: 5}

	t.Run("first occurrence wins", func(t *testing.T) {
		out := UniqueCertificates([]domain.RankedCertificate{a, aDup, b})
		assert.Len(t, out, 2)
		assert.Equal(t, 10.0, out[0].Score)
	})

	t.Run("idempotent", func(t *testing.T) {
		once := UniqueCertificates([]domain.RankedCertificate{a, aDup, b})
		twice := UniqueCertificates(once)
		assert.Equal(t, once, twice)
	})
}
