package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleTenderText() string {
	return `EDITAL DE LICITAÇÃO Nº 012/2025
Órgão Licitante: Prefeitura Municipal do Recife
Pregão Eletrônico Nº 012/2025
Tipo: Menor Preço Global
Valor Estimado: R$ 1.200.000,00
Prazo de execução: 12 (doze) meses
Data limite para propostas: 10/09/2025

DO OBJETO
Contratação de empresa especializada em manutenção do parque de
iluminação pública, incluindo o fornecimento de luminárias LED.
3 / 12
https://portal.exemplo.gov.br/edital

CLÁUSULA SEGUNDA - DAS CONDIÇÕES DE PARTICIPAÇÃO`
}

func TestParseTenderHeader(t *testing.T) {
	h := ParseTenderHeader(sampleTenderText())

	assert.Equal(t, "Prefeitura Municipal do Recife", h.Agency)
	assert.Equal(t, "Pregão Eletrônico Nº 012/2025", h.Modality)
	assert.Equal(t, "Menor Preço Global", h.Type)
	assert.Equal(t, "R$ 1.200.000,00", h.BudgetValue)
	assert.Equal(t, "12 (doze) meses", h.ExecutionTerm)
	assert.Equal(t, "10/09/2025", h.ProposalDeadline)
	assert.Equal(t,
		"Contratação de empresa especializada em manutenção do parque de iluminação pública, incluindo o fornecimento de luminárias LED.",
		h.Object)
}

func TestParseTenderHeaderObjectFallbacks(t *testing.T) {
	t.Run("inline label", func(t *testing.T) {
		h := ParseTenderHeader("Objeto: Aquisição de transformadores de 500 kVA para subestação abrigada.")
		assert.Equal(t, "Aquisição de transformadores de 500 kVA para subestação abrigada.", h.Object)
	})

	t.Run("loose line mention", func(t *testing.T) {
		h := ParseTenderHeader("preâmbulo\nO objeto da presente licitação é a aquisição de cabos de média tensão\nrodapé")
		assert.Equal(t, "O objeto da presente licitação é a aquisição de cabos de média tensão", h.Object)
	})

	t.Run("long object is capped", func(t *testing.T) {
		block := "DO OBJETO\n" + strings.Repeat("manutenção de redes elétricas de distribuição ", 20) + "\nCLÁUSULA"
		h := ParseTenderHeader(block)
		assert.True(t, strings.HasSuffix(h.Object, "…"))
		assert.LessOrEqual(t, len([]rune(h.Object)), maxObjectChars+1)
	})
}

func TestParseTenderHeaderRejectsOCRJunk(t *testing.T) {
	t.Run("dash placeholder", func(t *testing.T) {
		h := ParseTenderHeader("Órgão Licitante: -")
		assert.Empty(t, h.Agency)
	})

	t.Run("spilled layout words", func(t *testing.T) {
		h := ParseTenderHeader("Contratante: para")
		assert.Empty(t, h.Agency)
	})

	t.Run("empty document", func(t *testing.T) {
		h := ParseTenderHeader("")
		assert.Empty(t, h.Agency)
		assert.Empty(t, h.Modality)
		assert.Empty(t, h.Object)
	})
}
