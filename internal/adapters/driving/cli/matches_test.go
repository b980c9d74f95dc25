package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

func setupMatchesTest(matcher *mockMatcher) func() {
	old := certificateMatcher
	oldTenant := activeTenant
	certificateMatcher = matcher
	activeTenant = "t1"
	return func() {
		certificateMatcher = old
		activeTenant = oldTenant
	}
}

func TestMatchesCmd_InlineText(t *testing.T) {
	matcher := &mockMatcher{matches: []domain.RankedCertificate{
		{
			Certificate: domain.Certificate{
				SourceID:          "gerente-a/cat-112233.pdf",
				CertificateNumber: "112233/2021",
				Year:              2021,
				ScopeSummary:      "Manutenção de iluminação pública",
			},
			Score: 8.5,
		},
	}}
	defer setupMatchesTest(matcher)()

	out, err := execute("matches", "manutenção de iluminação pública")
	require.NoError(t, err)
	assert.Equal(t, "manutenção de iluminação pública", matcher.gotText)
	assert.Contains(t, out, "[8.5] gerente-a/cat-112233.pdf")
	assert.Contains(t, out, "CAT 112233/2021")
}

func TestMatchesCmd_FileArgument(t *testing.T) {
	matcher := &mockMatcher{}
	defer setupMatchesTest(matcher)()

	path := writeTempFile(t, "objeto.txt", "sistema de adução de água")
	_, err := execute("matches", path)
	require.NoError(t, err)
	assert.Equal(t, "sistema de adução de água", matcher.gotText)
}

func TestMatchesCmd_NoResults(t *testing.T) {
	defer setupMatchesTest(&mockMatcher{})()

	out, err := execute("matches", "objeto sem acervo")
	require.NoError(t, err)
	assert.Contains(t, out, "No matching certificates found")
}

func TestMatchesCmd_NotConfigured(t *testing.T) {
	old := certificateMatcher
	certificateMatcher = nil
	defer func() { certificateMatcher = old }()

	_, err := execute("matches", "objeto")
	assert.Error(t, err)
}
