package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analista-digital/licita-cli/internal/core/domain"
	"github.com/analista-digital/licita-cli/internal/core/ports/driven"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleCertificate() domain.Certificate {
	return domain.Certificate{
		SourceID:               "gerente-a/cat-112233.pdf",
		FileName:               "CAT 112233 iluminação pública.pdf",
		Manager:                "gerente-a",
		TenantID:               "t1",
		RawText:                "Certidão de Acervo Técnico CAT Nº 112233/2021 manutenção de iluminação pública ART 445566 CREA-PE",
		CertificateNumber:      "112233/2021",
		IssuingBody:            "CREA-PE",
		Year:                   2021,
		HasLicenseMark:         true,
		HasCouncilRegistration: true,
		MentionsMaintenance:    true,
		ProfessionalName:       "Ana Lima",
		ProfessionalTitle:      "Engenheira Eletricista",
		Completion:             domain.CompletionCompleted,
		ScopeSummary:           "Manutenção de iluminação pública",
		DomainTags:             []string{"eletrica"},
		ChunkCount:             2,
		ProcessedAt:            time.Now().Truncate(time.Second),
	}
}

func TestCertificateRoundTrip(t *testing.T) {
	store := newTestStore(t)
	certs := store.CertificateStore()
	ctx := context.Background()

	want := sampleCertificate()
	require.NoError(t, certs.UpsertCertificate(ctx, want))

	got, err := certs.GetCertificate(ctx, "t1", want.SourceID)
	require.NoError(t, err)
	assert.Equal(t, want.CertificateNumber, got.CertificateNumber)
	assert.Equal(t, want.DomainTags, got.DomainTags)
	assert.Equal(t, want.Completion, got.Completion)
	assert.True(t, got.HasLicenseMark)
	assert.Equal(t, want.ProcessedAt.Unix(), got.ProcessedAt.Unix())

	// Upsert replaces in place.
	want.Year = 2022
	require.NoError(t, certs.UpsertCertificate(ctx, want))
	count, err := certs.CountCertificates(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err = certs.GetCertificate(ctx, "t1", want.SourceID)
	require.NoError(t, err)
	assert.Equal(t, 2022, got.Year)
}

func TestCertificateTenantIsolation(t *testing.T) {
	store := newTestStore(t)
	certs := store.CertificateStore()
	ctx := context.Background()

	cert := sampleCertificate()
	require.NoError(t, certs.UpsertCertificate(ctx, cert))

	_, err := certs.GetCertificate(ctx, "t2", cert.SourceID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := certs.ListCertificates(ctx, "t2")
	require.NoError(t, err)
	assert.Empty(t, list)

	err = certs.UpsertCertificate(ctx, domain.Certificate{SourceID: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidTenant)
}

func TestFindCertificatesPatterns(t *testing.T) {
	store := newTestStore(t)
	certs := store.CertificateStore()
	ctx := context.Background()

	lighting := sampleCertificate()
	water := sampleCertificate()
	water.SourceID = "gerente-b/cat-778899.pdf"
	water.FileName = "CAT 778899 adução.pdf"
	water.RawText = "Certidão de Acervo Técnico CAT Nº 778899/2020 sistema de adução de água e hidrômetros"
	require.NoError(t, certs.UpsertCertificate(ctx, lighting))
	require.NoError(t, certs.UpsertCertificate(ctx, water))

	t.Run("domain patterns narrow the result", func(t *testing.T) {
		got, err := certs.FindCertificates(ctx, driven.CertificateQuery{
			TenantID:       "t1",
			DomainPatterns: []string{`ilumina[cç][aã]o`},
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, lighting.SourceID, got[0].SourceID)
	})

	t.Run("term patterns match name or body", func(t *testing.T) {
		got, err := certs.FindCertificates(ctx, driven.CertificateQuery{
			TenantID:     "t1",
			TermPatterns: []string{`hidr[oô]metros`},
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, water.SourceID, got[0].SourceID)
	})

	t.Run("limit caps the scan", func(t *testing.T) {
		got, err := certs.FindCertificates(ctx, driven.CertificateQuery{TenantID: "t1", Limit: 1})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("invalid patterns are skipped, not fatal", func(t *testing.T) {
		got, err := certs.FindCertificates(ctx, driven.CertificateQuery{
			TenantID:     "t1",
			TermPatterns: []string{`([`},
		})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestChunkRoundTrip(t *testing.T) {
	store := newTestStore(t)
	chunks := store.ChunkStore()
	ctx := context.Background()

	in := []domain.Chunk{
		{ID: "c1", TenantID: "t1", SourceID: "src", Position: 0, Content: "Certidão de Acervo Técnico CAT Nº 1", Embedding: []float32{0.1, 0.2, 0.3}},
		{ID: "c2", TenantID: "t1", SourceID: "src", Position: 1, Content: "trecho sem marca"},
	}
	require.NoError(t, chunks.ReplaceChunks(ctx, "t1", "src", in))

	all, err := chunks.FindChunks(ctx, driven.ChunkQuery{TenantID: "t1"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, all[0].Embedding)
	assert.Nil(t, all[1].Embedding)

	marked, err := chunks.FindChunks(ctx, driven.ChunkQuery{TenantID: "t1", RequireCertificateMark: true})
	require.NoError(t, err)
	require.Len(t, marked, 1)
	assert.Equal(t, "c1", marked[0].ID)

	// Replace swaps the whole set.
	require.NoError(t, chunks.ReplaceChunks(ctx, "t1", "src", in[:1]))
	count, err := chunks.CountChunks(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestJobStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	jobs := store.JobStore()
	ctx := context.Background()

	first := domain.Job{
		ID:        "job-1",
		TenantID:  "t1",
		Kind:      domain.JobKindSync,
		Status:    domain.JobRunning,
		StartedAt: time.Now().Add(-time.Minute).Truncate(time.Second),
	}
	second := first
	second.ID = "job-2"
	second.StartedAt = time.Now().Truncate(time.Second)

	require.NoError(t, jobs.CreateJob(ctx, first))
	require.NoError(t, jobs.CreateJob(ctx, second))
	assert.ErrorIs(t, jobs.CreateJob(ctx, first), domain.ErrAlreadyExists)

	got, err := jobs.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobRunning, got.Status)
	assert.True(t, got.FinishedAt.IsZero())

	got.Status = domain.JobCompleted
	got.Progress = 100
	got.FinishedAt = time.Now().Truncate(time.Second)
	require.NoError(t, jobs.UpdateJob(ctx, got))

	updated, err := jobs.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, updated.Status)
	assert.False(t, updated.FinishedAt.IsZero())

	list, err := jobs.ListJobs(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "job-2", list[0].ID)

	_, err = jobs.GetJob(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
	assert.ErrorIs(t, jobs.UpdateJob(ctx, domain.Job{ID: "missing"}), domain.ErrJobNotFound)
}
