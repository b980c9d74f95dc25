package chromem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexAndQuery(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.IndexChunk(ctx, "t1", "src-a", "c1", "manutenção de iluminação pública", []float32{1, 0, 0}))
	require.NoError(t, idx.IndexChunk(ctx, "t1", "src-a", "c2", "execução de obra civil", []float32{0, 1, 0}))
	require.NoError(t, idx.IndexChunk(ctx, "t1", "src-b", "c3", "sistema de adução de água", []float32{0, 0, 1}))

	hits, err := idx.Query(ctx, "t1", []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "src-a", hits[0].SourceID)
	assert.Equal(t, "manutenção de iluminação pública", hits[0].Content)
	assert.InDelta(t, 1.0, float64(hits[0].Similarity), 0.001)
	assert.Greater(t, hits[0].Similarity, hits[1].Similarity)
}

func TestQueryLimitClampedToCollectionSize(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.IndexChunk(ctx, "t1", "src-a", "c1", "trecho", []float32{1, 0}))

	hits, err := idx.Query(ctx, "t1", []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestQueryEmptyTenant(t *testing.T) {
	idx := NewIndex()

	hits, err := idx.Query(context.Background(), "nobody", []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestTenantIsolation(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.IndexChunk(ctx, "t1", "src-a", "c1", "trecho", []float32{1, 0}))

	hits, err := idx.Query(ctx, "t2", []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestDropSource(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.IndexChunk(ctx, "t1", "src-a", "c1", "primeiro", []float32{1, 0}))
	require.NoError(t, idx.IndexChunk(ctx, "t1", "src-b", "c2", "segundo", []float32{0, 1}))

	require.NoError(t, idx.DropSource(ctx, "t1", "src-a"))

	hits, err := idx.Query(ctx, "t1", []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "src-b", hits[0].SourceID)
}

func TestRejectsEmptyEmbedding(t *testing.T) {
	idx := NewIndex()
	err := idx.IndexChunk(context.Background(), "t1", "src-a", "c1", "trecho", nil)
	assert.Error(t, err)
}
