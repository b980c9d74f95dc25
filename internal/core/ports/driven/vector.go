package driven

import "context"

// VectorHit is one nearest-neighbour result.
type VectorHit struct {
	// SourceID identifies the certificate the vector belongs to.
	SourceID string

	// Content is the stored text for the hit.
	Content string

	// Similarity is the cosine similarity, already normalised to [0,1].
	Similarity float32
}

// VectorIndex is the optional nearest-neighbour search capability.
// A nil index disables the semantic blend; lexical retrieval stands alone.
type VectorIndex interface {
	// IndexChunk stores one embedding under the tenant's collection.
	IndexChunk(ctx context.Context, tenantID, sourceID, chunkID, content string, embedding []float32) error

	// Query returns up to limit nearest neighbours of the query vector.
	Query(ctx context.Context, tenantID string, embedding []float32, limit int) ([]VectorHit, error)

	// DropSource removes all vectors of one source.
	DropSource(ctx context.Context, tenantID, sourceID string) error
}
