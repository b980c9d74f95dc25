// Package chromem provides a vector index adapter backed by chromem-go,
// an embedded vector database with optional on-disk persistence.
//
// Each tenant gets its own collection, so nearest-neighbour queries never
// cross tenants. Embeddings are always computed upstream by the configured
// provider; the collection-level embedding function is a guard that rejects
// any attempt to embed inside the index.
package chromem

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/analista-digital/licita-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// collectionNameRx strips characters chromem's persistent store cannot use
// in file names.
var collectionNameRx = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Index is a chromem-go backed nearest-neighbour index.
type Index struct {
	db *chromemgo.DB
}

// NewIndex creates an in-memory index. Contents are lost on exit; the
// ingestor rebuilds them from the stored chunks.
func NewIndex() *Index {
	return &Index{db: chromemgo.NewDB()}
}

// NewPersistentIndex creates an index persisted under dir.
func NewPersistentIndex(dir string) (*Index, error) {
	db, err := chromemgo.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("opening vector index: %w", err)
	}
	return &Index{db: db}, nil
}

// IndexChunk stores one embedding under the tenant's collection.
func (x *Index) IndexChunk(ctx context.Context, tenantID, sourceID, chunkID, content string, embedding []float32) error {
	if len(embedding) == 0 {
		return errors.New("empty embedding")
	}

	coll, err := x.collection(tenantID)
	if err != nil {
		return err
	}

	doc := chromemgo.Document{
		ID:        chunkID,
		Content:   content,
		Embedding: embedding,
		Metadata:  map[string]string{"source_id": sourceID},
	}
	if err := coll.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("indexing chunk %s: %w", chunkID, err)
	}
	return nil
}

// Query returns up to limit nearest neighbours of the query vector.
func (x *Index) Query(ctx context.Context, tenantID string, embedding []float32, limit int) ([]driven.VectorHit, error) {
	coll, err := x.collection(tenantID)
	if err != nil {
		return nil, err
	}

	// chromem rejects nResults greater than the collection size.
	count := coll.Count()
	if count == 0 || limit <= 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := coll.QueryEmbedding(ctx, embedding, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying vector index: %w", err)
	}

	hits := make([]driven.VectorHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, driven.VectorHit{
			SourceID:   r.Metadata["source_id"],
			Content:    r.Content,
			Similarity: clamp01(r.Similarity),
		})
	}
	return hits, nil
}

// DropSource removes all vectors of one source.
func (x *Index) DropSource(ctx context.Context, tenantID, sourceID string) error {
	coll, err := x.collection(tenantID)
	if err != nil {
		return err
	}
	if coll.Count() == 0 {
		return nil
	}
	if err := coll.Delete(ctx, map[string]string{"source_id": sourceID}, nil); err != nil {
		return fmt.Errorf("dropping source %s: %w", sourceID, err)
	}
	return nil
}

func (x *Index) collection(tenantID string) (*chromemgo.Collection, error) {
	name := "tenant-" + collectionNameRx.ReplaceAllString(tenantID, "-")
	coll, err := x.db.GetOrCreateCollection(name, nil, rejectLocalEmbedding)
	if err != nil {
		return nil, fmt.Errorf("opening collection %s: %w", name, err)
	}
	return coll, nil
}

// rejectLocalEmbedding is wired as the collection embedding function so a
// document added without a precomputed vector fails loudly instead of
// silently calling a default remote API.
func rejectLocalEmbedding(context.Context, string) ([]float32, error) {
	return nil, errors.New("embedding must be computed by the configured provider")
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
