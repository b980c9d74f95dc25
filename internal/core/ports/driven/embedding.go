package driven

import "context"

// EmbeddingService generates vector embeddings for text.
// This port is optional: services receiving a nil EmbeddingService run in
// lexical-only mode.
type EmbeddingService interface {
	// GenerateEmbedding creates a vector embedding for the given text.
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// GetDimensions returns the embedding dimension of the model.
	GetDimensions() int

	// GetModelName returns the model identifier.
	GetModelName() string
}
