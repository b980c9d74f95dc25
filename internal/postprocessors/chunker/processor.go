// Package chunker provides a fixed-size text chunking processor.
package chunker

import (
	"github.com/google/uuid"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
// Sized so a chunk comfortably holds one certificate clause with context.
const DefaultChunkSize = 2000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 120

// Processor splits certificate text into fixed-size chunks.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Split chunks the text of one source. Empty content produces no chunks.
// Consecutive chunks share overlap characters so clause boundaries are
// never lost to a cut.
func (p *Processor) Split(tenantID, sourceID, content string) []domain.Chunk {
	if content == "" {
		return nil
	}

	contentLen := len(content)
	estimatedChunks := (contentLen / (p.chunkSize - p.overlap)) + 1
	chunks := make([]domain.Chunk, 0, estimatedChunks)

	position := 0
	start := 0

	for start < contentLen {
		end := start + p.chunkSize
		if end > contentLen {
			end = contentLen
		}

		chunks = append(chunks, domain.Chunk{
			ID:       uuid.New().String(),
			TenantID: tenantID,
			SourceID: sourceID,
			Position: position,
			Content:  content[start:end],
		})
		position++

		start += p.chunkSize - p.overlap

		// Avoid infinite loop for edge cases
		if p.chunkSize <= p.overlap {
			break
		}
	}

	return chunks
}

// SplitText chunks plain text without chunk records, for callers that only
// need the string segments (e.g. in-memory evidence search).
func (p *Processor) SplitText(content string) []string {
	if content == "" {
		return nil
	}
	contentLen := len(content)
	var out []string
	start := 0
	for start < contentLen {
		end := start + p.chunkSize
		if end > contentLen {
			end = contentLen
		}
		out = append(out, content[start:end])
		start += p.chunkSize - p.overlap
		if p.chunkSize <= p.overlap {
			break
		}
	}
	return out
}
