package domain

import "time"

// CompletionStatus indicates whether the certified activity was finished.
type CompletionStatus string

// Completion states parsed from certificate text.
const (
	CompletionCompleted  CompletionStatus = "completed"
	CompletionInProgress CompletionStatus = "in_progress"
	CompletionUnknown    CompletionStatus = "unknown"
)

// Certificate represents one professional technical-capability certificate
// ("Certidão de Acervo Técnico", CAT) after text extraction and metadata
// parsing. It is the canonical evidence unit of the matching engine.
type Certificate struct {
	// SourceID is the stable logical identifier: "<manager>/<fileName>"
	// within a tenant, or a store key.
	SourceID string

	// FileName is the display name of the originating file.
	FileName string

	// Manager is the first directory level below the tenant root
	// (the person or unit that owns the certificate).
	Manager string

	// TenantID scopes the certificate to one company.
	TenantID string

	// RawText is the whitespace-normalised full text.
	RawText string

	// CertificateNumber is the CAT number, parsed from text first and
	// from the file name as a fallback.
	CertificateNumber string

	// IssuingBody is the organisation that issued the certificate.
	IssuingBody string

	// Year is the most recent plausible year found in the text
	// (range [1990, now+1]); 0 when none was found.
	Year int

	// HasLicenseMark reports an ART/RRT liability registration mention.
	HasLicenseMark bool

	// HasCouncilRegistration reports a CREA/CAU registration mention.
	HasCouncilRegistration bool

	// MentionsConstruction reports construction/building vocabulary.
	MentionsConstruction bool

	// MentionsMaintenance reports maintenance vocabulary.
	MentionsMaintenance bool

	// ProfessionalName is the certified professional, when stated.
	ProfessionalName string

	// ProfessionalTitle is the professional's title, when stated.
	ProfessionalTitle string

	// Completion is the parsed activity status.
	Completion CompletionStatus

	// ScopeSummary is a descriptive excerpt of the certified service,
	// capped at roughly 500 characters.
	ScopeSummary string

	// DomainTags holds engineering domains inferred from the file name.
	// They are hints, kept separate from text-derived signatures.
	DomainTags []string

	// ChunkCount is the number of indexed chunks for this certificate.
	ChunkCount int

	// ProcessedAt is when the certificate was last ingested.
	ProcessedAt time.Time
}

// Chunk is a fixed-size slice of a certificate's or tender file's text,
// stored separately to support search at sub-document granularity.
// A chunk belongs to exactly one source; chunks are never shared.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// TenantID scopes the chunk to one company.
	TenantID string

	// SourceID links to the owning certificate or tender file.
	SourceID string

	// Position is the ordinal position within the source text.
	Position int

	// Content is the text content of this chunk.
	Content string

	// Embedding is the vector representation for semantic search.
	// Empty when no embedding service was configured at ingest time.
	Embedding []float32
}

// LocalFile is a file supplied directly with an analysis request.
// It is searched in memory and never persisted.
type LocalFile struct {
	// Source is the original file name.
	Source string

	// Text is the extracted plain text.
	Text string
}
