package domain

// DebugEvent is a structured progress event emitted by the retriever.
// Purely informational: consuming or dropping events never changes results.
type DebugEvent struct {
	// Kind names the retrieval stage ("vector_certs", "lexical_chunks",
	// "local_files", "scored", ...).
	Kind string

	// Count is the number of items the stage produced.
	Count int

	// Source optionally names the item the event refers to.
	Source string
}

// MatchOptions configures one retrieval run.
type MatchOptions struct {
	// TenantID scopes persistent-store queries. Local files are always
	// searched regardless of tenant.
	TenantID string

	// Debug, when set, receives progress events.
	Debug func(DebugEvent)
}
