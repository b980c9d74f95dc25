package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedModelOutput indicates the completion service's response
	// could not be parsed into the expected JSON array of requirement
	// strings. Content-shape failures are never retried internally.
	ErrMalformedModelOutput = errors.New("malformed model output")

	// ErrStoreUnavailable indicates a persistence backend cannot be
	// reached. The retriever recovers locally by continuing with the
	// sources that remain available.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidTenant indicates a tenant identifier is missing where a
	// scoped store query requires one.
	ErrInvalidTenant = errors.New("invalid tenant scope")

	// ErrLLMUnavailable indicates the completion service is not
	// configured. Requirement extraction and free-text justifications
	// are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. The vector blend is disabled; lexical scoring stands.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrJobNotFound indicates an unknown job id.
	ErrJobNotFound = errors.New("job not found")

	// ErrJobFinished indicates a state transition on a terminal job.
	ErrJobFinished = errors.New("job already finished")

	// ErrSyncInProgress indicates a sync is already running for the tenant.
	ErrSyncInProgress = errors.New("sync in progress")
)
