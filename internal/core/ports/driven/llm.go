package driven

import "context"

// LLMService generates text completions.
// This port is optional: services receiving a nil LLMService skip
// requirement extraction and free-text synthesis.
type LLMService interface {
	// Complete sends a prompt and returns the raw model output.
	Complete(ctx context.Context, prompt string) (string, error)

	// GetModelName returns the model identifier.
	GetModelName() string
}
