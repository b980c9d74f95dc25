// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/analista-digital/licita-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/analista-digital/licita-cli/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/analista-digital/licita-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/analista-digital/licita-cli/internal/adapters/driven/llm/openai"
	"github.com/analista-digital/licita-cli/internal/core/domain"
	"github.com/analista-digital/licita-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// pinger is implemented by adapters that can cheaply verify connectivity.
type pinger interface {
	Ping(ctx context.Context) error
}

// CreateEmbeddingService creates the appropriate embedding service based on
// settings. Returns nil if no provider is configured.
func CreateEmbeddingService(cfg domain.ProviderSettings) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case "":
		return nil, nil

	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if no provider is configured.
func CreateLLMService(cfg domain.ProviderSettings) (driven.LLMService, error) {
	switch cfg.Provider {
	case "":
		return nil, nil

	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and
// verifies the endpoint is reachable before handing it to the caller.
func CreateAndValidateEmbeddingService(cfg domain.ProviderSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}
	if err := validate(svc); err != nil {
		return nil, fmt.Errorf("%w: service unreachable (%v)", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and verifies the
// endpoint is reachable before handing it to the caller.
func CreateAndValidateLLMService(cfg domain.ProviderSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}
	if err := validate(svc); err != nil {
		return nil, fmt.Errorf("%w: service unreachable (%v)", domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}

func validate(svc any) error {
	p, ok := svc.(pinger)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return p.Ping(ctx)
}
