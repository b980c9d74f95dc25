package services

import (
	"context"
	"fmt"

	"github.com/analista-digital/licita-cli/internal/core/domain"
	"github.com/analista-digital/licita-cli/internal/core/ports/driven"
	"github.com/analista-digital/licita-cli/internal/core/ports/driving"
	"github.com/analista-digital/licita-cli/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsManager = (*SettingsService)(nil)

// SettingsService validates and persists application configuration.
type SettingsService struct {
	store driven.ConfigStore
}

// NewSettingsService creates a settings manager backed by the given store.
func NewSettingsService(store driven.ConfigStore) *SettingsService {
	return &SettingsService{store: store}
}

// Get returns the current settings.
func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	return s.store.Load(ctx)
}

// Update validates and persists new settings.
func (s *SettingsService) Update(ctx context.Context, settings domain.Settings) error {
	if err := ValidateSettings(settings); err != nil {
		return err
	}
	if err := s.store.Save(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	logger.Debug("Settings saved to %s", s.store.Path())
	return nil
}

// ConfigPath returns the location of the settings file.
func (s *SettingsService) ConfigPath() string {
	return s.store.Path()
}

// ValidateSettings checks cross-field consistency of one settings value.
func ValidateSettings(settings domain.Settings) error {
	if !settings.Backend.IsValid() {
		return fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidInput, settings.Backend)
	}
	if settings.Backend == domain.StoreBackendMongo && settings.MongoURI == "" {
		return fmt.Errorf("%w: mongo backend needs a connection URI", domain.ErrInvalidInput)
	}
	if !settings.Mode.IsValid() {
		return fmt.Errorf("%w: unknown match mode %q", domain.ErrInvalidInput, settings.Mode)
	}
	if settings.Mode.RequiresEmbedding() {
		if err := validateProvider("embedding", settings.Embedding); err != nil {
			return err
		}
	}
	if settings.LLM.Provider != "" {
		if err := validateProvider("llm", settings.LLM); err != nil {
			return err
		}
	}
	return nil
}

func validateProvider(role string, p domain.ProviderSettings) error {
	if !p.Provider.IsValid() {
		return fmt.Errorf("%w: unknown %s provider %q", domain.ErrInvalidInput, role, p.Provider)
	}
	if p.Model == "" {
		return fmt.Errorf("%w: %s provider needs a model name", domain.ErrInvalidInput, role)
	}
	if p.Provider.RequiresAPIKey() && p.APIKey == "" {
		return fmt.Errorf("%w: %s provider %s needs an API key", domain.ErrInvalidInput, role, p.Provider)
	}
	if p.Provider == domain.AIProviderOllama && p.BaseURL == "" {
		return fmt.Errorf("%w: %s provider ollama needs a base URL", domain.ErrInvalidInput, role)
	}
	return nil
}
