package memory

import (
	"context"
	"sync"

	"github.com/analista-digital/licita-cli/internal/core/domain"
	"github.com/analista-digital/licita-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is an in-memory implementation of driven.ConfigStore.
type ConfigStore struct {
	mu       sync.RWMutex
	settings domain.Settings
}

// NewConfigStore creates an in-memory config store seeded with defaults.
func NewConfigStore(initial domain.Settings) *ConfigStore {
	return &ConfigStore{settings: initial}
}

// Load returns the stored settings.
func (s *ConfigStore) Load(_ context.Context) (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

// Save replaces the stored settings.
func (s *ConfigStore) Save(_ context.Context, settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}

// Path identifies the store for display.
func (s *ConfigStore) Path() string {
	return "(in-memory)"
}
