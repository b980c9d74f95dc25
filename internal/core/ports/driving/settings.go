package driving

import (
	"context"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

// SettingsManager reads and updates application configuration.
type SettingsManager interface {
	// Get returns the current settings.
	Get(ctx context.Context) (domain.Settings, error)

	// Update validates and persists new settings.
	Update(ctx context.Context, settings domain.Settings) error

	// ConfigPath returns the location of the settings file.
	ConfigPath() string
}
