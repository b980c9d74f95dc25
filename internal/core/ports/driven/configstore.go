package driven

import (
	"context"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

// ConfigStore persists application settings.
type ConfigStore interface {
	// Load reads the stored settings, applying defaults for absent fields.
	Load(ctx context.Context) (domain.Settings, error)

	// Save writes the settings.
	Save(ctx context.Context, settings domain.Settings) error

	// Path returns the location of the backing file, for display.
	Path() string
}
