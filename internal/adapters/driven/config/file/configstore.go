// Package file provides a TOML-backed implementation of the config store.
//
// Settings live in ~/.licita/config.toml by default. Absent fields get
// sensible defaults on load, so a missing or empty file yields a working
// lexical-only configuration.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/analista-digital/licita-cli/internal/core/domain"
	"github.com/analista-digital/licita-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
}

// settingsFile is the on-disk TOML shape.
type settingsFile struct {
	TenantID  string       `toml:"tenant_id"`
	CertsRoot string       `toml:"certs_root"`
	DataDir   string       `toml:"data_dir"`
	Backend   string       `toml:"backend"`
	MongoURI  string       `toml:"mongo_uri,omitempty"`
	Mode      string       `toml:"mode"`
	Embedding providerFile `toml:"embedding,omitempty"`
	LLM       providerFile `toml:"llm,omitempty"`
}

type providerFile struct {
	Provider string `toml:"provider,omitempty"`
	Model    string `toml:"model,omitempty"`
	BaseURL  string `toml:"base_url,omitempty"`
	APIKey   string `toml:"api_key,omitempty"`
}

// NewConfigStore creates a TOML-based config store.
// If configDir is empty, defaults to ~/.licita.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".licita")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load reads the stored settings, applying defaults for absent fields.
func (s *ConfigStore) Load(_ context.Context) (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sf settingsFile
	data, err := os.ReadFile(s.filePath)
	switch {
	case os.IsNotExist(err):
		// First run: defaults only.
	case err != nil:
		return domain.Settings{}, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &sf); err != nil {
			return domain.Settings{}, fmt.Errorf("parsing config: %w", err)
		}
	}

	settings := domain.Settings{
		TenantID:  sf.TenantID,
		CertsRoot: sf.CertsRoot,
		DataDir:   sf.DataDir,
		Backend:   domain.StoreBackend(sf.Backend),
		MongoURI:  sf.MongoURI,
		Mode:      domain.MatchMode(sf.Mode),
		Embedding: toProviderSettings(sf.Embedding),
		LLM:       toProviderSettings(sf.LLM),
	}
	applyDefaults(&settings)
	return settings, nil
}

// Save writes the settings with restricted permissions; API keys live here.
func (s *ConfigStore) Save(_ context.Context, settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sf := settingsFile{
		TenantID:  settings.TenantID,
		CertsRoot: settings.CertsRoot,
		DataDir:   settings.DataDir,
		Backend:   string(settings.Backend),
		MongoURI:  settings.MongoURI,
		Mode:      string(settings.Mode),
		Embedding: toProviderFile(settings.Embedding),
		LLM:       toProviderFile(settings.LLM),
	}

	data, err := toml.Marshal(sf)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Path returns the location of the backing file, for display.
func (s *ConfigStore) Path() string {
	return s.filePath
}

func applyDefaults(settings *domain.Settings) {
	home, _ := os.UserHomeDir()
	if settings.TenantID == "" {
		settings.TenantID = "default"
	}
	if settings.CertsRoot == "" && home != "" {
		settings.CertsRoot = filepath.Join(home, ".licita", "certs")
	}
	if settings.DataDir == "" && home != "" {
		settings.DataDir = filepath.Join(home, ".licita", "data")
	}
	if settings.Backend == "" {
		settings.Backend = domain.StoreBackendSQLite
	}
	if settings.Mode == "" {
		settings.Mode = domain.MatchModeLexical
	}
}

func toProviderSettings(p providerFile) domain.ProviderSettings {
	return domain.ProviderSettings{
		Provider: domain.AIProvider(p.Provider),
		Model:    p.Model,
		BaseURL:  p.BaseURL,
		APIKey:   p.APIKey,
	}
}

func toProviderFile(p domain.ProviderSettings) providerFile {
	return providerFile{
		Provider: string(p.Provider),
		Model:    p.Model,
		BaseURL:  p.BaseURL,
		APIKey:   p.APIKey,
	}
}
