package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analista-digital/licita-cli/internal/adapters/driven/storage/memory"
	"github.com/analista-digital/licita-cli/internal/core/domain"
)

func validSettings() domain.Settings {
	return domain.Settings{
		TenantID:  "t1",
		CertsRoot: "/data/certs",
		DataDir:   "/data",
		Backend:   domain.StoreBackendSQLite,
		Mode:      domain.MatchModeLexical,
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(domain.Settings{}))
	ctx := context.Background()

	want := validSettings()
	require.NoError(t, svc.Update(ctx, want))

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NotEmpty(t, svc.ConfigPath())
}

func TestValidateSettings(t *testing.T) {
	t.Run("mongo backend needs a URI", func(t *testing.T) {
		s := validSettings()
		s.Backend = domain.StoreBackendMongo
		assert.ErrorIs(t, ValidateSettings(s), domain.ErrInvalidInput)

		s.MongoURI = "mongodb://localhost:27017"
		assert.NoError(t, ValidateSettings(s))
	})

	t.Run("unknown backend and mode are rejected", func(t *testing.T) {
		s := validSettings()
		s.Backend = "redis"
		assert.ErrorIs(t, ValidateSettings(s), domain.ErrInvalidInput)

		s = validSettings()
		s.Mode = "fuzzy"
		assert.ErrorIs(t, ValidateSettings(s), domain.ErrInvalidInput)
	})

	t.Run("hybrid mode requires a configured embedding provider", func(t *testing.T) {
		s := validSettings()
		s.Mode = domain.MatchModeHybrid
		assert.ErrorIs(t, ValidateSettings(s), domain.ErrInvalidInput)

		s.Embedding = domain.ProviderSettings{
			Provider: domain.AIProviderOpenAI,
			Model:    "text-embedding-3-small",
			APIKey:   "sk-test",
		}
		assert.NoError(t, ValidateSettings(s))
	})

	t.Run("openai providers need an API key", func(t *testing.T) {
		s := validSettings()
		s.LLM = domain.ProviderSettings{Provider: domain.AIProviderOpenAI, Model: "gpt-4o-mini"}
		assert.ErrorIs(t, ValidateSettings(s), domain.ErrInvalidInput)

		s.LLM.APIKey = "sk-test"
		assert.NoError(t, ValidateSettings(s))
	})

	t.Run("ollama providers need a base URL", func(t *testing.T) {
		s := validSettings()
		s.LLM = domain.ProviderSettings{Provider: domain.AIProviderOllama, Model: "llama3"}
		assert.ErrorIs(t, ValidateSettings(s), domain.ErrInvalidInput)

		s.LLM.BaseURL = "http://localhost:11434"
		assert.NoError(t, ValidateSettings(s))
	})

	t.Run("invalid settings are not persisted", func(t *testing.T) {
		svc := NewSettingsService(memory.NewConfigStore(domain.Settings{}))
		ctx := context.Background()
		require.NoError(t, svc.Update(ctx, validSettings()))

		bad := validSettings()
		bad.Mode = "fuzzy"
		require.Error(t, svc.Update(ctx, bad))

		got, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, validSettings(), got)
	})
}
