// Command licita analyses Brazilian public tenders against the company's
// collection of technical-capacity certificates.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/analista-digital/licita-cli/internal/adapters/driven/ai"
	configfile "github.com/analista-digital/licita-cli/internal/adapters/driven/config/file"
	mongostore "github.com/analista-digital/licita-cli/internal/adapters/driven/storage/mongo"
	sqlitestore "github.com/analista-digital/licita-cli/internal/adapters/driven/storage/sqlite"
	"github.com/analista-digital/licita-cli/internal/adapters/driven/textsource"
	chromemindex "github.com/analista-digital/licita-cli/internal/adapters/driven/vector/chromem"
	"github.com/analista-digital/licita-cli/internal/adapters/driving/cli"
	"github.com/analista-digital/licita-cli/internal/core/domain"
	"github.com/analista-digital/licita-cli/internal/core/ports/driven"
	"github.com/analista-digital/licita-cli/internal/core/services"
	"github.com/analista-digital/licita-cli/internal/logger"
)

// version is overridden at build time via
// -ldflags "-X main.version=v1.2.3".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get(ctx)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	certStore, chunkStore, jobStore, closeStore, err := openStores(ctx, settings)
	if err != nil {
		return err
	}
	defer closeStore()

	var vectorIndex driven.VectorIndex
	var embeddingService driven.EmbeddingService
	if settings.Mode.RequiresEmbedding() {
		embeddingService, err = ai.CreateEmbeddingService(settings.Embedding)
		if err != nil {
			logger.Warn("embedding provider unavailable, falling back to lexical: %v", err)
		}
		if embeddingService != nil {
			idx, err := chromemindex.NewPersistentIndex(filepath.Join(settings.DataDir, "vectors"))
			if err != nil {
				logger.Warn("vector index unavailable: %v", err)
			} else {
				vectorIndex = idx
			}
		}
	}

	llmService, err := ai.CreateLLMService(settings.LLM)
	if err != nil {
		logger.Warn("completion provider unavailable, analysis runs without it: %v", err)
	}

	jobService := services.NewJobService(jobStore)
	ingestService := services.NewIngestService(
		settings.CertsRoot,
		textsource.NewProvider(),
		certStore,
		chunkStore,
		vectorIndex,
		embeddingService,
		jobService,
	)
	matchService := services.NewMatchService(certStore, chunkStore, vectorIndex, embeddingService)

	var requirementService *services.RequirementService
	if llmService != nil {
		requirementService = services.NewRequirementService(llmService)
		promptPath := filepath.Join(filepath.Dir(configStore.Path()), "prompts", "requirements.txt")
		if tmpl, err := os.ReadFile(promptPath); err == nil {
			requirementService.SetPromptTemplate(string(tmpl))
		}
	}
	evidenceService := services.NewEvidenceService(embeddingService, vectorIndex, llmService)
	analysisService := services.NewAnalysisService(matchService, requirementService, evidenceService)

	cli.Configure(cli.Deps{
		Analyzer:  analysisService,
		Matcher:   matchService,
		Ingestor:  ingestService,
		Jobs:      jobService,
		Settings:  settingsService,
		Browser:   certStore,
		TenantID:  settings.TenantID,
		CertsRoot: settings.CertsRoot,
		Version:   version,
	})

	return cli.ExecuteContext(ctx)
}

// openStores opens the configured backend and returns its store views plus
// a close function.
func openStores(ctx context.Context, settings domain.Settings) (
	driven.CertificateStore, driven.ChunkStore, driven.JobStore, func(), error,
) {
	switch settings.Backend {
	case domain.StoreBackendMongo:
		store, err := mongostore.NewStore(ctx, settings.MongoURI, "")
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("opening mongo store: %w", err)
		}
		closeFn := func() {
			if err := store.Close(context.Background()); err != nil {
				logger.Warn("closing mongo store: %v", err)
			}
		}
		return store.CertificateStore(), store.ChunkStore(), store.JobStore(), closeFn, nil

	default:
		store, err := sqlitestore.NewStore(settings.DataDir)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		closeFn := func() {
			if err := store.Close(); err != nil {
				logger.Warn("closing sqlite store: %v", err)
			}
		}
		return store.CertificateStore(), store.ChunkStore(), store.JobStore(), closeFn, nil
	}
}
