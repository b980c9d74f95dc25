package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/analista-digital/licita-cli/internal/core/domain"
	"github.com/analista-digital/licita-cli/internal/core/ports/driven"
	"github.com/analista-digital/licita-cli/internal/core/ports/driving"
	"github.com/analista-digital/licita-cli/internal/logger"
	"github.com/analista-digital/licita-cli/internal/postprocessors/chunker"
)

// Ensure IngestService implements the interface.
var _ driving.CertificateIngestor = (*IngestService)(nil)

// Embedding providers rate-limit aggressively; four requests per second
// keeps a full tree sync under their free-tier quotas.
const (
	embedRequestsPerSecond = 4
	embedBurst             = 4
)

// IngestService walks the certificate tree and keeps the stores current.
// One sync per tenant runs at a time; a second request fails with
// domain.ErrSyncInProgress.
type IngestService struct {
	root             string
	files            driven.FileTextProvider
	certStore        driven.CertificateStore
	chunkStore       driven.ChunkStore
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	jobs             driving.JobTracker
	splitter         *chunker.Processor
	limiter          *rate.Limiter

	mu      sync.Mutex
	syncing map[string]bool
}

// NewIngestService creates a certificate ingestor. The file provider,
// certificate store and job tracker are required; chunk store, vector index
// and embedding service are optional.
func NewIngestService(
	root string,
	files driven.FileTextProvider,
	certStore driven.CertificateStore,
	chunkStore driven.ChunkStore,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
	jobs driving.JobTracker,
) *IngestService {
	return &IngestService{
		root:             root,
		files:            files,
		certStore:        certStore,
		chunkStore:       chunkStore,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
		jobs:             jobs,
		splitter:         chunker.New(),
		limiter:          rate.NewLimiter(rate.Limit(embedRequestsPerSecond), embedBurst),
		syncing:          make(map[string]bool),
	}
}

// Sync runs ingestion synchronously and returns the finished job record.
func (s *IngestService) Sync(ctx context.Context, tenantID string, opts driving.SyncOptions) (domain.Job, error) {
	if tenantID == "" {
		return domain.Job{}, domain.ErrInvalidTenant
	}
	if !s.acquire(tenantID) {
		return domain.Job{}, domain.ErrSyncInProgress
	}
	defer s.release(tenantID)

	job, err := s.jobs.Start(ctx, tenantID, domain.JobKindSync)
	if err != nil {
		return domain.Job{}, err
	}
	s.run(ctx, job.ID, tenantID, opts)
	return s.jobs.Status(ctx, tenantID, job.ID)
}

// SyncAsync starts ingestion in the background and returns the job id.
// The job record carries progress and the final state.
func (s *IngestService) SyncAsync(ctx context.Context, tenantID string, opts driving.SyncOptions) (string, error) {
	if tenantID == "" {
		return "", domain.ErrInvalidTenant
	}
	if !s.acquire(tenantID) {
		return "", domain.ErrSyncInProgress
	}

	job, err := s.jobs.Start(ctx, tenantID, domain.JobKindSync)
	if err != nil {
		s.release(tenantID)
		return "", err
	}

	go func() {
		defer s.release(tenantID)
		// The caller's context ends with the request; the sync must not.
		s.run(context.Background(), job.ID, tenantID, opts)
	}()
	return job.ID, nil
}

func (s *IngestService) acquire(tenantID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.syncing[tenantID] {
		return false
	}
	s.syncing[tenantID] = true
	return true
}

func (s *IngestService) release(tenantID string) {
	s.mu.Lock()
	delete(s.syncing, tenantID)
	s.mu.Unlock()
}

// run processes the whole tree for one tenant, updating the job as it goes.
// Per-file failures are counted and logged, never fatal.
func (s *IngestService) run(ctx context.Context, jobID, tenantID string, opts driving.SyncOptions) {
	logger.Section("Certificate Sync")
	logger.Info("Syncing tenant %s from %s (force=%v)", tenantID, s.root, opts.Force)

	sources, err := s.files.ListFiles(ctx, s.root, tenantID)
	if err != nil {
		_ = s.jobs.Fail(ctx, jobID, fmt.Sprintf("list files: %v", err))
		return
	}

	var processed, skipped, failed int
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			_ = s.jobs.Fail(ctx, jobID, fmt.Sprintf("sync interrupted: %v", err))
			return
		}
		_ = s.jobs.Progress(ctx, jobID, fmt.Sprintf("processing %s", src.Name), i, len(sources))

		sourceID := src.Manager + "/" + src.Name
		if !opts.Force {
			if existing, err := s.certStore.GetCertificate(ctx, tenantID, sourceID); err == nil && existing.ChunkCount > 0 {
				skipped++
				continue
			}
		}

		if err := s.ingestFile(ctx, tenantID, sourceID, src); err != nil {
			logger.Warn("Failed to ingest %s: %v", sourceID, err)
			failed++
			continue
		}
		processed++
	}

	phase := fmt.Sprintf("done: %d processed, %d skipped, %d failed", processed, skipped, failed)
	_ = s.jobs.Progress(ctx, jobID, phase, len(sources), len(sources))
	_ = s.jobs.Complete(ctx, jobID)
	logger.Info("Sync finished for tenant %s: %s", tenantID, phase)
}

// ingestFile extracts, chunks, optionally embeds and stores one file.
func (s *IngestService) ingestFile(ctx context.Context, tenantID, sourceID string, src driven.SourceFile) error {
	text, err := s.files.ExtractText(ctx, src.Path)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}

	cert := ExtractCertificate(sourceID, src.Name, text)
	cert.TenantID = tenantID
	cert.Manager = src.Manager
	cert.ProcessedAt = time.Now()

	chunks := s.splitter.Split(tenantID, sourceID, text)
	cert.ChunkCount = len(chunks)

	if s.embeddingService != nil {
		s.embedChunks(ctx, tenantID, sourceID, chunks)
	}

	if err := s.certStore.UpsertCertificate(ctx, cert); err != nil {
		return fmt.Errorf("store certificate: %w", err)
	}
	if s.chunkStore != nil {
		if err := s.chunkStore.ReplaceChunks(ctx, tenantID, sourceID, chunks); err != nil {
			return fmt.Errorf("store chunks: %w", err)
		}
	}
	logger.Debug("Ingested %s (%d chunks)", sourceID, len(chunks))
	return nil
}

// embedChunks fills chunk embeddings and feeds the vector index. The first
// embedding failure stops the batch; the sync carries on lexical-only for
// this source.
func (s *IngestService) embedChunks(ctx context.Context, tenantID, sourceID string, chunks []domain.Chunk) {
	if s.vectorIndex != nil {
		if err := s.vectorIndex.DropSource(ctx, tenantID, sourceID); err != nil {
			logger.Warn("Failed to drop stale vectors for %s: %v", sourceID, err)
		}
	}
	for i := range chunks {
		if err := s.limiter.Wait(ctx); err != nil {
			return
		}
		vec, err := s.embeddingService.GenerateEmbedding(ctx, chunks[i].Content)
		if err != nil {
			logger.Warn("Embedding failed for %s chunk %d: %v", sourceID, i, err)
			return
		}
		chunks[i].Embedding = vec
		if s.vectorIndex != nil {
			if err := s.vectorIndex.IndexChunk(ctx, tenantID, sourceID, chunks[i].ID, chunks[i].Content, vec); err != nil {
				logger.Warn("Vector indexing failed for %s chunk %d: %v", sourceID, i, err)
			}
		}
	}
}
