package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/analista-digital/licita-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/analista-digital/licita-cli/internal/core/domain"
	"github.com/analista-digital/licita-cli/internal/core/ports/driven"
	"github.com/analista-digital/licita-cli/internal/core/taxonomy"
)

// Store is a unified SQLite-based storage that provides access to the
// certificate, chunk and job store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.licita/data/licita.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".licita", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "licita.db")

	// WAL mode for better concurrency between sync jobs and queries.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CertificateStore returns a CertificateStore interface backed by this store.
func (s *Store) CertificateStore() driven.CertificateStore {
	return &certificateStore{store: s}
}

// ChunkStore returns a ChunkStore interface backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore {
	return &chunkStore{store: s}
}

// JobStore returns a JobStore interface backed by this store.
func (s *Store) JobStore() driven.JobStore {
	return &jobStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Certificate Store ====================

// certificateStore implements driven.CertificateStore.
type certificateStore struct {
	store *Store
}

var _ driven.CertificateStore = (*certificateStore)(nil)

const certificateColumns = `tenant_id, source_id, file_name, manager, raw_text,
	certificate_number, issuing_body, year, has_license_mark,
	has_council_registration, mentions_construction, mentions_maintenance,
	professional_name, professional_title, completion, scope_summary,
	domain_tags, chunk_count, processed_at`

// UpsertCertificate inserts or replaces a certificate.
func (s *certificateStore) UpsertCertificate(ctx context.Context, cert domain.Certificate) error {
	if cert.TenantID == "" {
		return domain.ErrInvalidTenant
	}

	tagsJSON, err := json.Marshal(cert.DomainTags)
	if err != nil {
		return fmt.Errorf("marshalling domain tags: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO certificates (`+certificateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(tenant_id, source_id) DO UPDATE SET
			file_name = excluded.file_name,
			manager = excluded.manager,
			raw_text = excluded.raw_text,
			certificate_number = excluded.certificate_number,
			issuing_body = excluded.issuing_body,
			year = excluded.year,
			has_license_mark = excluded.has_license_mark,
			has_council_registration = excluded.has_council_registration,
			mentions_construction = excluded.mentions_construction,
			mentions_maintenance = excluded.mentions_maintenance,
			professional_name = excluded.professional_name,
			professional_title = excluded.professional_title,
			completion = excluded.completion,
			scope_summary = excluded.scope_summary,
			domain_tags = excluded.domain_tags,
			chunk_count = excluded.chunk_count,
			processed_at = excluded.processed_at
	`, cert.TenantID, cert.SourceID, cert.FileName, cert.Manager, cert.RawText,
		cert.CertificateNumber, cert.IssuingBody, cert.Year, cert.HasLicenseMark,
		cert.HasCouncilRegistration, cert.MentionsConstruction, cert.MentionsMaintenance,
		cert.ProfessionalName, cert.ProfessionalTitle, string(cert.Completion), cert.ScopeSummary,
		string(tagsJSON), cert.ChunkCount, cert.ProcessedAt)

	if err != nil {
		return fmt.Errorf("saving certificate: %w", err)
	}
	return nil
}

// GetCertificate retrieves one certificate by source id.
func (s *certificateStore) GetCertificate(ctx context.Context, tenantID, sourceID string) (domain.Certificate, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+certificateColumns+`
		FROM certificates WHERE tenant_id = ? AND source_id = ?
	`, tenantID, sourceID)

	cert, err := scanCertificate(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Certificate{}, domain.ErrNotFound
		}
		return domain.Certificate{}, err
	}
	return cert, nil
}

// ListCertificates returns all certificates of a tenant, ordered by source id.
func (s *certificateStore) ListCertificates(ctx context.Context, tenantID string) ([]domain.Certificate, error) {
	return s.queryCertificates(ctx, tenantID)
}

// FindCertificates returns certificates matching the query. Patterns are
// evaluated in Go over a tenant-scoped scan.
func (s *certificateStore) FindCertificates(ctx context.Context, q driven.CertificateQuery) ([]domain.Certificate, error) {
	if q.TenantID == "" {
		return nil, domain.ErrInvalidTenant
	}
	termRx := compile(q.TermPatterns)
	domainRx := compile(q.DomainPatterns)

	certs, err := s.queryCertificates(ctx, q.TenantID)
	if err != nil {
		return nil, err
	}

	var out []domain.Certificate
	for _, cert := range certs {
		if len(termRx) > 0 && !matchesAny(termRx, cert.FileName, cert.RawText) {
			continue
		}
		if len(domainRx) > 0 && !matchesAny(domainRx, cert.FileName, cert.RawText) {
			continue
		}
		out = append(out, cert)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

// DeleteCertificate removes a certificate and its chunks.
func (s *certificateStore) DeleteCertificate(ctx context.Context, tenantID, sourceID string) error {
	res, err := s.store.db.ExecContext(ctx,
		"DELETE FROM certificates WHERE tenant_id = ? AND source_id = ?", tenantID, sourceID)
	if err != nil {
		return fmt.Errorf("deleting certificate: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting certificate: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	if _, err := s.store.db.ExecContext(ctx,
		"DELETE FROM chunks WHERE tenant_id = ? AND source_id = ?", tenantID, sourceID); err != nil {
		return fmt.Errorf("deleting certificate chunks: %w", err)
	}
	return nil
}

// CountCertificates returns the number of stored certificates.
func (s *certificateStore) CountCertificates(ctx context.Context, tenantID string) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM certificates WHERE tenant_id = ?", tenantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting certificates: %w", err)
	}
	return count, nil
}

func (s *certificateStore) queryCertificates(ctx context.Context, tenantID string) ([]domain.Certificate, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+certificateColumns+`
		FROM certificates WHERE tenant_id = ?
		ORDER BY source_id
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("querying certificates: %w", err)
	}
	defer rows.Close()

	var certs []domain.Certificate //nolint:prealloc // size unknown from query
	for rows.Next() {
		cert, err := scanCertificate(rows.Scan)
		if err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating certificates: %w", err)
	}

	return certs, nil
}

// scanCertificate reads one certificate row through the given scan function.
func scanCertificate(scan func(dest ...any) error) (domain.Certificate, error) {
	var cert domain.Certificate
	var completion, tagsJSON string
	var processedAt sql.NullTime

	if err := scan(&cert.TenantID, &cert.SourceID, &cert.FileName, &cert.Manager, &cert.RawText,
		&cert.CertificateNumber, &cert.IssuingBody, &cert.Year, &cert.HasLicenseMark,
		&cert.HasCouncilRegistration, &cert.MentionsConstruction, &cert.MentionsMaintenance,
		&cert.ProfessionalName, &cert.ProfessionalTitle, &completion, &cert.ScopeSummary,
		&tagsJSON, &cert.ChunkCount, &processedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Certificate{}, err
		}
		return domain.Certificate{}, fmt.Errorf("scanning certificate: %w", err)
	}

	cert.Completion = domain.CompletionStatus(completion)
	if processedAt.Valid {
		cert.ProcessedAt = processedAt.Time
	}
	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &cert.DomainTags); err != nil {
			return domain.Certificate{}, fmt.Errorf("unmarshaling domain tags: %w", err)
		}
	}
	return cert, nil
}

// ==================== Chunk Store ====================

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// ReplaceChunks atomically swaps all chunks of a source.
func (s *chunkStore) ReplaceChunks(ctx context.Context, tenantID, sourceID string, chunks []domain.Chunk) error {
	if tenantID == "" {
		return domain.ErrInvalidTenant
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM chunks WHERE tenant_id = ? AND source_id = ?", tenantID, sourceID); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, tenant_id, source_id, position, content, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		embeddingBlob := float32SliceToBytes(chunk.Embedding)
		if _, err := stmt.ExecContext(ctx, chunk.ID, tenantID, sourceID,
			chunk.Position, chunk.Content, embeddingBlob); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// FindChunks returns chunks matching the query.
func (s *chunkStore) FindChunks(ctx context.Context, q driven.ChunkQuery) ([]domain.Chunk, error) {
	if q.TenantID == "" {
		return nil, domain.ErrInvalidTenant
	}
	termRx := compile(q.TermPatterns)
	domainRx := compile(q.DomainPatterns)

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, tenant_id, source_id, position, content, embedding
		FROM chunks WHERE tenant_id = ?
		ORDER BY source_id, position
	`, q.TenantID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var out []domain.Chunk
	for rows.Next() {
		var chunk domain.Chunk
		var embeddingBlob []byte
		if err := rows.Scan(&chunk.ID, &chunk.TenantID, &chunk.SourceID,
			&chunk.Position, &chunk.Content, &embeddingBlob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Embedding = bytesToFloat32Slice(embeddingBlob)

		if q.RequireCertificateMark && !certMark(chunk.Content) {
			continue
		}
		if len(termRx) > 0 && !matchesAny(termRx, chunk.SourceID, chunk.Content) {
			continue
		}
		if len(domainRx) > 0 && !matchesAny(domainRx, chunk.SourceID, chunk.Content) {
			continue
		}
		out = append(out, chunk)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return out, nil
}

// CountChunks returns the number of stored chunks for a tenant.
func (s *chunkStore) CountChunks(ctx context.Context, tenantID string) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE tenant_id = ?", tenantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// ==================== Job Store ====================

// jobStore implements driven.JobStore.
type jobStore struct {
	store *Store
}

var _ driven.JobStore = (*jobStore)(nil)

// CreateJob stores a new job.
func (s *jobStore) CreateJob(ctx context.Context, job domain.Job) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO jobs (id, tenant_id, kind, status, progress, phase, total, processed, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, job.ID, job.TenantID, job.Kind, string(job.Status), job.Progress, job.Phase,
		job.Total, job.Processed, job.Error, job.StartedAt, nullTime(job.FinishedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("creating job: %w", err)
	}
	return nil
}

// GetJob returns one job by id.
func (s *jobStore) GetJob(ctx context.Context, id string) (domain.Job, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, kind, status, progress, phase, total, processed, error, started_at, finished_at
		FROM jobs WHERE id = ?
	`, id)

	job, err := scanJob(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Job{}, domain.ErrJobNotFound
		}
		return domain.Job{}, err
	}
	return job, nil
}

// UpdateJob replaces a job record.
func (s *jobStore) UpdateJob(ctx context.Context, job domain.Job) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE jobs SET status = ?, progress = ?, phase = ?, total = ?, processed = ?, error = ?, finished_at = ?
		WHERE id = ?
	`, string(job.Status), job.Progress, job.Phase, job.Total, job.Processed, job.Error,
		nullTime(job.FinishedAt), job.ID)
	if err != nil {
		return fmt.Errorf("updating job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating job: %w", err)
	}
	if affected == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

// ListJobs returns the jobs of one tenant, newest first.
func (s *jobStore) ListJobs(ctx context.Context, tenantID string) ([]domain.Job, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, tenant_id, kind, status, progress, phase, total, processed, error, started_at, finished_at
		FROM jobs WHERE tenant_id = ?
		ORDER BY started_at DESC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job //nolint:prealloc // size unknown from query
	for rows.Next() {
		job, err := scanJob(rows.Scan)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}

	return jobs, nil
}

// scanJob reads one job row through the given scan function.
func scanJob(scan func(dest ...any) error) (domain.Job, error) {
	var job domain.Job
	var status string
	var startedAt, finishedAt sql.NullTime

	if err := scan(&job.ID, &job.TenantID, &job.Kind, &status, &job.Progress, &job.Phase,
		&job.Total, &job.Processed, &job.Error, &startedAt, &finishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Job{}, err
		}
		return domain.Job{}, fmt.Errorf("scanning job: %w", err)
	}

	job.Status = domain.JobStatus(status)
	if startedAt.Valid {
		job.StartedAt = startedAt.Time
	}
	if finishedAt.Valid {
		job.FinishedAt = finishedAt.Time
	}
	return job, nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// nullTime maps the zero time to NULL so unfinished jobs read back zero.
func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

var certMarkRx = regexp.MustCompile(`(?i)Certid[aã]o de Acervo T[ée]cnico|\bCAT\b`)

func certMark(text string) bool {
	return certMarkRx.MatchString(text) || taxonomy.HasCertificateFingerprint(text)
}

func compile(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if rx, err := regexp.Compile(`(?i)` + p); err == nil {
			out = append(out, rx)
		}
	}
	return out
}

func matchesAny(rxs []*regexp.Regexp, name, text string) bool {
	for _, rx := range rxs {
		if rx.MatchString(name) || rx.MatchString(text) {
			return true
		}
	}
	return false
}
