// Package mongo provides a shared multi-tenant implementation of the
// certificate, chunk and job store interfaces on MongoDB.
//
// Pattern queries translate to case-insensitive $regex filters evaluated by
// the server. Tenant ids are matched both as plain strings and as ObjectIDs
// because older ingests stored the owning company's ObjectID directly.
package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/analista-digital/licita-cli/internal/core/domain"
	"github.com/analista-digital/licita-cli/internal/core/ports/driven"
)

const (
	certificatesCollection = "certificates"
	chunksCollection       = "chunks"
	jobsCollection         = "jobs"

	connectTimeout = 10 * time.Second
)

// certificateMarkPattern is the loose CAT wording filter applied server-side.
const certificateMarkPattern = `Certid[aã]o de Acervo T[ée]cnico|\bCAT\b`

// Store is a MongoDB-backed storage providing the certificate, chunk and
// job store interfaces through wrapper types.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to MongoDB and verifies the connection.
func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	if database == "" {
		database = "licita"
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return &Store{client: client, db: client.Database(database)}, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
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

// tenantFilter matches both string and legacy ObjectID tenant values.
func tenantFilter(tenantID string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(tenantID); err == nil {
		return bson.M{"$or": bson.A{
			bson.M{"tenant_id": tenantID},
			bson.M{"tenant_id": oid},
		}}
	}
	return bson.M{"tenant_id": tenantID}
}

// regexOr builds an $or filter matching any valid pattern against the given
// fields. Patterns RE2 rejects are dropped rather than sent to the server.
func regexOr(patterns []string, fields ...string) bson.A {
	var or bson.A
	for _, p := range patterns {
		if _, err := regexp.Compile(p); err != nil {
			continue
		}
		rx := primitive.Regex{Pattern: p, Options: "i"}
		for _, f := range fields {
			or = append(or, bson.M{f: rx})
		}
	}
	return or
}

// ==================== Certificate Store ====================

type certificateStore struct {
	store *Store
}

var _ driven.CertificateStore = (*certificateStore)(nil)

// certificateDoc is the persisted shape of a certificate.
type certificateDoc struct {
	TenantID               string    `bson:"tenant_id"`
	SourceID               string    `bson:"source_id"`
	FileName               string    `bson:"file_name"`
	Manager                string    `bson:"manager"`
	RawText                string    `bson:"raw_text"`
	CertificateNumber      string    `bson:"certificate_number"`
	IssuingBody            string    `bson:"issuing_body"`
	Year                   int       `bson:"year"`
	HasLicenseMark         bool      `bson:"has_license_mark"`
	HasCouncilRegistration bool      `bson:"has_council_registration"`
	MentionsConstruction   bool      `bson:"mentions_construction"`
	MentionsMaintenance    bool      `bson:"mentions_maintenance"`
	ProfessionalName       string    `bson:"professional_name"`
	ProfessionalTitle      string    `bson:"professional_title"`
	Completion             string    `bson:"completion"`
	ScopeSummary           string    `bson:"scope_summary"`
	DomainTags             []string  `bson:"domain_tags"`
	ChunkCount             int       `bson:"chunk_count"`
	ProcessedAt            time.Time `bson:"processed_at"`
}

func toCertificateDoc(cert domain.Certificate) certificateDoc {
	return certificateDoc{
		TenantID:               cert.TenantID,
		SourceID:               cert.SourceID,
		FileName:               cert.FileName,
		Manager:                cert.Manager,
		RawText:                cert.RawText,
		CertificateNumber:      cert.CertificateNumber,
		IssuingBody:            cert.IssuingBody,
		Year:                   cert.Year,
		HasLicenseMark:         cert.HasLicenseMark,
		HasCouncilRegistration: cert.HasCouncilRegistration,
		MentionsConstruction:   cert.MentionsConstruction,
		MentionsMaintenance:    cert.MentionsMaintenance,
		ProfessionalName:       cert.ProfessionalName,
		ProfessionalTitle:      cert.ProfessionalTitle,
		Completion:             string(cert.Completion),
		ScopeSummary:           cert.ScopeSummary,
		DomainTags:             cert.DomainTags,
		ChunkCount:             cert.ChunkCount,
		ProcessedAt:            cert.ProcessedAt,
	}
}

func (d certificateDoc) toDomain() domain.Certificate {
	return domain.Certificate{
		TenantID:               d.TenantID,
		SourceID:               d.SourceID,
		FileName:               d.FileName,
		Manager:                d.Manager,
		RawText:                d.RawText,
		CertificateNumber:      d.CertificateNumber,
		IssuingBody:            d.IssuingBody,
		Year:                   d.Year,
		HasLicenseMark:         d.HasLicenseMark,
		HasCouncilRegistration: d.HasCouncilRegistration,
		MentionsConstruction:   d.MentionsConstruction,
		MentionsMaintenance:    d.MentionsMaintenance,
		ProfessionalName:       d.ProfessionalName,
		ProfessionalTitle:      d.ProfessionalTitle,
		Completion:             domain.CompletionStatus(d.Completion),
		ScopeSummary:           d.ScopeSummary,
		DomainTags:             d.DomainTags,
		ChunkCount:             d.ChunkCount,
		ProcessedAt:            d.ProcessedAt,
	}
}

// UpsertCertificate inserts or replaces a certificate.
func (s *certificateStore) UpsertCertificate(ctx context.Context, cert domain.Certificate) error {
	if cert.TenantID == "" {
		return domain.ErrInvalidTenant
	}

	filter := bson.M{"tenant_id": cert.TenantID, "source_id": cert.SourceID}
	_, err := s.store.db.Collection(certificatesCollection).ReplaceOne(
		ctx, filter, toCertificateDoc(cert), options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("saving certificate: %w", err)
	}
	return nil
}

// GetCertificate retrieves one certificate by source id.
func (s *certificateStore) GetCertificate(ctx context.Context, tenantID, sourceID string) (domain.Certificate, error) {
	filter := tenantFilter(tenantID)
	filter["source_id"] = sourceID

	var doc certificateDoc
	err := s.store.db.Collection(certificatesCollection).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return domain.Certificate{}, domain.ErrNotFound
		}
		return domain.Certificate{}, fmt.Errorf("getting certificate: %w", err)
	}
	return doc.toDomain(), nil
}

// ListCertificates returns all certificates of a tenant, ordered by source id.
func (s *certificateStore) ListCertificates(ctx context.Context, tenantID string) ([]domain.Certificate, error) {
	return s.find(ctx, tenantFilter(tenantID), 0)
}

// FindCertificates returns certificates matching the query.
func (s *certificateStore) FindCertificates(ctx context.Context, q driven.CertificateQuery) ([]domain.Certificate, error) {
	if q.TenantID == "" {
		return nil, domain.ErrInvalidTenant
	}

	var and bson.A
	and = append(and, tenantFilter(q.TenantID))
	if or := regexOr(q.TermPatterns, "file_name", "raw_text"); len(or) > 0 {
		and = append(and, bson.M{"$or": or})
	}
	if or := regexOr(q.DomainPatterns, "file_name", "raw_text"); len(or) > 0 {
		and = append(and, bson.M{"$or": or})
	}

	return s.find(ctx, bson.M{"$and": and}, int64(q.Limit))
}

func (s *certificateStore) find(ctx context.Context, filter bson.M, limit int64) ([]domain.Certificate, error) {
	opts := options.Find().SetSort(bson.D{{Key: "source_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := s.store.db.Collection(certificatesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("querying certificates: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Certificate
	for cur.Next(ctx) {
		var doc certificateDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding certificate: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterating certificates: %w", err)
	}
	return out, nil
}

// DeleteCertificate removes a certificate and its chunks.
func (s *certificateStore) DeleteCertificate(ctx context.Context, tenantID, sourceID string) error {
	filter := tenantFilter(tenantID)
	filter["source_id"] = sourceID

	res, err := s.store.db.Collection(certificatesCollection).DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("deleting certificate: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}

	if _, err := s.store.db.Collection(chunksCollection).DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("deleting certificate chunks: %w", err)
	}
	return nil
}

// CountCertificates returns the number of stored certificates.
func (s *certificateStore) CountCertificates(ctx context.Context, tenantID string) (int, error) {
	n, err := s.store.db.Collection(certificatesCollection).CountDocuments(ctx, tenantFilter(tenantID))
	if err != nil {
		return 0, fmt.Errorf("counting certificates: %w", err)
	}
	return int(n), nil
}

// ==================== Chunk Store ====================

type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// chunkDoc is the persisted shape of a chunk.
type chunkDoc struct {
	ID        string    `bson:"chunk_id"`
	TenantID  string    `bson:"tenant_id"`
	SourceID  string    `bson:"source_id"`
	Position  int       `bson:"position"`
	Content   string    `bson:"content"`
	Embedding []float32 `bson:"embedding,omitempty"`
}

// ReplaceChunks atomically swaps all chunks of a source.
func (s *chunkStore) ReplaceChunks(ctx context.Context, tenantID, sourceID string, chunks []domain.Chunk) error {
	if tenantID == "" {
		return domain.ErrInvalidTenant
	}

	coll := s.store.db.Collection(chunksCollection)
	if _, err := coll.DeleteMany(ctx, bson.M{"tenant_id": tenantID, "source_id": sourceID}); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]any, 0, len(chunks))
	for _, ch := range chunks {
		docs = append(docs, chunkDoc{
			ID:        ch.ID,
			TenantID:  tenantID,
			SourceID:  sourceID,
			Position:  ch.Position,
			Content:   ch.Content,
			Embedding: ch.Embedding,
		})
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("saving chunks: %w", err)
	}
	return nil
}

// FindChunks returns chunks matching the query.
func (s *chunkStore) FindChunks(ctx context.Context, q driven.ChunkQuery) ([]domain.Chunk, error) {
	if q.TenantID == "" {
		return nil, domain.ErrInvalidTenant
	}

	var and bson.A
	and = append(and, tenantFilter(q.TenantID))
	if q.RequireCertificateMark {
		and = append(and, bson.M{"content": primitive.Regex{Pattern: certificateMarkPattern, Options: "i"}})
	}
	if or := regexOr(q.TermPatterns, "source_id", "content"); len(or) > 0 {
		and = append(and, bson.M{"$or": or})
	}
	if or := regexOr(q.DomainPatterns, "source_id", "content"); len(or) > 0 {
		and = append(and, bson.M{"$or": or})
	}

	opts := options.Find().SetSort(bson.D{{Key: "source_id", Value: 1}, {Key: "position", Value: 1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := s.store.db.Collection(chunksCollection).Find(ctx, bson.M{"$and": and}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Chunk
	for cur.Next(ctx) {
		var doc chunkDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding chunk: %w", err)
		}
		out = append(out, domain.Chunk{
			ID:        doc.ID,
			TenantID:  doc.TenantID,
			SourceID:  doc.SourceID,
			Position:  doc.Position,
			Content:   doc.Content,
			Embedding: doc.Embedding,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return out, nil
}

// CountChunks returns the number of stored chunks for a tenant.
func (s *chunkStore) CountChunks(ctx context.Context, tenantID string) (int, error) {
	n, err := s.store.db.Collection(chunksCollection).CountDocuments(ctx, tenantFilter(tenantID))
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return int(n), nil
}

// ==================== Job Store ====================

type jobStore struct {
	store *Store
}

var _ driven.JobStore = (*jobStore)(nil)

// jobDoc is the persisted shape of a job.
type jobDoc struct {
	ID         string    `bson:"job_id"`
	TenantID   string    `bson:"tenant_id"`
	Kind       string    `bson:"kind"`
	Status     string    `bson:"status"`
	Progress   int       `bson:"progress"`
	Phase      string    `bson:"phase"`
	Total      int       `bson:"total"`
	Processed  int       `bson:"processed"`
	Error      string    `bson:"error"`
	StartedAt  time.Time `bson:"started_at"`
	FinishedAt time.Time `bson:"finished_at,omitempty"`
}

// CreateJob stores a new job.
func (s *jobStore) CreateJob(ctx context.Context, job domain.Job) error {
	coll := s.store.db.Collection(jobsCollection)

	n, err := coll.CountDocuments(ctx, bson.M{"job_id": job.ID})
	if err != nil {
		return fmt.Errorf("checking job: %w", err)
	}
	if n > 0 {
		return domain.ErrAlreadyExists
	}

	if _, err := coll.InsertOne(ctx, toJobDoc(job)); err != nil {
		return fmt.Errorf("creating job: %w", err)
	}
	return nil
}

// GetJob returns one job by id.
func (s *jobStore) GetJob(ctx context.Context, id string) (domain.Job, error) {
	var doc jobDoc
	err := s.store.db.Collection(jobsCollection).FindOne(ctx, bson.M{"job_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return domain.Job{}, domain.ErrJobNotFound
		}
		return domain.Job{}, fmt.Errorf("getting job: %w", err)
	}
	return doc.toDomain(), nil
}

// UpdateJob replaces a job record.
func (s *jobStore) UpdateJob(ctx context.Context, job domain.Job) error {
	res, err := s.store.db.Collection(jobsCollection).ReplaceOne(
		ctx, bson.M{"job_id": job.ID}, toJobDoc(job))
	if err != nil {
		return fmt.Errorf("updating job: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

// ListJobs returns the jobs of one tenant, newest first.
func (s *jobStore) ListJobs(ctx context.Context, tenantID string) ([]domain.Job, error) {
	opts := options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}})
	cur, err := s.store.db.Collection(jobsCollection).Find(ctx, tenantFilter(tenantID), opts)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Job
	for cur.Next(ctx) {
		var doc jobDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding job: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}
	return out, nil
}

func toJobDoc(job domain.Job) jobDoc {
	return jobDoc{
		ID:         job.ID,
		TenantID:   job.TenantID,
		Kind:       job.Kind,
		Status:     string(job.Status),
		Progress:   job.Progress,
		Phase:      job.Phase,
		Total:      job.Total,
		Processed:  job.Processed,
		Error:      job.Error,
		StartedAt:  job.StartedAt,
		FinishedAt: job.FinishedAt,
	}
}

func (d jobDoc) toDomain() domain.Job {
	return domain.Job{
		ID:         d.ID,
		TenantID:   d.TenantID,
		Kind:       d.Kind,
		Status:     domain.JobStatus(d.Status),
		Progress:   d.Progress,
		Phase:      d.Phase,
		Total:      d.Total,
		Processed:  d.Processed,
		Error:      d.Error,
		StartedAt:  d.StartedAt,
		FinishedAt: d.FinishedAt,
	}
}
