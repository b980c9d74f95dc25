// Package memory provides in-memory store implementations, used for tests
// and for analyses that run purely on uploaded files.
package memory

import (
	"context"
	"regexp"
	"sort"
	"sync"

	"github.com/analista-digital/licita-cli/internal/core/domain"
	"github.com/analista-digital/licita-cli/internal/core/ports/driven"
	"github.com/analista-digital/licita-cli/internal/core/taxonomy"
)

// Ensure CertStore implements the interfaces.
var (
	_ driven.CertificateStore = (*CertStore)(nil)
	_ driven.ChunkStore       = (*CertStore)(nil)
)

// CertStore is an in-memory implementation of the certificate and chunk
// stores. Certificates are keyed by tenant and source id; iteration order
// is fixed by sorting on source id so queries stay deterministic.
type CertStore struct {
	mu     sync.RWMutex
	certs  map[string]map[string]domain.Certificate // tenant -> source -> cert
	chunks map[string]map[string][]domain.Chunk     // tenant -> source -> chunks
}

// NewCertStore creates a new in-memory certificate store.
func NewCertStore() *CertStore {
	return &CertStore{
		certs:  make(map[string]map[string]domain.Certificate),
		chunks: make(map[string]map[string][]domain.Chunk),
	}
}

// UpsertCertificate inserts or replaces a certificate.
func (s *CertStore) UpsertCertificate(_ context.Context, cert domain.Certificate) error {
	if cert.TenantID == "" {
		return domain.ErrInvalidTenant
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.certs[cert.TenantID] == nil {
		s.certs[cert.TenantID] = make(map[string]domain.Certificate)
	}
	s.certs[cert.TenantID][cert.SourceID] = cert
	return nil
}

// GetCertificate returns one certificate by source id.
func (s *CertStore) GetCertificate(_ context.Context, tenantID, sourceID string) (domain.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cert, ok := s.certs[tenantID][sourceID]
	if !ok {
		return domain.Certificate{}, domain.ErrNotFound
	}
	return cert, nil
}

// ListCertificates returns all certificates of a tenant, ordered by source id.
func (s *CertStore) ListCertificates(_ context.Context, tenantID string) ([]domain.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedCerts(tenantID), nil
}

// DeleteCertificate removes a certificate and its chunks.
func (s *CertStore) DeleteCertificate(_ context.Context, tenantID, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.certs[tenantID][sourceID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.certs[tenantID], sourceID)
	delete(s.chunks[tenantID], sourceID)
	return nil
}

// CountCertificates returns the number of stored certificates.
func (s *CertStore) CountCertificates(_ context.Context, tenantID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.certs[tenantID]), nil
}

// FindCertificates returns certificates matching the query.
func (s *CertStore) FindCertificates(_ context.Context, q driven.CertificateQuery) ([]domain.Certificate, error) {
	if q.TenantID == "" {
		return nil, domain.ErrInvalidTenant
	}
	termRx := compile(q.TermPatterns)
	domainRx := compile(q.DomainPatterns)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Certificate
	for _, cert := range s.sortedCerts(q.TenantID) {
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

// ReplaceChunks atomically swaps all chunks of a source.
func (s *CertStore) ReplaceChunks(_ context.Context, tenantID, sourceID string, chunks []domain.Chunk) error {
	if tenantID == "" {
		return domain.ErrInvalidTenant
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chunks[tenantID] == nil {
		s.chunks[tenantID] = make(map[string][]domain.Chunk)
	}
	cp := make([]domain.Chunk, len(chunks))
	copy(cp, chunks)
	s.chunks[tenantID][sourceID] = cp
	return nil
}

// FindChunks returns chunks matching the query.
func (s *CertStore) FindChunks(_ context.Context, q driven.ChunkQuery) ([]domain.Chunk, error) {
	if q.TenantID == "" {
		return nil, domain.ErrInvalidTenant
	}
	termRx := compile(q.TermPatterns)
	domainRx := compile(q.DomainPatterns)

	s.mu.RLock()
	defer s.mu.RUnlock()

	sources := make([]string, 0, len(s.chunks[q.TenantID]))
	for src := range s.chunks[q.TenantID] {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	var out []domain.Chunk
	for _, src := range sources {
		for _, ch := range s.chunks[q.TenantID][src] {
			if q.RequireCertificateMark && !certMark(ch.Content) {
				continue
			}
			if len(termRx) > 0 && !matchesAny(termRx, ch.SourceID, ch.Content) {
				continue
			}
			if len(domainRx) > 0 && !matchesAny(domainRx, ch.SourceID, ch.Content) {
				continue
			}
			out = append(out, ch)
			if q.Limit > 0 && len(out) >= q.Limit {
				return out, nil
			}
		}
	}
	return out, nil
}

// CountChunks returns the number of stored chunks for a tenant.
func (s *CertStore) CountChunks(_ context.Context, tenantID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, chunks := range s.chunks[tenantID] {
		n += len(chunks)
	}
	return n, nil
}

func (s *CertStore) sortedCerts(tenantID string) []domain.Certificate {
	out := make([]domain.Certificate, 0, len(s.certs[tenantID]))
	for _, cert := range s.certs[tenantID] {
		out = append(out, cert)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SourceID < out[j].SourceID })
	return out
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
