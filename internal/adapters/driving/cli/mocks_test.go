package cli

import (
	"bytes"
	"context"

	"github.com/analista-digital/licita-cli/internal/core/domain"
	"github.com/analista-digital/licita-cli/internal/core/ports/driven"
	"github.com/analista-digital/licita-cli/internal/core/ports/driving"
)

// execute runs the root command with args and returns its combined output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// mockAnalyzer implements driving.TenderAnalyzer.
type mockAnalyzer struct {
	report domain.AnalysisReport
	err    error
	gotReq domain.AnalysisRequest
}

func (m *mockAnalyzer) Analyze(_ context.Context, req domain.AnalysisRequest) (domain.AnalysisReport, error) {
	m.gotReq = req
	return m.report, m.err
}

// mockMatcher implements driving.CertificateMatcher.
type mockMatcher struct {
	matches []domain.RankedCertificate
	err     error
	gotText string
}

func (m *mockMatcher) FindMatches(_ context.Context, objectText string, _ []domain.LocalFile, _ int, _ domain.MatchOptions) ([]domain.RankedCertificate, error) {
	m.gotText = objectText
	return m.matches, m.err
}

// mockIngestor implements driving.CertificateIngestor.
type mockIngestor struct {
	job     domain.Job
	jobID   string
	err     error
	gotOpts driving.SyncOptions
}

func (m *mockIngestor) Sync(_ context.Context, _ string, opts driving.SyncOptions) (domain.Job, error) {
	m.gotOpts = opts
	return m.job, m.err
}

func (m *mockIngestor) SyncAsync(_ context.Context, _ string, opts driving.SyncOptions) (string, error) {
	m.gotOpts = opts
	return m.jobID, m.err
}

// mockJobTracker implements driving.JobTracker.
type mockJobTracker struct {
	jobs map[string]domain.Job
	list []domain.Job
	err  error
}

func (m *mockJobTracker) Start(context.Context, string, string) (domain.Job, error) {
	return domain.Job{}, nil
}
func (m *mockJobTracker) Progress(context.Context, string, string, int, int) error { return nil }
func (m *mockJobTracker) Complete(context.Context, string) error                   { return nil }
func (m *mockJobTracker) Fail(context.Context, string, string) error               { return nil }

func (m *mockJobTracker) Status(_ context.Context, _ string, id string) (domain.Job, error) {
	if m.err != nil {
		return domain.Job{}, m.err
	}
	job, ok := m.jobs[id]
	if !ok {
		return domain.Job{}, domain.ErrJobNotFound
	}
	return job, nil
}

func (m *mockJobTracker) List(context.Context, string) ([]domain.Job, error) {
	return m.list, m.err
}

// mockSettingsManager implements driving.SettingsManager.
type mockSettingsManager struct {
	settings domain.Settings
	saveErr  error
	saved    *domain.Settings
}

func (m *mockSettingsManager) Get(context.Context) (domain.Settings, error) {
	return m.settings, nil
}

func (m *mockSettingsManager) Update(_ context.Context, settings domain.Settings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = &settings
	m.settings = settings
	return nil
}

func (m *mockSettingsManager) ConfigPath() string {
	return "/tmp/licita/config.toml"
}

// mockBrowser implements driven.CertificateStore for list/count.
type mockBrowser struct {
	certs []domain.Certificate
	err   error
}

func (m *mockBrowser) UpsertCertificate(context.Context, domain.Certificate) error { return nil }
func (m *mockBrowser) FindCertificates(context.Context, driven.CertificateQuery) ([]domain.Certificate, error) {
	return m.certs, m.err
}
func (m *mockBrowser) GetCertificate(context.Context, string, string) (domain.Certificate, error) {
	return domain.Certificate{}, domain.ErrNotFound
}
func (m *mockBrowser) ListCertificates(context.Context, string) ([]domain.Certificate, error) {
	return m.certs, m.err
}
func (m *mockBrowser) DeleteCertificate(context.Context, string, string) error { return nil }
func (m *mockBrowser) CountCertificates(context.Context, string) (int, error) {
	return len(m.certs), m.err
}
