// Package cli implements the licita command-line interface using cobra.
// Commands call driving ports only; wiring happens in main.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/analista-digital/licita-cli/internal/core/ports/driven"
	"github.com/analista-digital/licita-cli/internal/core/ports/driving"
	"github.com/analista-digital/licita-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services the commands depend on. Nil services make the corresponding
// commands fail with a clear message instead of panicking.
var (
	tenderAnalyzer     driving.TenderAnalyzer
	certificateMatcher driving.CertificateMatcher
	certificateSyncer  driving.CertificateIngestor
	jobTracker         driving.JobTracker
	settingsManager    driving.SettingsManager

	// certificateBrowser is a read-only view of the store for list/count.
	certificateBrowser driven.CertificateStore

	// activeTenant scopes all store operations; set from settings at wiring.
	activeTenant string

	// certsRoot is the certificate tree watched by `certs watch`.
	certsRoot string
)

var (
	verboseFlag bool
	jsonFlag    bool
)

var rootCmd = &cobra.Command{
	Use:   "licita",
	Short: "Tender viability analysis against the company's technical certificates",
	Long: `licita analyses Brazilian public tender documents (editais) against the
company's CAT collection (Certidões de Acervo Técnico), extracts and
classifies requirements, and produces a weighted participation
recommendation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "print pipeline progress to stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "print machine-readable JSON output")
}

// Deps groups everything the commands need.
type Deps struct {
	Analyzer  driving.TenderAnalyzer
	Matcher   driving.CertificateMatcher
	Ingestor  driving.CertificateIngestor
	Jobs      driving.JobTracker
	Settings  driving.SettingsManager
	Browser   driven.CertificateStore
	TenantID  string
	CertsRoot string
	Version   string
}

// Configure installs the services the commands call.
func Configure(d Deps) {
	tenderAnalyzer = d.Analyzer
	certificateMatcher = d.Matcher
	certificateSyncer = d.Ingestor
	jobTracker = d.Jobs
	settingsManager = d.Settings
	certificateBrowser = d.Browser
	activeTenant = d.TenantID
	certsRoot = d.CertsRoot
	if d.Version != "" {
		version = d.Version
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command under a cancellable context, so
// long-running commands (sync, watch) stop on interrupt.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
