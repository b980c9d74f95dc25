package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

var (
	analyzeLotFile     string
	analyzeProfileFile string
	analyzeLimit       int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <edital.txt> [annex.txt...]",
	Short: "Analyse a tender document for participation viability",
	Long: `Runs the full viability analysis of a tender document: parses the header,
matches the company's certificates against the tender object, extracts and
evaluates eligibility requirements, and prints a weighted recommendation.

Extra file arguments are searched as in-memory annexes alongside the
persistent certificate store.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeLotFile, "lot", "", "file with the text of the lot under analysis")
	analyzeCmd.Flags().StringVar(&analyzeProfileFile, "profile", "", "TOML file with the company compliance checklist")
	analyzeCmd.Flags().IntVar(&analyzeLimit, "limit", 0, "maximum certificates retrieved per query")
	rootCmd.AddCommand(analyzeCmd)
}

// profileFile is the on-disk shape of the company compliance declaration.
type profileFile struct {
	Name      string          `toml:"name"`
	Checklist map[string]bool `toml:"checklist"`
}

// checklistKeys maps TOML keys to checklist flags.
var checklistKeys = map[string]func(*domain.ComplianceChecklist) *bool{
	"cnpj_active":               func(c *domain.ComplianceChecklist) *bool { return &c.CNPJActive },
	"corporate_charter":         func(c *domain.ComplianceChecklist) *bool { return &c.CorporateCharter },
	"power_of_attorney":         func(c *domain.ComplianceChecklist) *bool { return &c.PowerOfAttorney },
	"representative_accredited": func(c *domain.ComplianceChecklist) *bool { return &c.RepresentativeAccredited },
	"fgts_regular":              func(c *domain.ComplianceChecklist) *bool { return &c.FGTSRegular },
	"social_security_regular":   func(c *domain.ComplianceChecklist) *bool { return &c.SocialSecurityRegular },
	"tax_regular":               func(c *domain.ComplianceChecklist) *bool { return &c.TaxRegular },
	"balance_sheet":             func(c *domain.ComplianceChecklist) *bool { return &c.BalanceSheet },
	"bankruptcy_certificate":    func(c *domain.ComplianceChecklist) *bool { return &c.BankruptcyCertificate },
	"financial_qualification":   func(c *domain.ComplianceChecklist) *bool { return &c.FinancialQualification },
	"small_business_framework":  func(c *domain.ComplianceChecklist) *bool { return &c.SmallBusinessFramework },
	"simples_nacional":          func(c *domain.ComplianceChecklist) *bool { return &c.SimplesNacional },
	"independent_proposal":      func(c *domain.ComplianceChecklist) *bool { return &c.IndependentProposal },
	"no_impeding_fact":          func(c *domain.ComplianceChecklist) *bool { return &c.NoImpedingFact },
	"bid_guarantee":             func(c *domain.ComplianceChecklist) *bool { return &c.BidGuarantee },
	"contract_guarantee":        func(c *domain.ComplianceChecklist) *bool { return &c.ContractGuarantee },
	"insurance":                 func(c *domain.ComplianceChecklist) *bool { return &c.Insurance },
	"site_visit":                func(c *domain.ComplianceChecklist) *bool { return &c.SiteVisit },
	"capacity_attestations":     func(c *domain.ComplianceChecklist) *bool { return &c.CapacityAttestations },
	"license_marks":             func(c *domain.ComplianceChecklist) *bool { return &c.LicenseMarks },
	"council_registration":      func(c *domain.ComplianceChecklist) *bool { return &c.CouncilRegistration },
	"responsible_professional":  func(c *domain.ComplianceChecklist) *bool { return &c.ResponsibleProfessional },
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if tenderAnalyzer == nil {
		return errors.New("analysis service not configured")
	}

	tenderText, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading tender document: %w", err)
	}

	req := domain.AnalysisRequest{
		TenantID:   activeTenant,
		TenderText: string(tenderText),
		Limit:      analyzeLimit,
	}

	for _, path := range args[1:] {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading annex: %w", err)
		}
		req.LocalFiles = append(req.LocalFiles, domain.LocalFile{
			Source: filepath.Base(path),
			Text:   string(data),
		})
	}

	if analyzeLotFile != "" {
		data, err := os.ReadFile(analyzeLotFile)
		if err != nil {
			return fmt.Errorf("reading lot file: %w", err)
		}
		req.LotText = string(data)
	}

	if analyzeProfileFile != "" {
		profile, err := loadProfile(analyzeProfileFile)
		if err != nil {
			return err
		}
		req.Profile = profile
	}

	report, err := tenderAnalyzer.Analyze(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if jsonFlag {
		return printJSON(cmd, report)
	}
	printReport(cmd, report)
	return nil
}

func loadProfile(path string) (domain.CompanyProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.CompanyProfile{}, fmt.Errorf("reading profile: %w", err)
	}

	var pf profileFile
	if err := toml.Unmarshal(data, &pf); err != nil {
		return domain.CompanyProfile{}, fmt.Errorf("parsing profile: %w", err)
	}

	profile := domain.CompanyProfile{Name: pf.Name}
	for key, value := range pf.Checklist {
		field, ok := checklistKeys[key]
		if !ok {
			return domain.CompanyProfile{}, fmt.Errorf("unknown checklist key %q", key)
		}
		*field(&profile.Checklist) = value
	}
	return profile, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printReport(cmd *cobra.Command, report domain.AnalysisReport) {
	h := report.Header
	cmd.Println("=== Identificação do Certame ===")
	printField(cmd, "Órgão", h.Agency)
	printField(cmd, "Modalidade", h.Modality)
	printField(cmd, "Tipo", h.Type)
	printField(cmd, "Objeto", h.Object)
	printField(cmd, "Valor", h.BudgetValue)
	printField(cmd, "Prazo de execução", h.ExecutionTerm)
	printField(cmd, "Entrega de propostas", h.ProposalDeadline)

	cmd.Println("\n=== Acervo Técnico ===")
	if len(report.Certificates) == 0 {
		cmd.Println("Nenhuma CAT compatível com o objeto foi localizada.")
	}
	for _, cert := range report.Certificates {
		cmd.Printf("- [%.1f] CAT %s (%d) — %s\n",
			cert.Score, orDash(cert.CertificateNumber), cert.Year, orDash(cert.ScopeSummary))
	}
	if report.DomainAligned {
		cmd.Println("Acervo alinhado ao domínio do objeto.")
	} else {
		cmd.Println("Acervo NÃO alinhado ao domínio do objeto.")
	}

	if report.Suggestion != nil {
		s := report.Suggestion
		cmd.Println("\n=== Responsável Técnico Sugerido ===")
		cmd.Printf("%s — CAT %s (%d), %s\n",
			orDash(s.Name), orDash(s.CertificateNumber), s.Year, orDash(s.IssuingBody))
	}

	for _, note := range report.CapabilityNotes {
		cmd.Printf("Nota: %s\n", note)
	}

	if len(report.Outcomes) > 0 {
		cmd.Println("\n=== Requisitos ===")
		for _, outcome := range report.Outcomes {
			cmd.Printf("[%s/%s] %s\n", outcome.Kind, strings.ToUpper(string(outcome.Status)), outcome.Requirement)
			if outcome.Justification != "" {
				cmd.Printf("    %s\n", strings.ReplaceAll(outcome.Justification, "\n", "\n    "))
			}
		}
	}

	r := report.Recommendation
	cmd.Println("\n=== Recomendação ===")
	cmd.Printf("%s (pontuação global: %.2f)\n", r.Label, r.GlobalScore)
	cmd.Printf("Técnico: %d ok, %d parcial, %d não atendido (%.2f)\n",
		r.Technical.OK, r.Technical.Partial, r.Technical.None, r.Technical.Score)
	cmd.Printf("Administrativo: %d ok, %d parcial, %d não atendido (%.2f)\n",
		r.Administrative.OK, r.Administrative.Partial, r.Administrative.None, r.Administrative.Score)

	if report.ExecutiveSummary != "" {
		cmd.Println("\n=== Sumário Executivo ===")
		cmd.Println(report.ExecutiveSummary)
	}
}

func printField(cmd *cobra.Command, label, value string) {
	cmd.Printf("%s: %s\n", label, orDash(value))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
