package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

var (
	providerModel   string
	providerBaseURL string
	backendMongoURI string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the store backend, match mode and AI providers.

API keys are prompted without echo and stored in the config file with
owner-only permissions.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsModeCmd = &cobra.Command{
	Use:   "mode <lexical|hybrid>",
	Short: "Set the match mode",
	Long: `Set how certificate retrieval scores candidates.

Available modes:
  lexical - regex and metadata scoring only (no setup required)
  hybrid  - lexical + semantic vector blend (requires embedding provider)`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsMode,
}

var settingsBackendCmd = &cobra.Command{
	Use:   "backend <sqlite|mongo>",
	Short: "Set the certificate store backend",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsBackend,
}

var settingsTenantCmd = &cobra.Command{
	Use:   "tenant <id>",
	Short: "Set the active tenant",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsTenant,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding <openai|ollama|none>",
	Short: "Configure the embedding provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSettingsProvider(cmd, args[0], func(s *domain.Settings) *domain.ProviderSettings {
			return &s.Embedding
		})
	},
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm <openai|ollama|none>",
	Short: "Configure the completion provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSettingsProvider(cmd, args[0], func(s *domain.Settings) *domain.ProviderSettings {
			return &s.LLM
		})
	},
}

func init() {
	settingsBackendCmd.Flags().StringVar(&backendMongoURI, "uri", "", "MongoDB connection string (mongo backend)")
	for _, c := range []*cobra.Command{settingsEmbeddingCmd, settingsLLMCmd} {
		c.Flags().StringVar(&providerModel, "model", "", "model identifier")
		c.Flags().StringVar(&providerBaseURL, "base-url", "", "API base URL")
	}
	settingsCmd.AddCommand(settingsShowCmd, settingsModeCmd, settingsBackendCmd,
		settingsTenantCmd, settingsEmbeddingCmd, settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsManager == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsManager.Get(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	if jsonFlag {
		redacted := settings
		redacted.Embedding.APIKey = redactKey(settings.Embedding.APIKey)
		redacted.LLM.APIKey = redactKey(settings.LLM.APIKey)
		return printJSON(cmd, redacted)
	}

	cmd.Printf("Config file: %s\n\n", settingsManager.ConfigPath())
	cmd.Printf("Tenant:     %s\n", settings.TenantID)
	cmd.Printf("Certs root: %s\n", settings.CertsRoot)
	cmd.Printf("Data dir:   %s\n", settings.DataDir)
	cmd.Printf("Backend:    %s\n", settings.Backend)
	if settings.Backend == domain.StoreBackendMongo {
		cmd.Printf("Mongo URI:  %s\n", settings.MongoURI)
	}
	cmd.Printf("Mode:       %s (%s)\n", settings.Mode, settings.Mode.Description())
	printProvider(cmd, "Embedding", settings.Embedding)
	printProvider(cmd, "LLM", settings.LLM)
	return nil
}

func printProvider(cmd *cobra.Command, label string, p domain.ProviderSettings) {
	if p.Provider == "" {
		cmd.Printf("%-10s not configured\n", label+":")
		return
	}
	cmd.Printf("%-10s %s, model %s", label+":", p.Provider, orDash(p.Model))
	if p.BaseURL != "" {
		cmd.Printf(", %s", p.BaseURL)
	}
	if p.APIKey != "" {
		cmd.Printf(", key %s", redactKey(p.APIKey))
	}
	cmd.Println()
}

func runSettingsMode(cmd *cobra.Command, args []string) error {
	return updateSettings(cmd, func(s *domain.Settings) error {
		s.Mode = domain.MatchMode(args[0])
		return nil
	}, "Match mode set to %s.\n", args[0])
}

func runSettingsBackend(cmd *cobra.Command, args []string) error {
	return updateSettings(cmd, func(s *domain.Settings) error {
		s.Backend = domain.StoreBackend(args[0])
		if backendMongoURI != "" {
			s.MongoURI = backendMongoURI
		}
		return nil
	}, "Store backend set to %s.\n", args[0])
}

func runSettingsTenant(cmd *cobra.Command, args []string) error {
	return updateSettings(cmd, func(s *domain.Settings) error {
		s.TenantID = args[0]
		return nil
	}, "Active tenant set to %s.\n", args[0])
}

func runSettingsProvider(cmd *cobra.Command, name string, field func(*domain.Settings) *domain.ProviderSettings) error {
	return updateSettings(cmd, func(s *domain.Settings) error {
		p := field(s)
		if name == "none" {
			*p = domain.ProviderSettings{}
			return nil
		}

		p.Provider = domain.AIProvider(name)
		if providerModel != "" {
			p.Model = providerModel
		}
		if providerBaseURL != "" {
			p.BaseURL = providerBaseURL
		}
		if p.Provider.RequiresAPIKey() {
			key, err := readSecret(cmd, fmt.Sprintf("%s API key: ", name))
			if err != nil {
				return err
			}
			if key != "" {
				p.APIKey = key
			}
		}
		return nil
	}, "Provider %s configured.\n", name)
}

// updateSettings loads, mutates, validates and persists settings.
func updateSettings(cmd *cobra.Command, mutate func(*domain.Settings) error, doneFmt string, doneArgs ...any) error {
	if settingsManager == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsManager.Get(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if err := mutate(&settings); err != nil {
		return err
	}
	if err := settingsManager.Update(cmd.Context(), settings); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	cmd.Printf(doneFmt, doneArgs...)
	return nil
}

// readSecret reads a value without echo when stdin is a terminal, and as a
// plain line otherwise (tests, piped input).
func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	cmd.Print(prompt)

	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		cmd.Println()
		if err != nil {
			return "", fmt.Errorf("reading secret: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", nil
	}
	return strings.TrimSpace(line), nil
}

func redactKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
