package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/analista-digital/licita-cli/internal/core/domain"
)

var matchesLimit int

var matchesCmd = &cobra.Command{
	Use:   "matches <objeto ou arquivo>",
	Short: "Rank certificates against a tender object",
	Long: `Runs certificate retrieval and ranking for a tender object without the
full analysis. The argument is the object text itself, or a path to a file
containing it.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatches,
}

func init() {
	matchesCmd.Flags().IntVar(&matchesLimit, "limit", 0, "maximum certificates retrieved per query")
	rootCmd.AddCommand(matchesCmd)
}

func runMatches(cmd *cobra.Command, args []string) error {
	if certificateMatcher == nil {
		return errors.New("matching service not configured")
	}

	objectText := args[0]
	if data, err := os.ReadFile(objectText); err == nil {
		objectText = string(data)
	}

	matches, err := certificateMatcher.FindMatches(
		cmd.Context(), objectText, nil, matchesLimit, domain.MatchOptions{TenantID: activeTenant})
	if err != nil {
		return fmt.Errorf("matching failed: %w", err)
	}

	if jsonFlag {
		return printJSON(cmd, matches)
	}

	if len(matches) == 0 {
		cmd.Println("No matching certificates found.")
		return nil
	}
	for i, match := range matches {
		cmd.Printf("%2d. [%.1f] %s\n", i+1, match.Score, match.SourceID)
		cmd.Printf("     CAT %s (%d) %s\n",
			orDash(match.CertificateNumber), match.Year, orDash(match.ScopeSummary))
	}
	return nil
}
