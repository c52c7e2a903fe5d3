package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show corpus statistics and system readiness",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if queryService == nil {
		return fmt.Errorf("status: %w", errNotConfigured)
	}

	st, err := queryService.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	cmd.Println("Corpus")
	cmd.Printf("  Chunks indexed: %d\n", st.ChunkCount)
	cmd.Printf("  Filings stored: %d\n", st.FilingCount)
	if len(st.Tickers) > 0 {
		cmd.Printf("  Companies: %s\n", strings.Join(st.Tickers, ", "))
	}
	cmd.Printf("  Index: %s\n", st.IndexPath)
	cmd.Println()

	cmd.Println("Backends")
	cmd.Printf("  Embedding method: %s\n", st.Method)
	if st.LLMAvailable {
		cmd.Println("  LLM: available")
	} else {
		cmd.Println("  LLM: unavailable (ask disabled, search works)")
	}
	return nil
}
