package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

var (
	fetchType  string
	fetchLimit int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [tickers...]",
	Short: "Download filings from SEC EDGAR",
	Long: `Downloads recent filings for the given tickers into the local filing
store. Only companies from the covered universe are accepted; unknown
tickers are skipped with a warning.

EDGAR enforces 10 requests per second; large fetches take a while.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchType, "type", "t", "10-K", "SEC form type (10-K, 10-Q, 8-K, DEF 14A, 3, 4, 5)")
	fetchCmd.Flags().IntVarP(&fetchLimit, "limit", "n", 3, "filings per ticker")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return fmt.Errorf("fetch: %w", errNotConfigured)
	}

	filingType := domain.FilingType(strings.ToUpper(fetchType))
	if !filingType.Valid() {
		return fmt.Errorf("unsupported form type %q", fetchType)
	}

	n, err := ingestService.Fetch(cmd.Context(), args, filingType, fetchLimit)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	cmd.Printf("Fetched %d filing(s). Run `finsight ingest` to index them.\n", n)
	return nil
}
