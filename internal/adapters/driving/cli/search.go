package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finsight-labs/finsight-cli/internal/adapters/driving/tui"
	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

var (
	searchLimit       int
	searchJSON        bool
	searchInteractive bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed filings",
	Long: `Performs hybrid search across all indexed filing chunks.
Combines semantic (vector) and keyword scoring; the query is routed to a
retrieval strategy based on the companies, time periods and concepts it
mentions.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false, "browse results in a terminal UI")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return fmt.Errorf("search: %w", errNotConfigured)
	}

	resp, err := queryService.Search(cmd.Context(), args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	switch {
	case searchJSON:
		return outputSearchJSON(cmd, resp)
	case searchInteractive:
		return tui.Browse(args[0], resp)
	default:
		return outputSearchTable(cmd, resp)
	}
}

func outputSearchJSON(cmd *cobra.Command, resp domain.SearchResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, resp domain.SearchResponse) error {
	switch resp.Status {
	case domain.StatusNoData:
		cmd.Println("No filings indexed. Run `finsight fetch` and `finsight ingest` first.")
		return nil
	case domain.StatusNoMatches:
		cmd.Println("No results matched the query.")
		return nil
	}

	cmd.Printf("Strategy: %s  Method: %s\n\n", resp.Strategy, resp.Method)
	for i, r := range resp.Results {
		m := r.Metadata
		cmd.Printf("  [%d] %s %s %s (%.3f)\n", i+1, m.Ticker, m.FilingType, m.FilingDate, r.Score)
		if m.SectionType != "" {
			cmd.Printf("      Section: %s\n", m.SectionType)
		}
		cmd.Printf("      %s\n\n", snippet(r.Text, 160))
	}
	return nil
}

// snippet trims chunk text to one display line.
func snippet(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
