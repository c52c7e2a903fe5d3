package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

var askLimit int

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question and get a cited answer",
	Long: `Retrieves relevant filing excerpts and synthesises an answer with an
LLM. Every answer carries citations back to the filings it drew from and a
confidence score.

Requires a running Ollama instance for answer generation; retrieval alone
works without one (use ` + "`finsight search`" + `).`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askLimit, "limit", "n", 10, "maximum retrieved chunks")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return fmt.Errorf("ask: %w", errNotConfigured)
	}

	answer, err := queryService.Ask(cmd.Context(), args[0], askLimit)
	if err != nil {
		if errors.Is(err, domain.ErrLLMUnavailable) {
			return errors.New("answer generation needs an LLM; start Ollama or use `finsight search`")
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)
	cmd.Println()
	cmd.Printf("Confidence: %.0f%%\n", answer.Confidence*100)

	if len(answer.Citations) > 0 {
		cmd.Println("Sources:")
		for _, c := range answer.Citations {
			cmd.Printf("  - %s %s filed %s\n", c.Ticker, c.FilingType, c.FilingDate)
		}
	}

	if len(answer.FollowUps) > 0 {
		cmd.Println("You could also ask:")
		for _, q := range answer.FollowUps {
			cmd.Printf("  - %s\n", q)
		}
	}
	return nil
}
