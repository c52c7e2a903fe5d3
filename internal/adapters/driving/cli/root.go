// Package cli implements the finsight command tree.
//
// Commands hold no business logic. Each RunE validates flags, calls a
// driving port and formats the result. Services are injected once from
// main via SetServices.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/finsight-labs/finsight-cli/internal/core/ports/driven"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driving"
	"github.com/finsight-labs/finsight-cli/internal/logger"
)

// version is set from main at startup.
var version = "dev"

// Injected services. Nil checks in each command keep a partially wired
// binary usable (version, settings) instead of panicking.
var (
	queryService  driving.QueryService
	ingestService driving.IngestService
	configStore   driven.ConfigStore
)

var errNotConfigured = errors.New("service not configured")

// Services bundles everything the command tree needs.
type Services struct {
	Query  driving.QueryService
	Ingest driving.IngestService
	Config driven.ConfigStore
}

// SetServices injects the wired services into the command tree.
func SetServices(s Services) {
	queryService = s.Query
	ingestService = s.Ingest
	configStore = s.Config
}

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "finsight",
	Short: "Question answering over SEC filings",
	Long: `finsight answers natural-language financial questions over a locally
ingested corpus of SEC filings.

Typical workflow:
  finsight fetch AAPL MSFT --type 10-K     # download filings from EDGAR
  finsight ingest                          # chunk, embed and index them
  finsight ask "Compare Apple and Microsoft revenue"`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose output")
}

// Execute runs the root command. Called once from main.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}
