package driving

import (
	"context"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

// IngestService builds and extends the searchable index.
type IngestService interface {
	// IngestFilings chunks, embeds and indexes the given filings.
	// Malformed chunks are skipped and counted; they never fail the run.
	IngestFilings(ctx context.Context, filings []domain.Filing) (domain.IngestReport, error)

	// IngestStored re-ingests everything in the filing store, optionally
	// restricted to one ticker.
	IngestStored(ctx context.Context, ticker string) (domain.IngestReport, error)

	// Fetch downloads filings from EDGAR into the filing store.
	Fetch(ctx context.Context, tickers []string, filingType domain.FilingType, limit int) (int, error)
}
