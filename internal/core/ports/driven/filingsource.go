package driven

import (
	"context"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

// FilingSource fetches filings from a remote registry (SEC EDGAR).
// Implementations own rate limiting; EDGAR enforces 10 requests/second
// and requires a descriptive User-Agent.
type FilingSource interface {
	// Fetch downloads recent filings for a ticker and form type.
	// The content is returned as plain text with HTML already stripped.
	Fetch(ctx context.Context, ticker string, filingType domain.FilingType, limit int) ([]domain.Filing, error)

	// Close releases resources.
	Close() error
}
