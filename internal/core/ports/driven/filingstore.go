package driven

import (
	"context"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

// FilingStore persists raw filings fetched from EDGAR so ingestion can be
// re-run without hitting the network again.
type FilingStore interface {
	// Put stores a filing. Existing filings with the same ID are replaced.
	Put(ctx context.Context, filing domain.Filing) error

	// Get retrieves a filing by ID. Returns domain.ErrNotFound when the
	// filing does not exist.
	Get(ctx context.Context, id string) (domain.Filing, error)

	// List returns filings matching the ticker and filing type. Empty
	// arguments mean "any". Results are ordered by filing date descending.
	List(ctx context.Context, ticker string, filingType domain.FilingType) ([]domain.Filing, error)

	// Delete removes a filing by ID. Deleting a missing filing is not an
	// error.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored filings.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
