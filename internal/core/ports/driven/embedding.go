package driven

import (
	"context"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

// Embedder generates vector embeddings from text.
//
// Two implementations exist: a remote dense model (primary) and a local
// lexical model (fallback). Both are selected once at startup; vectors
// from different methods are never comparable, so the chosen method is
// recorded in every persisted index.
type Embedder interface {
	// Fit prepares the embedder on a corpus before any Embed call.
	// The primary embedder treats this as a no-op; the fallback derives
	// its vocabulary and document frequencies here.
	Fit(ctx context.Context, texts []string) error

	// Embed generates a vector embedding for the given text.
	// Returns domain.ErrNotFitted when called before Fit on an
	// implementation that requires fitting.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// Output order matches input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size. Both implementations
	// produce vectors of the same width so persisted indexes stay
	// structurally compatible across methods.
	Dimensions() int

	// Method identifies which backend this embedder is.
	Method() domain.EmbeddingMethod

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used once at startup to choose primary or fallback.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
