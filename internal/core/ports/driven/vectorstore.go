package driven

import (
	"context"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

// VectorStore persists chunks with their embeddings and serves hybrid
// (semantic + keyword) search over them.
//
// The store owns the metadata index: every searchable metadata field is
// indexed at insert time so filtered searches never scan the full corpus.
type VectorStore interface {
	// Add indexes chunks with their embeddings. Chunk i pairs with
	// embedding i; the call fails with domain.ErrInvalidInput when the
	// slices disagree in length. Existing IDs are overwritten.
	Add(ctx context.Context, chunks []domain.Chunk, embeddings [][]float32) error

	// Search scores the (optionally filtered) corpus against the query
	// embedding and the query text, and returns the top matches.
	// Status distinguishes an empty corpus from a corpus with no
	// relevant matches.
	Search(ctx context.Context, query domain.SearchQuery, embedding []float32) (domain.SearchResponse, error)

	// Count returns the number of indexed chunks, optionally restricted
	// by filters.
	Count(ctx context.Context, filters domain.SearchFilters) (int, error)

	// Tickers returns the distinct tickers present in the index.
	Tickers(ctx context.Context) ([]string, error)

	// Method returns the embedding method the index was built with,
	// or "" when the store is empty.
	Method(ctx context.Context) (domain.EmbeddingMethod, error)

	// Save persists the index to disk atomically. A reader never
	// observes a partially written snapshot.
	Save(ctx context.Context) error

	// Load restores a previously saved index. Returns
	// domain.ErrMethodMismatch when the snapshot was built with a
	// different embedding method than the one given.
	Load(ctx context.Context, method domain.EmbeddingMethod) error

	// Close releases resources.
	Close() error
}
