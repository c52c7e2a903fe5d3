package driving

import (
	"context"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

// QueryService answers questions against the indexed corpus.
type QueryService interface {
	// Search routes the query to a retrieval strategy and returns
	// scored chunks. Never fails on malformed queries; extraction
	// errors degrade to a general hybrid search.
	Search(ctx context.Context, query string, topK int) (domain.SearchResponse, error)

	// Ask retrieves context for the question and synthesises an answer
	// with citations. Requires an LLM; returns domain.ErrLLMUnavailable
	// without one.
	Ask(ctx context.Context, question string, topK int) (domain.Answer, error)

	// Status reports what is indexed and which backends are live.
	Status(ctx context.Context) (domain.CorpusStatus, error)
}
