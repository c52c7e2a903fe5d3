package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFitted indicates the fallback embedder was asked to embed text
	// before Fit was called. This is a programming error, not a degraded mode.
	ErrNotFitted = errors.New("embedder not fitted")

	// ErrMethodMismatch indicates a persisted corpus was produced with a
	// different embedding method than the one currently configured.
	// Mixing methods invalidates every similarity score, so this is fatal.
	ErrMethodMismatch = errors.New("embedding method mismatch")

	// ErrEmbeddingUnavailable indicates the primary embedding service is not
	// reachable. The generator switches to the statistical fallback.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the answer LLM is not configured.
	// Retrieval still works; answer synthesis is disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmptyCorpus indicates search was invoked before any chunks were
	// ingested. Distinct from a query that matched nothing.
	ErrEmptyCorpus = errors.New("no filings ingested")

	// ErrRateLimited indicates the EDGAR API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
