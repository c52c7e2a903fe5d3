package services

import (
	"context"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.Embedder for testing.
type mockEmbedder struct {
	embedding []float32
	embedErr  error
	fitErr    error
	dims      int
	method    domain.EmbeddingMethod
	fitCalls  int
}

func (m *mockEmbedder) Fit(_ context.Context, _ []string) error {
	m.fitCalls++
	return m.fitErr
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = m.embedding
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims == 0 {
		return len(m.embedding)
	}
	return m.dims
}

func (m *mockEmbedder) Method() domain.EmbeddingMethod {
	if m.method == "" {
		return domain.MethodPrimary
	}
	return m.method
}

func (m *mockEmbedder) ModelName() string { return "mock" }

func (m *mockEmbedder) Ping(_ context.Context) error { return nil }

func (m *mockEmbedder) Close() error { return nil }

// mockVectorStore implements driven.VectorStore for testing. It records
// the queries it saw and replays canned responses.
type mockVectorStore struct {
	responses map[string]domain.SearchResponse // keyed by filter ticker, "" for unfiltered
	searchErr error
	addErr    error
	saveErr   error

	added   []domain.Chunk
	queries []domain.SearchQuery
	saved   int
}

func (m *mockVectorStore) Add(_ context.Context, chunks []domain.Chunk, _ [][]float32) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, chunks...)
	return nil
}

func (m *mockVectorStore) Search(_ context.Context, query domain.SearchQuery, _ []float32) (domain.SearchResponse, error) {
	if m.searchErr != nil {
		return domain.SearchResponse{}, m.searchErr
	}
	m.queries = append(m.queries, query)
	if resp, ok := m.responses[query.Filters.Ticker]; ok {
		return resp, nil
	}
	return domain.SearchResponse{Status: domain.StatusNoMatches, Method: domain.MethodPrimary, Results: []domain.SearchResult{}}, nil
}

func (m *mockVectorStore) Count(_ context.Context, _ domain.SearchFilters) (int, error) {
	return len(m.added), nil
}

func (m *mockVectorStore) Tickers(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range m.added {
		if _, ok := seen[c.Metadata.Ticker]; !ok {
			seen[c.Metadata.Ticker] = struct{}{}
			out = append(out, c.Metadata.Ticker)
		}
	}
	return out, nil
}

func (m *mockVectorStore) Method(_ context.Context) (domain.EmbeddingMethod, error) {
	return domain.MethodPrimary, nil
}

func (m *mockVectorStore) Save(_ context.Context) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved++
	return nil
}

func (m *mockVectorStore) Load(_ context.Context, _ domain.EmbeddingMethod) error { return nil }

func (m *mockVectorStore) Close() error { return nil }

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	response string
	err      error
	prompts  []string
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.prompts = append(m.prompts, prompt)
	return m.response, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

// mockFilingStore implements driven.FilingStore for testing.
type mockFilingStore struct {
	filings map[string]domain.Filing
}

func newMockFilingStore() *mockFilingStore {
	return &mockFilingStore{filings: make(map[string]domain.Filing)}
}

func (m *mockFilingStore) Put(_ context.Context, f domain.Filing) error {
	m.filings[f.ID] = f
	return nil
}

func (m *mockFilingStore) Get(_ context.Context, id string) (domain.Filing, error) {
	f, ok := m.filings[id]
	if !ok {
		return domain.Filing{}, domain.ErrNotFound
	}
	return f, nil
}

func (m *mockFilingStore) List(_ context.Context, ticker string, filingType domain.FilingType) ([]domain.Filing, error) {
	var out []domain.Filing
	for _, f := range m.filings {
		if ticker != "" && f.Ticker != ticker {
			continue
		}
		if filingType != "" && f.FilingType != filingType {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (m *mockFilingStore) Delete(_ context.Context, id string) error {
	delete(m.filings, id)
	return nil
}

func (m *mockFilingStore) Count(_ context.Context) (int, error) {
	return len(m.filings), nil
}

func (m *mockFilingStore) Close() error { return nil }

// mockFilingSource implements driven.FilingSource for testing.
type mockFilingSource struct {
	filings map[string][]domain.Filing
	err     error
}

func (m *mockFilingSource) Fetch(_ context.Context, ticker string, _ domain.FilingType, _ int) ([]domain.Filing, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.filings[ticker], nil
}

func (m *mockFilingSource) Close() error { return nil }
