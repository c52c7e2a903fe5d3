package cli

import (
	"context"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driving"
)

var (
	_ driving.QueryService  = (*mockQueryService)(nil)
	_ driving.IngestService = (*mockIngestService)(nil)
)

type mockQueryService struct {
	response domain.SearchResponse
	answer   domain.Answer
	status   domain.CorpusStatus
	err      error

	lastQuery string
	lastTopK  int
}

func (m *mockQueryService) Search(_ context.Context, query string, topK int) (domain.SearchResponse, error) {
	m.lastQuery = query
	m.lastTopK = topK
	return m.response, m.err
}

func (m *mockQueryService) Ask(_ context.Context, _ string, _ int) (domain.Answer, error) {
	return m.answer, m.err
}

func (m *mockQueryService) Status(_ context.Context) (domain.CorpusStatus, error) {
	return m.status, m.err
}

type mockIngestService struct {
	report  domain.IngestReport
	fetched int
	err     error

	ingested []domain.Filing
}

func (m *mockIngestService) IngestFilings(_ context.Context, batch []domain.Filing) (domain.IngestReport, error) {
	m.ingested = append(m.ingested, batch...)
	return m.report, m.err
}

func (m *mockIngestService) IngestStored(_ context.Context, _ string) (domain.IngestReport, error) {
	return m.report, m.err
}

func (m *mockIngestService) Fetch(_ context.Context, _ []string, _ domain.FilingType, _ int) (int, error) {
	return m.fetched, m.err
}

// setupTestServices injects mock services and returns a cleanup that
// restores the unconfigured state.
func setupTestServices() (*mockQueryService, *mockIngestService, func()) {
	query := &mockQueryService{
		response: domain.SearchResponse{
			Results: []domain.SearchResult{{
				ChunkID: "AAPL_10-K_2023-11-03_0000",
				Text:    "Revenue grew 12% year over year.",
				Metadata: domain.ChunkMetadata{
					Ticker: "AAPL", FilingType: domain.Filing10K, FilingDate: "2023-11-03",
				},
				Score: 0.9,
			}},
			Status:   domain.StatusOK,
			Method:   domain.MethodFallback,
			Strategy: domain.StrategyFiltered,
		},
	}
	ingest := &mockIngestService{fetched: 2}

	SetServices(Services{Query: query, Ingest: ingest})
	return query, ingest, func() {
		SetServices(Services{})
	}
}
