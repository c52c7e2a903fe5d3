package mcp

import (
	"context"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driving"
)

var _ driving.QueryService = (*mockQueryService)(nil)

// mockQueryService is a mock implementation of driving.QueryService.
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
