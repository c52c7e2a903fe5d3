package services

import (
	"context"
	"time"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driven"
	"github.com/finsight-labs/finsight-cli/internal/logger"
)

// Result budgets per strategy.
const (
	filteredBudget    = 15
	multiEntityBudget = 20
	temporalBudget    = 20
	conceptBudget     = 25
	generalBudget     = 15

	// multiEntityQuotaFloor guarantees each ticker a minimum share of
	// the multi-entity budget so no company starves the result set.
	multiEntityQuotaFloor = 5

	// embedTimeout bounds the only external call on the query path.
	embedTimeout = 10 * time.Second
)

// Keyword boosts for unscoped hybrid searches.
const (
	conceptKeywordBoost = 0.4
	generalKeywordBoost = 0.3
)

// RetrievalEngine executes a routed query against the vector store.
type RetrievalEngine struct {
	embedder driven.Embedder
	store    driven.VectorStore
}

// NewRetrievalEngine creates a retrieval engine.
func NewRetrievalEngine(embedder driven.Embedder, store driven.VectorStore) *RetrievalEngine {
	return &RetrievalEngine{embedder: embedder, store: store}
}

// Retrieve runs the strategy the router picked. Embedding failures
// degrade to keyword-only scoring (zero query vector) instead of
// failing the request.
func (e *RetrievalEngine) Retrieve(
	ctx context.Context, query string, qctx domain.QueryContext, strategy domain.Strategy, topK int,
) (domain.SearchResponse, error) {
	embedding := e.embedQuery(ctx, query)

	switch strategy {
	case domain.StrategyMultiEntity:
		return e.retrieveMultiEntity(ctx, query, qctx, embedding, topK)
	case domain.StrategyTemporal:
		return e.retrieveTemporal(ctx, query, qctx, embedding, topK)
	case domain.StrategyFiltered:
		return e.retrieveFiltered(ctx, query, qctx, embedding, topK)
	case domain.StrategyConcept:
		return e.search(ctx, domain.SearchQuery{
			Text:         query,
			TopK:         orDefault(topK, conceptBudget),
			KeywordBoost: conceptKeywordBoost,
		}, embedding, strategy)
	default:
		return e.search(ctx, domain.SearchQuery{
			Text:         query,
			TopK:         orDefault(topK, generalBudget),
			KeywordBoost: generalKeywordBoost,
		}, embedding, domain.StrategyGeneral)
	}
}

// embedQuery embeds the query text with a bounded timeout. A failure is
// logged and scored as the zero vector; keyword overlap still ranks.
func (e *RetrievalEngine) embedQuery(ctx context.Context, query string) []float32 {
	ectx, cancel := context.WithTimeout(ctx, embedTimeout)
	defer cancel()

	embedding, err := e.embedder.Embed(ectx, query)
	if err != nil {
		logger.Warn("query embedding failed, scoring by keywords only: %v", err)
		return make([]float32, e.embedder.Dimensions())
	}
	return embedding
}

func (e *RetrievalEngine) retrieveFiltered(
	ctx context.Context, query string, qctx domain.QueryContext, embedding []float32, topK int,
) (domain.SearchResponse, error) {
	sq := domain.SearchQuery{
		Text:    query,
		TopK:    orDefault(topK, filteredBudget),
		Filters: scopeFilters(qctx),
	}
	return e.search(ctx, sq, embedding, domain.StrategyFiltered)
}

// retrieveMultiEntity searches once per ticker with a per-ticker quota of
// max(5, budget/N) and concatenates, so every named company is
// represented when it has matching content.
func (e *RetrievalEngine) retrieveMultiEntity(
	ctx context.Context, query string, qctx domain.QueryContext, embedding []float32, topK int,
) (domain.SearchResponse, error) {
	budget := orDefault(topK, multiEntityBudget)
	if len(qctx.Tickers) == 0 {
		return e.search(ctx, domain.SearchQuery{
			Text: query, TopK: budget, KeywordBoost: generalKeywordBoost,
		}, embedding, domain.StrategyGeneral)
	}

	quota := budget / len(qctx.Tickers)
	if quota < multiEntityQuotaFloor {
		quota = multiEntityQuotaFloor
	}
	logger.Debug("multi-entity retrieval: %d tickers, quota %d each", len(qctx.Tickers), quota)

	merged := domain.SearchResponse{
		Strategy: domain.StrategyMultiEntity,
		Results:  []domain.SearchResult{},
		Status:   domain.StatusNoMatches,
	}
	sawData := false
	for _, ticker := range qctx.Tickers {
		filters := scopeFilters(qctx)
		filters.Ticker = ticker
		resp, err := e.store.Search(ctx, domain.SearchQuery{
			Text:    query,
			TopK:    quota,
			Filters: filters,
		}, embedding)
		if err != nil {
			return domain.SearchResponse{}, err
		}
		merged.Method = resp.Method
		if resp.Status != domain.StatusNoData {
			sawData = true
		}
		merged.Results = append(merged.Results, resp.Results...)
	}

	if !sawData {
		merged.Status = domain.StatusNoData
		return merged, nil
	}
	if len(merged.Results) > 0 {
		merged.Status = domain.StatusOK
	}
	domain.SortResults(merged.Results, false)
	if len(merged.Results) > budget {
		merged.Results = merged.Results[:budget]
	}
	return merged, nil
}

func (e *RetrievalEngine) retrieveTemporal(
	ctx context.Context, query string, qctx domain.QueryContext, embedding []float32, topK int,
) (domain.SearchResponse, error) {
	sq := domain.SearchQuery{
		Text:        query,
		TopK:        orDefault(topK, temporalBudget),
		Filters:     scopeFilters(qctx),
		RecencyBias: true,
	}
	return e.search(ctx, sq, embedding, domain.StrategyTemporal)
}

func (e *RetrievalEngine) search(
	ctx context.Context, sq domain.SearchQuery, embedding []float32, strategy domain.Strategy,
) (domain.SearchResponse, error) {
	resp, err := e.store.Search(ctx, sq, embedding)
	if err != nil {
		return domain.SearchResponse{}, err
	}
	resp.Strategy = strategy
	return resp, nil
}

// scopeFilters translates extracted entities into store filters: the
// first ticker, the first filing type and the span of named years.
func scopeFilters(qctx domain.QueryContext) domain.SearchFilters {
	f := domain.SearchFilters{}
	if len(qctx.Tickers) == 1 {
		f.Ticker = qctx.Tickers[0]
	}
	if len(qctx.FilingTypes) > 0 {
		f.FilingType = qctx.FilingTypes[0]
	}
	if len(qctx.Years) > 0 {
		minYear, maxYear := qctx.Years[0], qctx.Years[0]
		for _, y := range qctx.Years[1:] {
			if y < minYear {
				minYear = y
			}
			if y > maxYear {
				maxYear = y
			}
		}
		f.DateFrom = minYear + "-01-01"
		f.DateTo = maxYear + "-12-31"
	}
	return f
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
