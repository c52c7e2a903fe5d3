package services

import (
	"github.com/finsight-labs/finsight-cli/internal/core/domain"
	"github.com/finsight-labs/finsight-cli/internal/logger"
)

// QueryRouter classifies a query from its extracted entities and picks
// the retrieval strategy. The decision order is fixed; the first rule
// that matches wins.
//
// The router trusts the extractor's output completely: a false-positive
// ticker reroutes the query into the wrong branch. The whole-word and
// short-ticker guards in EntityExtractor exist to keep that rare.
type QueryRouter struct {
	extractor *EntityExtractor
}

// NewQueryRouter creates a router over the given extractor.
func NewQueryRouter(extractor *EntityExtractor) *QueryRouter {
	return &QueryRouter{extractor: extractor}
}

// Route extracts entities and selects a strategy. It never fails: an
// unparseable or empty query becomes a general search with an empty
// context.
func (r *QueryRouter) Route(query string) (domain.QueryContext, domain.Strategy) {
	ctx := r.extractor.Extract(query)
	strategy := classify(ctx)
	logger.Debug("routed query to %s strategy", strategy)
	return ctx, strategy
}

func classify(ctx domain.QueryContext) domain.Strategy {
	switch {
	case len(ctx.Tickers) >= 2 || ctx.ComparisonIntent:
		return domain.StrategyMultiEntity
	case len(ctx.Tickers) == 1 && len(ctx.TimePeriods) > 0:
		return domain.StrategyTemporal
	case len(ctx.Tickers) == 1:
		return domain.StrategyFiltered
	case len(ctx.Concepts) > 0:
		return domain.StrategyConcept
	default:
		return domain.StrategyGeneral
	}
}
