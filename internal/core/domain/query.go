package domain

// QueryContext holds the entities extracted from a raw query.
// It is created per query and discarded after the request completes;
// it is never persisted.
type QueryContext struct {
	// Tickers are the recognised company tickers, deduplicated.
	Tickers []string

	// TimePeriods are the recognised years, quarters and relative terms.
	// Relative terms ("recent", "last year") are left unresolved; mapping
	// them to absolute dates is the caller's concern.
	TimePeriods []string

	// Years is the subset of TimePeriods that are 4-digit years.
	Years []string

	// FilingTypes are the recognised SEC form codes.
	FilingTypes []FilingType

	// Concepts are the recognised financial concept tags.
	Concepts []string

	// ComparisonIntent is true when the query uses comparison language
	// and names at least two distinct tickers.
	ComparisonIntent bool
}

// IsEmpty reports whether no entities were extracted at all.
func (qc QueryContext) IsEmpty() bool {
	return len(qc.Tickers) == 0 && len(qc.TimePeriods) == 0 &&
		len(qc.FilingTypes) == 0 && len(qc.Concepts) == 0 &&
		!qc.ComparisonIntent
}

// Strategy selects how the retrieval engine scopes a search.
type Strategy string

// Retrieval strategies, mutually exclusive, chosen by the router.
const (
	// StrategyFiltered scopes a hybrid search to a single ticker
	// (optionally a filing type and date range).
	StrategyFiltered Strategy = "filtered"

	// StrategyMultiEntity retrieves per ticker with a per-ticker quota so
	// no company starves the result set.
	StrategyMultiEntity Strategy = "multi_entity"

	// StrategyTemporal sorts with date recency as a secondary key,
	// intended for trend queries.
	StrategyTemporal Strategy = "temporal"

	// StrategyConcept is an unfiltered hybrid search with a higher keyword
	// boost, for thematic cross-company questions.
	StrategyConcept Strategy = "concept"

	// StrategyGeneral is an unfiltered hybrid search over the whole corpus.
	StrategyGeneral Strategy = "general"
)
