package domain

import "sort"

// EmbeddingMethod identifies which embedding backend produced a corpus.
// A persisted index is only valid for queries embedded with the same method.
type EmbeddingMethod string

const (
	// MethodPrimary is the dense transformer model served over HTTP.
	MethodPrimary EmbeddingMethod = "primary"

	// MethodFallback is the local lexical embedder, used when the primary
	// backend is unreachable at startup.
	MethodFallback EmbeddingMethod = "fallback"
)

// SearchFilters restrict a search to a slice of the corpus before scoring.
// Zero-value fields mean "no restriction".
type SearchFilters struct {
	Ticker     string
	Tickers    []string
	FilingType FilingType
	DateFrom   string // inclusive, YYYY-MM-DD
	DateTo     string // inclusive, YYYY-MM-DD
}

// Empty reports whether the filters are a no-op.
func (f SearchFilters) Empty() bool {
	return f.Ticker == "" && len(f.Tickers) == 0 && f.FilingType == "" &&
		f.DateFrom == "" && f.DateTo == ""
}

// SearchQuery is a single retrieval request against the vector store.
type SearchQuery struct {
	Text    string
	TopK    int
	Filters SearchFilters

	// KeywordBoost shifts scoring weight toward keyword overlap when > 0.
	// It is additive to the active profile's keyword weight and subtracted
	// from the semantic weight.
	KeywordBoost float64

	// RecencyBias sorts equal-score results newest first when set.
	RecencyBias bool
}

// SearchStatus distinguishes "nothing indexed" from "nothing relevant".
type SearchStatus string

const (
	StatusOK        SearchStatus = "ok"
	StatusNoData    SearchStatus = "no_data"
	StatusNoMatches SearchStatus = "no_matches"
)

// SearchResult is one scored chunk returned from the store.
type SearchResult struct {
	ChunkID       string        `json:"chunk_id"`
	Text          string        `json:"text"`
	Metadata      ChunkMetadata `json:"metadata"`
	Score         float64       `json:"score"`
	SemanticScore float64       `json:"semantic_score"`
	KeywordScore  float64       `json:"keyword_score"`
}

// SearchResponse wraps results with corpus-state information.
type SearchResponse struct {
	Results  []SearchResult  `json:"results"`
	Status   SearchStatus    `json:"status"`
	Method   EmbeddingMethod `json:"method"`
	Strategy Strategy        `json:"strategy,omitempty"`
}

// SortResults orders results by combined score descending. Ties break on
// filing date, newest first, then chunk ID for a stable order. When
// recencyBias is set, date wins over small score differences within epsilon.
func SortResults(results []SearchResult, recencyBias bool) {
	const epsilon = 1e-9
	sort.SliceStable(results, func(i, j int) bool {
		di := results[i].Score - results[j].Score
		if recencyBias {
			if results[i].Metadata.FilingDate != results[j].Metadata.FilingDate &&
				di < 0.05 && di > -0.05 {
				return results[i].Metadata.FilingDate > results[j].Metadata.FilingDate
			}
		}
		if di > epsilon {
			return true
		}
		if di < -epsilon {
			return false
		}
		if results[i].Metadata.FilingDate != results[j].Metadata.FilingDate {
			return results[i].Metadata.FilingDate > results[j].Metadata.FilingDate
		}
		return results[i].ChunkID < results[j].ChunkID
	})
}
