package domain

// Citation points a claim in an answer back to a source chunk.
type Citation struct {
	ChunkID    string     `json:"chunk_id"`
	Ticker     string     `json:"ticker"`
	FilingType FilingType `json:"filing_type"`
	FilingDate string     `json:"filing_date"`
}

// Answer is a synthesised response to a question, grounded in retrieved
// chunks. Confidence is a retrieval-quality heuristic, not a model
// probability.
type Answer struct {
	Text       string          `json:"text"`
	Confidence float64         `json:"confidence"`
	Citations  []Citation      `json:"citations"`
	Sources    []SearchResult  `json:"sources"`
	Method     EmbeddingMethod `json:"method"`

	// FollowUps are suggested next questions derived from the query
	// context, at most three.
	FollowUps []string `json:"follow_ups,omitempty"`
}

// CorpusStatus summarises the indexed corpus for status reporting.
type CorpusStatus struct {
	ChunkCount   int             `json:"chunk_count"`
	FilingCount  int             `json:"filing_count"`
	Tickers      []string        `json:"tickers"`
	Method       EmbeddingMethod `json:"method"`
	IndexPath    string          `json:"index_path"`
	LLMAvailable bool            `json:"llm_available"`
}
