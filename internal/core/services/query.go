package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driven"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driving"
	"github.com/finsight-labs/finsight-cli/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// Answer synthesis limits.
const (
	answerContextChunks = 5
	answerMaxTokens     = 1024
	answerTemperature   = 0.2
)

// QueryService is the query-side application service: route, retrieve,
// and optionally synthesise an answer.
type QueryService struct {
	router      *QueryRouter
	engine      *RetrievalEngine
	store       driven.VectorStore
	llm         driven.LLMService
	filingStore driven.FilingStore
	indexPath   string
}

// NewQueryService creates a query service. llm and filingStore are
// optional (can be nil).
func NewQueryService(
	router *QueryRouter,
	engine *RetrievalEngine,
	store driven.VectorStore,
	llm driven.LLMService,
) *QueryService {
	return &QueryService{
		router: router,
		engine: engine,
		store:  store,
		llm:    llm,
	}
}

// SetFilingStore sets the filing store for status reporting.
func (s *QueryService) SetFilingStore(store driven.FilingStore) {
	s.filingStore = store
}

// SetIndexPath sets the snapshot path shown in status output.
func (s *QueryService) SetIndexPath(path string) {
	s.indexPath = path
}

// Search routes the query and retrieves scored chunks.
func (s *QueryService) Search(ctx context.Context, query string, topK int) (domain.SearchResponse, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	qctx, strategy := s.router.Route(strings.TrimSpace(query))
	return s.engine.Retrieve(ctx, query, qctx, strategy, topK)
}

// Ask retrieves context and synthesises a grounded answer.
func (s *QueryService) Ask(ctx context.Context, question string, topK int) (domain.Answer, error) {
	if s.llm == nil {
		return domain.Answer{}, domain.ErrLLMUnavailable
	}

	qctx, strategy := s.router.Route(strings.TrimSpace(question))
	resp, err := s.engine.Retrieve(ctx, question, qctx, strategy, topK)
	if err != nil {
		return domain.Answer{}, err
	}

	switch resp.Status {
	case domain.StatusNoData:
		return domain.Answer{
			Text:   "No filings are indexed yet. Run `finsight fetch` and `finsight ingest` first.",
			Method: resp.Method,
		}, nil
	case domain.StatusNoMatches:
		return domain.Answer{
			Text:   "I couldn't find relevant information in the indexed SEC filings to answer your question.",
			Method: resp.Method,
		}, nil
	}

	prompt := buildPrompt(question, qctx, strategy, resp.Results)
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}

	answer := domain.Answer{
		Text:      strings.TrimSpace(text),
		Citations: citations(resp.Results),
		Sources:   resp.Results,
		Method:    resp.Method,
		FollowUps: followUps(qctx),
	}
	answer.Confidence = confidence(answer.Text, resp.Results)
	return answer, nil
}

// followUps suggests up to three next questions from the query context.
func followUps(qctx domain.QueryContext) []string {
	var suggestions []string

	if len(qctx.Tickers) > 0 {
		t := qctx.Tickers[0]
		suggestions = append(suggestions,
			fmt.Sprintf("What are the main risk factors for %s?", t),
			fmt.Sprintf("How has %s's financial performance changed over time?", t),
		)
	}
	for _, c := range qctx.Concepts {
		switch c {
		case "revenue":
			suggestions = append(suggestions, "What are the main revenue drivers mentioned?")
		case "risk_factors":
			suggestions = append(suggestions, "How do these risks compare across different companies?")
		}
	}
	if len(qctx.Tickers) > 1 {
		suggestions = append(suggestions, "Which company appears to be performing better and why?")
	}

	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return suggestions
}

// Status reports the indexed corpus and which backends are live.
func (s *QueryService) Status(ctx context.Context) (domain.CorpusStatus, error) {
	count, err := s.store.Count(ctx, domain.SearchFilters{})
	if err != nil {
		return domain.CorpusStatus{}, err
	}
	tickers, err := s.store.Tickers(ctx)
	if err != nil {
		return domain.CorpusStatus{}, err
	}
	method, err := s.store.Method(ctx)
	if err != nil {
		return domain.CorpusStatus{}, err
	}

	status := domain.CorpusStatus{
		ChunkCount:   count,
		Tickers:      tickers,
		Method:       method,
		IndexPath:    s.indexPath,
		LLMAvailable: s.llm != nil,
	}
	if s.filingStore != nil {
		filings, err := s.filingStore.Count(ctx)
		if err != nil {
			return domain.CorpusStatus{}, err
		}
		status.FilingCount = filings
	}
	return status, nil
}

// buildPrompt frames the retrieved chunks for the model. Comparative
// queries group excerpts by company; everything else lists them with
// filing provenance.
func buildPrompt(question string, qctx domain.QueryContext, strategy domain.Strategy, results []domain.SearchResult) string {
	var b strings.Builder
	b.WriteString("You are a financial analyst specializing in SEC filings analysis.\n\n")

	if strategy == domain.StrategyMultiEntity && len(qctx.Tickers) >= 2 {
		b.WriteString("Provide a comparative analysis for the following question.\n\n")
		fmt.Fprintf(&b, "Question: %s\n\n", question)
		fmt.Fprintf(&b, "Companies to compare: %s\n\n", strings.Join(qctx.Tickers, ", "))
		b.WriteString("Relevant SEC filing excerpts:\n")
		writeGroupedExcerpts(&b, results)
		b.WriteString("\nCompare and contrast the companies on the requested dimension, ")
		b.WriteString("use specific data from the filings, and cite filing types and dates.\n")
		return b.String()
	}

	b.WriteString("Answer the following question using only the provided SEC filing excerpts.\n\n")
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	b.WriteString("Relevant SEC filing excerpts:\n")
	for i, r := range results {
		if i >= answerContextChunks {
			break
		}
		fmt.Fprintf(&b, "\nSource %d (%s %s, filed %s):\n%s\n",
			i+1, r.Metadata.Ticker, r.Metadata.FilingType, r.Metadata.FilingDate, r.Text)
	}
	b.WriteString("\nDirectly address the question, cite the relevant filing types and dates, ")
	b.WriteString("provide quantitative data when available, and acknowledge any limitations.\n")
	return b.String()
}

func writeGroupedExcerpts(b *strings.Builder, results []domain.SearchResult) {
	byTicker := make(map[string][]domain.SearchResult)
	var order []string
	for _, r := range results {
		t := r.Metadata.Ticker
		if _, ok := byTicker[t]; !ok {
			order = append(order, t)
		}
		byTicker[t] = append(byTicker[t], r)
	}
	for _, t := range order {
		fmt.Fprintf(b, "\n%s:\n", t)
		for i, r := range byTicker[t] {
			if i >= 3 {
				break
			}
			fmt.Fprintf(b, "- %s (%s): %s\n", r.Metadata.FilingType, r.Metadata.FilingDate, truncate(r.Text, 500))
		}
	}
}

// citations deduplicates sources by (ticker, type, date).
func citations(results []domain.SearchResult) []domain.Citation {
	seen := make(map[domain.Citation]struct{})
	var out []domain.Citation
	for _, r := range results {
		c := domain.Citation{
			ChunkID:    "",
			Ticker:     r.Metadata.Ticker,
			FilingType: r.Metadata.FilingType,
			FilingDate: r.Metadata.FilingDate,
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		c.ChunkID = r.ChunkID
		out = append(out, c)
	}
	return out
}

// confidence is a retrieval-quality heuristic: how much context was
// found, how well it scored, and how specific the answer reads.
func confidence(answer string, results []domain.SearchResult) float64 {
	score := 0.0

	docFactor := float64(len(results)) / 5.0
	if docFactor > 1 {
		docFactor = 1
	}
	score += docFactor * 0.3

	if len(results) > 0 {
		var avg float64
		for _, r := range results {
			avg += r.Score
		}
		avg /= float64(len(results))
		score += avg * 0.3
	}

	lengthFactor := float64(len(strings.Fields(answer))) / 200.0
	if lengthFactor > 1 {
		lengthFactor = 1
	}
	score += lengthFactor * 0.2

	specificity := 0.0
	if strings.ContainsAny(answer, "0123456789") {
		specificity++
	}
	if strings.Contains(answer, "%") {
		specificity++
	}
	if yearPattern.MatchString(answer) {
		specificity++
	}
	score += specificity / 3.0 * 0.2

	lower := strings.ToLower(answer)
	for phrase, penalty := range map[string]float64{
		"i don't have enough information": 0.3,
		"unable to determine":             0.2,
		"insufficient data":               0.2,
	} {
		if strings.Contains(lower, phrase) {
			score -= penalty
		}
	}
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
