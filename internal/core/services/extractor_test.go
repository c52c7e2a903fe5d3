package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

func TestExtractTickersWholeWord(t *testing.T) {
	e := NewEntityExtractor()

	// "GE" hides inside "changes" and "BA" inside nothing; substring
	// matching would hallucinate companies here.
	ctx := e.Extract("working capital changes for financial services companies")
	assert.Empty(t, ctx.Tickers)

	ctx = e.Extract("Apple's risk factors")
	assert.Equal(t, []string{"AAPL"}, ctx.Tickers)
}

func TestExtractTickersDirectSymbols(t *testing.T) {
	e := NewEntityExtractor()

	ctx := e.Extract("What did AAPL and MSFT report?")
	assert.Equal(t, []string{"AAPL", "MSFT"}, ctx.Tickers)
}

func TestExtractShortTickerNeedsContext(t *testing.T) {
	e := NewEntityExtractor()

	// Bare "GE" with no company context reads like a typo or fragment.
	ctx := e.Extract("GE whiz that is interesting")
	assert.Empty(t, ctx.Tickers)

	// With company context the same token is accepted.
	ctx = e.Extract("GE earnings in the latest annual filing")
	assert.Equal(t, []string{"GE"}, ctx.Tickers)

	// Alias co-occurrence also validates the short ticker.
	ctx = e.Extract("General Electric (GE) outlook")
	assert.Equal(t, []string{"GE"}, ctx.Tickers)

	// Lowercase "ge" never matches: short tickers are case-sensitive.
	ctx = e.Extract("ge earnings report")
	assert.Empty(t, ctx.Tickers)
}

func TestExtractAliases(t *testing.T) {
	e := NewEntityExtractor()

	tests := map[string][]string{
		"compare Microsoft and Google cloud revenue": {"GOOGL", "MSFT"},
		"Johnson & Johnson litigation exposure":      {"JNJ"},
		"wells fargo regulatory matters":             {"WFC"},
		"Exxon Mobil capital expenditure":            {"XOM"},
	}
	for query, want := range tests {
		ctx := e.Extract(query)
		assert.Equal(t, want, ctx.Tickers, query)
	}
}

func TestExtractTimePeriods(t *testing.T) {
	e := NewEntityExtractor()

	ctx := e.Extract("Apple revenue in 2023 and Q2 compared to recent quarters")
	assert.Equal(t, []string{"2023"}, ctx.Years)
	assert.Contains(t, ctx.TimePeriods, "2023")
	assert.Contains(t, ctx.TimePeriods, "Q2")
	assert.Contains(t, ctx.TimePeriods, "recent")

	// Years outside the plausible band are not filings we hold.
	ctx = e.Extract("revenue since 1999 and projections for 2060")
	assert.Empty(t, ctx.Years)
}

func TestExtractFilingTypes(t *testing.T) {
	e := NewEntityExtractor()

	ctx := e.Extract("summarize the latest annual report")
	assert.Equal(t, []domain.FilingType{domain.Filing10K}, ctx.FilingTypes)

	ctx = e.Extract("any insider trading activity?")
	assert.ElementsMatch(t, []domain.FilingType{
		domain.FilingForm3, domain.FilingForm4, domain.FilingForm5,
	}, ctx.FilingTypes)

	ctx = e.Extract("what does the proxy say about compensation")
	assert.Equal(t, []domain.FilingType{domain.FilingProxy}, ctx.FilingTypes)
}

func TestExtractConcepts(t *testing.T) {
	e := NewEntityExtractor()

	ctx := e.Extract("how is free cash flow trending against debt levels")
	assert.Contains(t, ctx.Concepts, "cash_flow")
	assert.Contains(t, ctx.Concepts, "debt")
}

func TestComparisonIntentNeedsTwoTickers(t *testing.T) {
	e := NewEntityExtractor()

	// Comparison language alone is not enough.
	ctx := e.Extract("compare revenue across years")
	assert.False(t, ctx.ComparisonIntent)

	// One ticker is still not a comparison between entities.
	ctx = e.Extract("compare Apple results year over year")
	assert.False(t, ctx.ComparisonIntent)

	ctx = e.Extract("Apple versus Microsoft on cloud growth")
	assert.True(t, ctx.ComparisonIntent)
}

func TestExtractEmptyQuery(t *testing.T) {
	e := NewEntityExtractor()
	ctx := e.Extract("")
	assert.True(t, ctx.IsEmpty())
}
