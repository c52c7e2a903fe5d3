package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkValidate(t *testing.T) {
	valid := Chunk{
		ID:   "AAPL_10-K_2023-11-03_0001",
		Text: "Revenue increased due to strong iPhone demand across all geographies.",
		Metadata: ChunkMetadata{
			Ticker:     "AAPL",
			FilingType: Filing10K,
			FilingDate: "2023-11-03",
		},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Chunk)
	}{
		{"missing id", func(c *Chunk) { c.ID = "" }},
		{"empty text", func(c *Chunk) { c.Text = "   " }},
		{"missing ticker", func(c *Chunk) { c.Metadata.Ticker = "" }},
		{"bad filing type", func(c *Chunk) { c.Metadata.FilingType = "10-X" }},
		{"missing date", func(c *Chunk) { c.Metadata.FilingDate = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidInput)
		})
	}
}

func TestLookupCompany(t *testing.T) {
	c, ok := LookupCompany("AAPL")
	require.True(t, ok)
	assert.Equal(t, "Apple Inc.", c.Name)

	_, ok = LookupCompany("ZZZZ")
	assert.False(t, ok)
}

func TestFilingTypeValid(t *testing.T) {
	for _, ft := range FilingTypes() {
		assert.True(t, ft.Valid(), string(ft))
	}
	assert.False(t, FilingType("S-1").Valid())
}

func TestSortResultsOrdering(t *testing.T) {
	results := []SearchResult{
		{ChunkID: "b", Score: 0.5, Metadata: ChunkMetadata{FilingDate: "2022-01-01"}},
		{ChunkID: "a", Score: 0.5, Metadata: ChunkMetadata{FilingDate: "2023-01-01"}},
		{ChunkID: "c", Score: 0.9, Metadata: ChunkMetadata{FilingDate: "2020-01-01"}},
	}
	SortResults(results, false)

	require.Len(t, results, 3)
	assert.Equal(t, "c", results[0].ChunkID, "highest score first")
	assert.Equal(t, "a", results[1].ChunkID, "newer filing wins the tie")
	assert.Equal(t, "b", results[2].ChunkID)
}

func TestSortResultsRecencyBias(t *testing.T) {
	results := []SearchResult{
		{ChunkID: "old", Score: 0.52, Metadata: ChunkMetadata{FilingDate: "2021-02-01"}},
		{ChunkID: "new", Score: 0.50, Metadata: ChunkMetadata{FilingDate: "2024-02-01"}},
	}
	SortResults(results, true)
	assert.Equal(t, "new", results[0].ChunkID, "recency bias overrides a near-tie")
}

func TestQueryContextIsEmpty(t *testing.T) {
	assert.True(t, QueryContext{}.IsEmpty())
	assert.False(t, QueryContext{Tickers: []string{"AAPL"}}.IsEmpty())
	assert.False(t, QueryContext{Concepts: []string{"revenue"}}.IsEmpty())
}
