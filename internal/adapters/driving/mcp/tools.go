package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchInput is the input schema for the search_filings tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the question or search query about SEC filings"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search_filings tool.
type SearchOutput struct {
	Results  []SearchResultOutput `json:"results"`
	Count    int                  `json:"count"`
	Strategy string               `json:"strategy"`
	Method   string               `json:"method"`
	Status   string               `json:"status"`
}

// SearchResultOutput represents a single filing chunk result.
type SearchResultOutput struct {
	ChunkID    string  `json:"chunk_id"`
	Ticker     string  `json:"ticker"`
	FilingType string  `json:"filing_type"`
	FilingDate string  `json:"filing_date"`
	Section    string  `json:"section,omitempty"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_filings",
		Description: "Search indexed SEC filings (10-K, 10-Q, 8-K, proxies) for answers to financial questions",
	}, s.handleSearch)
}

// handleSearch handles the search_filings tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	resp, err := s.ports.Query.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results:  make([]SearchResultOutput, len(resp.Results)),
		Count:    len(resp.Results),
		Strategy: string(resp.Strategy),
		Method:   string(resp.Method),
		Status:   string(resp.Status),
	}

	for i := range resp.Results {
		r := resp.Results[i]
		output.Results[i] = SearchResultOutput{
			ChunkID:    r.ChunkID,
			Ticker:     r.Metadata.Ticker,
			FilingType: string(r.Metadata.FilingType),
			FilingDate: r.Metadata.FilingDate,
			Section:    r.Metadata.SectionType,
			Score:      r.Score,
			Text:       r.Text,
		}
	}

	return nil, output, nil
}
