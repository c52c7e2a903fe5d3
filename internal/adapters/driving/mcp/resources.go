package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

const uriScheme = "finsight://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "corpus",
		Name:        "corpus",
		Description: "Statistics about the indexed filing corpus",
		MIMEType:    "application/json",
	}, s.handleCorpusResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "companies",
		Name:        "companies",
		Description: "Companies whose filings this server covers",
		MIMEType:    "application/json",
	}, s.handleCompaniesResource)
}

// handleCorpusResource returns corpus statistics.
func (s *Server) handleCorpusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	st, err := s.ports.Query.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("corpus status: %w", err)
	}

	type corpusInfo struct {
		ChunkCount   int      `json:"chunk_count"`
		FilingCount  int      `json:"filing_count"`
		Tickers      []string `json:"tickers"`
		Method       string   `json:"embedding_method"`
		LLMAvailable bool     `json:"llm_available"`
	}

	data, err := json.MarshalIndent(corpusInfo{
		ChunkCount:   st.ChunkCount,
		FilingCount:  st.FilingCount,
		Tickers:      st.Tickers,
		Method:       string(st.Method),
		LLMAvailable: st.LLMAvailable,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling corpus status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleCompaniesResource returns the covered company universe.
func (s *Server) handleCompaniesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type companyInfo struct {
		Ticker string `json:"ticker"`
		Name   string `json:"name"`
		Sector string `json:"sector"`
	}

	infos := make([]companyInfo, 0, len(domain.Companies))
	for _, c := range domain.Companies {
		infos = append(infos, companyInfo{Ticker: c.Ticker, Name: c.Name, Sector: c.Sector})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Ticker < infos[j].Ticker })

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling companies: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
