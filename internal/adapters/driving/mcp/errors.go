// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants like Claude search the local filing corpus.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")
