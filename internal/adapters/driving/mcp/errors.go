// Package mcp provides an MCP (Model Context Protocol) server adapter for scoperag.
// It lets AI assistants ask questions against the loaded Q&A corpus.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
