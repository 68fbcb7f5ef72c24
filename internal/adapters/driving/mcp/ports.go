package mcp

import (
	"github.com/custodia-labs/scoperag/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers queries against the loaded corpus.
	Retrieval driving.RetrievalService

	// Corpus reloads the corpus from its source. Optional: the reload
	// tool is only registered when set.
	Corpus driving.CorpusService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
