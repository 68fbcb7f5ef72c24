// Package tui provides an interactive terminal user interface for scoperag.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/scoperag/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers queries against the loaded corpus.
	Retrieval driving.RetrievalService

	// Corpus reloads the corpus file. Optional; reload is disabled without it.
	Corpus driving.CorpusService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(retrieval driving.RetrievalService, corpus driving.CorpusService) *Ports {
	return &Ports{
		Retrieval: retrieval,
		Corpus:    corpus,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
