package httpapi

import (
	"github.com/custodia-labs/scoperag/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the HTTP API.
type Ports struct {
	// Retrieval answers queries and accepts corpus text.
	Retrieval driving.RetrievalService

	// Corpus reloads from the configured corpus file. Optional: POST /reload
	// answers 501 when unset.
	Corpus driving.CorpusService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
