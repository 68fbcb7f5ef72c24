package search

import "errors"

// Error definitions for the search view.
var (
	// ErrNoRetrievalService indicates that no retrieval service was provided.
	ErrNoRetrievalService = errors.New("retrieval service is required")

	// ErrReloadUnavailable indicates the view has no corpus service to reload from.
	ErrReloadUnavailable = errors.New("reload is not available")
)
