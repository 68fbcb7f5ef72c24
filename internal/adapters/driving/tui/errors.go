package tui

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("tui: retrieval service is required")

// ErrNotTerminal is returned when stdin or stdout is not an interactive terminal.
var ErrNotTerminal = errors.New("tui: an interactive terminal is required")
