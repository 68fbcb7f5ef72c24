// Package httpapi provides the JSON HTTP API for scoperag.
// It exposes query, load and health endpoints over a chi router.
package httpapi

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("httpapi: retrieval service is required")
