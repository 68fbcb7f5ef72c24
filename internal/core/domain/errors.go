package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Retrieval Errors.

	// ErrNoCorpusLoaded indicates a load produced zero qualifying entries.
	// The load is aborted and any previously loaded corpus is retained.
	ErrNoCorpusLoaded = errors.New("no corpus loaded")

	// ErrIndexNotBuilt indicates a query was issued before any successful load.
	ErrIndexNotBuilt = errors.New("index not built")

	// ErrEmbeddingFailure indicates the embedding provider could not produce a vector.
	// It is never retried by the core.
	ErrEmbeddingFailure = errors.New("embedding failure")

	// ErrDimensionMismatch indicates a vector's length differs from the index dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured
	// or could not be reached at startup.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
