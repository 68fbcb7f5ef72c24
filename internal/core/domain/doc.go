// Package domain defines the core business entities for scoperag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Entry: A single question-answer pair
//   - Corpus: The ordered collection of entries currently loaded
//   - QueryResult: An entry matched by a query, with its distance and score
//   - AppSettings: Provider, corpus, server and cache configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
