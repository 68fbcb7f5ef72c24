// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - EmbeddingService: Generates vector embeddings (Ollama, OpenAI)
//   - VectorIndexBuilder: Builds an exact vector index from corpus vectors
//   - VectorIndex: Exact k-nearest-neighbour search over the built vectors
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingCache: Content-addressed vector cache. Without it every load re-embeds the corpus.
//   - CorpusSource: Reads and watches the corpus file. Without it the corpus is supplied by callers.
//   - AIConfigValidator: Pings providers when settings change.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
