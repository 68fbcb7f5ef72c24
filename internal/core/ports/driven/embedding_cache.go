package driven

import "context"

// EmbeddingCache provides content-addressed caching for embeddings.
//
// Keys are derived from a hash of the model name, vector size and text,
// so a cached vector is only reused for the exact same input.
type EmbeddingCache interface {
	// Get retrieves a cached embedding.
	// The boolean is false when the key is not cached.
	Get(ctx context.Context, key string) ([]float32, bool, error)

	// Put stores an embedding under the given key, replacing any previous value.
	Put(ctx context.Context, key string, embedding []float32) error

	// Close releases resources.
	Close() error
}
