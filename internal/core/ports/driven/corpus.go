package driven

import "context"

// CorpusSource provides the raw corpus text consumed by the retrieval engine.
type CorpusSource interface {
	// Read returns the full corpus text.
	Read(ctx context.Context) (string, error)

	// Watch calls onChange after the underlying corpus changes.
	// It blocks until ctx is cancelled.
	Watch(ctx context.Context, onChange func()) error

	// Location describes where the corpus lives (e.g. a file path).
	Location() string
}
