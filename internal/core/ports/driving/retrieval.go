package driving

import (
	"context"

	"github.com/custodia-labs/scoperag/internal/core/domain"
)

// RetrievalService answers questions from a loaded Q&A corpus.
//
// Lifecycle: create → Load → Query* → discard. Load may be called again
// at any time to replace the corpus; concurrent queries observe either
// the old or the new corpus, never a mix.
type RetrievalService interface {
	// Load parses corpusText, embeds every entry and swaps in a new index.
	// Returns domain.ErrNoCorpusLoaded when no entry qualifies, leaving
	// the previous corpus in place.
	Load(ctx context.Context, corpusText string) (domain.LoadReport, error)

	// Query returns up to k entries nearest to text, nearest first.
	// k <= 0 selects the configured default. Returns domain.ErrIndexNotBuilt
	// before the first successful Load.
	Query(ctx context.Context, text string, k int) ([]domain.QueryResult, error)

	// Entry returns the entry at position in the current corpus.
	// Returns domain.ErrIndexNotBuilt before the first Load and
	// domain.ErrNotFound for out-of-range positions.
	Entry(position int) (domain.Entry, error)

	// Stats reports the state of the current index.
	Stats() domain.IndexStats
}
