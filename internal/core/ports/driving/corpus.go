package driving

import (
	"context"

	"github.com/custodia-labs/scoperag/internal/core/domain"
)

// CorpusService reloads the retrieval engine from its configured corpus source.
type CorpusService interface {
	// Load reads the corpus source and swaps it into the engine.
	Load(ctx context.Context) (domain.LoadReport, error)

	// Watch reloads on every source change until ctx is cancelled.
	Watch(ctx context.Context) error
}
