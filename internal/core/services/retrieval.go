package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/scoperag/internal/core/domain"
	"github.com/custodia-labs/scoperag/internal/core/ports/driven"
	"github.com/custodia-labs/scoperag/internal/core/ports/driving"
	"github.com/custodia-labs/scoperag/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// snapshot pairs a corpus with the index built from it.
// A snapshot is never mutated after it is published.
type snapshot struct {
	corpus   domain.Corpus
	index    driven.VectorIndex
	loadedAt time.Time
}

// RetrievalService answers questions from a Q&A corpus by exact
// nearest-neighbour search over entry embeddings.
type RetrievalService struct {
	embedder driven.EmbeddingService
	builder  driven.VectorIndexBuilder
	defaultK int

	loadMu  sync.Mutex
	current atomic.Pointer[snapshot]
}

// NewRetrievalService creates a retrieval engine with no corpus loaded.
// defaultK <= 0 falls back to domain.DefaultK.
func NewRetrievalService(
	embedder driven.EmbeddingService,
	builder driven.VectorIndexBuilder,
	defaultK int,
) *RetrievalService {
	if defaultK <= 0 {
		defaultK = domain.DefaultK
	}
	return &RetrievalService{
		embedder: embedder,
		builder:  builder,
		defaultK: defaultK,
	}
}

// Load parses corpusText, embeds every entry and swaps in the new
// corpus and index together. On failure the previous pair stays active.
func (s *RetrievalService) Load(ctx context.Context, corpusText string) (domain.LoadReport, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	logger.Section("Corpus Load")
	start := time.Now()

	corpus, parsed := ParseCorpus(corpusText)
	report := domain.LoadReport{
		Entries: len(corpus),
		Skipped: parsed.Skipped,
	}
	logger.Debug("Parsed %d entries from %d blocks (%d skipped)", len(corpus), parsed.Blocks, parsed.Skipped)

	if len(corpus) == 0 {
		return report, domain.ErrNoCorpusLoaded
	}

	vectors, err := s.embedder.EmbedBatch(ctx, corpus.Representations())
	if err != nil {
		return report, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailure, err)
	}
	if len(vectors) != len(corpus) {
		return report, fmt.Errorf("%w: got %d vectors for %d entries",
			domain.ErrEmbeddingFailure, len(vectors), len(corpus))
	}

	dims := len(vectors[0])
	if want := s.embedder.Dimensions(); want > 0 && dims != want {
		return report, fmt.Errorf("%w: model returned %d dimensions, expected %d",
			domain.ErrDimensionMismatch, dims, want)
	}
	logger.Debug("Embedded %d entries (%d dimensions)", len(vectors), dims)

	index, err := s.builder.Build(ctx, dims, vectors)
	if err != nil {
		return report, fmt.Errorf("build index: %w", err)
	}

	s.current.Store(&snapshot{
		corpus:   corpus,
		index:    index,
		loadedAt: time.Now(),
	})

	report.Dimensions = dims
	report.Duration = time.Since(start)
	logger.Info("Loaded %d entries in %s", report.Entries, report.Duration)

	return report, nil
}

// Query returns up to k entries nearest to text, nearest first.
func (s *RetrievalService) Query(ctx context.Context, text string, k int) ([]domain.QueryResult, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, domain.ErrIndexNotBuilt
	}

	if k <= 0 {
		k = s.defaultK
	}

	logger.Section("Query")
	logger.Debug("Query: %q, k: %d", text, k)

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailure, err)
	}
	if len(vector) != snap.index.Dimensions() {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(vector), snap.index.Dimensions())
	}

	hits, err := snap.index.Search(ctx, vector, min(k, snap.index.Len()))
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	results := make([]domain.QueryResult, 0, min(k, snap.corpus.Len()))
	for _, hit := range hits {
		entry, ok := snap.corpus.At(hit.Position)
		if !ok {
			continue
		}
		results = append(results, domain.QueryResult{
			Entry:    entry,
			Position: hit.Position,
			Distance: hit.Distance,
			Score:    domain.ScoreFromDistance(hit.Distance),
		})
	}

	logger.Debug("Returning %d results", len(results))
	return results, nil
}

// Entry returns the entry at position in the current corpus.
func (s *RetrievalService) Entry(position int) (domain.Entry, error) {
	snap := s.current.Load()
	if snap == nil {
		return domain.Entry{}, domain.ErrIndexNotBuilt
	}
	entry, ok := snap.corpus.At(position)
	if !ok {
		return domain.Entry{}, fmt.Errorf("%w: position %d", domain.ErrNotFound, position)
	}
	return entry, nil
}

// Stats reports the current index state.
func (s *RetrievalService) Stats() domain.IndexStats {
	stats := domain.IndexStats{
		Model:      s.embedder.ModelName(),
		Dimensions: s.embedder.Dimensions(),
	}

	snap := s.current.Load()
	if snap == nil {
		return stats
	}

	stats.Built = true
	stats.Entries = snap.corpus.Len()
	stats.Dimensions = snap.index.Dimensions()
	stats.LoadedAt = snap.loadedAt
	return stats
}

// Close releases the current index.
func (s *RetrievalService) Close() error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	snap := s.current.Swap(nil)
	if snap == nil {
		return nil
	}
	return snap.index.Close()
}
