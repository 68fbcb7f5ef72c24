// Package flat provides an exact, in-memory vector index.
//
// Every search scans all vectors and ranks them by squared Euclidean
// distance. Ties are ordered by position, so results are stable across
// repeated queries on the same index.
package flat

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/custodia-labs/scoperag/internal/core/domain"
	"github.com/custodia-labs/scoperag/internal/core/ports/driven"
)

// Verify interface compliance.
var (
	_ driven.VectorIndex        = (*Index)(nil)
	_ driven.VectorIndexBuilder = (*Builder)(nil)
)

// ErrClosed is returned when searching a closed index.
var ErrClosed = errors.New("vector index closed")

// cancelCheckInterval is how many rows are scanned between context checks.
const cancelCheckInterval = 4096

// Builder creates flat indexes.
type Builder struct{}

// NewBuilder returns a flat index builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build copies vectors into a contiguous index. vectors[i] is reported as position i.
func (b *Builder) Build(ctx context.Context, dimensions int, vectors [][]float32) (driven.VectorIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrInvalidInput, dimensions)
	}

	data := make([]float32, 0, len(vectors)*dimensions)
	for i, v := range vectors {
		if len(v) != dimensions {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, want %d",
				domain.ErrDimensionMismatch, i, len(v), dimensions)
		}
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		data = append(data, v...)
	}

	return &Index{
		dims: dimensions,
		n:    len(vectors),
		data: data,
	}, nil
}

// Index is an immutable brute-force L2 index.
type Index struct {
	dims int
	n    int
	data []float32

	mu     sync.RWMutex
	closed bool
}

// Search returns exactly k hits ordered by ascending squared L2 distance,
// ties broken by lower position. Unfilled slots carry driven.NoPosition
// and a distance of +Inf. k <= 0 returns no hits.
func (x *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if x.closed {
		return nil, ErrClosed
	}
	if len(query) != x.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), x.dims)
	}
	if k <= 0 {
		return []driven.VectorHit{}, nil
	}

	ranked := make([]driven.VectorHit, x.n)
	for i := 0; i < x.n; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		ranked[i] = driven.VectorHit{
			Position: i,
			Distance: squaredL2(query, x.data[i*x.dims:(i+1)*x.dims]),
		}
	}

	slices.SortFunc(ranked, compareHits)

	hits := make([]driven.VectorHit, k)
	for i := range hits {
		if i < len(ranked) {
			hits[i] = ranked[i]
			continue
		}
		hits[i] = driven.VectorHit{
			Position: driven.NoPosition,
			Distance: float32(math.Inf(1)),
		}
	}
	return hits, nil
}

// Len returns the number of indexed vectors.
func (x *Index) Len() int {
	return x.n
}

// Dimensions returns the vector size.
func (x *Index) Dimensions() int {
	return x.dims
}

// Close releases the vector data. Searching afterwards returns ErrClosed.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.closed = true
	x.data = nil
	return nil
}

// compareHits orders by distance, then position.
func compareHits(a, b driven.VectorHit) int {
	switch {
	case a.Distance < b.Distance:
		return -1
	case a.Distance > b.Distance:
		return 1
	default:
		return a.Position - b.Position
	}
}

// squaredL2 returns the sum of squared differences. Lengths must match.
func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
