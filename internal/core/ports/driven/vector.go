package driven

import "context"

// NoPosition is reported by VectorIndex.Search for result slots it could not
// fill, which happens when k exceeds the number of indexed vectors.
const NoPosition = -1

// VectorIndex provides exact nearest-neighbour search over a fixed set of
// vectors. Vectors are identified by their insertion position, which is
// the join key with the corpus entry at the same position.
//
// An index is immutable once built; a new corpus gets a new index.
type VectorIndex interface {
	// Search returns exactly k hits ordered by ascending squared Euclidean
	// distance. Slots beyond Len() carry Position NoPosition and an
	// infinite distance.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of indexed vectors.
	Len() int

	// Dimensions returns the vector size of the index.
	Dimensions() int

	// Close releases resources.
	Close() error
}

// VectorIndexBuilder constructs a VectorIndex from an ordered set of vectors.
type VectorIndexBuilder interface {
	// Build indexes vectors so that vectors[i] is reported as position i.
	// Every vector must have the given dimension.
	Build(ctx context.Context, dimensions int, vectors [][]float32) (VectorIndex, error)
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Position is the matched vector's insertion position, or NoPosition.
	Position int

	// Distance is the squared Euclidean distance to the query.
	Distance float32
}
