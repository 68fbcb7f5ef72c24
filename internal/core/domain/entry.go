package domain

import "time"

// Entry is a single question-answer pair from the corpus.
// Entries are immutable once parsed and are identified by their
// position in the Corpus.
type Entry struct {
	// Question is the text following the "Q:" prefix.
	Question string

	// Answer is the text following the "A:" prefix, with continuation
	// lines joined by single spaces.
	Answer string
}

// Representation returns the text that is embedded for this entry.
// The format must stay stable: changing it changes every corpus vector.
func (e Entry) Representation() string {
	return "Question: " + e.Question + " Answer: " + e.Answer
}

// Corpus is the ordered collection of entries currently loaded.
// The slice index of each entry is the join key with the vector index.
type Corpus []Entry

// Len returns the number of entries.
func (c Corpus) Len() int {
	return len(c)
}

// At returns the entry at the given position.
// The boolean is false for any position outside [0, Len()), including
// the -1 sentinel reported by the index for unfilled result slots.
func (c Corpus) At(position int) (Entry, bool) {
	if position < 0 || position >= len(c) {
		return Entry{}, false
	}
	return c[position], true
}

// Representations returns the embedding text of every entry, in order.
func (c Corpus) Representations() []string {
	texts := make([]string, len(c))
	for i := range c {
		texts[i] = c[i].Representation()
	}
	return texts
}

// QueryResult is a corpus entry matched by a query.
type QueryResult struct {
	// Entry is the matched question-answer pair.
	Entry Entry

	// Position is the entry's position in the Corpus.
	Position int

	// Distance is the squared Euclidean distance between the query vector
	// and the entry vector.
	Distance float32

	// Score is the normalised similarity in (0, 1]; see ScoreFromDistance.
	Score float64
}

// ScoreFromDistance maps a squared L2 distance to a similarity score
// using 1 / (1 + d). The score is 1 exactly when the distance is 0 and
// decreases monotonically as the distance grows.
func ScoreFromDistance(distance float32) float64 {
	return 1 / (1 + float64(distance))
}

// LoadReport describes a completed corpus load.
type LoadReport struct {
	// Entries is the number of entries indexed.
	Entries int

	// Skipped is the number of non-empty blocks that did not qualify as entries.
	Skipped int

	// Dimensions is the vector size of the built index.
	Dimensions int

	// Duration is the wall time spent parsing, embedding and indexing.
	Duration time.Duration
}

// IndexStats is a point-in-time view of the retrieval engine.
type IndexStats struct {
	// Built is true once a load has succeeded.
	Built bool

	// Entries is the corpus size.
	Entries int

	// Dimensions is the index vector size.
	Dimensions int

	// Model is the embedding model name.
	Model string

	// LoadedAt is when the current index was swapped in.
	LoadedAt time.Time
}
