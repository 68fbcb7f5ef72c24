package services

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"strings"
	"sync"
	"sync/atomic"
)

const fakeDims = 64

// wordEmbedder hashes lowercase words into buckets and normalises the
// result, so texts sharing words land close together.
type wordEmbedder struct {
	dims     int
	embedErr error
	batchErr error
	calls    atomic.Int32
}

func newWordEmbedder() *wordEmbedder {
	return &wordEmbedder{dims: fakeDims}
}

func (e *wordEmbedder) vector(text string) []float32 {
	v := make([]float32, e.dims)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, "?.,!:")
		if w == "" {
			continue
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		v[h.Sum32()%uint32(e.dims)]++
	}
	var norm float64
	for _, x := range v {
		norm += float64(x * x)
	}
	if norm > 0 {
		n := float32(math.Sqrt(norm))
		for i := range v {
			v[i] /= n
		}
	}
	return v
}

func (e *wordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls.Add(1)
	if e.embedErr != nil {
		return nil, e.embedErr
	}
	return e.vector(text), nil
}

func (e *wordEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.calls.Add(1)
	if e.batchErr != nil {
		return nil, e.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

func (e *wordEmbedder) Dimensions() int {
	return e.dims
}

func (e *wordEmbedder) ModelName() string {
	return "word-hash"
}

func (e *wordEmbedder) Ping(context.Context) error {
	return nil
}

func (e *wordEmbedder) Close() error {
	return nil
}

// shortEmbedder returns query vectors of the wrong size.
type shortEmbedder struct {
	*wordEmbedder
}

func (e shortEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return make([]float32, e.dims-1), nil
}

// memorySource is an in-memory driven.CorpusSource.
type memorySource struct {
	mu      sync.Mutex
	text    string
	readErr error
	changes chan struct{}
}

func newMemorySource(text string) *memorySource {
	return &memorySource{text: text, changes: make(chan struct{}, 1)}
}

func (s *memorySource) set(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
	s.changes <- struct{}{}
}

func (s *memorySource) Read(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return "", s.readErr
	}
	return s.text, nil
}

func (s *memorySource) Watch(ctx context.Context, onChange func()) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.changes:
			onChange()
		}
	}
}

func (s *memorySource) Location() string {
	return "memory://corpus"
}

var errProvider = errors.New("provider down")
