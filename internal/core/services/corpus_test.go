package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scoperag/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/scoperag/internal/core/domain"
	"github.com/custodia-labs/scoperag/internal/logger"
)

// syncBuffer is a bytes.Buffer safe for the watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestCorpusLoader_Load(t *testing.T) {
	engine, _ := newTestEngine(t)
	loader := NewCorpusLoader(newMemorySource(clubCorpus), engine)

	report, err := loader.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, report.Entries)
	assert.True(t, engine.Stats().Built)
}

func TestCorpusLoader_LoadReadError(t *testing.T) {
	engine, _ := newTestEngine(t)
	source := newMemorySource("")
	source.readErr = errors.New("permission denied")
	loader := NewCorpusLoader(source, engine)

	_, err := loader.Load(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read corpus memory://corpus")
	assert.Contains(t, err.Error(), "permission denied")
}

func TestCorpusLoader_LoadEmpty(t *testing.T) {
	engine, _ := newTestEngine(t)
	loader := NewCorpusLoader(newMemorySource("no entries"), engine)

	_, err := loader.Load(context.Background())

	assert.ErrorIs(t, err, domain.ErrNoCorpusLoaded)
	assert.Contains(t, err.Error(), "load corpus memory://corpus")
}

func TestCorpusLoader_WatchReloads(t *testing.T) {
	out := &syncBuffer{}
	logger.SetOutput(out)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	engine := NewRetrievalService(newWordEmbedder(), flat.NewBuilder(), 0)
	source := newMemorySource(clubCorpus)
	loader := NewCorpusLoader(source, engine)
	_, err := loader.Load(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loader.Watch(ctx) }()

	source.set("Q: new question\nA: new answer")
	assert.Eventually(t, func() bool {
		return engine.Stats().Entries == 1
	}, 2*time.Second, 10*time.Millisecond)

	// A broken edit keeps the last good corpus.
	source.set("not a corpus")
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "corpus reload failed")
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, engine.Stats().Entries)

	cancel()
	assert.NoError(t, <-done)
}
