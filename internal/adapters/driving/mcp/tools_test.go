package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scoperag/internal/core/domain"
)

func TestServer_handleQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("returns query results", func(t *testing.T) {
		retrieval := &mockRetrievalService{
			results: []domain.QueryResult{
				{
					Entry:    domain.Entry{Question: "What is Scope Club?", Answer: "A robotics club."},
					Position: 2,
					Distance: 0.25,
					Score:    0.8,
				},
			},
		}
		server, err := NewServer(&Ports{Retrieval: retrieval})
		require.NoError(t, err)

		_, output, err := server.handleQuery(ctx, nil, QueryInput{Query: "scope club", K: 1})

		require.NoError(t, err)
		assert.Equal(t, "scope club", retrieval.gotText)
		assert.Equal(t, 1, retrieval.gotK)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "What is Scope Club?", output.Results[0].Question)
		assert.Equal(t, "A robotics club.", output.Results[0].Answer)
		assert.Equal(t, 2, output.Results[0].Position)
		assert.InDelta(t, 0.8, output.Results[0].Score, 1e-9)
	})

	t.Run("zero k is passed through for the engine default", func(t *testing.T) {
		retrieval := &mockRetrievalService{}
		server, err := NewServer(&Ports{Retrieval: retrieval})
		require.NoError(t, err)

		_, output, err := server.handleQuery(ctx, nil, QueryInput{Query: "test"})

		require.NoError(t, err)
		assert.Zero(t, retrieval.gotK)
		assert.Equal(t, 0, output.Count)
		assert.NotNil(t, output.Results)
	})

	t.Run("returns error before load", func(t *testing.T) {
		retrieval := &mockRetrievalService{err: domain.ErrIndexNotBuilt}
		server, err := NewServer(&Ports{Retrieval: retrieval})
		require.NoError(t, err)

		_, _, err = server.handleQuery(ctx, nil, QueryInput{Query: "test"})

		assert.ErrorIs(t, err, domain.ErrIndexNotBuilt)
	})
}

func TestServer_handleReload(t *testing.T) {
	ctx := context.Background()

	t.Run("reports load", func(t *testing.T) {
		corpus := &mockCorpusService{report: domain.LoadReport{
			Entries:    12,
			Skipped:    1,
			Dimensions: 384,
			Duration:   1500 * time.Millisecond,
		}}
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Corpus: corpus})
		require.NoError(t, err)

		_, output, err := server.handleReload(ctx, nil, ReloadInput{})

		require.NoError(t, err)
		assert.Equal(t, 1, corpus.loads)
		assert.Equal(t, ReloadOutput{Entries: 12, Skipped: 1, Dimensions: 384, DurationMS: 1500}, output)
	})

	t.Run("returns load error", func(t *testing.T) {
		corpus := &mockCorpusService{err: errors.New("read corpus: no such file")}
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Corpus: corpus})
		require.NoError(t, err)

		_, _, err = server.handleReload(ctx, nil, ReloadInput{})

		assert.ErrorContains(t, err, "no such file")
	})
}
