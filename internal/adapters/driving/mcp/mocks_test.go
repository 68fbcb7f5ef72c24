package mcp

import (
	"context"

	"github.com/custodia-labs/scoperag/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results []domain.QueryResult
	entries domain.Corpus
	stats   domain.IndexStats
	err     error

	gotText string
	gotK    int
}

func (m *mockRetrievalService) Load(_ context.Context, _ string) (domain.LoadReport, error) {
	return domain.LoadReport{}, m.err
}

func (m *mockRetrievalService) Query(_ context.Context, text string, k int) ([]domain.QueryResult, error) {
	m.gotText = text
	m.gotK = k
	return m.results, m.err
}

func (m *mockRetrievalService) Entry(position int) (domain.Entry, error) {
	if m.err != nil {
		return domain.Entry{}, m.err
	}
	entry, ok := m.entries.At(position)
	if !ok {
		return domain.Entry{}, domain.ErrNotFound
	}
	return entry, nil
}

func (m *mockRetrievalService) Stats() domain.IndexStats {
	return m.stats
}

// mockCorpusService is a mock implementation of driving.CorpusService.
type mockCorpusService struct {
	report domain.LoadReport
	err    error
	loads  int
}

func (m *mockCorpusService) Load(_ context.Context) (domain.LoadReport, error) {
	m.loads++
	return m.report, m.err
}

func (m *mockCorpusService) Watch(ctx context.Context) error {
	<-ctx.Done()
	return nil
}
