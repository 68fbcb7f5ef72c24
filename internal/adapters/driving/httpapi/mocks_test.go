package httpapi

import (
	"context"

	"github.com/custodia-labs/scoperag/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results  []domain.QueryResult
	report   domain.LoadReport
	entries  domain.Corpus
	stats    domain.IndexStats
	queryErr error
	loadErr  error

	gotText   string
	gotK      int
	gotCorpus string
}

func (m *mockRetrievalService) Load(_ context.Context, text string) (domain.LoadReport, error) {
	m.gotCorpus = text
	return m.report, m.loadErr
}

func (m *mockRetrievalService) Query(_ context.Context, text string, k int) ([]domain.QueryResult, error) {
	m.gotText = text
	m.gotK = k
	return m.results, m.queryErr
}

func (m *mockRetrievalService) Entry(position int) (domain.Entry, error) {
	if !m.stats.Built {
		return domain.Entry{}, domain.ErrIndexNotBuilt
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
}

func (m *mockCorpusService) Load(_ context.Context) (domain.LoadReport, error) {
	return m.report, m.err
}

func (m *mockCorpusService) Watch(ctx context.Context) error {
	<-ctx.Done()
	return nil
}
