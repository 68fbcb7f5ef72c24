package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/custodia-labs/scoperag/internal/core/domain"
	"github.com/custodia-labs/scoperag/internal/core/ports/driven"
	"github.com/custodia-labs/scoperag/internal/core/ports/driving"
	"github.com/custodia-labs/scoperag/internal/logger"
)

// Ensure CorpusLoader implements the interface.
var _ driving.CorpusService = (*CorpusLoader)(nil)

// CorpusLoader feeds a corpus source into the retrieval engine.
type CorpusLoader struct {
	source driven.CorpusSource
	engine driving.RetrievalService
}

// NewCorpusLoader creates a loader for the given source and engine.
func NewCorpusLoader(source driven.CorpusSource, engine driving.RetrievalService) *CorpusLoader {
	return &CorpusLoader{
		source: source,
		engine: engine,
	}
}

// Load reads the source and loads it into the engine.
func (l *CorpusLoader) Load(ctx context.Context) (domain.LoadReport, error) {
	text, err := l.source.Read(ctx)
	if err != nil {
		return domain.LoadReport{}, fmt.Errorf("read corpus %s: %w", l.source.Location(), err)
	}

	report, err := l.engine.Load(ctx, text)
	if err != nil {
		return report, fmt.Errorf("load corpus %s: %w", l.source.Location(), err)
	}
	return report, nil
}

// Watch reloads the engine whenever the source changes, until ctx is
// cancelled. A failed reload keeps the previous corpus serving.
func (l *CorpusLoader) Watch(ctx context.Context) error {
	return l.source.Watch(ctx, func() {
		report, err := l.Load(ctx)
		if err != nil {
			logger.L().Error("corpus reload failed, keeping previous index",
				zap.String("source", l.source.Location()),
				zap.Error(err))
			return
		}
		logger.L().Info("corpus reloaded",
			zap.String("source", l.source.Location()),
			zap.Int("entries", report.Entries),
			zap.Int("skipped", report.Skipped),
			zap.Duration("duration", report.Duration))
	})
}
