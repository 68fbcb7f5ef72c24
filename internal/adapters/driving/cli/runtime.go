package cli

import (
	"context"
	"fmt"

	"github.com/custodia-labs/scoperag/internal/adapters/driven/ai"
	corpusfile "github.com/custodia-labs/scoperag/internal/adapters/driven/corpus/file"
	"github.com/custodia-labs/scoperag/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/scoperag/internal/core/domain"
	"github.com/custodia-labs/scoperag/internal/core/ports/driven"
	"github.com/custodia-labs/scoperag/internal/core/ports/driving"
	"github.com/custodia-labs/scoperag/internal/core/services"
	"github.com/custodia-labs/scoperag/internal/logger"
)

// runtime holds the services a command runs against.
type runtime struct {
	settings  *domain.AppSettings
	source    *corpusfile.Source
	retrieval driving.RetrievalService
	corpus    driving.CorpusService
	close     func()
}

// Close releases provider and cache resources.
func (r *runtime) Close() {
	if r.close != nil {
		r.close()
	}
}

// newRuntime wires the engine for settings. Tests replace it.
var newRuntime = buildRuntime

func buildRuntime(ctx context.Context, settings *domain.AppSettings) (*runtime, error) {
	res, err := ai.CreateAndValidateEmbeddingService(ctx, settings)
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		logger.Warn("%s", w)
	}
	logger.Debug("embedding cache: %s", res.CachePath)

	return assembleRuntime(settings, res.EmbeddingService, res.Close), nil
}

// assembleRuntime wires the engine, corpus source and loader around embedder.
func assembleRuntime(settings *domain.AppSettings, embedder driven.EmbeddingService, closeFn func()) *runtime {
	engine := services.NewRetrievalService(embedder, flat.NewBuilder(), settings.Query.DefaultK)
	source := corpusfile.NewSource(settings.Corpus.Path)

	return &runtime{
		settings:  settings,
		source:    source,
		retrieval: engine,
		corpus:    services.NewCorpusLoader(source, engine),
		close:     closeFn,
	}
}

// effectiveSettings returns settings with environment overrides applied,
// then corpus overrides from flags.
func effectiveSettings(corpusPath string) (*domain.AppSettings, error) {
	settings, err := settingsService.Effective()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	if corpusPath != "" {
		settings.Corpus.Path = corpusPath
	}
	return settings, nil
}

// startRuntime builds the runtime and loads the corpus once.
func startRuntime(ctx context.Context, corpusPath string) (*runtime, domain.LoadReport, error) {
	settings, err := effectiveSettings(corpusPath)
	if err != nil {
		return nil, domain.LoadReport{}, err
	}

	rt, err := newRuntime(ctx, settings)
	if err != nil {
		return nil, domain.LoadReport{}, err
	}
	if err := rt.source.Check(); err != nil {
		rt.Close()
		return nil, domain.LoadReport{}, fmt.Errorf("corpus %s is not usable: %w", rt.source.Location(), err)
	}

	report, err := rt.corpus.Load(ctx)
	if err != nil {
		rt.Close()
		return nil, report, err
	}
	logger.Info("loaded %d entries from %s (%d skipped, %d dims, %s)",
		report.Entries, rt.source.Location(), report.Skipped, report.Dimensions, report.Duration)
	return rt, report, nil
}
