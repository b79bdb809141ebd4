package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"FishCast/internal/domain/models"
	drepo "FishCast/internal/domain/repository"
	domsvc "FishCast/internal/domain/service"
	"FishCast/internal/services/estimator"
	"FishCast/internal/services/features"
	"FishCast/pkg/cache"
	"FishCast/pkg/logger"
)

// TrainParams selects the data a model is fitted on. A nil Labels uses the
// synthetic labeler, which fits the model to its own heuristic fallback.
type TrainParams struct {
	Species string
	Range   models.DateRange
	Bounds  models.BoundingBox
	Labels  domsvc.LabelSource
}

// DefaultMaxTrainDays bounds a training window when none is configured.
const DefaultMaxTrainDays = 3660

// Trainer fits and stores per-species models offline.
type Trainer struct {
	source  drepo.OceanSource
	store   drepo.ModelStore
	cache   cache.Service
	metrics drepo.Metrics
	log     *logger.Logger
	opts    estimator.TrainOptions
	maxDays int
}

// TrainerOption configures a Trainer.
type TrainerOption func(*Trainer)

// WithMaxTrainDays caps the training window length. n <= 0 keeps
// DefaultMaxTrainDays.
func WithMaxTrainDays(n int) TrainerOption {
	return func(t *Trainer) {
		if n > 0 {
			t.maxDays = n
		}
	}
}

// NewTrainer creates a trainer. c may be nil; when set, cached predictions
// for the trained species are dropped after a save.
func NewTrainer(source drepo.OceanSource, store drepo.ModelStore, c cache.Service, metrics drepo.Metrics, log *logger.Logger, opts estimator.TrainOptions, topts ...TrainerOption) *Trainer {
	if log == nil {
		log = logger.Nop()
	}
	t := &Trainer{source: source, store: store, cache: c, metrics: metrics, log: log, opts: opts, maxDays: DefaultMaxTrainDays}
	for _, o := range topts {
		o(t)
	}
	return t
}

// Train fetches, labels, fits and saves a model, returning its report.
func (t *Trainer) Train(ctx context.Context, p TrainParams) (estimator.Report, error) {
	start := time.Now()
	if strings.TrimSpace(p.Species) == "" {
		return estimator.Report{}, models.ErrSpeciesRequired
	}
	if err := validateWindow(p.Range, p.Bounds, t.maxDays); err != nil {
		return estimator.Report{}, err
	}
	species := estimator.NormalizeSpecies(p.Species)

	records, err := t.source.Fetch(ctx, p.Range, p.Bounds)
	if err != nil {
		t.metrics.RecordError("source")
		return estimator.Report{}, fmt.Errorf("fetch ocean records: %w", err)
	}
	rows := features.Build(features.Clean(records))

	labeler := p.Labels
	if labeler == nil {
		labeler = estimator.NewSyntheticLabeler(t.opts.Seed)
	}
	labels, err := labeler.Labels(ctx, species, rows)
	if err != nil {
		return estimator.Report{}, fmt.Errorf("labels: %w", err)
	}

	opts := t.opts
	opts.LabelSource = labeler.Name()
	m, rep, err := estimator.Train(species, rows, labels, opts)
	if err != nil {
		t.metrics.RecordError("train")
		return estimator.Report{}, err
	}
	if err := estimator.SaveModel(ctx, t.store, m); err != nil {
		t.metrics.RecordError("model_store")
		return estimator.Report{}, err
	}
	t.invalidate(ctx, species)
	t.metrics.RecordLatency("train", time.Since(start).Seconds())

	t.log.Info("model trained",
		logger.String("species", species),
		logger.String("label_source", rep.LabelSource),
		logger.Int("samples", rep.Samples),
		logger.Float64("test_mae", rep.TestMAE),
	)
	return rep, nil
}

func (t *Trainer) invalidate(ctx context.Context, species string) {
	if t.cache == nil {
		return
	}
	for _, pattern := range []string{PredictionCachePattern(species), cache.BuildPattern(CompareCachePrefix + ":")} {
		if err := t.cache.DeleteByPattern(ctx, pattern); err != nil {
			t.log.Warn("cache invalidation failed", logger.String("pattern", pattern), logger.Error(err))
		}
	}
}
