package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"FishCast/internal/domain/models"
	drepo "FishCast/internal/domain/repository"
	domsvc "FishCast/internal/domain/service"
	"FishCast/internal/services/estimator"
	"FishCast/internal/services/features"
	"FishCast/pkg/logger"
)

// PipelineConfig bounds a single run.
type PipelineConfig struct {
	MaxRangeDays int
	Timeout      time.Duration
}

// PredictionPipeline runs Source → Cleaner → Feature Builder → Estimator →
// Classifier and fans the result out to the publisher, live feed and stats.
// It keeps no per-run state, so one instance serves concurrent requests.
type PredictionPipeline struct {
	source  drepo.OceanSource
	store   drepo.ModelStore
	pub     drepo.PredictionPublisher
	feed    domsvc.LiveFeed
	metrics drepo.Metrics
	stats   *Stats
	log     *logger.Logger
	cfg     PipelineConfig

	now   func() time.Time
	newID func() string
}

// NewPredictionPipeline creates a pipeline. pub, feed and stats may be nil.
func NewPredictionPipeline(
	source drepo.OceanSource,
	store drepo.ModelStore,
	pub drepo.PredictionPublisher,
	feed domsvc.LiveFeed,
	metrics drepo.Metrics,
	stats *Stats,
	log *logger.Logger,
	cfg PipelineConfig,
) *PredictionPipeline {
	if log == nil {
		log = logger.Nop()
	}
	return &PredictionPipeline{
		source:  source,
		store:   store,
		pub:     pub,
		feed:    feed,
		metrics: metrics,
		stats:   stats,
		log:     log,
		cfg:     cfg,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Run produces one classified prediction per available day.
func (p *PredictionPipeline) Run(ctx context.Context, params PredictParams) (*models.PredictionRun, error) {
	start := time.Now()
	if err := params.Validate(p.cfg.MaxRangeDays); err != nil {
		p.metrics.RecordError("validation")
		return nil, err
	}
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}
	species := strings.TrimSpace(params.Species)
	key := estimator.NormalizeSpecies(species)

	records, err := p.source.Fetch(ctx, params.Range, params.Bounds)
	if err != nil {
		p.metrics.RecordError("source")
		return nil, fmt.Errorf("fetch ocean records: %w", err)
	}

	rows := features.Build(features.Clean(records))

	mr, err := estimator.LoadModel(ctx, p.store, key)
	if err != nil {
		p.metrics.RecordError("model_store")
		return nil, err
	}
	source := models.SourceHeuristic
	if mr.Present() {
		source = models.SourceModel
	}

	results := estimator.Predict(rows, species, mr)
	run := &models.PredictionRun{
		ID:          p.newID(),
		Species:     species,
		ModelSource: source,
		Range:       params.Range,
		Bounds:      params.Bounds,
		Results:     results,
		Summary:     models.Summarize(results),
		CreatedAt:   p.now().UTC(),
	}

	p.metrics.RecordRun(key, source)
	for _, r := range results {
		p.metrics.RecordRecommendation(key, r.Recommendation)
	}
	p.metrics.RecordLatency("pipeline_run", time.Since(start).Seconds())

	if p.stats != nil {
		p.stats.RecordRun(run)
	}
	p.publish(ctx, run)
	if p.feed != nil {
		p.feed.Broadcast(run)
	}

	p.log.Info("prediction run completed",
		logger.String("run_id", run.ID),
		logger.String("species", species),
		logger.String("model_source", string(source)),
		logger.Int("days", run.Summary.TotalDays),
		logger.Int("high", run.Summary.HighRecommendations),
		logger.Duration("took_ms", time.Since(start)),
	)
	return run, nil
}

// publish is best effort: a broker outage must not fail a prediction.
func (p *PredictionPipeline) publish(ctx context.Context, run *models.PredictionRun) {
	if p.pub == nil {
		return
	}
	if err := p.pub.PublishRun(ctx, run); err != nil {
		p.metrics.RecordError("publish")
		p.log.Warn("publish prediction run failed",
			logger.String("run_id", run.ID),
			logger.Error(err),
		)
	}
}

// Compare runs the pipeline for each species concurrently over the same
// window. Results keep the order of speciesList; the first failure cancels
// the remaining runs.
func (p *PredictionPipeline) Compare(ctx context.Context, params PredictParams, speciesList []string) ([]*models.PredictionRun, error) {
	if len(speciesList) == 0 {
		return nil, models.ErrSpeciesRequired
	}
	for _, sp := range speciesList {
		params.Species = sp
		if err := params.Validate(p.cfg.MaxRangeDays); err != nil {
			p.metrics.RecordError("validation")
			return nil, err
		}
	}

	start := time.Now()
	runs := make([]*models.PredictionRun, len(speciesList))
	g, gctx := errgroup.WithContext(ctx)
	for i, sp := range speciesList {
		i, req := i, params
		req.Species = sp
		g.Go(func() error {
			run, err := p.Run(gctx, req)
			if err != nil {
				return fmt.Errorf("compare %s: %w", strings.TrimSpace(req.Species), err)
			}
			runs[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	p.metrics.RecordLatency("pipeline_compare", time.Since(start).Seconds())
	return runs, nil
}
