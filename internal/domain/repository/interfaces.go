package repository

import (
	"context"

	"FishCast/internal/domain/models"
)

// OceanSource supplies daily ocean records for a date range and area.
type OceanSource interface {
	Fetch(ctx context.Context, dr models.DateRange, bbox models.BoundingBox) ([]models.OceanRecord, error)
}

// ModelStore persists opaque model artifacts keyed by species.
// A missing artifact is reported as ok=false with a nil error.
type ModelStore interface {
	Load(ctx context.Context, species string) (b []byte, ok bool, err error)
	Save(ctx context.Context, species string, b []byte) error
}

// PredictionPublisher emits completed prediction runs to downstream consumers.
type PredictionPublisher interface {
	PublishRun(ctx context.Context, run *models.PredictionRun) error
	Close() error
}

// Metrics records pipeline observations.
type Metrics interface {
	RecordRun(species string, source models.EstimateSource)
	RecordRecommendation(species string, rec models.Recommendation)
	RecordCompliance(verdict string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
