package service

import (
	"context"

	"FishCast/internal/domain/models"
)

// LabelSource produces training targets for feature rows of one species.
type LabelSource interface {
	Name() string
	Labels(ctx context.Context, species string, rows []models.FeatureVector) ([]float64, error)
}

// LiveFeed pushes completed runs to connected dashboard clients.
type LiveFeed interface {
	Broadcast(run *models.PredictionRun)
}
