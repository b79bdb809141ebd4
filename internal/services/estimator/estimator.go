package estimator

import (
	"FishCast/internal/domain/models"
	"FishCast/internal/services/features"
)

// Estimate maps a feature vector to a probability for species. A present
// model is always preferred; an absent one selects the heuristic.
func Estimate(fv models.FeatureVector, species string, mr models.ModelResult) models.Estimate {
	if m, ok := mr.Get(); ok {
		return models.Estimate{
			Probability: Clip(m.Predict(features.Inputs(fv))),
			Source:      models.SourceModel,
		}
	}
	return models.Estimate{
		Probability: Heuristic(species, fv.SST, fv.Chlorophyll),
		Source:      models.SourceHeuristic,
	}
}

// Predict estimates and classifies every row for species.
func Predict(rows []models.FeatureVector, species string, mr models.ModelResult) []models.PredictionResult {
	out := make([]models.PredictionResult, 0, len(rows))
	for _, fv := range rows {
		e := Estimate(fv, species, mr)
		out = append(out, models.PredictionResult{
			FeatureVector:  fv,
			Species:        species,
			Probability:    e.Probability,
			Recommendation: Classify(e),
		})
	}
	return out
}
