package estimator

import "FishCast/internal/domain/models"

// Thresholds for the recommendation map. Both comparisons are strict.
const (
	HighThreshold   = 0.7
	MediumThreshold = 0.4
)

// Classify turns an estimate into a recommendation. Heuristic estimates are
// always labelled HEURISTIC so consumers can tell they were not produced by
// a trained model.
func Classify(e models.Estimate) models.Recommendation {
	if e.Source == models.SourceHeuristic {
		return models.RecommendationHeuristic
	}
	switch {
	case e.Probability > HighThreshold:
		return models.RecommendationHigh
	case e.Probability > MediumThreshold:
		return models.RecommendationMedium
	default:
		return models.RecommendationLow
	}
}
