package models

import "time"

// Recommendation is the categorical fishing advice for a day.
type Recommendation string

const (
	RecommendationHigh      Recommendation = "HIGH"
	RecommendationMedium    Recommendation = "MEDIUM"
	RecommendationLow       Recommendation = "LOW"
	RecommendationHeuristic Recommendation = "HEURISTIC"
)

// EstimateSource tells which path produced a probability.
type EstimateSource string

const (
	SourceModel     EstimateSource = "model"
	SourceHeuristic EstimateSource = "heuristic"
)

// Estimate is the raw output of the probability estimator.
type Estimate struct {
	Probability float64
	Source      EstimateSource
}

// PredictionResult is one classified day.
type PredictionResult struct {
	FeatureVector
	Species        string
	Probability    float64
	Recommendation Recommendation
}

// PredictionSummary aggregates a run.
type PredictionSummary struct {
	TotalDays           int
	HighRecommendations int
	AvgProbability      float64
}

// PredictionRun is the outcome of one pipeline invocation.
type PredictionRun struct {
	ID          string
	Species     string
	ModelSource EstimateSource
	Range       DateRange
	Bounds      BoundingBox
	Results     []PredictionResult
	Summary     PredictionSummary
	CreatedAt   time.Time
}

// Summarize builds the aggregate summary for a set of results.
func Summarize(results []PredictionResult) PredictionSummary {
	s := PredictionSummary{TotalDays: len(results)}
	if len(results) == 0 {
		return s
	}
	sum := 0.0
	for _, r := range results {
		if r.Recommendation == RecommendationHigh {
			s.HighRecommendations++
		}
		sum += r.Probability
	}
	s.AvgProbability = sum / float64(len(results))
	return s
}
