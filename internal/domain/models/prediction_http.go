package models

import "FishCast/pkg/util"

// Requests for the prediction and compliance HTTP endpoints.

type FishPredictionRequest struct {
	Species   string   `json:"species" validate:"required,max=64"`
	StartDate string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	LatMin    *float64 `json:"lat_min" default:"-8.0" validate:"gte=-90,lte=90"`
	LatMax    *float64 `json:"lat_max" default:"5.0" validate:"gte=-90,lte=90"`
	LonMin    *float64 `json:"lon_min" default:"95.0" validate:"gte=-180,lte=180"`
	LonMax    *float64 `json:"lon_max" default:"141.0" validate:"gte=-180,lte=180"`
}

type CompareRequest struct {
	SpeciesList []string `json:"species_list" validate:"required,min=1,max=10,dive,required,max=64"`
	StartDate   string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	LatMin      *float64 `json:"lat_min" default:"-8.0" validate:"gte=-90,lte=90"`
	LatMax      *float64 `json:"lat_max" default:"5.0" validate:"gte=-90,lte=90"`
	LonMin      *float64 `json:"lon_min" default:"95.0" validate:"gte=-180,lte=180"`
	LonMax      *float64 `json:"lon_max" default:"141.0" validate:"gte=-180,lte=180"`
}

type ComplianceCheckRequest struct {
	Species       string   `json:"species" validate:"required,max=64"`
	Date          string   `json:"date" validate:"required,datetime=2006-01-02"`
	GearType      string   `json:"gear_type" validate:"required,max=64"`
	ProposedCatch *float64 `json:"proposed_catch" validate:"required,gte=0"`
	Lon           *float64 `json:"lon" default:"106.0" validate:"gte=-180,lte=180"`
	Lat           *float64 `json:"lat" default:"-6.0" validate:"gte=-90,lte=90"`
}

// Response payloads.

type PredictionDTO struct {
	Date           string  `json:"date"`
	Species        string  `json:"species"`
	SST            float64 `json:"sst"`
	Chlorophyll    float64 `json:"chlorophyll"`
	Probability    float64 `json:"probability"`
	Recommendation string  `json:"recommendation"`
}

type SummaryDTO struct {
	TotalDays           int     `json:"total_days"`
	HighRecommendations int     `json:"high_recommendations"`
	AvgProbability      float64 `json:"avg_probability"`
}

type PredictionRunDTO struct {
	RunID       string          `json:"run_id"`
	Species     string          `json:"species"`
	ModelSource string          `json:"model_source"`
	Predictions []PredictionDTO `json:"predictions"`
	Summary     SummaryDTO      `json:"summary"`
}

type ComplianceDTO struct {
	Approved            bool     `json:"approved"`
	Violations          []string `json:"violations"`
	SustainabilityScore float64  `json:"sustainability_score"`
}

type DashboardStatsDTO struct {
	TotalPredictions       int64   `json:"total_predictions"`
	ComplianceChecks       int64   `json:"compliance_checks"`
	AvgSustainabilityScore float64 `json:"avg_sustainability_score"`
	HighProbabilityDays    int64   `json:"high_probability_days"`
	ProtectedAreas         int     `json:"protected_areas_monitored"`
}

// DateLayout is the wire format for calendar dates.
const DateLayout = util.DateLayout

// NewPredictionRunDTO converts a run to its wire representation.
func NewPredictionRunDTO(run *PredictionRun) PredictionRunDTO {
	preds := make([]PredictionDTO, 0, len(run.Results))
	for _, r := range run.Results {
		preds = append(preds, PredictionDTO{
			Date:           r.Date.Format(DateLayout),
			Species:        r.Species,
			SST:            r.SST,
			Chlorophyll:    r.Chlorophyll,
			Probability:    r.Probability,
			Recommendation: string(r.Recommendation),
		})
	}
	return PredictionRunDTO{
		RunID:       run.ID,
		Species:     run.Species,
		ModelSource: string(run.ModelSource),
		Predictions: preds,
		Summary: SummaryDTO{
			TotalDays:           run.Summary.TotalDays,
			HighRecommendations: run.Summary.HighRecommendations,
			AvgProbability:      run.Summary.AvgProbability,
		},
	}
}

// TrainModelRequest asks for a model to be fitted in the background.
type TrainModelRequest struct {
	Species   string   `json:"species" validate:"required,max=64"`
	StartDate string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	LatMin    *float64 `json:"lat_min" default:"-8.0" validate:"gte=-90,lte=90"`
	LatMax    *float64 `json:"lat_max" default:"5.0" validate:"gte=-90,lte=90"`
	LonMin    *float64 `json:"lon_min" default:"95.0" validate:"gte=-180,lte=180"`
	LonMax    *float64 `json:"lon_max" default:"141.0" validate:"gte=-180,lte=180"`
}

type TrainJobDTO struct {
	JobID   string `json:"job_id"`
	Species string `json:"species"`
}
