package usecase

import (
	"sync"

	"FishCast/internal/domain/models"
)

// Stats accumulates dashboard counters for the life of the process.
type Stats struct {
	mu               sync.Mutex
	predictions      int64
	highDays         int64
	complianceChecks int64
	scoreSum         float64
}

func NewStats() *Stats { return &Stats{} }

// RecordRun counts one completed prediction run.
func (s *Stats) RecordRun(run *models.PredictionRun) {
	s.mu.Lock()
	s.predictions++
	s.highDays += int64(run.Summary.HighRecommendations)
	s.mu.Unlock()
}

// RecordCompliance counts one compliance verdict.
func (s *Stats) RecordCompliance(res models.ComplianceResult) {
	s.mu.Lock()
	s.complianceChecks++
	s.scoreSum += res.SustainabilityScore
	s.mu.Unlock()
}

// Snapshot returns the current counters. The average score is 0 until the
// first compliance check.
func (s *Stats) Snapshot() models.DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := models.DashboardStats{
		TotalPredictions:    s.predictions,
		ComplianceChecks:    s.complianceChecks,
		HighProbabilityDays: s.highDays,
	}
	if s.complianceChecks > 0 {
		out.AvgSustainabilityScore = s.scoreSum / float64(s.complianceChecks)
	}
	return out
}
