package models

import "time"

// ComplianceRequest describes a proposed fishing trip.
type ComplianceRequest struct {
	Species       string
	Lon           float64
	Lat           float64
	Date          time.Time
	GearType      string
	ProposedCatch float64
}

// ComplianceResult is the verdict for a ComplianceRequest.
type ComplianceResult struct {
	Approved            bool
	Violations          []string
	SustainabilityScore float64
}

// DashboardStats is a point-in-time snapshot of service activity.
type DashboardStats struct {
	TotalPredictions       int64
	ComplianceChecks       int64
	AvgSustainabilityScore float64
	HighProbabilityDays    int64
}
