package models

import "time"

// OceanRecord is one daily observation as produced by an ocean source.
// Nil numeric fields are missing values.
type OceanRecord struct {
	Date        time.Time
	SST         *float64 // sea-surface temperature, °C
	Chlorophyll *float64 // mg/m³
}

// CleanedRecord is an OceanRecord with imputed values and calendar features.
type CleanedRecord struct {
	Date        time.Time
	SST         float64
	Chlorophyll float64
	DayOfYear   int
	Month       int // 1..12
	Season      int // 1..4
}

// FeatureVector is a CleanedRecord plus derived interaction terms.
type FeatureVector struct {
	CleanedRecord
	SSTChlorophyll float64
}

// BoundingBox is the requested area of interest in degrees.
type BoundingBox struct {
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
	LonMin float64 `json:"lon_min"`
	LonMax float64 `json:"lon_max"`
}

// DateRange is an inclusive range of civil dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of calendar days in the range, inclusive.
func (r DateRange) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Float returns a pointer to v; convenient for building OceanRecords.
func Float(v float64) *float64 { return &v }
