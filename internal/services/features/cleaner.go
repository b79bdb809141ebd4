package features

import (
	"math"
	"time"

	"FishCast/internal/domain/models"
)

// Clean imputes missing numeric values with the batch column mean, drops exact
// duplicate rows (first occurrence wins, order preserved) and derives calendar
// features from each date. The input is not modified.
func Clean(records []models.OceanRecord) []models.CleanedRecord {
	if len(records) == 0 {
		return []models.CleanedRecord{}
	}

	sstMean := columnMean(records, func(r models.OceanRecord) *float64 { return r.SST })
	chlMean := columnMean(records, func(r models.OceanRecord) *float64 { return r.Chlorophyll })

	type rowKey struct {
		date     time.Time
		sst, chl float64
	}
	seen := make(map[rowKey]struct{}, len(records))
	out := make([]models.CleanedRecord, 0, len(records))
	for _, r := range records {
		date := CivilDate(r.Date)
		sst := valueOr(r.SST, sstMean)
		chl := valueOr(r.Chlorophyll, chlMean)

		k := rowKey{date: date, sst: sst, chl: chl}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}

		month := int(date.Month())
		out = append(out, models.CleanedRecord{
			Date:        date,
			SST:         sst,
			Chlorophyll: chl,
			DayOfYear:   date.YearDay(),
			Month:       month,
			Season:      Season(month),
		})
	}
	return out
}

// Season maps a month to its season index: Dec-Feb=1, Mar-May=2,
// Jun-Aug=3, Sep-Nov=4.
func Season(month int) int {
	return ((month % 12) + 3) / 3
}

// CivilDate truncates t to midnight UTC of its calendar date.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// columnMean averages the observed values of one column. A column with no
// observations imputes to 0.
func columnMean(records []models.OceanRecord, col func(models.OceanRecord) *float64) float64 {
	sum, n := 0.0, 0
	for _, r := range records {
		if v := col(r); observed(v) {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func valueOr(v *float64, def float64) float64 {
	if !observed(v) {
		return def
	}
	return *v
}

// observed treats nil and NaN as missing.
func observed(v *float64) bool {
	return v != nil && !math.IsNaN(*v)
}
