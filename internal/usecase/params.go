package usecase

import (
	"fmt"
	"strings"

	"FishCast/internal/domain/models"
)

// PredictParams selects what a pipeline run predicts.
type PredictParams struct {
	Species string
	Range   models.DateRange
	Bounds  models.BoundingBox
}

// Validate checks the request against domain rules. maxDays <= 0 disables the
// range length check.
func (p PredictParams) Validate(maxDays int) error {
	if strings.TrimSpace(p.Species) == "" {
		return models.ErrSpeciesRequired
	}
	return validateWindow(p.Range, p.Bounds, maxDays)
}

func validateWindow(dr models.DateRange, bbox models.BoundingBox, maxDays int) error {
	if dr.Start.IsZero() || dr.End.IsZero() || dr.Start.After(dr.End) {
		return models.ErrInvalidDateRange
	}
	if maxDays > 0 && dr.Days() > maxDays {
		return fmt.Errorf("%w: %d days requested, at most %d allowed", models.ErrDateRangeTooLong, dr.Days(), maxDays)
	}
	if !within(bbox.LatMin, 90) || !within(bbox.LatMax, 90) ||
		!within(bbox.LonMin, 180) || !within(bbox.LonMax, 180) {
		return fmt.Errorf("%w: coordinates out of range", models.ErrInvalidBoundingBox)
	}
	if bbox.LatMin > bbox.LatMax || bbox.LonMin > bbox.LonMax {
		return fmt.Errorf("%w: min exceeds max", models.ErrInvalidBoundingBox)
	}
	return nil
}

// within is false for NaN.
func within(v, limit float64) bool {
	return v >= -limit && v <= limit
}
