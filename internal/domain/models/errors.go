package models

import "errors"

var (
	ErrInvalidDateRange   = errors.New("start date must not be after end date")
	ErrDateRangeTooLong   = errors.New("date range exceeds the allowed number of days")
	ErrInvalidBoundingBox = errors.New("bounding box is invalid")
	ErrSpeciesRequired    = errors.New("species is required")
	ErrInsufficientData   = errors.New("not enough records to train a model")
	ErrLabelMismatch      = errors.New("labels do not match training rows")
	ErrSourceUnavailable  = errors.New("ocean data source is unavailable")
)
