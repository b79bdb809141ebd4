package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"FishCast/internal/domain/models"
	"FishCast/pkg/util"
)

// windowFlags are the date range and bounding box shared by train and predict.
type windowFlags struct {
	start, end     string
	latMin, latMax float64
	lonMin, lonMax float64
}

func (w *windowFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&w.start, "start", "", "first day, YYYY-MM-DD")
	f.StringVar(&w.end, "end", "", "last day inclusive, YYYY-MM-DD")
	f.Float64Var(&w.latMin, "lat-min", -8.0, "southern latitude bound")
	f.Float64Var(&w.latMax, "lat-max", 5.0, "northern latitude bound")
	f.Float64Var(&w.lonMin, "lon-min", 95.0, "western longitude bound")
	f.Float64Var(&w.lonMax, "lon-max", 141.0, "eastern longitude bound")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
}

func (w *windowFlags) window() (models.DateRange, models.BoundingBox, error) {
	from, to, err := util.ParseDateRange(w.start, w.end)
	if err != nil {
		return models.DateRange{}, models.BoundingBox{}, fmt.Errorf("invalid date: %w", err)
	}
	return models.DateRange{Start: from, End: to},
		models.BoundingBox{LatMin: w.latMin, LatMax: w.latMax, LonMin: w.lonMin, LonMax: w.lonMax},
		nil
}
