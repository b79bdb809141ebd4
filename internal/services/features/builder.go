package features

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"FishCast/internal/domain/models"
)

// ModelInputs names the regression inputs in the order returned by Inputs.
var ModelInputs = []string{"sst", "chlorophyll", "month", "season"}

// Build appends interaction features to each cleaned record.
func Build(cleaned []models.CleanedRecord) []models.FeatureVector {
	out := make([]models.FeatureVector, 0, len(cleaned))
	for _, c := range cleaned {
		out = append(out, models.FeatureVector{
			CleanedRecord:  c,
			SSTChlorophyll: c.SST * c.Chlorophyll,
		})
	}
	return out
}

// Inputs projects a feature vector onto ModelInputs.
func Inputs(fv models.FeatureVector) []float64 {
	return []float64{fv.SST, fv.Chlorophyll, float64(fv.Month), float64(fv.Season)}
}

// InputMatrix projects every row onto ModelInputs.
func InputMatrix(rows []models.FeatureVector) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = Inputs(r)
	}
	return out
}

// Scaler standardises columns to zero mean and unit variance.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// FitScaler computes per-column mean and standard deviation. Constant columns
// get a standard deviation of 1 so they pass through centred.
func FitScaler(x [][]float64) Scaler {
	if len(x) == 0 {
		return Scaler{}
	}
	cols := len(x[0])
	s := Scaler{Mean: make([]float64, cols), Std: make([]float64, cols)}
	col := make([]float64, len(x))
	for j := 0; j < cols; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		s.Mean[j], s.Std[j] = mean, std
	}
	return s
}

// Transform returns a standardised copy of row.
func (s Scaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		if j < len(s.Mean) {
			out[j] = (v - s.Mean[j]) / s.Std[j]
		} else {
			out[j] = v
		}
	}
	return out
}
