package estimator

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"FishCast/internal/domain/models"
	"FishCast/internal/services/features"
)

// DefaultRidge is the L2 penalty applied to standardised coefficients.
const DefaultRidge = 1e-3

// LinearModel is a ridge regression over standardised model inputs. It is
// also the persisted artifact format.
type LinearModel struct {
	SpeciesName  string          `json:"species"`
	Inputs       []string        `json:"inputs"`
	Scaler       features.Scaler `json:"scaler"`
	Coefficients []float64       `json:"coefficients"`
	Intercept    float64         `json:"intercept"`
	Ridge        float64         `json:"ridge"`
	Samples      int             `json:"samples"`
	LabelSource  string          `json:"label_source"`
	TestMAE      float64         `json:"test_mae"`
	TrainedAt    time.Time       `json:"trained_at"`
}

var _ models.Model = (*LinearModel)(nil)

// Species returns the species the model was trained for.
func (m *LinearModel) Species() string { return m.SpeciesName }

// Predict returns the raw regression output; callers clip it.
func (m *LinearModel) Predict(x []float64) float64 {
	z := m.Scaler.Transform(x)
	if len(z) != len(m.Coefficients) {
		return m.Intercept
	}
	return m.Intercept + floats.Dot(m.Coefficients, z)
}

// FitLinear fits a ridge regression of y on x. Inputs are standardised with a
// scaler fitted on x; the intercept is the mean of y and is not penalised.
func FitLinear(species string, x [][]float64, y []float64, ridge float64) (*LinearModel, error) {
	n := len(x)
	if n == 0 {
		return nil, models.ErrInsufficientData
	}
	if len(y) != n {
		return nil, fmt.Errorf("fit %s: %w (%d rows, %d labels)", species, models.ErrLabelMismatch, n, len(y))
	}
	if ridge <= 0 {
		ridge = DefaultRidge
	}

	p := len(x[0])
	scaler := features.FitScaler(x)
	flat := make([]float64, 0, n*p)
	for _, row := range x {
		if len(row) != p {
			return nil, fmt.Errorf("fit %s: ragged input row of width %d, want %d", species, len(row), p)
		}
		flat = append(flat, scaler.Transform(row)...)
	}
	yMean := floats.Sum(y) / float64(n)
	yc := make([]float64, n)
	for i, v := range y {
		yc[i] = v - yMean
	}

	xm := mat.NewDense(n, p, flat)
	yv := mat.NewVecDense(n, yc)

	var xtx mat.Dense
	xtx.Mul(xm.T(), xm)
	for i := 0; i < p; i++ {
		xtx.Set(i, i, xtx.At(i, i)+ridge)
	}
	var xty mat.VecDense
	xty.MulVec(xm.T(), yv)

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("fit %s: solve: %w", species, err)
		}
		// ill-conditioned but solved; the ridge term keeps it bounded
	}

	return &LinearModel{
		SpeciesName:  NormalizeSpecies(species),
		Inputs:       append([]string(nil), features.ModelInputs...),
		Scaler:       scaler,
		Coefficients: mat.Col(nil, 0, &beta),
		Intercept:    yMean,
		Ridge:        ridge,
		Samples:      n,
	}, nil
}

// EncodeModel serialises a model artifact.
func EncodeModel(m *LinearModel) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	return b, nil
}

// DecodeModel parses a model artifact.
func DecodeModel(b []byte) (*LinearModel, error) {
	var m LinearModel
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if len(m.Coefficients) != len(features.ModelInputs) {
		return nil, fmt.Errorf("decode model: %d coefficients, want %d", len(m.Coefficients), len(features.ModelInputs))
	}
	if len(m.Scaler.Mean) != len(m.Coefficients) || len(m.Scaler.Std) != len(m.Coefficients) {
		return nil, fmt.Errorf("decode model: scaler width does not match coefficients")
	}
	for _, s := range m.Scaler.Std {
		if !(s > 0) {
			return nil, fmt.Errorf("decode model: non-positive scaler deviation")
		}
	}
	return &m, nil
}
