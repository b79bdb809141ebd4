package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FishCast/internal/domain/models"
)

func TestBuildAddsInteraction(t *testing.T) {
	cleaned := []models.CleanedRecord{
		{Date: day(2024, 1, 1), SST: 28.5, Chlorophyll: 0.8, Month: 1, Season: 1, DayOfYear: 1},
	}
	out := Build(cleaned)
	require.Len(t, out, 1)
	assert.InDelta(t, 22.8, out[0].SSTChlorophyll, 1e-9)
	assert.Equal(t, cleaned[0], out[0].CleanedRecord)
}

func TestInputsOrder(t *testing.T) {
	fv := models.FeatureVector{CleanedRecord: models.CleanedRecord{SST: 28, Chlorophyll: 0.7, Month: 7, Season: 3}}
	assert.Equal(t, []float64{28, 0.7, 7, 3}, Inputs(fv))
	assert.Len(t, ModelInputs, len(Inputs(fv)))
}

func TestScalerStandardises(t *testing.T) {
	x := [][]float64{{1, 5}, {3, 5}}
	s := FitScaler(x)
	assert.Equal(t, []float64{2, 5}, s.Mean)
	assert.Equal(t, []float64{1, 1}, s.Std)
	assert.Equal(t, []float64{-1, 0}, s.Transform(x[0]))
	assert.Equal(t, []float64{1, 0}, s.Transform(x[1]))
}

func TestFitScalerEmpty(t *testing.T) {
	s := FitScaler(nil)
	assert.Empty(t, s.Mean)
	assert.Equal(t, []float64{4}, s.Transform([]float64{4}))
}
