package estimator

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FishCast/internal/domain/models"
	"FishCast/internal/services/features"
)

type constModel float64

func (c constModel) Species() string             { return "tuna" }
func (c constModel) Predict(_ []float64) float64 { return float64(c) }

func fv(date time.Time, sst, chl float64) models.FeatureVector {
	recs := features.Clean([]models.OceanRecord{{Date: date, SST: models.Float(sst), Chlorophyll: models.Float(chl)}})
	return features.Build(recs)[0]
}

func TestEndToEndTunaHeuristic(t *testing.T) {
	row := fv(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 28.5, 0.8)
	out := Predict([]models.FeatureVector{row}, "tuna", models.ModelAbsent())
	require.Len(t, out, 1)
	assert.InDelta(t, 0.41, out[0].Probability, 1e-9)
	assert.Equal(t, models.RecommendationHeuristic, out[0].Recommendation)
	assert.Equal(t, "tuna", out[0].Species)
}

func TestUnknownSpeciesIsNeutral(t *testing.T) {
	row := fv(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 29, 0.9)
	e := Estimate(row, "marlin", models.ModelAbsent())
	assert.Equal(t, 0.5, e.Probability)
	assert.Equal(t, models.SourceHeuristic, e.Source)
	assert.Equal(t, models.RecommendationHeuristic, Classify(e))
}

func TestHeuristicFormulas(t *testing.T) {
	tests := []struct {
		name    string
		species string
		sst     float64
		chl     float64
		want    float64
	}{
		{"tuna", "tuna", 28.5, 0.8, 0.41},
		{"tuna case and space", "  TUNA ", 28.5, 0.8, 0.41},
		{"tuna clipped high", "tuna", 40, 2, 1},
		{"tuna clipped low", "tuna", 20, 0.1, 0},
		{"skipjack", "skipjack", 29, 0.7, 0.415},
		{"skipjack clipped", "skipjack", 10, 0, 0},
		{"other", "sardine", 100, 100, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Heuristic(tt.species, tt.sst, tt.chl), 1e-9)
		})
	}
}

func TestHeuristicDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, Heuristic("skipjack", 28.1, 0.66), Heuristic("skipjack", 28.1, 0.66))
	}
}

func TestClassifyThresholds(t *testing.T) {
	tests := []struct {
		p    float64
		want models.Recommendation
	}{
		{0.71, models.RecommendationHigh},
		{0.7, models.RecommendationMedium},
		{0.41, models.RecommendationMedium},
		{0.4, models.RecommendationLow},
		{0, models.RecommendationLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(models.Estimate{Probability: tt.p, Source: models.SourceModel}), "p=%v", tt.p)
	}
	assert.Equal(t, models.RecommendationHeuristic, Classify(models.Estimate{Probability: 0.99, Source: models.SourceHeuristic}))
}

func TestEstimateClipsModelOutput(t *testing.T) {
	row := fv(time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), 28, 0.6)
	for _, raw := range []float64{-3, 0.55, 7, math.NaN(), math.Inf(1)} {
		e := Estimate(row, "tuna", models.ModelFound(constModel(raw)))
		assert.Equal(t, models.SourceModel, e.Source)
		assert.GreaterOrEqual(t, e.Probability, 0.0)
		assert.LessOrEqual(t, e.Probability, 1.0)
	}
	e := Estimate(row, "tuna", models.ModelFound(constModel(0.85)))
	assert.Equal(t, models.RecommendationHigh, Classify(e))
}

func TestFitLinearRecoversRelationship(t *testing.T) {
	var x [][]float64
	var y []float64
	for i := 0; i < 60; i++ {
		sst := 26 + float64(i%10)*0.4
		chl := 0.4 + float64(i%7)*0.1
		month := float64(i%12 + 1)
		x = append(x, []float64{sst, chl, month, float64(features.Season(int(month)))})
		y = append(y, 0.05*sst+0.3*chl-1)
	}
	m, err := FitLinear("tuna", x, y, 1e-6)
	require.NoError(t, err)
	for i := range x {
		assert.InDelta(t, y[i], m.Predict(x[i]), 1e-3)
	}
}

func TestFitLinearConstantColumns(t *testing.T) {
	x := [][]float64{{28, 0.5, 1, 1}, {29, 0.6, 1, 1}, {30, 0.7, 1, 1}}
	y := []float64{0.3, 0.4, 0.5}
	m, err := FitLinear("tuna", x, y, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultRidge, m.Ridge)
	for _, c := range m.Coefficients {
		assert.False(t, math.IsNaN(c))
	}
}

func TestTrainReportsHeldOutError(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var rows []models.FeatureVector
	for i := 0; i < 90; i++ {
		rows = append(rows, fv(start.AddDate(0, 0, i), 28+float64(i%9)*0.2, 0.5+float64(i%5)*0.1))
	}
	lab := NewSyntheticLabeler(42)
	labels, err := lab.Labels(context.Background(), "tuna", rows)
	require.NoError(t, err)

	opts := DefaultTrainOptions()
	opts.LabelSource = lab.Name()
	opts.Now = func() time.Time { return start }
	m, rep, err := Train("Tuna", rows, labels, opts)
	require.NoError(t, err)

	assert.Equal(t, "tuna", rep.Species)
	assert.Equal(t, 90, rep.Samples)
	assert.Equal(t, 18, rep.TestRows)
	assert.Equal(t, 72, rep.TrainRows)
	assert.Equal(t, LabelSourceSynthetic, rep.LabelSource)
	assert.Less(t, rep.TestMAE, 0.2)
	assert.Equal(t, rep.TestMAE, m.TestMAE)
	assert.Equal(t, start, m.TrainedAt)

	_, again, err := Train("tuna", rows, labels, opts)
	require.NoError(t, err)
	assert.Equal(t, rep.TestMAE, again.TestMAE)
}

func TestTrainNeedsTwoRows(t *testing.T) {
	row := fv(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 28, 0.5)
	_, _, err := Train("tuna", []models.FeatureVector{row}, []float64{0.3}, DefaultTrainOptions())
	assert.ErrorIs(t, err, models.ErrInsufficientData)

	_, _, err = Train("tuna", []models.FeatureVector{row, row}, []float64{0.3}, DefaultTrainOptions())
	assert.ErrorIs(t, err, models.ErrLabelMismatch)
}

func TestSplitIndices(t *testing.T) {
	train, test := splitIndices(2, 0.2, 1)
	assert.Len(t, test, 1)
	assert.Len(t, train, 1)

	train, test = splitIndices(11, 0.2, 1)
	assert.Len(t, test, 3)
	assert.Len(t, train, 8)
}

func TestSyntheticLabelerSeeded(t *testing.T) {
	rows := []models.FeatureVector{
		fv(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 28.5, 0.8),
		fv(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 27.5, 0.6),
	}
	a, err := NewSyntheticLabeler(7).Labels(context.Background(), "tuna", rows)
	require.NoError(t, err)
	b, err := NewSyntheticLabeler(7).Labels(context.Background(), "tuna", rows)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	for _, v := range a {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestCatchHistoryLabeler(t *testing.T) {
	csv := "date,species,probability\n2024-01-01,tuna,0.6\n2024-01-02, Tuna ,0.2\n"
	l, err := LoadCatchHistory(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, LabelSourceCatchHistory, l.Name())

	rows := []models.FeatureVector{
		fv(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 28, 0.5),
		fv(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 28, 0.5),
	}
	got, err := l.Labels(context.Background(), "TUNA", rows)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.6, 0.2}, got)

	rows = append(rows, fv(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), 28, 0.5))
	_, err = l.Labels(context.Background(), "tuna", rows)
	assert.ErrorIs(t, err, ErrMissingCatchLabel)
}

func TestLoadCatchHistoryRejectsBadRows(t *testing.T) {
	for _, in := range []string{
		"2024-13-01,tuna,0.5\n",
		"2024-01-01,tuna,abc\n",
		"2024-01-01,tuna,1.5\n",
		"2024-01-01,tuna,NaN\n",
		"2024-01-01,tuna,-Inf\n",
		"2024-01-01,tuna\n",
	} {
		_, err := LoadCatchHistory(strings.NewReader(in))
		assert.Error(t, err, in)
	}
}

type memStore struct {
	data map[string][]byte
	err  error
}

func (s *memStore) Load(_ context.Context, species string) ([]byte, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	b, ok := s.data[species]
	return b, ok, nil
}

func (s *memStore) Save(_ context.Context, species string, b []byte) error {
	s.data[species] = b
	return nil
}

func TestModelStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := &memStore{data: map[string][]byte{}}

	mr, err := LoadModel(ctx, store, "tuna")
	require.NoError(t, err)
	assert.False(t, mr.Present())

	x := [][]float64{{28, 0.5, 1, 1}, {29, 0.6, 2, 1}, {30, 0.7, 3, 2}, {27, 0.9, 4, 2}}
	m, err := FitLinear("tuna", x, []float64{0.3, 0.4, 0.5, 0.35}, 0)
	require.NoError(t, err)
	require.NoError(t, SaveModel(ctx, store, m))

	mr, err = LoadModel(ctx, store, " Tuna")
	require.NoError(t, err)
	got, ok := mr.Get()
	require.True(t, ok)
	for _, row := range x {
		assert.InDelta(t, m.Predict(row), got.Predict(row), 1e-12)
	}
}

func TestLoadModelErrors(t *testing.T) {
	ctx := context.Background()
	mr, err := LoadModel(ctx, nil, "tuna")
	require.NoError(t, err)
	assert.False(t, mr.Present())

	_, err = LoadModel(ctx, &memStore{err: errors.New("disk gone")}, "tuna")
	assert.Error(t, err)

	_, err = LoadModel(ctx, &memStore{data: map[string][]byte{"tuna": []byte(`{"coefficients":[1]}`)}}, "tuna")
	assert.Error(t, err)
}
