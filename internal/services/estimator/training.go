package estimator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"FishCast/internal/domain/models"
	"FishCast/internal/services/features"
)

// TrainOptions controls a training run.
type TrainOptions struct {
	Ridge       float64
	TestFrac    float64
	Seed        int64
	LabelSource string
	Now         func() time.Time
}

// DefaultTrainOptions mirrors the offline trainer defaults: 20% held out,
// split seed 42.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{Ridge: DefaultRidge, TestFrac: 0.2, Seed: 42}
}

// Report summarises a fitted model.
type Report struct {
	Species     string  `json:"species"`
	Samples     int     `json:"samples"`
	TrainRows   int     `json:"train_rows"`
	TestRows    int     `json:"test_rows"`
	TestMAE     float64 `json:"test_mae"`
	LabelSource string  `json:"label_source"`
}

// Train fits a model for species on rows and labels. At least two rows are
// needed so one can be held out.
func Train(species string, rows []models.FeatureVector, labels []float64, opts TrainOptions) (*LinearModel, Report, error) {
	n := len(rows)
	if n < 2 {
		return nil, Report{}, models.ErrInsufficientData
	}
	if len(labels) != n {
		return nil, Report{}, fmt.Errorf("train %s: %w (%d rows, %d labels)", species, models.ErrLabelMismatch, n, len(labels))
	}
	if opts.TestFrac <= 0 || opts.TestFrac >= 1 {
		opts.TestFrac = 0.2
	}

	trainIdx, testIdx := splitIndices(n, opts.TestFrac, opts.Seed)
	x := features.InputMatrix(rows)

	xTrain, yTrain := gather(x, labels, trainIdx)
	m, err := FitLinear(species, xTrain, yTrain, opts.Ridge)
	if err != nil {
		return nil, Report{}, err
	}

	mae := 0.0
	for _, i := range testIdx {
		mae += math.Abs(Clip(m.Predict(x[i])) - labels[i])
	}
	mae /= float64(len(testIdx))

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	m.LabelSource = opts.LabelSource
	m.TestMAE = mae
	m.TrainedAt = now().UTC()

	return m, Report{
		Species:     m.SpeciesName,
		Samples:     n,
		TrainRows:   len(trainIdx),
		TestRows:    len(testIdx),
		TestMAE:     mae,
		LabelSource: opts.LabelSource,
	}, nil
}

// splitIndices shuffles 0..n-1 with seed and holds out ceil(frac*n) rows,
// keeping at least one row on each side.
func splitIndices(n int, frac float64, seed int64) (train, test []int) {
	nTest := int(math.Ceil(frac * float64(n)))
	if nTest < 1 {
		nTest = 1
	}
	if nTest > n-1 {
		nTest = n - 1
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest]
}

func gather(x [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for k, i := range idx {
		xs[k], ys[k] = x[i], y[i]
	}
	return xs, ys
}
