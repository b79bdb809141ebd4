package estimator

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"FishCast/internal/domain/models"
	domsvc "FishCast/internal/domain/service"
)

// SyntheticLabeler invents training targets by adding Gaussian noise to the
// heuristic fallback. A model trained on these labels learns to approximate
// the heuristic itself, so it carries no information the fallback lacks.
// Reports produced from these labels are tagged LabelSourceSynthetic.
type SyntheticLabeler struct {
	Noise float64
	Seed  int64
}

const (
	LabelSourceSynthetic    = "synthetic-heuristic"
	LabelSourceCatchHistory = "catch-history"
)

// NewSyntheticLabeler returns a labeler with σ=0.1 noise.
func NewSyntheticLabeler(seed int64) *SyntheticLabeler {
	return &SyntheticLabeler{Noise: 0.1, Seed: seed}
}

func (l *SyntheticLabeler) Name() string { return LabelSourceSynthetic }

// Labels returns clip(heuristic + N(0, σ²)) per row.
func (l *SyntheticLabeler) Labels(_ context.Context, species string, rows []models.FeatureVector) ([]float64, error) {
	rng := rand.New(rand.NewSource(l.Seed))
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = Clip(Heuristic(species, r.SST, r.Chlorophyll) + rng.NormFloat64()*l.Noise)
	}
	return out, nil
}

// CatchHistoryLabeler labels rows with observed catch probabilities keyed by
// species and date.
type CatchHistoryLabeler struct {
	byKey map[string]float64
}

// ErrMissingCatchLabel is returned when a training day has no catch record.
var ErrMissingCatchLabel = errors.New("no catch record for training day")

func catchKey(species string, d time.Time) string {
	return NormalizeSpecies(species) + "|" + d.Format(models.DateLayout)
}

// LoadCatchHistory reads CSV rows of date,species,probability. A header row
// is skipped when its first field is "date".
func LoadCatchHistory(r io.Reader) (*CatchHistoryLabeler, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	l := &CatchHistoryLabeler{byKey: make(map[string]float64)}
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("catch history line %d: %w", line, err)
		}
		if line == 1 && strings.EqualFold(rec[0], "date") {
			continue
		}
		d, err := time.Parse(models.DateLayout, rec[0])
		if err != nil {
			return nil, fmt.Errorf("catch history line %d: date: %w", line, err)
		}
		p, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("catch history line %d: probability: %w", line, err)
		}
		if p < 0 || p > 1 || math.IsNaN(p) {
			return nil, fmt.Errorf("catch history line %d: probability %v outside [0,1]", line, p)
		}
		l.byKey[catchKey(rec[1], d)] = p
	}
	return l, nil
}

func (l *CatchHistoryLabeler) Name() string { return LabelSourceCatchHistory }

// Labels looks up each row's day; a missing day is an error.
func (l *CatchHistoryLabeler) Labels(_ context.Context, species string, rows []models.FeatureVector) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, r := range rows {
		p, ok := l.byKey[catchKey(species, r.Date)]
		if !ok {
			return nil, fmt.Errorf("%w: %s %s", ErrMissingCatchLabel, species, r.Date.Format(models.DateLayout))
		}
		out[i] = p
	}
	return out, nil
}

var (
	_ domsvc.LabelSource = (*SyntheticLabeler)(nil)
	_ domsvc.LabelSource = (*CatchHistoryLabeler)(nil)
)
