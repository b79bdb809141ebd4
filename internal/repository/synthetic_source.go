package repository

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"FishCast/internal/domain/models"
	domrepo "FishCast/internal/domain/repository"
	"FishCast/pkg/util"
)

// SyntheticSource generates one plausible observation per day. Values are a
// pure function of (seed, date, bounds) so repeated requests reproduce.
type SyntheticSource struct {
	seed int64
}

var _ domrepo.OceanSource = (*SyntheticSource)(nil)

func NewSyntheticSource(seed int64) *SyntheticSource {
	return &SyntheticSource{seed: seed}
}

// Fetch returns sst = 28 + 2U and chlorophyll = 0.5 + 0.5U for every day in
// the inclusive range. Bounds only perturb the seed.
func (s *SyntheticSource) Fetch(ctx context.Context, dr models.DateRange, bbox models.BoundingBox) ([]models.OceanRecord, error) {
	out := make([]models.OceanRecord, 0, dr.Days())
	var err error
	util.EachDay(dr.Start, dr.End, func(d time.Time) {
		if err != nil {
			return
		}
		if err = ctx.Err(); err != nil {
			return
		}
		rng := rand.New(rand.NewSource(s.daySeed(d.Format(util.DateLayout), bbox)))
		out = append(out, models.OceanRecord{
			Date:        d,
			SST:         models.Float(28 + 2*rng.Float64()),
			Chlorophyll: models.Float(0.5 + 0.5*rng.Float64()),
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SyntheticSource) daySeed(day string, bbox models.BoundingBox) int64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(s.seed))
	h.Write(buf[:])
	h.Write([]byte(day))
	for _, v := range []float64{bbox.LatMin, bbox.LatMax, bbox.LonMin, bbox.LonMax} {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	return int64(h.Sum64())
}
