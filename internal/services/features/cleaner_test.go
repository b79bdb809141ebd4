package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FishCast/internal/domain/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSeason(t *testing.T) {
	cases := map[int]int{1: 1, 2: 1, 3: 2, 5: 2, 6: 3, 8: 3, 9: 4, 11: 4, 12: 1}
	for month, want := range cases {
		assert.Equal(t, want, Season(month), "month %d", month)
	}
}

func TestCleanEmpty(t *testing.T) {
	out := Clean(nil)
	require.NotNil(t, out)
	assert.Empty(t, out)
}

func TestCleanImputesWithBatchMean(t *testing.T) {
	in := []models.OceanRecord{
		{Date: day(2024, 1, 1), SST: models.Float(28), Chlorophyll: models.Float(0.6)},
		{Date: day(2024, 1, 2), SST: nil, Chlorophyll: models.Float(0.8)},
		{Date: day(2024, 1, 3), SST: models.Float(30), Chlorophyll: nil},
		{Date: day(2024, 1, 4), SST: models.Float(math.NaN()), Chlorophyll: models.Float(1.0)},
	}

	out := Clean(in)
	require.Len(t, out, 4)
	assert.InDelta(t, 29.0, out[1].SST, 1e-9)
	assert.InDelta(t, 0.8, out[2].Chlorophyll, 1e-9)
	assert.InDelta(t, 29.0, out[3].SST, 1e-9)
	assert.Nil(t, in[1].SST, "input must not be modified")
}

func TestCleanAllMissingColumnImputesZero(t *testing.T) {
	out := Clean([]models.OceanRecord{
		{Date: day(2024, 1, 1), Chlorophyll: models.Float(0.5)},
	})
	require.Len(t, out, 1)
	assert.Equal(t, 0.0, out[0].SST)
}

func TestCleanDropsExactDuplicates(t *testing.T) {
	in := []models.OceanRecord{
		{Date: day(2024, 1, 2), SST: models.Float(29), Chlorophyll: models.Float(0.7)},
		{Date: day(2024, 1, 1), SST: models.Float(28), Chlorophyll: models.Float(0.6)},
		{Date: day(2024, 1, 2), SST: models.Float(29), Chlorophyll: models.Float(0.7)},
		{Date: day(2024, 1, 2), SST: models.Float(29.5), Chlorophyll: models.Float(0.7)},
	}

	out := Clean(in)
	require.Len(t, out, 3)
	assert.Equal(t, day(2024, 1, 2), out[0].Date)
	assert.Equal(t, day(2024, 1, 1), out[1].Date)
	assert.Equal(t, 29.5, out[2].SST)
}

func TestCleanDerivesCalendarFeatures(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	out := Clean([]models.OceanRecord{
		{Date: time.Date(2024, 12, 31, 23, 0, 0, 0, loc), SST: models.Float(28), Chlorophyll: models.Float(0.6)},
		{Date: day(2024, 6, 15), SST: models.Float(28), Chlorophyll: models.Float(0.6)},
	})
	require.Len(t, out, 2)

	assert.Equal(t, day(2024, 12, 31), out[0].Date)
	assert.Equal(t, 366, out[0].DayOfYear)
	assert.Equal(t, 12, out[0].Month)
	assert.Equal(t, 1, out[0].Season)

	assert.Equal(t, 6, out[1].Month)
	assert.Equal(t, 3, out[1].Season)
	assert.Equal(t, 167, out[1].DayOfYear)
}

func TestCleanIsIdempotent(t *testing.T) {
	in := []models.OceanRecord{
		{Date: day(2024, 3, 1), SST: models.Float(27.5), Chlorophyll: models.Float(0.55)},
		{Date: day(2024, 3, 2), SST: models.Float(28.1), Chlorophyll: models.Float(0.61)},
		{Date: day(2024, 3, 3), SST: models.Float(29.9), Chlorophyll: models.Float(0.93)},
	}
	first := Clean(in)

	again := make([]models.OceanRecord, 0, len(first))
	for _, c := range first {
		again = append(again, models.OceanRecord{
			Date:        c.Date,
			SST:         models.Float(c.SST),
			Chlorophyll: models.Float(c.Chlorophyll),
		})
	}
	assert.Equal(t, first, Clean(again))
}
