package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FishCast/internal/domain/models"
)

type flakySource struct {
	err   error
	calls int
}

func (f *flakySource) Fetch(context.Context, models.DateRange, models.BoundingBox) ([]models.OceanRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []models.OceanRecord{{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}}, nil
}

func TestBreakerSourceOpensAfterFailures(t *testing.T) {
	next := &flakySource{err: errors.New("connection refused")}
	s := DefaultBreakerSettings()
	s.MinRequests = 3
	s.Timeout = time.Hour
	b := NewBreakerSource("test", next, s, nil)

	for i := 0; i < 3; i++ {
		_, err := b.Fetch(context.Background(), dr("2024-03-01", "2024-03-01"), bbox)
		require.Error(t, err)
		assert.False(t, errors.Is(err, models.ErrSourceUnavailable))
	}
	assert.Equal(t, "open", b.State())

	_, err := b.Fetch(context.Background(), dr("2024-03-01", "2024-03-01"), bbox)
	assert.ErrorIs(t, err, models.ErrSourceUnavailable)
	assert.Equal(t, 3, next.calls)
}

func TestBreakerSourceIgnoresCancellation(t *testing.T) {
	next := &flakySource{err: context.Canceled}
	s := DefaultBreakerSettings()
	s.MinRequests = 1
	b := NewBreakerSource("test", next, s, nil)

	for i := 0; i < 5; i++ {
		_, err := b.Fetch(context.Background(), dr("2024-03-01", "2024-03-01"), bbox)
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, "closed", b.State())

	next.err = nil
	recs, err := b.Fetch(context.Background(), dr("2024-03-01", "2024-03-01"), bbox)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
