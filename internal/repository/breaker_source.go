package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"FishCast/internal/domain/models"
	domrepo "FishCast/internal/domain/repository"
	"FishCast/pkg/logger"
)

// BreakerSettings tunes BreakerSource.
type BreakerSettings struct {
	MaxRequests uint32        // probes allowed while half-open
	Interval    time.Duration // closed-state count reset
	Timeout     time.Duration // open → half-open delay
	MinRequests uint32
	FailureRate float64
}

// DefaultBreakerSettings opens after 60% failures over at least 10 fetches
// and probes again after 30s.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		MinRequests: 10,
		FailureRate: 0.6,
	}
}

// BreakerSource guards a remote OceanSource with a circuit breaker. While the
// circuit is open fetches fail fast with models.ErrSourceUnavailable.
type BreakerSource struct {
	next domrepo.OceanSource
	cb   *gobreaker.CircuitBreaker[[]models.OceanRecord]
}

var _ domrepo.OceanSource = (*BreakerSource)(nil)

func NewBreakerSource(name string, next domrepo.OceanSource, s BreakerSettings, log *logger.Logger) *BreakerSource {
	if log == nil {
		log = logger.Nop()
	}
	cb := gobreaker.NewCircuitBreaker[[]models.OceanRecord](gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			if c.Requests < s.MinRequests {
				return false
			}
			return float64(c.TotalFailures)/float64(c.Requests) >= s.FailureRate
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		},
		// A caller giving up is not a source failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &BreakerSource{next: next, cb: cb}
}

func (b *BreakerSource) Fetch(ctx context.Context, dr models.DateRange, bbox models.BoundingBox) ([]models.OceanRecord, error) {
	recs, err := b.cb.Execute(func() ([]models.OceanRecord, error) {
		return b.next.Fetch(ctx, dr, bbox)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", models.ErrSourceUnavailable, err)
	}
	return recs, err
}

// State reports the breaker state, e.g. "closed" or "open".
func (b *BreakerSource) State() string { return b.cb.State().String() }
