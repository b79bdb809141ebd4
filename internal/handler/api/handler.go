package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"FishCast/internal/domain/models"
	"FishCast/internal/service/livefeed"
	"FishCast/internal/service/ratelimit"
	"FishCast/internal/usecase"
	"FishCast/pkg/cache"
	xhttp "FishCast/pkg/http"
	"FishCast/pkg/logger"
	"FishCast/pkg/queue"
)

// HealthCheck reports whether one dependency is usable.
type HealthCheck func(ctx context.Context) error

// Handler serves the FishCast HTTP API.
type Handler struct {
	log        *logger.Logger
	pipeline   *usecase.PredictionPipeline
	compliance *usecase.ComplianceChecker
	stats      *usecase.Stats

	cache    cache.Service
	cacheTTL time.Duration
	limiter  *ratelimit.Limiter
	hub      *livefeed.Hub
	jobs     queue.Enqueuer
	maxTrain int
	checks   map[string]HealthCheck
}

var _ xhttp.Handler = (*Handler)(nil)

// Option configures optional Handler collaborators.
type Option func(*Handler)

// WithCache caches prediction responses by request hash for ttl.
func WithCache(c cache.Service, ttl time.Duration) Option {
	return func(h *Handler) {
		h.cache = c
		h.cacheTTL = ttl
	}
}

// WithRateLimit guards every /api route with l.
func WithRateLimit(l *ratelimit.Limiter) Option {
	return func(h *Handler) { h.limiter = l }
}

// WithLiveFeed mounts the WebSocket feed served by hub.
func WithLiveFeed(hub *livefeed.Hub) Option {
	return func(h *Handler) { h.hub = hub }
}

// WithTrainQueue enables POST /api/models/train for windows of at most
// maxDays days. maxDays <= 0 uses usecase.DefaultMaxTrainDays.
func WithTrainQueue(q queue.Enqueuer, maxDays int) Option {
	return func(h *Handler) {
		h.jobs = q
		h.maxTrain = maxDays
		if maxDays <= 0 {
			h.maxTrain = usecase.DefaultMaxTrainDays
		}
	}
}

// WithHealthCheck adds a named dependency probe to /healthz.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(h *Handler) { h.checks[name] = check }
}

func NewHandler(
	log *logger.Logger,
	pipeline *usecase.PredictionPipeline,
	compliance *usecase.ComplianceChecker,
	stats *usecase.Stats,
	opts ...Option,
) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	h := &Handler{
		log:        log,
		pipeline:   pipeline,
		compliance: compliance,
		stats:      stats,
		checks:     map[string]HealthCheck{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	if h.hub != nil {
		e.GET(livefeed.Path, livefeed.ServeWS(h.hub))
	}

	g := e.Group("/api")
	if h.limiter != nil {
		g.Use(h.limiter.Middleware())
	}
	g.POST("/fish-prediction", h.Predict)
	g.POST("/fish-prediction/compare", h.Compare)
	g.POST("/compliance-check", h.ComplianceCheck)
	g.GET("/dashboard-stats", h.DashboardStats)
	g.POST("/models/train", h.TrainModel)
}

// Health probes every registered dependency.
func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{}
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			healthy = false
			status[name] = err.Error()
			continue
		}
		status[name] = "ok"
	}
	if !healthy {
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, status)
	}
	return xhttp.SuccessResponse(c, status)
}

// DashboardStats returns the live counters.
func (h *Handler) DashboardStats(c echo.Context) error {
	s := h.stats.Snapshot()
	return xhttp.SuccessResponse(c, models.DashboardStatsDTO{
		TotalPredictions:       s.TotalPredictions,
		ComplianceChecks:       s.ComplianceChecks,
		AvgSustainabilityScore: s.AvgSustainabilityScore,
		HighProbabilityDays:    s.HighProbabilityDays,
		ProtectedAreas:         h.compliance.ProtectedAreasMonitored(),
	})
}

// domainError maps pipeline errors onto HTTP responses. Anything that is not
// a request problem is logged and reported as 500.
func (h *Handler) domainError(c echo.Context, op string, err error) error {
	var appErr *xhttp.AppError
	switch {
	case errors.Is(err, models.ErrSpeciesRequired):
		appErr = xhttp.NewAppError("ERR_REQUIRED", "species", err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrInvalidDateRange), errors.Is(err, models.ErrDateRangeTooLong):
		appErr = xhttp.NewAppError("ERR_INVALID_DATE_RANGE", "end_date", err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrInvalidBoundingBox):
		appErr = xhttp.NewAppError("ERR_INVALID_BOUNDS", "lat_min", err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrSourceUnavailable):
		h.log.Warn(op+" rejected, source unavailable", logger.Error(err))
		appErr = xhttp.ServiceUnavailableError("ocean data source is unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		h.log.Error(op+" timed out", logger.Error(err))
		appErr = xhttp.ServiceUnavailableError("prediction timed out")
	default:
		h.log.Error(op+" failed", logger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.AppErrorResponse(c, appErr.WithError(err))
}

// cached loads key into dest. Cache faults are logged and treated as misses.
func (h *Handler) cached(ctx context.Context, key string, dest interface{}) bool {
	if h.cache == nil {
		return false
	}
	err := h.cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		h.log.Warn("cache read failed", logger.String("key", key), logger.Error(err))
	}
	return false
}

func (h *Handler) store(ctx context.Context, key string, v interface{}) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Set(ctx, key, v, h.cacheTTL); err != nil {
		h.log.Warn("cache write failed", logger.String("key", key), logger.Error(err))
	}
}
