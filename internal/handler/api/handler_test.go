package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FishCast/internal/domain/models"
	drepo "FishCast/internal/domain/repository"
	"FishCast/internal/repository"
	"FishCast/internal/service/ratelimit"
	"FishCast/internal/services/compliance"
	"FishCast/internal/usecase"
	"FishCast/pkg/cache"
	xhttp "FishCast/pkg/http"
	"FishCast/pkg/logger"
	"FishCast/pkg/metrics"
)

type failingSource struct{}

func (failingSource) Fetch(context.Context, models.DateRange, models.BoundingBox) ([]models.OceanRecord, error) {
	return nil, errors.New("ocean store unreachable")
}

type env struct {
	e     *echo.Echo
	stats *usecase.Stats
	cache *cache.MemoryCache
}

func newEnv(t *testing.T, source drepo.OceanSource, opts ...Option) *env {
	t.Helper()
	return newEnvWithConfig(t, source, usecase.PipelineConfig{MaxRangeDays: 31, Timeout: 5 * time.Second}, opts...)
}

func newEnvWithConfig(t *testing.T, source drepo.OceanSource, cfg usecase.PipelineConfig, opts ...Option) *env {
	t.Helper()
	if source == nil {
		source = repository.NewSyntheticSource(42)
	}
	rec := metrics.NewWithRegisterer(prometheus.NewRegistry())
	stats := usecase.NewStats()
	pipeline := usecase.NewPredictionPipeline(source, repository.NoModelStore{}, nil, nil, rec, stats, logger.Nop(), cfg)
	checker := usecase.NewComplianceChecker(compliance.NewChecker(compliance.DefaultRules()), stats, rec)

	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })
	opts = append([]Option{WithCache(mc, time.Minute)}, opts...)

	h := NewHandler(logger.Nop(), pipeline, checker, stats, opts...)
	e := echo.New()
	h.RegisterRoutes(e)
	return &env{e: e, stats: stats, cache: mc}
}

func (v *env) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	v.e.ServeHTTP(rec, req)
	return rec
}

type runEnvelope struct {
	Status int                     `json:"status"`
	Data   models.PredictionRunDTO `json:"data"`
}

func TestPredictHeuristic(t *testing.T) {
	v := newEnv(t, nil)
	body := `{"species":"tuna","start_date":"2024-01-01","end_date":"2024-01-07"}`

	rec := v.do(http.MethodPost, "/api/fish-prediction", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "MISS", rec.Header().Get(headerCache))

	var out runEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, http.StatusOK, out.Status)
	assert.NotEmpty(t, out.Data.RunID)
	assert.Equal(t, "heuristic", out.Data.ModelSource)
	require.Len(t, out.Data.Predictions, 7)
	assert.Equal(t, "2024-01-01", out.Data.Predictions[0].Date)
	for _, p := range out.Data.Predictions {
		assert.Equal(t, "HEURISTIC", p.Recommendation)
		assert.Equal(t, "tuna", p.Species)
		assert.GreaterOrEqual(t, p.Probability, 0.0)
		assert.LessOrEqual(t, p.Probability, 1.0)
	}
	assert.Equal(t, 7, out.Data.Summary.TotalDays)

	again := v.do(http.MethodPost, "/api/fish-prediction", body)
	require.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, "HIT", again.Header().Get(headerCache))
	var cached runEnvelope
	require.NoError(t, json.Unmarshal(again.Body.Bytes(), &cached))
	assert.Equal(t, out.Data, cached.Data)
	assert.Equal(t, int64(1), v.stats.Snapshot().TotalPredictions)
}

func TestPredictBadRequests(t *testing.T) {
	v := newEnv(t, nil)
	tests := []struct {
		name  string
		body  string
		code  string
		field string
	}{
		{"missing species", `{"start_date":"2024-01-01","end_date":"2024-01-02"}`, "ERR_REQUIRED", "species"},
		{"bad date", `{"species":"tuna","start_date":"01/01/2024","end_date":"2024-01-02"}`, "ERR_DATETIME", "start_date"},
		{"reversed", `{"species":"tuna","start_date":"2024-01-05","end_date":"2024-01-02"}`, "ERR_INVALID_DATE_RANGE", "end_date"},
		{"too long", `{"species":"tuna","start_date":"2024-01-01","end_date":"2024-06-01"}`, "ERR_INVALID_DATE_RANGE", "end_date"},
		{"latitude", `{"species":"tuna","start_date":"2024-01-01","end_date":"2024-01-02","lat_min":-95}`, "ERR_GTE", "lat_min"},
		{"bbox order", `{"species":"tuna","start_date":"2024-01-01","end_date":"2024-01-02","lat_min":10,"lat_max":0}`, "ERR_INVALID_BOUNDS", "lat_min"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := v.do(http.MethodPost, "/api/fish-prediction", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			var out xhttp.APIResponse400Err
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
			require.NotEmpty(t, out.Data)
			assert.Equal(t, tt.code, out.Data[0].Code)
			assert.Equal(t, tt.field, out.Data[0].Field)
		})
	}

	rec := v.do(http.MethodPost, "/api/fish-prediction", `{"species":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPredictSourceFailureIs500(t *testing.T) {
	v := newEnv(t, failingSource{})
	rec := v.do(http.MethodPost, "/api/fish-prediction", `{"species":"tuna","start_date":"2024-01-01","end_date":"2024-01-02"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var out xhttp.APIResponse500Err
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotContains(t, out.Data, "unreachable")
}

type downSource struct{}

func (downSource) Fetch(context.Context, models.DateRange, models.BoundingBox) ([]models.OceanRecord, error) {
	return nil, fmt.Errorf("%w: circuit breaker is open", models.ErrSourceUnavailable)
}

func TestPredictSourceUnavailableIs503(t *testing.T) {
	v := newEnv(t, downSource{})
	rec := v.do(http.MethodPost, "/api/fish-prediction", `{"species":"tuna","start_date":"2024-01-01","end_date":"2024-01-02"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

// stalledSource never answers; only the run deadline ends a Fetch.
type stalledSource struct{}

func (stalledSource) Fetch(ctx context.Context, _ models.DateRange, _ models.BoundingBox) ([]models.OceanRecord, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestPredictDeadlineIs503(t *testing.T) {
	v := newEnvWithConfig(t, stalledSource{}, usecase.PipelineConfig{MaxRangeDays: 31, Timeout: 20 * time.Millisecond})
	rec := v.do(http.MethodPost, "/api/fish-prediction", `{"species":"tuna","start_date":"2024-01-01","end_date":"2024-01-02"}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_UNAVAILABLE")
	assert.Zero(t, v.stats.Snapshot().TotalPredictions)
}

func TestCompare(t *testing.T) {
	v := newEnv(t, nil)
	body := `{"species_list":["tuna","skipjack","marlin"],"start_date":"2024-03-01","end_date":"2024-03-03"}`
	rec := v.do(http.MethodPost, "/api/fish-prediction/compare", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Data []models.PredictionRunDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Data, 3)
	assert.Equal(t, "skipjack", out.Data[1].Species)
	for _, p := range out.Data[2].Predictions {
		assert.Equal(t, 0.5, p.Probability)
	}

	rec = v.do(http.MethodPost, "/api/fish-prediction/compare", `{"species_list":[],"start_date":"2024-03-01","end_date":"2024-03-03"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComplianceCheck(t *testing.T) {
	v := newEnv(t, nil)
	rec := v.do(http.MethodPost, "/api/compliance-check",
		`{"species":"Tuna","date":"2024-01-15","gear_type":"dynamite","proposed_catch":10}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Data models.ComplianceDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.False(t, out.Data.Approved)
	assert.Equal(t, []string{"Closed season for Tuna", "Prohibited gear type"}, out.Data.Violations)
	assert.Equal(t, 0.8, out.Data.SustainabilityScore)

	rec = v.do(http.MethodPost, "/api/compliance-check",
		`{"species":"tuna","date":"2024-07-15","gear_type":"hand_line","proposed_catch":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Data.Approved)
	assert.Empty(t, out.Data.Violations)

	rec = v.do(http.MethodPost, "/api/compliance-check", `{"species":"tuna","date":"2024-07-15","gear_type":"net"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardStats(t *testing.T) {
	v := newEnv(t, nil)
	v.do(http.MethodPost, "/api/fish-prediction", `{"species":"tuna","start_date":"2024-01-01","end_date":"2024-01-03"}`)
	v.do(http.MethodPost, "/api/compliance-check", `{"species":"tuna","date":"2024-05-01","gear_type":"net","proposed_catch":1}`)

	rec := v.do(http.MethodGet, "/api/dashboard-stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Data models.DashboardStatsDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, int64(1), out.Data.TotalPredictions)
	assert.Equal(t, int64(1), out.Data.ComplianceChecks)
	assert.InDelta(t, 0.8, out.Data.AvgSustainabilityScore, 1e-12)
	assert.Zero(t, out.Data.HighProbabilityDays)
	assert.Zero(t, out.Data.ProtectedAreas)
	assert.Contains(t, rec.Body.String(), `"protected_areas_monitored":0`)
}

func TestDashboardCountsProtectedAreas(t *testing.T) {
	rules := compliance.DefaultRules()
	rules.ProtectedAreas = []compliance.ProtectedArea{{Name: "Komodo", LatMin: -9, LatMax: -8, LonMin: 119, LonMax: 120}}
	rec := metrics.NewWithRegisterer(prometheus.NewRegistry())
	stats := usecase.NewStats()
	pipeline := usecase.NewPredictionPipeline(repository.NewSyntheticSource(42), repository.NoModelStore{}, nil, nil, rec, stats,
		logger.Nop(), usecase.PipelineConfig{MaxRangeDays: 31})
	checker := usecase.NewComplianceChecker(compliance.NewChecker(rules), stats, rec)
	e := echo.New()
	NewHandler(logger.Nop(), pipeline, checker, stats).RegisterRoutes(e)
	v := &env{e: e, stats: stats}

	res := v.do(http.MethodPost, "/api/compliance-check",
		`{"species":"tuna","date":"2024-05-01","gear_type":"line","proposed_catch":1,"lat":-8.5,"lon":119.5}`)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "Inside protected area Komodo")

	res = v.do(http.MethodGet, "/api/dashboard-stats", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"protected_areas_monitored":1`)
}

func TestRateLimit(t *testing.T) {
	v := newEnv(t, nil, WithRateLimit(ratelimit.New(1, 0.001)))
	assert.Equal(t, http.StatusOK, v.do(http.MethodGet, "/api/dashboard-stats", "").Code)

	rec := v.do(http.MethodGet, "/api/dashboard-stats", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	var out xhttp.APIResponse429Err
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, http.StatusTooManyRequests, out.Status)

	assert.Equal(t, http.StatusOK, v.do(http.MethodGet, "/healthz", "").Code, "health is not rate limited")
}

func TestHealth(t *testing.T) {
	v := newEnv(t, nil, WithHealthCheck("clickhouse", func(context.Context) error { return nil }))
	assert.Equal(t, http.StatusOK, v.do(http.MethodGet, "/healthz", "").Code)

	v = newEnv(t, nil, WithHealthCheck("redis", func(context.Context) error { return errors.New("connection refused") }))
	rec := v.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

type fakeQueue struct {
	msgType string
	payload interface{}
	err     error
}

func (q *fakeQueue) Enqueue(_ context.Context, msgType string, payload interface{}) (string, error) {
	q.msgType, q.payload = msgType, payload
	return "job-1", q.err
}

func TestTrainModelQueues(t *testing.T) {
	body := `{"species":"tuna","start_date":"2024-01-01","end_date":"2024-03-31"}`

	v := newEnv(t, nil)
	assert.Equal(t, http.StatusServiceUnavailable, v.do(http.MethodPost, "/api/models/train", body).Code)

	q := &fakeQueue{}
	v = newEnv(t, nil, WithTrainQueue(q, 365))
	rec := v.do(http.MethodPost, "/api/models/train", body)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	var out struct {
		Data models.TrainJobDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "job-1", out.Data.JobID)
	assert.Equal(t, usecase.TrainJobType, q.msgType)
	p, ok := q.payload.(usecase.TrainJobPayload)
	require.True(t, ok)
	assert.Equal(t, -8.0, p.Bounds.LatMin)

	rec = v.do(http.MethodPost, "/api/models/train", `{"species":"tuna","start_date":"2024-03-01","end_date":"2024-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	q.msgType = ""
	rec = v.do(http.MethodPost, "/api/models/train", `{"species":"tuna","start_date":"2020-01-01","end_date":"2024-12-31"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_INVALID_DATE_RANGE")
	assert.Empty(t, q.msgType)

	q.err = errors.New("redis down")
	rec = v.do(http.MethodPost, "/api/models/train", body)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
