package api

import (
	"github.com/labstack/echo/v4"

	"FishCast/internal/domain/models"
	"FishCast/internal/usecase"
	"FishCast/pkg/cache"
	xhttp "FishCast/pkg/http"
	"FishCast/pkg/logger"
	"FishCast/pkg/util"
)

const headerCache = "X-Cache"

// Predict runs the pipeline for one species.
func (h *Handler) Predict(c echo.Context) error {
	req := &models.FishPredictionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	params, err := window(req.StartDate, req.EndDate, req.LatMin, req.LatMax, req.LonMin, req.LonMax)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	params.Species = req.Species

	ctx := c.Request().Context()
	key := ""
	if hash, err := cache.HashKey(req); err == nil {
		key = usecase.PredictionCacheKey(req.Species, hash)
	} else {
		h.log.Warn("request hash failed", logger.Error(err))
	}

	var dto models.PredictionRunDTO
	if key != "" && h.cached(ctx, key, &dto) {
		c.Response().Header().Set(headerCache, "HIT")
		return xhttp.SuccessResponse(c, dto)
	}

	run, err := h.pipeline.Run(ctx, params)
	if err != nil {
		return h.domainError(c, "prediction", err)
	}
	dto = models.NewPredictionRunDTO(run)
	if key != "" {
		h.store(ctx, key, dto)
	}
	c.Response().Header().Set(headerCache, "MISS")
	return xhttp.SuccessResponse(c, dto)
}

// Compare runs the pipeline for several species over one window.
func (h *Handler) Compare(c echo.Context) error {
	req := &models.CompareRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	params, err := window(req.StartDate, req.EndDate, req.LatMin, req.LatMax, req.LonMin, req.LonMax)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	ctx := c.Request().Context()
	key := ""
	if hash, err := cache.HashKey(req); err == nil {
		key = usecase.CompareCacheKey(hash)
	}

	var dtos []models.PredictionRunDTO
	if key != "" && h.cached(ctx, key, &dtos) {
		c.Response().Header().Set(headerCache, "HIT")
		return xhttp.SuccessResponse(c, dtos)
	}

	runs, err := h.pipeline.Compare(ctx, params, req.SpeciesList)
	if err != nil {
		return h.domainError(c, "compare", err)
	}
	dtos = make([]models.PredictionRunDTO, 0, len(runs))
	for _, run := range runs {
		dtos = append(dtos, models.NewPredictionRunDTO(run))
	}
	if key != "" {
		h.store(ctx, key, dtos)
	}
	c.Response().Header().Set(headerCache, "MISS")
	return xhttp.SuccessResponse(c, dtos)
}

// window converts validated request fields into pipeline params. Defaults
// have already been applied, so the bounds are never nil here.
func window(start, end string, latMin, latMax, lonMin, lonMax *float64) (usecase.PredictParams, error) {
	from, to, err := util.ParseDateRange(start, end)
	if err != nil {
		return usecase.PredictParams{}, xhttp.BadRequestError("dates must be YYYY-MM-DD").WithError(err)
	}
	return usecase.PredictParams{
		Range: models.DateRange{Start: from, End: to},
		Bounds: models.BoundingBox{
			LatMin: deref(latMin),
			LatMax: deref(latMax),
			LonMin: deref(lonMin),
			LonMax: deref(lonMax),
		},
	}, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
