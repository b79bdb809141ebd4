package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"FishCast/internal/domain/models"
	"FishCast/internal/usecase"
	xhttp "FishCast/pkg/http"
	"FishCast/pkg/logger"
)

// TrainModel queues a background training run and answers 202 with its ID.
// Without a queue the route answers 503.
func (h *Handler) TrainModel(c echo.Context) error {
	if h.jobs == nil {
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("training queue is not configured"))
	}
	req := &models.TrainModelRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	params, err := window(req.StartDate, req.EndDate, req.LatMin, req.LatMax, req.LonMin, req.LonMax)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	params.Species = req.Species
	if err := params.Validate(h.maxTrain); err != nil {
		return h.domainError(c, "train", err)
	}

	id, err := h.jobs.Enqueue(c.Request().Context(), usecase.TrainJobType, usecase.TrainJobPayload{
		Species:   req.Species,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Bounds:    params.Bounds,
	})
	if err != nil {
		h.log.Error("enqueue training failed", logger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("training queue unavailable").WithError(err))
	}
	return xhttp.DataResponse(c, http.StatusAccepted, models.TrainJobDTO{JobID: id, Species: req.Species})
}
