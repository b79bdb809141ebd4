package api

import (
	"github.com/labstack/echo/v4"

	"FishCast/internal/domain/models"
	xhttp "FishCast/pkg/http"
	"FishCast/pkg/util"
)

// ComplianceCheck evaluates a proposed trip against the loaded rules.
func (h *Handler) ComplianceCheck(c echo.Context) error {
	req := &models.ComplianceCheckRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	date, err := util.ParseDate(req.Date)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("date must be YYYY-MM-DD").WithError(err))
	}

	res := h.compliance.Check(models.ComplianceRequest{
		Species:       req.Species,
		Lon:           deref(req.Lon),
		Lat:           deref(req.Lat),
		Date:          date,
		GearType:      req.GearType,
		ProposedCatch: deref(req.ProposedCatch),
	})
	return xhttp.SuccessResponse(c, models.ComplianceDTO{
		Approved:            res.Approved,
		Violations:          res.Violations,
		SustainabilityScore: res.SustainabilityScore,
	})
}
