package usecase

import (
	"FishCast/internal/domain/models"
	drepo "FishCast/internal/domain/repository"
	"FishCast/internal/services/compliance"
)

// ComplianceChecker checks proposed trips and feeds the dashboard counters.
type ComplianceChecker struct {
	checker *compliance.Checker
	stats   *Stats
	metrics drepo.Metrics
}

func NewComplianceChecker(checker *compliance.Checker, stats *Stats, metrics drepo.Metrics) *ComplianceChecker {
	return &ComplianceChecker{checker: checker, stats: stats, metrics: metrics}
}

func (c *ComplianceChecker) Check(req models.ComplianceRequest) models.ComplianceResult {
	res := c.checker.Check(req)
	if c.stats != nil {
		c.stats.RecordCompliance(res)
	}
	verdict := "approved"
	if !res.Approved {
		verdict = "rejected"
	}
	c.metrics.RecordCompliance(verdict)
	return res
}

// ProtectedAreasMonitored is the number of protected zones in the active rules.
func (c *ComplianceChecker) ProtectedAreasMonitored() int {
	return c.checker.ProtectedAreas()
}
