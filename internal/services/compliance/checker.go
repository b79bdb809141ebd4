package compliance

import (
	"fmt"
	"strings"

	"FishCast/internal/domain/models"
)

// Checker evaluates proposed trips against a fixed rule set. It is safe for
// concurrent use; rules are never mutated after construction.
type Checker struct {
	rules Rules
}

func NewChecker(r Rules) *Checker {
	return &Checker{rules: r}
}

// Rules returns the active rule set.
func (c *Checker) Rules() Rules { return c.rules }

// ProtectedAreas is the number of zones checked on every request.
func (c *Checker) ProtectedAreas() int { return len(c.rules.ProtectedAreas) }

// Check returns the verdict for req. A request is approved when it has no
// violations.
func (c *Checker) Check(req models.ComplianceRequest) models.ComplianceResult {
	species := normalize(req.Species)
	violations := []string{}

	month := int(req.Date.Month())
	for _, m := range c.rules.ClosedSeasons[species] {
		if m == month {
			violations = append(violations, fmt.Sprintf("Closed season for %s", req.Species))
			break
		}
	}

	gear := normalize(req.GearType)
	for _, g := range c.rules.ProhibitedGear {
		if g == gear {
			violations = append(violations, "Prohibited gear type")
			break
		}
	}

	if limit, ok := c.rules.CatchLimits[species]; ok && req.ProposedCatch > limit {
		violations = append(violations, fmt.Sprintf("Proposed catch exceeds limit for %s", req.Species))
	}

	for _, a := range c.rules.ProtectedAreas {
		if a.Contains(req.Lat, req.Lon) {
			violations = append(violations, fmt.Sprintf("Inside protected area %s", a.Name))
		}
	}

	return models.ComplianceResult{
		Approved:            len(violations) == 0,
		Violations:          violations,
		SustainabilityScore: c.rules.SustainabilityScore,
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
