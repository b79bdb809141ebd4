package estimator

import "strings"

const (
	SpeciesTuna     = "tuna"
	SpeciesSkipjack = "skipjack"

	// NeutralProbability is returned by the heuristic for species it has no
	// formula for.
	NeutralProbability = 0.5
)

// Heuristic is the closed-form fallback used when no fitted model exists.
func Heuristic(species string, sst, chlorophyll float64) float64 {
	switch NormalizeSpecies(species) {
	case SpeciesTuna:
		return Clip((sst-25)*0.1 + (chlorophyll-0.5)*0.2)
	case SpeciesSkipjack:
		return Clip((sst-24)*0.08 + (chlorophyll-0.6)*0.15)
	default:
		return NeutralProbability
	}
}

// NormalizeSpecies lowercases and trims a species identifier.
func NormalizeSpecies(species string) string {
	return strings.ToLower(strings.TrimSpace(species))
}

// Clip bounds p to [0, 1]. NaN clips to 0.
func Clip(p float64) float64 {
	if !(p > 0) {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
