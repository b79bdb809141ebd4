package compliance

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules are the regulations applied by Check. Species keys are normalised
// to lower case when loaded.
type Rules struct {
	ClosedSeasons       map[string][]int   `yaml:"closed_seasons"`
	ProhibitedGear      []string           `yaml:"prohibited_gear"`
	CatchLimits         map[string]float64 `yaml:"catch_limits"`
	SustainabilityScore float64            `yaml:"sustainability_score"`
	ProtectedAreas      []ProtectedArea    `yaml:"protected_areas"`
}

// ProtectedArea is a no-fishing zone in degrees, bounds inclusive.
type ProtectedArea struct {
	Name   string  `yaml:"name"`
	LatMin float64 `yaml:"lat_min"`
	LatMax float64 `yaml:"lat_max"`
	LonMin float64 `yaml:"lon_min"`
	LonMax float64 `yaml:"lon_max"`
}

// Contains reports whether (lat, lon) lies inside the area.
func (a ProtectedArea) Contains(lat, lon float64) bool {
	return lat >= a.LatMin && lat <= a.LatMax && lon >= a.LonMin && lon <= a.LonMax
}

func (a ProtectedArea) validate() error {
	switch {
	case a.Name == "":
		return errors.New("protected area without a name")
	case a.LatMin < -90 || a.LatMax > 90 || a.LonMin < -180 || a.LonMax > 180:
		return fmt.Errorf("protected area %s: coordinates out of range", a.Name)
	case a.LatMin > a.LatMax || a.LonMin > a.LonMax:
		return fmt.Errorf("protected area %s: min exceeds max", a.Name)
	}
	return nil
}

// rawRules is the document shape. A pointer score tells an explicit 0 from
// an absent key.
type rawRules struct {
	ClosedSeasons       map[string][]int   `yaml:"closed_seasons"`
	ProhibitedGear      []string           `yaml:"prohibited_gear"`
	CatchLimits         map[string]float64 `yaml:"catch_limits"`
	SustainabilityScore *float64           `yaml:"sustainability_score"`
	ProtectedAreas      []ProtectedArea    `yaml:"protected_areas"`
}

// DefaultSustainabilityScore is reported when the rules file does not set one.
const DefaultSustainabilityScore = 0.8

// DefaultRules returns the built-in rule set: tuna closed in January and
// February, dynamite fishing prohibited, no catch limits.
func DefaultRules() Rules {
	return Rules{
		ClosedSeasons:       map[string][]int{"tuna": {1, 2}},
		ProhibitedGear:      []string{"dynamite"},
		CatchLimits:         map[string]float64{},
		SustainabilityScore: DefaultSustainabilityScore,
	}
}

// LoadStatus tells how LoadRules ended.
type LoadStatus int

const (
	StatusLoaded LoadStatus = iota
	StatusNoFile
	StatusParseError
)

func (s LoadStatus) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusNoFile:
		return "no_file"
	case StatusParseError:
		return "parse_error"
	default:
		return fmt.Sprintf("LoadStatus(%d)", int(s))
	}
}

// RulesResult is the outcome of LoadRules. Rules is only meaningful when
// Status is StatusLoaded.
type RulesResult struct {
	Status LoadStatus
	Rules  Rules
	Err    error
}

// LoadRules reads a YAML rules file. It never panics; the caller picks a
// policy for the failure statuses.
func LoadRules(path string) RulesResult {
	if path == "" {
		return RulesResult{Status: StatusNoFile, Err: errors.New("no rules path configured")}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return RulesResult{Status: StatusNoFile, Err: err}
		}
		return RulesResult{Status: StatusParseError, Err: fmt.Errorf("read rules: %w", err)}
	}
	r, err := ParseRules(b)
	if err != nil {
		return RulesResult{Status: StatusParseError, Err: err}
	}
	return RulesResult{Status: StatusLoaded, Rules: r}
}

// ParseRules decodes and validates a rules document. Species keys that
// collide after normalisation are rejected.
func ParseRules(b []byte) (Rules, error) {
	var raw rawRules
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return Rules{}, fmt.Errorf("parse rules: %w", err)
	}
	r := Rules{
		ClosedSeasons:       make(map[string][]int, len(raw.ClosedSeasons)),
		CatchLimits:         make(map[string]float64, len(raw.CatchLimits)),
		SustainabilityScore: DefaultSustainabilityScore,
	}
	for sp, months := range raw.ClosedSeasons {
		for _, m := range months {
			if m < 1 || m > 12 {
				return Rules{}, fmt.Errorf("parse rules: closed season month %d for %s out of range", m, sp)
			}
		}
		key := normalize(sp)
		if _, dup := r.ClosedSeasons[key]; dup {
			return Rules{}, fmt.Errorf("parse rules: closed_seasons lists %q more than once", key)
		}
		r.ClosedSeasons[key] = months
	}
	for sp, limit := range raw.CatchLimits {
		if limit < 0 || math.IsNaN(limit) {
			return Rules{}, fmt.Errorf("parse rules: invalid catch limit for %s", sp)
		}
		key := normalize(sp)
		if _, dup := r.CatchLimits[key]; dup {
			return Rules{}, fmt.Errorf("parse rules: catch_limits lists %q more than once", key)
		}
		r.CatchLimits[key] = limit
	}
	for _, g := range raw.ProhibitedGear {
		r.ProhibitedGear = append(r.ProhibitedGear, normalize(g))
	}
	if raw.SustainabilityScore != nil {
		r.SustainabilityScore = *raw.SustainabilityScore
	}
	if !(r.SustainabilityScore >= 0 && r.SustainabilityScore <= 1) {
		return Rules{}, fmt.Errorf("parse rules: sustainability_score %v outside [0,1]", r.SustainabilityScore)
	}
	for _, a := range raw.ProtectedAreas {
		if err := a.validate(); err != nil {
			return Rules{}, fmt.Errorf("parse rules: %w", err)
		}
		r.ProtectedAreas = append(r.ProtectedAreas, a)
	}
	return r, nil
}

// Policy decides what happens when rules cannot be loaded.
type Policy string

const (
	PolicyPermissive Policy = "permissive"
	PolicyStrict     Policy = "strict"
)

// Resolve applies policy to a load result. Permissive falls back to
// DefaultRules and reports fallback=true; strict returns the load error.
func Resolve(res RulesResult, policy Policy) (rules Rules, fallback bool, err error) {
	if res.Status == StatusLoaded {
		return res.Rules, false, nil
	}
	if policy == PolicyStrict {
		return Rules{}, false, fmt.Errorf("compliance rules %s: %w", res.Status, res.Err)
	}
	return DefaultRules(), true, nil
}
