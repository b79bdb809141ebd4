package compliance

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FishCast/internal/domain/models"
)

func req(species, gear string, month time.Month, catch float64) models.ComplianceRequest {
	return models.ComplianceRequest{
		Species:       species,
		GearType:      gear,
		Date:          time.Date(2024, month, 15, 0, 0, 0, 0, time.UTC),
		ProposedCatch: catch,
		Lon:           106,
		Lat:           -6,
	}
}

func TestDefaultRules(t *testing.T) {
	c := NewChecker(DefaultRules())

	res := c.Check(req("tuna", "hand_line", time.January, 100))
	assert.False(t, res.Approved)
	assert.Equal(t, []string{"Closed season for tuna"}, res.Violations)
	assert.Equal(t, 0.8, res.SustainabilityScore)

	res = c.Check(req("tuna", "Dynamite", time.February, 100))
	assert.Equal(t, []string{"Closed season for tuna", "Prohibited gear type"}, res.Violations)

	res = c.Check(req("tuna", "longline", time.March, 1e6))
	assert.True(t, res.Approved)
	assert.Empty(t, res.Violations)
	assert.NotNil(t, res.Violations)

	res = c.Check(req("skipjack", "purse_seine", time.January, 10))
	assert.True(t, res.Approved)
}

const rulesDoc = `
closed_seasons:
  Tuna: [1, 2]
  skipjack: [7]
prohibited_gear: [dynamite, Cyanide]
catch_limits:
  tuna: 2500
sustainability_score: 0.65
`

func TestLoadRulesAndCatchLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(rulesDoc), 0o600))

	res := LoadRules(path)
	require.Equal(t, StatusLoaded, res.Status)
	require.NoError(t, res.Err)

	c := NewChecker(res.Rules)
	out := c.Check(req("tuna", "cyanide", time.June, 3000))
	assert.Equal(t, []string{"Prohibited gear type", "Proposed catch exceeds limit for tuna"}, out.Violations)
	assert.Equal(t, 0.65, out.SustainabilityScore)

	out = c.Check(req("tuna", "hand_line", time.June, 2500))
	assert.True(t, out.Approved, "limit is inclusive")

	out = c.Check(req("Skipjack", "hand_line", time.July, 1))
	assert.Equal(t, []string{"Closed season for Skipjack"}, out.Violations)
}

func TestLoadRulesStatuses(t *testing.T) {
	dir := t.TempDir()

	res := LoadRules(filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, StatusNoFile, res.Status)
	assert.Error(t, res.Err)

	assert.Equal(t, StatusNoFile, LoadRules("").Status)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("closed_seasons: [oops"), 0o600))
	assert.Equal(t, StatusParseError, LoadRules(bad).Status)

	month := filepath.Join(dir, "month.yaml")
	require.NoError(t, os.WriteFile(month, []byte("closed_seasons:\n  tuna: [13]\n"), 0o600))
	assert.Equal(t, StatusParseError, LoadRules(month).Status)
}

func TestResolvePolicy(t *testing.T) {
	missing := RulesResult{Status: StatusNoFile, Err: os.ErrNotExist}

	r, fallback, err := Resolve(missing, PolicyPermissive)
	require.NoError(t, err)
	assert.True(t, fallback)
	assert.Equal(t, DefaultRules(), r)

	_, _, err = Resolve(missing, PolicyStrict)
	assert.ErrorIs(t, err, os.ErrNotExist)

	loaded := RulesResult{Status: StatusLoaded, Rules: Rules{SustainabilityScore: 0.5}}
	r, fallback, err = Resolve(loaded, PolicyStrict)
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Equal(t, 0.5, r.SustainabilityScore)
}

func TestParseRulesDefaultsScore(t *testing.T) {
	r, err := ParseRules([]byte("prohibited_gear: [trawl]\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSustainabilityScore, r.SustainabilityScore)
	assert.Equal(t, []string{"trawl"}, r.ProhibitedGear)

	_, err = ParseRules([]byte("sustainability_score: 3\n"))
	assert.Error(t, err)
}

func TestParseRulesExplicitZeroScore(t *testing.T) {
	r, err := ParseRules([]byte("sustainability_score: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.SustainabilityScore)

	r, err = ParseRules([]byte("closed_seasons:\n  tuna: [1]\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSustainabilityScore, r.SustainabilityScore)
}

func TestParseRulesRejectsCollidingSpecies(t *testing.T) {
	_, err := ParseRules([]byte("closed_seasons:\n  Tuna: [1]\n  tuna: [7]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"tuna"`)

	_, err = ParseRules([]byte("catch_limits:\n  Skipjack: 10\n  ' skipjack': 20\n"))
	assert.Error(t, err)
}

const areasDoc = `
protected_areas:
  - name: Komodo
    lat_min: -9
    lat_max: -8
    lon_min: 119
    lon_max: 120
  - name: Raja Ampat
    lat_min: -2
    lat_max: 0
    lon_min: 129
    lon_max: 131
`

func TestProtectedAreas(t *testing.T) {
	r, err := ParseRules([]byte(areasDoc))
	require.NoError(t, err)
	c := NewChecker(r)
	assert.Equal(t, 2, c.ProtectedAreas())

	inside := req("skipjack", "hand_line", time.June, 1)
	inside.Lat, inside.Lon = -8.5, 119.5
	res := c.Check(inside)
	assert.False(t, res.Approved)
	assert.Equal(t, []string{"Inside protected area Komodo"}, res.Violations)

	assert.True(t, c.Check(req("skipjack", "hand_line", time.June, 1)).Approved)
	assert.Equal(t, 0, NewChecker(DefaultRules()).ProtectedAreas())

	_, err = ParseRules([]byte("protected_areas:\n  - name: Bad\n    lat_min: 5\n    lat_max: 1\n"))
	assert.Error(t, err)
	_, err = ParseRules([]byte("protected_areas:\n  - lat_min: 1\n    lat_max: 2\n"))
	assert.Error(t, err)
}
