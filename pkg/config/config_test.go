package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "synthetic", c.Source.Type)
	assert.Equal(t, "none", c.Models.Store)
	assert.Equal(t, "permissive", c.Compliance.Policy)
}

func TestParseOverlaysDefaults(t *testing.T) {
	c, err := Parse([]byte(`
environment: production
server:
  port: 9090
source:
  type: synthetic
  seed: 7
models:
  store: bolt
  path: /var/lib/fishcast/models.db
cache:
  ttl: 1m
`))
	require.NoError(t, err)
	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, int64(7), c.Source.Seed)
	assert.Equal(t, "bolt", c.Models.Store)
	assert.Equal(t, time.Minute, c.Cache.TTL)
	assert.Equal(t, 366, c.Pipeline.MaxRangeDays, "kept from defaults")
	assert.Equal(t, 3660, c.Models.MaxTrainDays, "kept from defaults")
}

func TestValidateRejects(t *testing.T) {
	tests := map[string]string{
		"bad source":          "source:\n  type: satellite\n",
		"clickhouse no host":  "source:\n  type: clickhouse\n",
		"bad store":           "models:\n  store: s3\n",
		"kafka no brokers":    "kafka:\n  enabled: true\n",
		"bad policy":          "compliance:\n  policy: lenient\n",
		"bad port":            "server:\n  port: 0\n",
		"bad range":           "pipeline:\n  max_range_days: 0\n",
		"bad rate limit":      "rate_limit:\n  enabled: true\n  capacity: 0\n",
		"bad cache":           "cache:\n  backend: memcached\n",
		"bolt without a path": "models:\n  store: bolt\n  path: \"\"\n",
		"bad train window":    "models:\n  max_train_days: 0\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"FISHCAST_PORT":          "8181",
		"FISHCAST_SEED":          "99",
		"FISHCAST_KAFKA_BROKERS": "k1:9092,k2:9092",
		"FISHCAST_MODEL_STORE":   "cache",
	}
	c := Default()
	require.NoError(t, c.applyEnv(func(k string) (string, bool) { v, ok := env[k]; return v, ok }))
	assert.Equal(t, 8181, c.Server.Port)
	assert.Equal(t, int64(99), c.Source.Seed)
	assert.True(t, c.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "cache", c.Models.Store)

	env["FISHCAST_PORT"] = "eighty"
	assert.Error(t, Default().applyEnv(func(k string) (string, bool) { v, ok := env[k]; return v, ok }))
}

func TestLoadWithEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environment: test\n"), 0o600))
	t.Setenv("FISHCAST_LOG_LEVEL", "debug")

	c, err := LoadWithEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "test", c.Environment)
	assert.Equal(t, "debug", c.Logging.Level)

	_, err = LoadWithEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestQueueEnvOverride(t *testing.T) {
	c := Default()
	env := map[string]string{"FISHCAST_QUEUE_ENABLED": "true"}
	require.NoError(t, c.applyEnv(func(k string) (string, bool) { v, ok := env[k]; return v, ok }))
	assert.True(t, c.Queue.Enabled)
	require.NoError(t, c.Validate())

	env["FISHCAST_QUEUE_ENABLED"] = "maybe"
	assert.Error(t, Default().applyEnv(func(k string) (string, bool) { v, ok := env[k]; return v, ok }))

	_, err := Parse([]byte("queue:\n  enabled: true\n  workers: 0\n"))
	assert.Error(t, err)
}
