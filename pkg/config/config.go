package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CORS            bool          `yaml:"cors"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Source struct {
		Type string `yaml:"type"` // synthetic or clickhouse
		Seed int64  `yaml:"seed"`
	} `yaml:"source"`
	Pipeline struct {
		MaxRangeDays int           `yaml:"max_range_days"`
		Timeout      time.Duration `yaml:"timeout"`
	} `yaml:"pipeline"`
	Models struct {
		Store        string  `yaml:"store"` // bolt, cache or none
		Path         string  `yaml:"path"`
		Ridge        float64 `yaml:"ridge"`
		MaxTrainDays int     `yaml:"max_train_days"` // training ignores pipeline.max_range_days
	} `yaml:"models"`
	Cache struct {
		Backend    string        `yaml:"backend"` // memory, redis or layered
		TTL        time.Duration `yaml:"ttl"`
		MaxEntries int           `yaml:"max_entries"`
		RedisHost  string        `yaml:"redis_host"`
		RedisPort  int           `yaml:"redis_port"`
		RedisDB    int           `yaml:"redis_db"`
		Password   string        `yaml:"password"`
		Prefix     string        `yaml:"prefix"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		Async        bool          `yaml:"async"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		Table            string        `yaml:"table"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Compliance struct {
		RulesPath string `yaml:"rules_path"`
		Policy    string `yaml:"policy"` // permissive or strict
	} `yaml:"compliance"`
	RateLimit struct {
		Enabled      bool    `yaml:"enabled"`
		Capacity     float64 `yaml:"capacity"`
		RefillPerSec float64 `yaml:"refill_per_sec"`
	} `yaml:"rate_limit"`
	Queue struct {
		Enabled    bool          `yaml:"enabled"` // background training over Redis
		Workers    int           `yaml:"workers"`
		RetryLimit int           `yaml:"retry_limit"`
		RetryDelay time.Duration `yaml:"retry_delay"`
		Prefix     string        `yaml:"prefix"`
	} `yaml:"queue"`
	LiveFeed struct {
		Enabled    bool `yaml:"enabled"`
		BufferSize int  `yaml:"buffer_size"`
	} `yaml:"live_feed"`
}

// Default returns a configuration that runs fully in-process: synthetic
// source, no model store, memory cache, no Kafka.
func Default() *Config {
	c := &Config{Environment: "development"}
	c.Server.Host = "0.0.0.0"
	c.Server.Port = 8080
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 30 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Server.CORS = true
	c.Metrics.Enabled = true
	c.Metrics.Path = "/metrics"
	c.Logging.Level = "info"
	c.Logging.Format = "console"
	c.Logging.Output = "stdout"
	c.Source.Type = "synthetic"
	c.Source.Seed = 42
	c.Pipeline.MaxRangeDays = 366
	c.Pipeline.Timeout = 30 * time.Second
	c.Models.Store = "none"
	c.Models.Path = "models/fishcast.db"
	c.Models.MaxTrainDays = 3660
	c.Cache.Backend = "memory"
	c.Cache.TTL = 10 * time.Minute
	c.Cache.MaxEntries = 1000
	c.Cache.RedisHost = "localhost"
	c.Cache.RedisPort = 6379
	c.Cache.Prefix = "fishcast"
	c.Kafka.Topic = "fishcast.prediction-runs"
	c.Kafka.RequiredAcks = -1
	c.Kafka.Compression = "snappy"
	c.ClickHouse.Port = 9000
	c.ClickHouse.Database = "default"
	c.ClickHouse.User = "default"
	c.ClickHouse.Table = "ocean_observations"
	c.Compliance.Policy = "permissive"
	c.RateLimit.Capacity = 20
	c.RateLimit.RefillPerSec = 5
	c.Queue.Workers = 1
	c.Queue.RetryLimit = 3
	c.Queue.RetryDelay = 30 * time.Second
	c.Queue.Prefix = "fishcast:queue"
	c.LiveFeed.Enabled = true
	c.LiveFeed.BufferSize = 16
	return c
}

// Load reads and parses a YAML configuration file on top of Default.
func Load(path string) (*Config, error) {
	c, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(b []byte) (*Config, error) {
	c, err := decode(b)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func readFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return decode(b)
}

func decode(b []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with FISHCAST_*
// environment variables. An empty path skips the file and starts from
// Default.
func LoadWithEnv(path string) (*Config, error) {
	c := Default()
	if path != "" {
		var err error
		if c, err = readFile(path); err != nil {
			return nil, err
		}
	}
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("FISHCAST_ENV", &c.Environment)
	str("FISHCAST_LOG_LEVEL", &c.Logging.Level)
	str("FISHCAST_SOURCE", &c.Source.Type)
	str("FISHCAST_MODEL_STORE", &c.Models.Store)
	str("FISHCAST_MODEL_PATH", &c.Models.Path)
	str("FISHCAST_CACHE_BACKEND", &c.Cache.Backend)
	str("FISHCAST_REDIS_HOST", &c.Cache.RedisHost)
	str("FISHCAST_REDIS_PASSWORD", &c.Cache.Password)
	str("FISHCAST_KAFKA_TOPIC", &c.Kafka.Topic)
	str("FISHCAST_CLICKHOUSE_HOST", &c.ClickHouse.Host)
	str("FISHCAST_CLICKHOUSE_PASSWORD", &c.ClickHouse.Password)
	str("FISHCAST_RULES_PATH", &c.Compliance.RulesPath)
	str("FISHCAST_COMPLIANCE_POLICY", &c.Compliance.Policy)

	if v, ok := lookup("FISHCAST_PORT"); ok && v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FISHCAST_PORT: %w", err)
		}
		c.Server.Port = p
	}
	if v, ok := lookup("FISHCAST_SEED"); ok && v != "" {
		s, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("FISHCAST_SEED: %w", err)
		}
		c.Source.Seed = s
	}
	if v, ok := lookup("FISHCAST_QUEUE_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("FISHCAST_QUEUE_ENABLED: %w", err)
		}
		c.Queue.Enabled = b
	}
	if v, ok := lookup("FISHCAST_KAFKA_BROKERS"); ok && v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if err := oneOf("source.type", c.Source.Type, "synthetic", "clickhouse"); err != nil {
		return err
	}
	if c.Source.Type == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when source.type is 'clickhouse'")
	}
	if c.Pipeline.MaxRangeDays <= 0 {
		return fmt.Errorf("pipeline.max_range_days must be positive")
	}
	if err := oneOf("models.store", c.Models.Store, "bolt", "cache", "none"); err != nil {
		return err
	}
	if c.Models.MaxTrainDays <= 0 {
		return fmt.Errorf("models.max_train_days must be positive")
	}
	if c.Models.Store == "bolt" && c.Models.Path == "" {
		return fmt.Errorf("models.path is required when models.store is 'bolt'")
	}
	if err := oneOf("cache.backend", c.Cache.Backend, "memory", "redis", "layered"); err != nil {
		return err
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka.topic is required when kafka is enabled")
		}
	}
	if err := oneOf("compliance.policy", c.Compliance.Policy, "permissive", "strict"); err != nil {
		return err
	}
	if c.Queue.Enabled && c.Queue.Workers <= 0 {
		return fmt.Errorf("queue.workers must be positive when the queue is enabled")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Capacity < 1 || c.RateLimit.RefillPerSec <= 0) {
		return fmt.Errorf("rate_limit needs capacity >= 1 and refill_per_sec > 0")
	}
	return nil
}

func oneOf(field, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of '%s', got '%s'", field, strings.Join(allowed, "', '"), v)
}
