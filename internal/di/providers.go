package di

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"

	"FishCast/internal/domain/repository"
	domsvc "FishCast/internal/domain/service"
	"FishCast/internal/handler/api"
	internalrepo "FishCast/internal/repository"
	"FishCast/internal/service/livefeed"
	"FishCast/internal/service/ratelimit"
	"FishCast/internal/services/compliance"
	"FishCast/internal/services/estimator"
	"FishCast/internal/usecase"
	"FishCast/pkg/cache"
	pkgch "FishCast/pkg/clickhouse"
	"FishCast/pkg/config"
	xhttp "FishCast/pkg/http"
	pkgkafka "FishCast/pkg/kafka"
	applogger "FishCast/pkg/logger"
	"FishCast/pkg/metrics"
	"FishCast/pkg/queue"
	"FishCast/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the response cache for the configured backend.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	memory := func() *cache.MemoryCache {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MaxEntries))
	}
	switch cfg.Cache.Backend {
	case "redis", "layered":
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.RedisHost),
			cache.WithRedisPort(cfg.Cache.RedisPort),
			cache.WithRedisPassword(cfg.Cache.Password),
			cache.WithRedisDB(cfg.Cache.RedisDB),
			cache.WithRedisPrefix(cfg.Cache.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		if cfg.Cache.Backend == "layered" {
			return cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(cfg.Cache.MaxEntries)), nil
		}
		return rc, nil
	default:
		return memory(), nil
	}
}

// ProvideClickHouseClient connects to ClickHouse when it is the ocean source.
// Other sources get a nil client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Source.Type != "clickhouse" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideOceanSource picks the synthetic generator or the ClickHouse store
// behind a circuit breaker.
func ProvideOceanSource(cfg *config.Config, ch *pkgch.Client, l *applogger.Logger) (repository.OceanSource, error) {
	if cfg.Source.Type != "clickhouse" {
		return internalrepo.NewSyntheticSource(cfg.Source.Seed), nil
	}
	store, err := internalrepo.NewCHOceanStore(ch, cfg.ClickHouse.Table, l)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return internalrepo.NewBreakerSource("clickhouse-ocean", store, internalrepo.DefaultBreakerSettings(), l), nil
}

// ProvideModelStore opens the configured artifact store.
func ProvideModelStore(cfg *config.Config, c cache.Service) (repository.ModelStore, error) {
	switch cfg.Models.Store {
	case "bolt":
		s, err := internalrepo.OpenBoltModelStore(cfg.Models.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "cache":
		return internalrepo.NewCacheModelStore(c), nil
	default:
		return internalrepo.NoModelStore{}, nil
	}
}

// ProvideKafkaProducer creates a producer when Kafka is enabled, nil otherwise.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePredictionPublisher publishes runs to Kafka, or drops them when Kafka
// is disabled.
func ProvidePredictionPublisher(cfg *config.Config, producer *pkgkafka.Producer) repository.PredictionPublisher {
	if producer == nil {
		return internalrepo.NoopPublisher{}
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideLiveFeed creates the WebSocket hub, nil when disabled.
func ProvideLiveFeed(cfg *config.Config, l *applogger.Logger) *livefeed.Hub {
	if !cfg.LiveFeed.Enabled {
		return nil
	}
	return livefeed.NewHub(l, cfg.LiveFeed.BufferSize)
}

// ProvideNoLiveFeed is used by the CLI, which has no dashboards to feed.
func ProvideNoLiveFeed() *livefeed.Hub { return nil }

// ProvideStats creates the dashboard counters.
func ProvideStats() *usecase.Stats {
	return usecase.NewStats()
}

// ProvideComplianceRules loads the rules file under the configured policy.
func ProvideComplianceRules(cfg *config.Config, l *applogger.Logger) (*compliance.Checker, error) {
	res := compliance.LoadRules(cfg.Compliance.RulesPath)
	rules, fallback, err := compliance.Resolve(res, compliance.Policy(cfg.Compliance.Policy))
	if err != nil {
		return nil, err
	}
	if fallback {
		l.Warn("compliance rules unavailable, using built-in defaults",
			applogger.String("status", res.Status.String()),
			applogger.String("path", cfg.Compliance.RulesPath),
			applogger.Error(res.Err))
	}
	return compliance.NewChecker(rules), nil
}

// ProvidePipeline creates the prediction use case.
func ProvidePipeline(
	cfg *config.Config,
	source repository.OceanSource,
	store repository.ModelStore,
	pub repository.PredictionPublisher,
	hub *livefeed.Hub,
	m repository.Metrics,
	stats *usecase.Stats,
	l *applogger.Logger,
) *usecase.PredictionPipeline {
	var feed domsvc.LiveFeed
	if hub != nil {
		feed = hub
	}
	return usecase.NewPredictionPipeline(source, store, pub, feed, m, stats, l, usecase.PipelineConfig{
		MaxRangeDays: cfg.Pipeline.MaxRangeDays,
		Timeout:      cfg.Pipeline.Timeout,
	})
}

// ProvideTrainer creates the training use case.
func ProvideTrainer(
	cfg *config.Config,
	source repository.OceanSource,
	store repository.ModelStore,
	c cache.Service,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.Trainer {
	opts := estimator.DefaultTrainOptions()
	if cfg.Models.Ridge > 0 {
		opts.Ridge = cfg.Models.Ridge
	}
	return usecase.NewTrainer(source, store, c, m, l, opts, usecase.WithMaxTrainDays(cfg.Models.MaxTrainDays))
}

// ProvideComplianceChecker creates the compliance use case.
func ProvideComplianceChecker(checker *compliance.Checker, stats *usecase.Stats, m repository.Metrics) *usecase.ComplianceChecker {
	return usecase.NewComplianceChecker(checker, stats, m)
}

// ProvideRateLimiter creates the per-client limiter, nil when disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

func newQueueRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Cache.RedisHost, cfg.Cache.RedisPort),
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.RedisDB,
	})
}

func queueConfig(cfg *config.Config) queue.Config {
	return queue.Config{
		Workers:    cfg.Queue.Workers,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}
}

// ProvideTrainQueue creates the background training queue with its worker
// registered, nil when disabled. The App starts it.
func ProvideTrainQueue(cfg *config.Config, l *applogger.Logger, trainer *usecase.Trainer) *queue.RedisQueue {
	if !cfg.Queue.Enabled {
		return nil
	}
	q := queue.NewRedisQueue(l, queueConfig(cfg), newQueueRedis(cfg), queue.ModeProducerConsumer,
		queue.WithKeyPrefix(cfg.Queue.Prefix))
	q.RegisterJob(usecase.NewTrainJob(trainer))
	return q
}

// ProvideTrainProducer creates a producer-only queue for the CLI, nil when
// disabled. The caller starts it.
func ProvideTrainProducer(cfg *config.Config, l *applogger.Logger) *queue.RedisQueue {
	if !cfg.Queue.Enabled {
		return nil
	}
	return queue.NewRedisQueue(l, queueConfig(cfg), newQueueRedis(cfg), queue.ModeProducerOnly,
		queue.WithKeyPrefix(cfg.Queue.Prefix))
}

// ProvideHTTPHandler assembles the API handler and its optional features.
func ProvideHTTPHandler(
	cfg *config.Config,
	l *applogger.Logger,
	pipeline *usecase.PredictionPipeline,
	checker *usecase.ComplianceChecker,
	stats *usecase.Stats,
	c cache.Service,
	limiter *ratelimit.Limiter,
	hub *livefeed.Hub,
	jobs *queue.RedisQueue,
	ch *pkgch.Client,
) xhttp.Handler {
	opts := []api.Option{api.WithCache(c, cfg.Cache.TTL)}
	if limiter != nil {
		opts = append(opts, api.WithRateLimit(limiter))
	}
	if hub != nil {
		opts = append(opts, api.WithLiveFeed(hub))
	}
	if jobs != nil {
		opts = append(opts, api.WithTrainQueue(jobs, cfg.Models.MaxTrainDays))
	}
	if ch != nil {
		opts = append(opts, api.WithHealthCheck("clickhouse", ch.Health))
	}
	if rc, ok := c.(*cache.RedisCache); ok {
		opts = append(opts, api.WithHealthCheck("redis", func(ctx context.Context) error {
			return rc.Client().Ping(ctx).Err()
		}))
	}
	return api.NewHandler(l, pipeline, checker, stats, opts...)
}

// resources lists every closable client in start order.
func resources(c cache.Service, ch *pkgch.Client, store repository.ModelStore, pub repository.PredictionPublisher) []server.Resource {
	out := []server.Resource{{Name: "cache", Close: c.Close}}
	if ch != nil {
		out = append(out, server.Resource{Name: "clickhouse", Close: ch.Close})
	}
	if closer, ok := store.(io.Closer); ok {
		out = append(out, server.Resource{Name: "model store", Close: closer.Close})
	}
	out = append(out, server.Resource{Name: "publisher", Close: pub.Close})
	return out
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	hub *livefeed.Hub,
	jobs *queue.RedisQueue,
	limiter *ratelimit.Limiter,
	c cache.Service,
	ch *pkgch.Client,
	store repository.ModelStore,
	pub repository.PredictionPublisher,
) *server.App {
	return server.New(cfg, l, handler, hub, jobs, limiter, resources(c, ch, store, pub)...)
}

// CLI bundles the use cases fishctl drives directly.
type CLI struct {
	Log        *applogger.Logger
	Pipeline   *usecase.PredictionPipeline
	Trainer    *usecase.Trainer
	Compliance *usecase.ComplianceChecker
	Jobs       *queue.RedisQueue
	resources  []server.Resource
}

// Close releases every client opened for the CLI.
func (c *CLI) Close() {
	if c.Jobs != nil {
		_ = c.Jobs.Close()
	}
	for i := len(c.resources) - 1; i >= 0; i-- {
		if err := c.resources[i].Close(); err != nil {
			c.Log.Warn("close error", applogger.String("resource", c.resources[i].Name), applogger.Error(err))
		}
	}
}

// ProvideCLI creates the CLI bundle.
func ProvideCLI(
	l *applogger.Logger,
	pipeline *usecase.PredictionPipeline,
	trainer *usecase.Trainer,
	checker *usecase.ComplianceChecker,
	jobs *queue.RedisQueue,
	c cache.Service,
	ch *pkgch.Client,
	store repository.ModelStore,
	pub repository.PredictionPublisher,
) *CLI {
	return &CLI{
		Log:        l,
		Pipeline:   pipeline,
		Trainer:    trainer,
		Compliance: checker,
		Jobs:       jobs,
		resources:  resources(c, ch, store, pub),
	}
}

// Producer is the slice of the CLI that only enqueues training jobs. It opens
// no model store, so it works while a server holds the store file.
type Producer struct {
	Log  *applogger.Logger
	Jobs *queue.RedisQueue
}

// Close releases the queue client.
func (p *Producer) Close() {
	if p.Jobs != nil {
		_ = p.Jobs.Close()
	}
}

// ProvideProducer creates the enqueue-only bundle.
func ProvideProducer(l *applogger.Logger, jobs *queue.RedisQueue) *Producer {
	return &Producer{Log: l, Jobs: jobs}
}

// Inspector runs compliance checks without touching data or model stores.
type Inspector struct {
	Log        *applogger.Logger
	Compliance *usecase.ComplianceChecker
}

// ProvideInspector creates the compliance-only bundle.
func ProvideInspector(l *applogger.Logger, checker *usecase.ComplianceChecker) *Inspector {
	return &Inspector{Log: l, Compliance: checker}
}
