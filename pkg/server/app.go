package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FishCast/internal/service/livefeed"
	"FishCast/internal/service/ratelimit"
	"FishCast/pkg/config"
	xhttp "FishCast/pkg/http"
	applogger "FishCast/pkg/logger"
	"FishCast/pkg/queue"
)

// Resource is an infrastructure client closed on shutdown.
type Resource struct {
	Name  string
	Close func() error
}

// App encapsulates the service lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	hub        *livefeed.Hub
	jobs       *queue.RedisQueue
	limiter    *ratelimit.Limiter
	resources  []Resource
}

// New creates an App. hub, jobs and limiter may be nil. Resources are closed
// in reverse order.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	hub *livefeed.Hub,
	jobs *queue.RedisQueue,
	limiter *ratelimit.Limiter,
	resources ...Resource,
) *App {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	srv := xhttp.NewServer(handler,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(log),
	)
	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: srv,
		hub:        hub,
		jobs:       jobs,
		limiter:    limiter,
		resources:  resources,
	}
}

// Server exposes the HTTP server, mainly for tests.
func (a *App) Server() *xhttp.Server { return a.httpServer }

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	bg, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.hub != nil {
		go a.hub.RunWithContext(bg)
		a.log.Info("live feed started", applogger.String("path", livefeed.Path))
	}
	if a.limiter != nil {
		go a.sweepLimiter(bg)
	}
	if a.jobs != nil {
		if err := a.jobs.Start(); err != nil {
			a.log.Error("training queue start error", applogger.Error(err))
			a.closeResources()
			return err
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("fishcast started",
		applogger.String("env", a.cfg.Environment),
		applogger.String("source", a.cfg.Source.Type),
		applogger.String("model_store", a.cfg.Models.Store),
		applogger.String("cache", a.cfg.Cache.Backend),
		applogger.Bool("kafka", a.cfg.Kafka.Enabled),
		applogger.Bool("queue", a.cfg.Queue.Enabled),
	)

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) sweepLimiter(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.limiter.Sweep(10 * time.Minute); n > 0 {
				a.log.Debug("rate limiter swept", applogger.Int("buckets", n))
			}
		}
	}
}

// shutdown stops intake first, then background work, then clients.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}
	if a.jobs != nil {
		if err := a.jobs.Stop(ctx); err != nil {
			a.log.Warn("training queue stop error", applogger.Error(err))
		}
		if err := a.jobs.Close(); err != nil {
			a.log.Warn("training queue close error", applogger.Error(err))
		}
	}
	a.closeResources()
	a.log.Info("shutdown complete")
	return nil
}

func (a *App) closeResources() {
	for i := len(a.resources) - 1; i >= 0; i-- {
		r := a.resources[i]
		if err := r.Close(); err != nil {
			a.log.Warn("close error", applogger.String("resource", r.Name), applogger.Error(err))
		}
	}
}
