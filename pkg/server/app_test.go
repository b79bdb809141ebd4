package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FishCast/internal/service/livefeed"
	"FishCast/internal/service/ratelimit"
	"FishCast/pkg/config"
	applogger "FishCast/pkg/logger"
)

func TestRunContextClosesResourcesInReverse(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = time.Second
	cfg.Metrics.Enabled = false

	var closed []string
	res := func(name string) Resource {
		return Resource{Name: name, Close: func() error {
			closed = append(closed, name)
			return nil
		}}
	}
	log := applogger.Nop()
	app := New(cfg, log, nil, livefeed.NewHub(log, 4), nil, ratelimit.New(5, 1), res("cache"), res("publisher"))
	require.NotNil(t, app.Server())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, app.RunContext(ctx))
	assert.Equal(t, []string{"publisher", "cache"}, closed)
}
