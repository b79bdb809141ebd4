package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"FishCast/internal/di"
	internalrepo "FishCast/internal/repository"
	"FishCast/pkg/config"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fishctl",
		Short: "FishCast command line",
		Long: `fishctl drives the FishCast pipeline without the HTTP server: train
per-species models, run predictions and check a planned catch against the
compliance rules.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yaml", "config file path")

	root.AddCommand(trainCmd())
	root.AddCommand(predictCmd())
	root.AddCommand(checkCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithEnv(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// initCLI loads config and wires the use cases. The caller closes the bundle.
func initCLI() (*di.CLI, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	cli, err := di.InitializeCLI(cfg)
	if errors.Is(err, internalrepo.ErrModelStoreLocked) {
		return nil, fmt.Errorf("initialize: %w (model store is in use by a running server; use --async or the cache store)", err)
	}
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return cli, nil
}

// initProducer wires the enqueue-only bundle used by train --async.
func initProducer() (*di.Producer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	p, err := di.InitializeProducer(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return p, nil
}

// initInspector wires the compliance checker alone.
func initInspector() (*di.Inspector, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	in, err := di.InitializeInspector(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return in, nil
}
