//go:build wireinject
// +build wireinject

package di

import (
	"FishCast/pkg/config"
	"FishCast/pkg/server"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideCache,
	ProvideClickHouseClient,
	ProvideKafkaProducer,
)

var repositorySet = wire.NewSet(
	ProvideOceanSource,
	ProvideModelStore,
	ProvidePredictionPublisher,
)

var usecaseSet = wire.NewSet(
	ProvideStats,
	ProvideComplianceRules,
	ProvidePipeline,
	ProvideTrainer,
	ProvideComplianceChecker,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		infraSet,
		repositorySet,
		usecaseSet,
		ProvideLiveFeed,
		ProvideRateLimiter,
		ProvideTrainQueue,
		ProvideHTTPHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeCLI wires the use cases without the HTTP surface.
func InitializeCLI(cfg *config.Config) (*CLI, error) {
	wire.Build(
		infraSet,
		repositorySet,
		usecaseSet,
		ProvideNoLiveFeed,
		ProvideTrainProducer,
		ProvideCLI,
	)
	return &CLI{}, nil
}

// InitializeProducer wires only what fishctl needs to enqueue training jobs.
func InitializeProducer(cfg *config.Config) (*Producer, error) {
	wire.Build(
		ProvideLogger,
		ProvideTrainProducer,
		ProvideProducer,
	)
	return &Producer{}, nil
}

// InitializeInspector wires the compliance checker on its own.
func InitializeInspector(cfg *config.Config) (*Inspector, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideStats,
		ProvideComplianceRules,
		ProvideComplianceChecker,
		ProvideInspector,
	)
	return &Inspector{}, nil
}
