// Package main is the entry point for the cluster scheduler Lambda function.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/neptune"

	"github.com/wizeline/neptune-scheduler/internal/cluster"
	"github.com/wizeline/neptune-scheduler/internal/config"
	"github.com/wizeline/neptune-scheduler/internal/handler"
	"github.com/wizeline/neptune-scheduler/internal/logging"
)

type app struct {
	dispatcher *handler.Dispatcher
	warmer     *warmer
}

func main() {
	ctx := context.Background()

	a, err := bootstrap(ctx)
	if err != nil {
		logging.New(slog.LevelError, os.Getenv(config.EnvEnvironment)).Error("startup failed", "error", err)
		os.Exit(1)
	}

	lambda.Start(a.handleRequest)
}

// bootstrap reads configuration and builds the shared clients. It fails
// before any AWS call when configuration is incomplete.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.LogLevel, cfg.Environment)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	controller := cluster.NewWithClient(neptune.NewFromConfig(awsCfg), cfg.ClusterIdentifier)
	logger.Info("scheduler initialised", slog.String("cluster", cfg.ClusterIdentifier))

	return &app{
		dispatcher: handler.New(controller, logger),
		warmer:     newWarmer(lambdasdk.NewFromConfig(awsCfg), logger),
	}, nil
}

func (a *app) handleRequest(ctx context.Context, event json.RawMessage) (interface{}, error) {
	// Warmup detection (MUST be first - before any other processing)
	if warmup, ok := IsWarmupEvent(event); ok {
		return a.warmer.Handle(ctx, warmup)
	}

	return nil, a.dispatcher.Handle(ctx, event)
}
