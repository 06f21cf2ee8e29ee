package main

import (
	"context"
	"flag"

	"github.com/lintang-b-s/pici/pkg/config"
	"github.com/lintang-b-s/pici/pkg/engine"
	"github.com/lintang-b-s/pici/pkg/http"
	"github.com/lintang-b-s/pici/pkg/http/usecases"
	"github.com/lintang-b-s/pici/pkg/logger"
	"github.com/lintang-b-s/pici/pkg/spatialindex"
	"go.uber.org/zap"
)

var (
	configFile   = flag.String("config", "./config.json", "planner config file (json, yaml or toml)")
	area         = flag.String("area", "", "area to serve, overrides the area key of the config file")
	networkFile  = flag.String("network", "./data/network.bz2", "network snapshot written by the preprocessor")
	searchRadius = flag.Float64("search_radius", 0.01, "radius in degrees of the nearest region lookup")
	useRateLimit = flag.Bool("rate_limit", false, "enable the per client rate limiter")
	numWorkers   = flag.Int("workers", 0, "goroutines computing region centers. 0: one per cpu")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	cfg, err := config.Load(*configFile, *area)
	if err != nil {
		panic(err)
	}

	network, err := engine.ReadNetwork(*networkFile)
	if err != nil {
		panic(err)
	}

	plannerEngine, err := engine.NewEngine(cfg, network, *numWorkers, logger)
	if err != nil {
		panic(err)
	}

	rtree := spatialindex.NewRtree()
	rtree.Build(network.Friendly, logger)

	api := http.NewServer(logger)

	plannerService := usecases.NewPlannerService(logger, plannerEngine, rtree, *searchRadius)
	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}
	api.Use(ctx, logger, *useRateLimit, plannerService)

	signal := http.GracefulShutdown()

	logger.Info("Cycle network planner server stopped", zap.String("signal", signal.String()))
	cleanup()
	if err := api.Wait(); err != nil && err != context.Canceled {
		logger.Error("API stopped with error", zap.Error(err))
	}
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
