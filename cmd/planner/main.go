package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"

	"github.com/lintang-b-s/pici/pkg/config"
	"github.com/lintang-b-s/pici/pkg/engine"
	"github.com/lintang-b-s/pici/pkg/engine/routing"
	"github.com/lintang-b-s/pici/pkg/logger"
	"go.uber.org/zap"
)

var (
	configFile  = flag.String("config", "./config.json", "planner config file (json, yaml or toml)")
	area        = flag.String("area", "", "area to plan, overrides the area key of the config file")
	networkFile = flag.String("network", "", "network snapshot written by the preprocessor. empty: parse the map file")
	outFile     = flag.String("out", "", "report output file. empty: stdout")
	numWorkers  = flag.Int("workers", 0, "goroutines computing region centers. 0: one per cpu")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	cfg, err := config.Load(*configFile, *area)
	if err != nil {
		logger.Fatal("loading config", zap.Error(err))
	}

	var network *engine.Network
	if *networkFile != "" {
		network, err = engine.ReadNetwork(*networkFile)
	} else {
		network, err = engine.LoadNetwork(cfg, logger)
	}
	if err != nil {
		logger.Fatal("loading network", zap.Error(err))
	}

	e, err := engine.NewEngine(cfg, network, *numWorkers, logger)
	if err != nil {
		logger.Fatal("starting engine", zap.Error(err))
	}

	report, err := e.Run(context.Background())
	if errors.Is(err, routing.ErrNoPathAvailable) {
		logger.Info("graph is fully connected, no paths suggested", zap.String("area", cfg.Area))
	} else if err != nil {
		logger.Fatal("planning", zap.Error(err))
	}

	var out io.Writer = os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			logger.Fatal("creating report file", zap.Error(err))
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		logger.Error("writing report", zap.Error(err))
	}
}
