package main

import (
	"flag"

	"github.com/lintang-b-s/pici/pkg/config"
	"github.com/lintang-b-s/pici/pkg/engine"
	"github.com/lintang-b-s/pici/pkg/logger"
	"go.uber.org/zap"
)

var (
	configFile  = flag.String("config", "./config.json", "planner config file (json, yaml or toml)")
	area        = flag.String("area", "", "area to preprocess, overrides the area key of the config file")
	mapFile     = flag.String("map", "", "osm extract (.osm.pbf, .osm or .osm.bz2), overrides the mapFile key")
	networkFile = flag.String("out", "./data/network.bz2", "network snapshot output file")
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
	if *mapFile != "" {
		cfg.MapFile = *mapFile
	}

	network, err := engine.LoadNetwork(cfg, logger)
	if err != nil {
		logger.Fatal("building network", zap.Error(err))
	}

	if err := engine.WriteNetwork(*networkFile, network); err != nil {
		logger.Fatal("writing network", zap.Error(err))
	}

	logger.Sugar().Infof("Preprocessing of %s completed successfully, network written to %s.", cfg.Area, *networkFile)
}
