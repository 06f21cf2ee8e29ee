package usecases

import (
	"context"

	"github.com/lintang-b-s/pici/pkg/datastructure"
	"github.com/lintang-b-s/pici/pkg/engine"
	"github.com/lintang-b-s/pici/pkg/engine/routing"
)

type PlannerEngine interface {
	GetNetwork() *engine.Network
	RegionSummaries(limit int) []engine.RegionSummary
	EnabledStrategies() []routing.Strategy
	Suggest(strategy routing.Strategy) (*routing.Suggestion, error)
	Run(ctx context.Context) (*engine.Report, error)
}

type SpatialIndex interface {
	SearchWithinRadius(qLat, qLon, radius float64) []datastructure.Index
}
