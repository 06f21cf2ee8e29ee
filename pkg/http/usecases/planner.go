package usecases

import (
	"context"
	"errors"
	"math"

	"github.com/lintang-b-s/pici/pkg/engine"
	"github.com/lintang-b-s/pici/pkg/engine/routing"
	"github.com/lintang-b-s/pici/pkg/geo"
	"github.com/lintang-b-s/pici/pkg/util"
	"go.uber.org/zap"
)

var (
	ErrStrategyDisabled = errors.New("strategy is disabled")
	ErrNoNearbyRegion   = errors.New("no region near the given point")
)

type PlannerService struct {
	log          *zap.Logger
	engine       PlannerEngine
	spatialIndex SpatialIndex // over the friendly graph
	searchRadius float64      // degrees
	regionRank   map[int64]int
}

func NewPlannerService(log *zap.Logger, eng PlannerEngine, spatialIndex SpatialIndex,
	searchRadius float64) *PlannerService {
	regionRank := make(map[int64]int)
	for _, r := range eng.RegionSummaries(0) {
		for _, id := range r.Region.GetVertices() {
			regionRank[id] = r.Rank
		}
	}
	return &PlannerService{
		log:          log,
		engine:       eng,
		spatialIndex: spatialIndex,
		searchRadius: searchRadius,
		regionRank:   regionRank,
	}
}

func (ps *PlannerService) Regions(limit int) []engine.RegionSummary {
	return ps.engine.RegionSummaries(limit)
}

// NearestRegion returns the region of the friendly vertex closest to (lat, lon)
// within the search radius.
func (ps *PlannerService) NearestRegion(lat, lon float64) (engine.RegionSummary, error) {
	friendly := ps.engine.GetNetwork().Friendly

	rank, best := 0, math.Inf(1)
	for _, u := range ps.spatialIndex.SearchWithinRadius(lat, lon, ps.searchRadius) {
		vLat, vLon := friendly.GetVertexCoordinates(u)
		if d := geo.PlanarDistance(lat, lon, vLat, vLon); d < best {
			rank, best = ps.regionRank[friendly.VertexID(u)], d
		}
	}
	if rank == 0 {
		return engine.RegionSummary{}, util.WrapErrorf(ErrNoNearbyRegion, util.ErrNotFound,
			"no region within %.4f degrees of %f,%f", ps.searchRadius, lat, lon)
	}
	return ps.engine.RegionSummaries(rank)[rank-1], nil
}

func (ps *PlannerService) Suggestion(strategyName string) (*routing.Suggestion, error) {
	strategy, err := routing.ParseStrategy(strategyName)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "invalid strategy %q", strategyName)
	}
	if !ps.enabled(strategy) {
		return nil, util.WrapErrorf(ErrStrategyDisabled, util.ErrNotFound, "%s", strategy)
	}

	s, err := ps.engine.Suggest(strategy)
	if err != nil {
		return nil, ps.wrapPlannerError(err, string(strategy))
	}
	return s, nil
}

func (ps *PlannerService) Suggestions(ctx context.Context) (*engine.Report, error) {
	report, err := ps.engine.Run(ctx)
	if err != nil {
		return nil, ps.wrapPlannerError(err, "all strategies")
	}
	return report, nil
}

func (ps *PlannerService) enabled(strategy routing.Strategy) bool {
	for _, s := range ps.engine.EnabledStrategies() {
		if s == strategy {
			return true
		}
	}
	return false
}

func (ps *PlannerService) wrapPlannerError(err error, what string) error {
	switch {
	case errors.Is(err, routing.ErrNoPathAvailable), errors.Is(err, routing.ErrNoSuggestedPath):
		return util.WrapErrorf(err, util.ErrNotFound, "%s", what)
	default:
		ps.log.Error("planner failed", zap.String("strategy", what), zap.Error(err))
		return util.WrapErrorf(err, util.ErrInternalServerError, "%s: %s", what, util.MessageInternalServerError)
	}
}
