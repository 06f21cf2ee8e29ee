package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/pici/pkg"
	"github.com/lintang-b-s/pici/pkg/config"
	"github.com/lintang-b-s/pici/pkg/datastructure"
	"github.com/lintang-b-s/pici/pkg/engine/routing"
	"github.com/lintang-b-s/pici/pkg/geo"
	"github.com/lintang-b-s/pici/pkg/osmparser"
	"github.com/lintang-b-s/pici/pkg/spatialindex"
	"github.com/lintang-b-s/pici/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Network holds the two graphs of one area after proximity linking, plus the
// town centre used by the centreTown strategy.
type Network struct {
	Centre   geo.Coordinate
	Complete *datastructure.Graph
	Friendly *datastructure.Graph
}

// BuildNetwork turns parsed map data into the complete graph (every way) and the
// cycle friendly graph (ways at or above the configured threshold).
func BuildNetwork(cfg *config.Config, data *osmparser.MapData, logger *zap.Logger) (*Network, error) {
	centre, err := resolveCentre(cfg, data)
	if err != nil {
		return nil, err
	}

	scorer, err := cfg.NewScorer()
	if err != nil {
		return nil, err
	}

	bbox := cfg.BoundingBox.ToBoundingBox()
	builder := osmparser.NewGraphBuilder(data.Nodes, bbox, logger)

	logger.Sugar().Infof("Building complete graph from %d ways...", len(data.Ways))
	complete, err := builder.Build(scorer.Filter(data.Ways, 0))
	if err != nil {
		return nil, err
	}

	friendlyWays := scorer.FilterDefault(data.Ways)
	logger.Sugar().Infof("Building cycle friendly graph from %d of %d ways (threshold %.2f)...",
		len(friendlyWays), len(data.Ways), scorer.Threshold())
	friendly, err := builder.Build(friendlyWays)
	if err != nil {
		return nil, err
	}

	linker := spatialindex.NewProximityLinker(logger)
	complete, err = linker.Connect(complete, cfg.NeighbourEps)
	if err != nil {
		return nil, err
	}
	friendly, err = linker.Connect(friendly, cfg.NeighbourEps)
	if err != nil {
		return nil, err
	}

	logger.Info("network built",
		zap.Int("completeVertices", complete.NumberOfVertices()),
		zap.Int("completeEdges", complete.NumberOfEdges()),
		zap.Int("friendlyVertices", friendly.NumberOfVertices()),
		zap.Int("friendlyEdges", friendly.NumberOfEdges()))

	return &Network{
		Centre:   centre,
		Complete: complete,
		Friendly: friendly,
	}, nil
}

// LoadNetwork parses cfg.MapFile and builds the network of the configured area.
func LoadNetwork(cfg *config.Config, logger *zap.Logger) (*Network, error) {
	parser := osmparser.NewOSMParser()
	parser.SetHighwayOnly(cfg.HighwayOnly)
	if cfg.TownCentre == nil {
		parser.KeepNode(cfg.BoundingBox.NodeID)
	}

	data, err := parser.Parse(cfg.MapFile, cfg.BoundingBox.ToBoundingBox(), logger)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", cfg.MapFile, err)
	}
	return BuildNetwork(cfg, data, logger)
}

func resolveCentre(cfg *config.Config, data *osmparser.MapData) (geo.Coordinate, error) {
	if cfg.TownCentre != nil {
		return geo.NewCoordinate(cfg.TownCentre.Lat, cfg.TownCentre.Lon), nil
	}
	node, err := data.Node(cfg.BoundingBox.NodeID)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: town centre of %s: %v", config.ErrConfiguration, cfg.Area, err)
	}
	return geo.NewCoordinate(node.Lat, node.Lon), nil
}

// RegionSummary describes one region of the cycle friendly graph.
type RegionSummary struct {
	Rank     int                   `json:"rank"`
	Vertices int                   `json:"vertices"`
	Area     float64               `json:"area"`
	South    float64               `json:"south"`
	West     float64               `json:"west"`
	North    float64               `json:"north"`
	East     float64               `json:"east"`
	Centre   geo.Coordinate        `json:"centre"`
	Length   float64               `json:"length"`
	Region   *datastructure.Region `json:"-"`
}

// Report is the outcome of one planning run.
type Report struct {
	Area        string                `json:"area"`
	Regions     []RegionSummary       `json:"regions"`
	Suggestions []*routing.Suggestion `json:"suggestions"`
	Failures    map[string]string     `json:"failures,omitempty"`
}

type Engine struct {
	cfg        *config.Config
	network    *Network
	regions    []*datastructure.Region
	planner    *routing.Planner // nil with fewer than two regions
	cache      *lru.Cache[routing.Strategy, *routing.Suggestion]
	numWorkers int
	logger     *zap.Logger
}

// NewEngine finds the regions of the friendly graph and prepares the planner.
// a network with a single region is not an error here: Suggest and Run return
// routing.ErrNoPathAvailable instead.
func NewEngine(cfg *config.Config, network *Network, numWorkers int, logger *zap.Logger) (*Engine, error) {
	logger.Info("Finding regions of the cycle friendly graph...")
	regions := network.Friendly.FindRegions()
	logger.Info("regions found", zap.Int("count", len(regions)))

	cache, err := lru.New[routing.Strategy, *routing.Suggestion](pkg.SUGGESTION_CACHE_SIZE)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:        cfg,
		network:    network,
		regions:    regions,
		cache:      cache,
		numWorkers: numWorkers,
		logger:     logger,
	}

	planner, err := routing.NewPlanner(network.Complete, network.Friendly, regions, network.Centre,
		numWorkers, logger)
	switch {
	case errors.Is(err, routing.ErrNoPathAvailable):
		logger.Warn("nothing to suggest, the cycle friendly graph has a single region")
	case err != nil:
		return nil, err
	default:
		e.planner = planner
	}
	return e, nil
}

func (e *Engine) GetRoutingEngine() *routing.Planner {
	return e.planner
}

func (e *Engine) GetNetwork() *Network {
	return e.network
}

func (e *Engine) GetConfig() *config.Config {
	return e.cfg
}

func (e *Engine) Regions() []*datastructure.Region {
	return e.regions
}

// RegionSummaries returns the first limit regions, largest first. limit <= 0
// returns all of them.
func (e *Engine) RegionSummaries(limit int) []RegionSummary {
	n := len(e.regions)
	if limit > 0 && limit < n {
		n = limit
	}
	summaries := make([]RegionSummary, 0, n)
	for i, r := range e.regions[:n] {
		bb := r.GetBoundingBox()
		summaries = append(summaries, RegionSummary{
			Rank:     i + 1,
			Vertices: r.Size(),
			Area:     r.GetArea(),
			South:    bb.GetMinLat(),
			West:     bb.GetMinLon(),
			North:    bb.GetMaxLat(),
			East:     bb.GetMaxLon(),
			Centre: geo.NewCoordinate((bb.GetMinLat()+bb.GetMaxLat())/2,
				(bb.GetMinLon()+bb.GetMaxLon())/2),
			Length: r.GetEdgeLength(),
			Region: r,
		})
	}
	return summaries
}

// EnabledStrategies lists the strategies switched on in the configuration, in the
// fixed order overall, centreTown, centreLocal, existingPaths.
func (e *Engine) EnabledStrategies() []routing.Strategy {
	enabled := make([]routing.Strategy, 0, 4)
	for _, s := range routing.Strategies() {
		if e.cfg.StrategyEnabled(string(s)) {
			enabled = append(enabled, s)
		}
	}
	return enabled
}

// Suggest returns the suggestion of one strategy. the network never changes
// once the engine is built, so a computed suggestion is served from the cache
// afterwards. failures are not cached.
func (e *Engine) Suggest(strategy routing.Strategy) (*routing.Suggestion, error) {
	if e.planner == nil {
		return nil, routing.ErrNoPathAvailable
	}
	if s, ok := e.cache.Get(strategy); ok {
		return s, nil
	}
	s, err := e.planner.Suggest(strategy)
	if err != nil {
		return nil, err
	}
	e.cache.Add(strategy, s)
	return s, nil
}

// Run suggests a path for every enabled strategy. strategies run concurrently;
// a strategy that finds no path is reported in Failures without stopping the
// others. with a single region the report holds the regions only and the error
// is routing.ErrNoPathAvailable.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		Area:        e.cfg.Area,
		Regions:     e.RegionSummaries(0),
		Suggestions: make([]*routing.Suggestion, 0),
		Failures:    make(map[string]string),
	}
	if e.planner == nil {
		return report, routing.ErrNoPathAvailable
	}

	strategies := e.EnabledStrategies()
	results := make([]*routing.Suggestion, len(strategies))

	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	for i, strategy := range strategies {
		i, strategy := i, strategy
		g.Go(func() error {
			if util.StopConcurrentOperation(gCtx) {
				return gCtx.Err()
			}
			s, err := e.Suggest(strategy)
			if errors.Is(err, routing.ErrNoSuggestedPath) {
				e.logger.Warn("no suggested path", zap.String("strategy", string(strategy)), zap.Error(err))
				mu.Lock()
				report.Failures[string(strategy)] = err.Error()
				mu.Unlock()
				return nil
			}
			if err != nil {
				e.logger.Error("strategy failed", zap.String("strategy", string(strategy)), zap.Error(err))
				return err
			}
			e.logger.Info("path suggested",
				zap.String("strategy", string(strategy)),
				zap.Int64("source", s.Source),
				zap.Int64("target", s.Target),
				zap.Float64("distance", s.Distance))
			results[i] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, s := range results {
		if s != nil {
			report.Suggestions = append(report.Suggestions, s)
		}
	}
	return report, nil
}
