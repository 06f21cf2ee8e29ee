package routing

import (
	"errors"
	"fmt"
	"math"

	"github.com/lintang-b-s/pici/pkg/costfunction"
	da "github.com/lintang-b-s/pici/pkg/datastructure"
	"github.com/lintang-b-s/pici/pkg/geo"
	"go.uber.org/zap"
)

// Suggestion is a new path proposed to join the two largest regions.
type Suggestion struct {
	Strategy Strategy      `json:"strategy"`
	Source   int64         `json:"source"`
	Target   int64         `json:"target"`
	Distance float64       `json:"distance"` // meter, trimmed path
	Cost     float64       `json:"cost"`     // search cost of the untrimmed path
	Path     []da.EdgePair `json:"path"`
	Polyline string        `json:"polyline"`
}

// Planner searches the complete graph for paths between the two largest regions
// of the cycle friendly graph.
type Planner struct {
	complete   *da.Graph
	friendly   *da.Graph
	from       *da.Region
	to         *da.Region
	centre     geo.Coordinate
	numWorkers int
	logger     *zap.Logger
}

// NewPlanner returns ErrNoPathAvailable when there are fewer than two regions.
// regions must be ordered largest first.
func NewPlanner(complete, friendly *da.Graph, regions []*da.Region, centre geo.Coordinate,
	numWorkers int, logger *zap.Logger) (*Planner, error) {
	if len(regions) < 2 {
		return nil, ErrNoPathAvailable
	}
	return &Planner{
		complete:   complete,
		friendly:   friendly,
		from:       regions[0],
		to:         regions[1],
		centre:     centre,
		numWorkers: numWorkers,
		logger:     logger,
	}, nil
}

func (p *Planner) GetFromRegion() *da.Region {
	return p.from
}

func (p *Planner) GetToRegion() *da.Region {
	return p.to
}

func (p *Planner) Suggest(strategy Strategy) (*Suggestion, error) {
	switch strategy {
	case STRATEGY_OVERALL:
		return p.Overall()
	case STRATEGY_CENTRE_TOWN:
		return p.CentreTown()
	case STRATEGY_CENTRE_LOCAL:
		return p.CentreLocal()
	case STRATEGY_EXISTING_PATHS:
		return p.ExistingPaths()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, strategy)
	}
}

// Overall is the shortest path from any vertex of the first region to any vertex
// of the second.
func (p *Planner) Overall() (*Suggestion, error) {
	return p.search(STRATEGY_OVERALL, costfunction.NewDistanceCostFunction(),
		p.from.GetVertices(), p.to.GetVertices())
}

// ExistingPaths is Overall with cycle friendly edges for free.
func (p *Planner) ExistingPaths() (*Suggestion, error) {
	return p.search(STRATEGY_EXISTING_PATHS, costfunction.NewExistingPathsCostFunction(p.friendly),
		p.from.GetVertices(), p.to.GetVertices())
}

// CentreTown joins the vertices of both regions closest to the town centre.
func (p *Planner) CentreTown() (*Suggestion, error) {
	s, err := NearestVertex(p.complete, p.from.GetVertices(), p.centre.GetLat(), p.centre.GetLon())
	if err != nil {
		return nil, p.fatal(STRATEGY_CENTRE_TOWN, err)
	}
	t, err := NearestVertex(p.complete, p.to.GetVertices(), p.centre.GetLat(), p.centre.GetLon())
	if err != nil {
		return nil, p.fatal(STRATEGY_CENTRE_TOWN, err)
	}
	return p.search(STRATEGY_CENTRE_TOWN, costfunction.NewDistanceCostFunction(), []int64{s}, []int64{t})
}

// CentreLocal joins the graph centers of both regions.
func (p *Planner) CentreLocal() (*Suggestion, error) {
	s, err := p.localCentre(p.from)
	if err != nil {
		return nil, p.fatal(STRATEGY_CENTRE_LOCAL, err)
	}
	t, err := p.localCentre(p.to)
	if err != nil {
		return nil, p.fatal(STRATEGY_CENTRE_LOCAL, err)
	}
	return p.search(STRATEGY_CENTRE_LOCAL, costfunction.NewDistanceCostFunction(), []int64{s}, []int64{t})
}

func (p *Planner) localCentre(region *da.Region) (int64, error) {
	center, ecc, err := GraphCenter(p.friendly, region, p.numWorkers)
	if err != nil {
		return 0, err
	}
	u, err := p.friendly.MustIndexOf(center)
	if err != nil {
		return 0, err
	}
	lat, lon := p.friendly.GetVertexCoordinates(u)
	p.logger.Debug("region center",
		zap.Int64("vertex", center), zap.Float64("eccentricity", ecc), zap.Int("regionSize", region.Size()))
	return NearestVertex(p.friendly, region.GetVertices(), lat, lon)
}

func (p *Planner) search(strategy Strategy, cf costfunction.CostFunction, sources, targets []int64) (*Suggestion, error) {
	us := NewDijkstra(p.complete, cf)
	cost, nodes, err := us.ShortestPath(sources, targets)
	if err != nil {
		return nil, p.fatal(strategy, err)
	}
	p.logger.Debug("shortest path search done",
		zap.String("strategy", string(strategy)), zap.Int("settledNodes", us.GetNumberOfSettledNodes()))
	if math.IsInf(cost, 1) {
		return nil, fmt.Errorf("%s: %w: second region unreachable", strategy, ErrNoSuggestedPath)
	}

	trimmed, err := TrimPath(ToEdgePairs(nodes), p.from, p.to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", strategy, err)
	}

	dist, err := p.complete.PathLength(trimmed)
	if err != nil {
		return nil, p.fatal(strategy, err)
	}

	return &Suggestion{
		Strategy: strategy,
		Source:   trimmed[0].From,
		Target:   trimmed[len(trimmed)-1].To,
		Distance: dist,
		Cost:     cost,
		Path:     trimmed,
		Polyline: geo.PolylineFromCoords(p.pathCoordinates(trimmed)),
	}, nil
}

func (p *Planner) pathCoordinates(path []da.EdgePair) []geo.Coordinate {
	coords := make([]geo.Coordinate, 0, len(path)+1)
	appendVertex := func(id int64) {
		u, ok := p.complete.IndexOf(id)
		if !ok {
			return
		}
		lat, lon := p.complete.GetVertexCoordinates(u)
		coords = append(coords, geo.NewCoordinate(lat, lon))
	}
	if len(path) > 0 {
		appendVertex(path[0].From)
	}
	for _, e := range path {
		appendVertex(e.To)
	}
	return coords
}

// fatal logs lookups of vertices or edges missing from a graph built by this
// package. they point at a construction defect.
func (p *Planner) fatal(strategy Strategy, err error) error {
	if errors.Is(err, da.ErrVertexNotFound) || errors.Is(err, da.ErrEdgeNotFound) {
		p.logger.Error("graph lookup failed during search", zap.String("strategy", string(strategy)), zap.Error(err))
	}
	return fmt.Errorf("%s: %w", strategy, err)
}
