package routing

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/lintang-b-s/pici/pkg/concurrent"
	"github.com/lintang-b-s/pici/pkg/costfunction"
	da "github.com/lintang-b-s/pici/pkg/datastructure"
	"github.com/lintang-b-s/pici/pkg/geo"
)

var ErrEmptyRegion = errors.New("region has no vertices")

type eccentricity struct {
	id    int64
	value float64
	err   error
}

// GraphCenter returns the 1-center of region in g: the member vertex with the
// smallest eccentricity under edge length, ties broken by the smallest id.
// region must be a connected component of g. eccentricities are computed on
// numWorkers goroutines, each with its own dijkstra.
func GraphCenter(g *da.Graph, region *da.Region, numWorkers int) (int64, float64, error) {
	members := region.GetVertices()
	if len(members) == 0 {
		return 0, 0, ErrEmptyRegion
	}

	pool := sync.Pool{
		New: func() any {
			return NewDijkstra(g, costfunction.NewDistanceCostFunction())
		},
	}

	results := concurrent.Run(numWorkers, members, func(id int64) eccentricity {
		us := pool.Get().(*Dijkstra)
		defer pool.Put(us)

		costs, err := us.ShortestPathTree(id)
		if err != nil {
			return eccentricity{id: id, err: err}
		}
		ecc := 0.0
		for _, v := range members {
			vIdx, _ := g.IndexOf(v)
			ecc = math.Max(ecc, costs[vIdx])
		}
		return eccentricity{id: id, value: ecc}
	})

	center, best := int64(0), math.Inf(1)
	found := false
	for _, r := range results {
		if r.err != nil {
			return 0, 0, fmt.Errorf("eccentricity of %d: %w", r.id, r.err)
		}
		if !found || r.value < best || (r.value == best && r.id < center) {
			center, best = r.id, r.value
			found = true
		}
	}
	return center, best, nil
}

// NearestVertex returns the vertex of ids closest to (lat, lon) in degree space.
// ties go to the vertex listed first.
func NearestVertex(g *da.Graph, ids []int64, lat, lon float64) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrEmptyRegion
	}

	nearest, best := int64(0), math.Inf(1)
	for _, id := range ids {
		u, err := g.MustIndexOf(id)
		if err != nil {
			return 0, err
		}
		vLat, vLon := g.GetVertexCoordinates(u)
		d := geo.PlanarDistance(lat, lon, vLat, vLon)
		if d < best {
			nearest, best = id, d
		}
	}
	return nearest, nil
}
