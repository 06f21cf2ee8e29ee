package spatialindex

import (
	"sort"

	"github.com/lintang-b-s/pici/pkg/datastructure"
	"github.com/lintang-b-s/pici/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// Rtree indexes the vertices of a graph by position. points are stored as
// degenerate rectangles [lon, lat].
type Rtree struct {
	tr *rtree.RTreeG[datastructure.Index]
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[datastructure.Index]
	return &Rtree{
		tr: &tr,
	}
}

// Build inserts every vertex of graph.
func (rt *Rtree) Build(graph *datastructure.Graph, log *zap.Logger) {
	log.Info("Building R-tree spatial index...", zap.Int("vertices", graph.NumberOfVertices()))
	graph.ForVertices(func(u datastructure.Index, v *datastructure.Vertex) {
		p := [2]float64{v.GetLon(), v.GetLat()}
		rt.tr.Insert(p, p, u)
	})
	log.Info("R-tree spatial index built.")
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

// SearchWithinRadius returns the vertices whose euclidean distance in degrees from
// (qLat, qLon) is at most radius, sorted by index.
func (rt *Rtree) SearchWithinRadius(qLat, qLon, radius float64) []datastructure.Index {
	results := make([]datastructure.Index, 0, 10)
	rt.tr.Search([2]float64{qLon - radius, qLat - radius}, [2]float64{qLon + radius, qLat + radius},
		func(min, max [2]float64, data datastructure.Index) bool {
			if geo.PlanarDistance(qLat, qLon, min[1], min[0]) <= radius {
				results = append(results, data)
			}
			return true
		})
	sort.Slice(results, func(i, j int) bool {
		return results[i] < results[j]
	})
	return results
}
