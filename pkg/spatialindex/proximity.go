package spatialindex

import (
	"github.com/lintang-b-s/pici/pkg/datastructure"
	"github.com/lintang-b-s/pici/pkg/geo"
	"go.uber.org/zap"
)

// ProximityLinker joins vertices that are geometrically close but not connected
// by any way, e.g. the two sides of a crossing mapped as separate ways.
type ProximityLinker struct {
	log *zap.Logger
}

func NewProximityLinker(log *zap.Logger) *ProximityLinker {
	return &ProximityLinker{log: log}
}

// Connect returns a copy of g with an edge between every pair of distinct vertices
// whose euclidean distance in degrees is at most eps. existing edges keep their
// length; new edges get the geodesic length. g is not modified.
func (pl *ProximityLinker) Connect(g *datastructure.Graph, eps float64) (*datastructure.Graph, error) {
	if eps <= 0 {
		return g.WithEdges(nil)
	}

	rt := NewRtree()
	rt.Build(g, pl.log)

	extra := make([]datastructure.Edge, 0)
	g.ForVertices(func(u datastructure.Index, v *datastructure.Vertex) {
		for _, w := range rt.SearchWithinRadius(v.GetLat(), v.GetLon(), eps) {
			if w <= u {
				continue
			}
			uID, wID := v.GetID(), g.VertexID(w)
			if g.HasEdge(uID, wID) {
				continue
			}
			wLat, wLon := g.GetVertexCoordinates(w)
			extra = append(extra, datastructure.NewEdge(uID, wID,
				geo.GeodesicDistance(v.GetLat(), v.GetLon(), wLat, wLon)))
		}
	})

	pl.log.Info("proximity edges added", zap.Int("edges", len(extra)), zap.Float64("eps", eps))
	return g.WithEdges(extra)
}
