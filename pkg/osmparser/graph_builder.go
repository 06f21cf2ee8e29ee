package osmparser

import (
	"github.com/lintang-b-s/pici/pkg/datastructure"
	"github.com/lintang-b-s/pici/pkg/geo"
	"go.uber.org/zap"
)

// GraphBuilder turns ways into a graph whose vertices are junctions and way
// terminals. interior shape points are not materialized.
type GraphBuilder struct {
	nodes  map[int64]NodeRef
	bbox   *datastructure.BoundingBox
	logger *zap.Logger
}

func NewGraphBuilder(nodes map[int64]NodeRef, bbox *datastructure.BoundingBox, logger *zap.Logger) *GraphBuilder {
	return &GraphBuilder{
		nodes:  nodes,
		bbox:   bbox,
		logger: logger,
	}
}

// Build builds the graph of ways. every edge is an unordered pair of node ids and
// its length is the geodesic distance between the two nodes.
func (b *GraphBuilder) Build(ways []Way) (*datastructure.Graph, error) {
	sequences := make([][]int64, 0, len(ways))
	refCount := make(map[int64]int)
	for _, w := range ways {
		seq := b.nodesInArea(w.Nodes)
		sequences = append(sequences, seq)
		for _, id := range seq {
			refCount[id]++
		}
	}

	edges := make([]datastructure.Edge, 0)
	used := make(map[int64]struct{})
	for i, seq := range sequences {
		emitted := 0
		if len(seq) >= 2 {
			anchor := seq[0]
			last := len(seq) - 1
			for j := 1; j < len(seq); j++ {
				cursor := seq[j]
				if (refCount[cursor] > 1 || j == last) && cursor != anchor {
					edges = append(edges, b.newEdge(anchor, cursor))
					used[anchor] = struct{}{}
					used[cursor] = struct{}{}
					anchor = cursor
					emitted++
				}
			}
		}
		if emitted == 0 {
			b.logger.Debug("way skipped, no edge inside the bounding box",
				zap.Int64("wayID", ways[i].ID), zap.Int("nodes", len(seq)))
		}
	}

	vertices := make([]*datastructure.Vertex, 0, len(used))
	for id := range used {
		n := b.nodes[id]
		vertices = append(vertices, datastructure.NewVertex(n.Lat, n.Lon, id))
	}

	return datastructure.NewGraph(vertices, edges)
}

// nodesInArea drops node ids that are unknown or lie outside the bounding box.
func (b *GraphBuilder) nodesInArea(ids []int64) []int64 {
	seq := make([]int64, 0, len(ids))
	for _, id := range ids {
		n, ok := b.nodes[id]
		if !ok || !b.bbox.Contains(n.Lat, n.Lon) {
			continue
		}
		seq = append(seq, id)
	}
	return seq
}

func (b *GraphBuilder) newEdge(from, to int64) datastructure.Edge {
	u, v := b.nodes[from], b.nodes[to]
	return datastructure.NewEdge(from, to, geo.GeodesicDistance(u.Lat, u.Lon, v.Lat, v.Lon))
}
