package datastructure

import (
	"math"
	"sort"
)

// VertexSet is a set of node ids.
type VertexSet map[int64]struct{}

func NewVertexSet(ids ...int64) VertexSet {
	s := make(VertexSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s VertexSet) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

// Region is a connected component of the cycle friendly graph.
type Region struct {
	vertices    []int64 // sorted ascending
	members     VertexSet
	boundingBox *BoundingBox
	edgeLength  float64 // total length of the edges inside the region, meter
}

func (r *Region) GetVertices() []int64 {
	return r.vertices
}

func (r *Region) Contains(id int64) bool {
	return r.members.Contains(id)
}

func (r *Region) Size() int {
	return len(r.vertices)
}

func (r *Region) GetBoundingBox() *BoundingBox {
	return r.boundingBox
}

// GetArea is the region ranking metric: bounding box area of the member positions.
func (r *Region) GetArea() float64 {
	return r.boundingBox.Area()
}

func (r *Region) GetEdgeLength() float64 {
	return r.edgeLength
}

func newRegion(g *Graph, component []Index) *Region {
	r := &Region{
		vertices: make([]int64, 0, len(component)),
		members:  make(VertexSet, len(component)),
	}

	minLat, minLon := math.Inf(1), math.Inf(1)
	maxLat, maxLon := math.Inf(-1), math.Inf(-1)
	for _, u := range component {
		v := g.GetVertex(u)
		r.vertices = append(r.vertices, v.id)
		r.members[v.id] = struct{}{}
		minLat = math.Min(minLat, v.lat)
		minLon = math.Min(minLon, v.lon)
		maxLat = math.Max(maxLat, v.lat)
		maxLon = math.Max(maxLon, v.lon)

		g.ForOutEdgesOf(u, func(e OutEdge) {
			if u < e.head {
				r.edgeLength += e.length
			}
		})
	}
	sort.Slice(r.vertices, func(i, j int) bool {
		return r.vertices[i] < r.vertices[j]
	})
	r.boundingBox = NewBoundingBox(minLat, minLon, maxLat, maxLon)
	return r
}

// FindRegions returns the connected components of g ordered by bounding box area,
// largest first. ties: more vertices first, then smallest vertex id.
// the regions partition the vertex set of g.
func (g *Graph) FindRegions() []*Region {
	n := g.NumberOfVertices()
	visited := make([]bool, n)
	regions := make([]*Region, 0, 10)

	for s := Index(0); s < Index(n); s++ {
		if visited[s] {
			continue
		}

		// bfs
		queue := []Index{s}
		visited[s] = true
		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			g.ForOutEdgesOf(u, func(e OutEdge) {
				if !visited[e.head] {
					visited[e.head] = true
					queue = append(queue, e.head)
				}
			})
		}

		regions = append(regions, newRegion(g, queue))
	}

	sort.SliceStable(regions, func(i, j int) bool {
		ai, aj := regions[i].GetArea(), regions[j].GetArea()
		if ai != aj {
			return ai > aj
		}
		if regions[i].Size() != regions[j].Size() {
			return regions[i].Size() > regions[j].Size()
		}
		return regions[i].vertices[0] < regions[j].vertices[0]
	})
	return regions
}
