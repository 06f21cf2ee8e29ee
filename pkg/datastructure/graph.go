package datastructure

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

type Index uint32

var (
	ErrVertexNotFound = errors.New("vertex not found in graph")
	ErrEdgeNotFound   = errors.New("edge not found in graph")
)

const INVALID_VERTEX_ID Index = math.MaxUint32

type Vertex struct {
	lat float64
	lon float64
	id  int64 // openstreetmap node id
}

func NewVertex(lat, lon float64, id int64) *Vertex {
	return &Vertex{
		lat: lat,
		lon: lon,
		id:  id,
	}
}

func (v *Vertex) GetID() int64 {
	return v.id
}

func (v *Vertex) GetLat() float64 {
	return v.lat
}

func (v *Vertex) GetLon() float64 {
	return v.lon
}

// OutEdge is one direction of an undirected edge, stored in the adjacency list of its tail.
type OutEdge struct {
	head   Index
	length float64 // meter
}

func (e OutEdge) GetHead() Index {
	return e.head
}

func (e OutEdge) GetLength() float64 {
	return e.length
}

// Edge is an undirected edge between two node ids.
type Edge struct {
	From   int64
	To     int64
	Length float64
}

func NewEdge(from, to int64, length float64) Edge {
	return Edge{From: from, To: to, Length: length}
}

// EdgePair is an element of a path: the edge traversed from From to To.
type EdgePair struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

func NewEdgePair(from, to int64) EdgePair {
	return EdgePair{From: from, To: to}
}

type edgeKey struct {
	lo, hi Index
}

func newEdgeKey(u, v Index) edgeKey {
	if u > v {
		u, v = v, u
	}
	return edgeKey{lo: u, hi: v}
}

// Graph is an undirected, simple, weighted graph. static once built: augmentation
// (see WithEdges) returns a new graph.
type Graph struct {
	vertices    []*Vertex
	vertexIndex map[int64]Index
	adj         [][]OutEdge
	edgeLength  map[edgeKey]float64
	boundingBox *BoundingBox
}

// NewGraph builds a graph from vertices and undirected edges. self loops are skipped
// and parallel edges collapse into one (the first length wins).
func NewGraph(vertices []*Vertex, edges []Edge) (*Graph, error) {
	g := &Graph{
		vertices:    make([]*Vertex, 0, len(vertices)),
		vertexIndex: make(map[int64]Index, len(vertices)),
		adj:         make([][]OutEdge, 0, len(vertices)),
		edgeLength:  make(map[edgeKey]float64, len(edges)),
	}

	sorted := make([]*Vertex, len(vertices))
	copy(sorted, vertices)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].id < sorted[j].id
	})

	for _, v := range sorted {
		if _, ok := g.vertexIndex[v.id]; ok {
			continue
		}
		g.vertexIndex[v.id] = Index(len(g.vertices))
		g.vertices = append(g.vertices, v)
		g.adj = append(g.adj, make([]OutEdge, 0, 2))
	}

	for _, e := range edges {
		if err := g.addEdge(e); err != nil {
			return nil, err
		}
	}

	for u := range g.adj {
		sort.Slice(g.adj[u], func(i, j int) bool {
			return g.adj[u][i].head < g.adj[u][j].head
		})
	}

	g.boundingBox = g.computeBoundingBox()
	return g, nil
}

func (g *Graph) addEdge(e Edge) error {
	u, ok := g.vertexIndex[e.From]
	if !ok {
		return fmt.Errorf("edge (%d,%d): %w: %d", e.From, e.To, ErrVertexNotFound, e.From)
	}
	v, ok := g.vertexIndex[e.To]
	if !ok {
		return fmt.Errorf("edge (%d,%d): %w: %d", e.From, e.To, ErrVertexNotFound, e.To)
	}
	if u == v {
		return nil
	}
	key := newEdgeKey(u, v)
	if _, exists := g.edgeLength[key]; exists {
		return nil
	}
	g.edgeLength[key] = e.Length
	g.adj[u] = append(g.adj[u], OutEdge{head: v, length: e.Length})
	g.adj[v] = append(g.adj[v], OutEdge{head: u, length: e.Length})
	return nil
}

func (g *Graph) computeBoundingBox() *BoundingBox {
	if len(g.vertices) == 0 {
		return NewBoundingBox(0, 0, 0, 0)
	}
	minLat, minLon := math.Inf(1), math.Inf(1)
	maxLat, maxLon := math.Inf(-1), math.Inf(-1)
	for _, v := range g.vertices {
		minLat = math.Min(minLat, v.lat)
		minLon = math.Min(minLon, v.lon)
		maxLat = math.Max(maxLat, v.lat)
		maxLon = math.Max(maxLon, v.lon)
	}
	return NewBoundingBox(minLat, minLon, maxLat, maxLon)
}

// WithEdges returns a copy of g with the extra edges added. g is left untouched.
func (g *Graph) WithEdges(extra []Edge) (*Graph, error) {
	edges := g.Edges()
	edges = append(edges, extra...)
	return NewGraph(g.vertices, edges)
}

func (g *Graph) NumberOfVertices() int {
	return len(g.vertices)
}

func (g *Graph) NumberOfEdges() int {
	return len(g.edgeLength)
}

func (g *Graph) GetVertices() []*Vertex {
	return g.vertices
}

func (g *Graph) GetVertex(u Index) *Vertex {
	return g.vertices[u]
}

func (g *Graph) GetVertexCoordinates(u Index) (float64, float64) {
	v := g.vertices[u]
	return v.lat, v.lon
}

func (g *Graph) GetBoundingBox() *BoundingBox {
	return g.boundingBox
}

// IndexOf returns the dense index of the vertex with the given node id.
func (g *Graph) IndexOf(id int64) (Index, bool) {
	u, ok := g.vertexIndex[id]
	return u, ok
}

// MustIndexOf is IndexOf returning ErrVertexNotFound for absent ids.
func (g *Graph) MustIndexOf(id int64) (Index, error) {
	u, ok := g.vertexIndex[id]
	if !ok {
		return INVALID_VERTEX_ID, fmt.Errorf("%w: %d", ErrVertexNotFound, id)
	}
	return u, nil
}

func (g *Graph) VertexID(u Index) int64 {
	return g.vertices[u].id
}

// HasEdge reports whether the unordered pair {u, v} (node ids) is an edge.
func (g *Graph) HasEdge(u, v int64) bool {
	_, ok := g.EdgeLength(u, v)
	return ok
}

func (g *Graph) EdgeLength(u, v int64) (float64, bool) {
	ui, ok := g.vertexIndex[u]
	if !ok {
		return 0, false
	}
	vi, ok := g.vertexIndex[v]
	if !ok {
		return 0, false
	}
	length, ok := g.edgeLength[newEdgeKey(ui, vi)]
	return length, ok
}

func (g *Graph) GetDegree(u Index) int {
	return len(g.adj[u])
}

func (g *Graph) ForOutEdgesOf(u Index, handle func(e OutEdge)) {
	for _, e := range g.adj[u] {
		handle(e)
	}
}

// ForEdges visits every undirected edge once, with u < v.
func (g *Graph) ForEdges(handle func(u, v Index, length float64)) {
	for u := range g.adj {
		for _, e := range g.adj[u] {
			if Index(u) < e.head {
				handle(Index(u), e.head, e.length)
			}
		}
	}
}

func (g *Graph) ForVertices(handle func(u Index, v *Vertex)) {
	for u, v := range g.vertices {
		handle(Index(u), v)
	}
}

// Edges lists every undirected edge once, in a deterministic order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.NumberOfEdges())
	g.ForEdges(func(u, v Index, length float64) {
		edges = append(edges, NewEdge(g.VertexID(u), g.VertexID(v), length))
	})
	return edges
}

// PathLength sums the edge lengths of path. every edge must exist in g.
func (g *Graph) PathLength(path []EdgePair) (float64, error) {
	total := 0.0
	for _, e := range path {
		length, ok := g.EdgeLength(e.From, e.To)
		if !ok {
			return 0, fmt.Errorf("%w: (%d,%d)", ErrEdgeNotFound, e.From, e.To)
		}
		total += length
	}
	return total, nil
}
