package routing

import (
	"math"

	"github.com/lintang-b-s/pici/pkg"
	"github.com/lintang-b-s/pici/pkg/costfunction"
	da "github.com/lintang-b-s/pici/pkg/datastructure"
	"github.com/lintang-b-s/pici/pkg/util"
)

// Dijkstra is a multi-source, multi-target dijkstra on an undirected graph with a
// 4-ary heap. not safe for concurrent use: every goroutine needs its own instance.
type Dijkstra struct {
	graph        *da.Graph
	costFunction costfunction.CostFunction

	info    []VertexInfo
	touched []da.Index
	pq      *da.MinHeap[da.Index]

	numSettledNodes int
}

func NewDijkstra(graph *da.Graph, costFunction costfunction.CostFunction) *Dijkstra {
	us := &Dijkstra{
		graph:        graph,
		costFunction: costFunction,
		info:         make([]VertexInfo, graph.NumberOfVertices()),
		touched:      make([]da.Index, 0),
		pq:           da.NewFourAryHeap[da.Index](),
	}
	initInfWeightVertexInfo(us.info)
	us.pq.Preallocate(graph.NumberOfVertices())
	return us
}

func (us *Dijkstra) GetNumberOfSettledNodes() int {
	return us.numSettledNodes
}

// reset clears the labels of the previous search.
func (us *Dijkstra) reset() {
	for _, u := range us.touched {
		us.info[u] = NewVertexInfo(pkg.INF_WEIGHT, da.INVALID_VERTEX_ID, nil)
	}
	us.touched = us.touched[:0]
	us.pq.Clear()
	us.numSettledNodes = 0
}

func (us *Dijkstra) indices(ids []int64) ([]da.Index, error) {
	out := make([]da.Index, 0, len(ids))
	for _, id := range ids {
		u, err := us.graph.MustIndexOf(id)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

// ShortestPath searches from every source at once and stops at the first settled
// target. it returns the cost and the node ids of the path, source first. when no
// target is reachable the cost is +Inf and the path is nil. unknown node ids return
// da.ErrVertexNotFound.
func (us *Dijkstra) ShortestPath(sources, targets []int64) (float64, []int64, error) {
	sIdx, err := us.indices(sources)
	if err != nil {
		return 0, nil, err
	}
	tIdx, err := us.indices(targets)
	if err != nil {
		return 0, nil, err
	}

	isTarget := make(map[da.Index]struct{}, len(tIdx))
	for _, t := range tIdx {
		isTarget[t] = struct{}{}
	}

	us.reset()
	for _, s := range sIdx {
		us.label(s, 0, da.INVALID_VERTEX_ID)
	}

	for !us.pq.IsEmpty() {
		u := us.settle()
		if _, ok := isTarget[u]; ok {
			return us.info[u].cost, us.retrievePath(u), nil
		}
		us.relaxEdges(u)
	}

	return math.Inf(1), nil, nil
}

// ShortestPathTree runs a full single source search and returns the cost of every
// vertex, +Inf for unreachable ones.
func (us *Dijkstra) ShortestPathTree(source int64) ([]float64, error) {
	s, err := us.graph.MustIndexOf(source)
	if err != nil {
		return nil, err
	}

	us.reset()
	us.label(s, 0, da.INVALID_VERTEX_ID)
	for !us.pq.IsEmpty() {
		us.relaxEdges(us.settle())
	}

	costs := make([]float64, us.graph.NumberOfVertices())
	for u := range costs {
		costs[u] = math.Inf(1)
		if us.info[u].scanned {
			costs[u] = us.info[u].cost
		}
	}
	return costs, nil
}

func (us *Dijkstra) settle() da.Index {
	node, _ := us.pq.ExtractMin()
	u := node.GetItem()
	us.info[u].scanned = true
	us.numSettledNodes++
	return u
}

func (us *Dijkstra) label(v da.Index, cost float64, parent da.Index) {
	vInfo := &us.info[v]
	if vInfo.labelled() {
		if da.Ge(cost, vInfo.cost) {
			// not better
			return
		}
		vInfo.cost = cost
		vInfo.parent = parent
		us.pq.DecreaseKey(vInfo.heapNode, cost)
		return
	}

	vhNode := da.NewPriorityQueueNode(cost, v)
	us.info[v] = NewVertexInfo(cost, parent, vhNode)
	us.touched = append(us.touched, v)
	us.pq.Insert(vhNode)
}

func (us *Dijkstra) relaxEdges(u da.Index) {
	uID := us.graph.VertexID(u)
	uCost := us.info[u].cost
	us.graph.ForOutEdgesOf(u, func(e da.OutEdge) {
		v := e.GetHead()
		if us.info[v].scanned {
			return
		}
		edgeWeight := us.costFunction.GetWeight(uID, us.graph.VertexID(v), e)
		newCost := uCost + edgeWeight
		if da.Ge(newCost, pkg.INF_WEIGHT) {
			return
		}
		us.label(v, newCost, u)
	})
}

func (us *Dijkstra) retrievePath(t da.Index) []int64 {
	path := make([]int64, 0, 16)
	for u := t; u != da.INVALID_VERTEX_ID; u = us.info[u].parent {
		path = append(path, us.graph.VertexID(u))
	}
	return util.ReverseG(path)
}

// ToEdgePairs turns a node sequence into the edges between consecutive nodes.
func ToEdgePairs(nodes []int64) []da.EdgePair {
	if len(nodes) < 2 {
		return []da.EdgePair{}
	}
	edges := make([]da.EdgePair, 0, len(nodes)-1)
	for i := 0; i+1 < len(nodes); i++ {
		edges = append(edges, da.NewEdgePair(nodes[i], nodes[i+1]))
	}
	return edges
}
