package routing

import (
	"github.com/lintang-b-s/pici/pkg"
	da "github.com/lintang-b-s/pici/pkg/datastructure"
)

type VertexInfo struct {
	cost     float64
	parent   da.Index // INVALID_VERTEX_ID for sources
	scanned  bool
	heapNode *da.PriorityQueueNode[da.Index]
}

func NewVertexInfo(cost float64, parent da.Index, hnode *da.PriorityQueueNode[da.Index]) VertexInfo {
	return VertexInfo{
		cost:     cost,
		parent:   parent,
		heapNode: hnode,
	}
}

func (vi *VertexInfo) GetCost() float64 {
	return vi.cost
}

func (vi *VertexInfo) GetParent() da.Index {
	return vi.parent
}

func (vi *VertexInfo) IsScanned() bool {
	return vi.scanned
}

func (vi *VertexInfo) labelled() bool {
	return da.Lt(vi.cost, pkg.INF_WEIGHT)
}

func initInfWeightVertexInfo(vs []VertexInfo) {
	for i := range vs {
		vs[i] = NewVertexInfo(pkg.INF_WEIGHT, da.INVALID_VERTEX_ID, nil)
	}
}
