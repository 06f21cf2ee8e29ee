package costfunction

import (
	"github.com/lintang-b-s/pici/pkg/datastructure"
)

type EdgeAttributes interface {
	GetLength() float64
}

// CostFunction weighs an edge traversed from tail to head (node ids).
type CostFunction interface {
	GetWeight(tail, head int64, e EdgeAttributes) float64
}

// DistanceCostFunction weighs every edge by its length.
type DistanceCostFunction struct{}

func NewDistanceCostFunction() *DistanceCostFunction {
	return &DistanceCostFunction{}
}

func (df *DistanceCostFunction) GetWeight(tail, head int64, e EdgeAttributes) float64 {
	return e.GetLength()
}

// ExistingPathsCostFunction makes edges of the cycle friendly graph free, so a
// search prefers routes that reuse existing infrastructure.
type ExistingPathsCostFunction struct {
	friendly *datastructure.Graph
}

func NewExistingPathsCostFunction(friendly *datastructure.Graph) *ExistingPathsCostFunction {
	return &ExistingPathsCostFunction{friendly: friendly}
}

func (ef *ExistingPathsCostFunction) GetWeight(tail, head int64, e EdgeAttributes) float64 {
	if ef.friendly.HasEdge(tail, head) {
		return 0
	}
	return e.GetLength()
}
