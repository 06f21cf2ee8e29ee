package routing

import (
	da "github.com/lintang-b-s/pici/pkg/datastructure"
)

type VertexSet interface {
	Contains(id int64) bool
}

// TrimPath keeps the part of path that bridges from and to: it starts at the last
// edge leaving from and ends at the first later edge entering to.
func TrimPath(path []da.EdgePair, from, to VertexSet) ([]da.EdgePair, error) {
	start := -1
	for i, e := range path {
		if from.Contains(e.From) && !from.Contains(e.To) {
			start = i
		}
	}
	if start < 0 {
		return nil, ErrNoSuggestedPath
	}

	for i := start; i < len(path); i++ {
		e := path[i]
		if !to.Contains(e.From) && to.Contains(e.To) {
			trimmed := make([]da.EdgePair, i-start+1)
			copy(trimmed, path[start:i+1])
			return trimmed, nil
		}
	}
	return nil, ErrNoSuggestedPath
}
