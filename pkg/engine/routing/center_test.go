package routing

import (
	"math"
	"testing"

	"github.com/lintang-b-s/pici/pkg/costfunction"
	da "github.com/lintang-b-s/pici/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pathGraph returns 1-2-3-4-5 along the equator with unit edges, plus the
// isolated pair 8-9.
func pathGraph(t *testing.T) *da.Graph {
	vs := make([]*da.Vertex, 0, 7)
	edges := make([]da.Edge, 0, 5)
	for id := int64(1); id <= 5; id++ {
		vs = append(vs, da.NewVertex(0, float64(id), id))
		if id > 1 {
			edges = append(edges, da.NewEdge(id-1, id, 1))
		}
	}
	vs = append(vs, da.NewVertex(5, 5, 8), da.NewVertex(5, 6, 9))
	edges = append(edges, da.NewEdge(8, 9, 2))
	g, err := da.NewGraph(vs, edges)
	require.NoError(t, err)
	return g
}

func TestGraphCenter(t *testing.T) {
	g := pathGraph(t)
	regions := g.FindRegions()
	require.Len(t, regions, 2)

	testCases := []struct {
		name       string
		region     *da.Region
		numWorkers int
		wantCenter int64
		wantEcc    float64
	}{
		{name: "middle of a path", region: regions[0], numWorkers: 1, wantCenter: 3, wantEcc: 2},
		{name: "middle of a path on many workers", region: regions[0], numWorkers: 4, wantCenter: 3, wantEcc: 2},
		{name: "tie goes to the smallest id", region: regions[1], numWorkers: 2, wantCenter: 8, wantEcc: 2},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			center, ecc, err := GraphCenter(g, tt.region, tt.numWorkers)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCenter, center)
			assert.InDelta(t, tt.wantEcc, ecc, 1e-9)
		})
	}
}

func TestNearestVertex(t *testing.T) {
	g := pathGraph(t)

	testCases := []struct {
		name     string
		ids      []int64
		lat, lon float64
		want     int64
		wantErr  error
	}{
		{name: "closest", ids: []int64{1, 2, 3, 4, 5}, lat: 0.1, lon: 3.9, want: 4},
		{name: "tie keeps the first listed", ids: []int64{2, 3}, lat: 0, lon: 2.5, want: 2},
		{name: "tie keeps the first listed reversed", ids: []int64{3, 2}, lat: 0, lon: 2.5, want: 3},
		{name: "empty", ids: []int64{}, wantErr: ErrEmptyRegion},
		{name: "unknown vertex", ids: []int64{1, 42}, wantErr: da.ErrVertexNotFound},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NearestVertex(g, tt.ids, tt.lat, tt.lon)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDijkstra(t *testing.T) {
	g := pathGraph(t)
	us := NewDijkstra(g, costfunction.NewDistanceCostFunction())

	t.Run("multi source stops at the first target", func(t *testing.T) {
		cost, path, err := us.ShortestPath([]int64{1, 2}, []int64{5, 4})
		require.NoError(t, err)
		assert.InDelta(t, 2.0, cost, 1e-9)
		assert.Equal(t, []int64{2, 3, 4}, path)
	})

	t.Run("reuse after a search", func(t *testing.T) {
		cost, path, err := us.ShortestPath([]int64{5}, []int64{1})
		require.NoError(t, err)
		assert.InDelta(t, 4.0, cost, 1e-9)
		assert.Equal(t, []int64{5, 4, 3, 2, 1}, path)
	})

	t.Run("source is a target", func(t *testing.T) {
		cost, path, err := us.ShortestPath([]int64{3}, []int64{3})
		require.NoError(t, err)
		assert.Equal(t, 0.0, cost)
		assert.Equal(t, []int64{3}, path)
		assert.Empty(t, ToEdgePairs(path))
	})

	t.Run("unreachable", func(t *testing.T) {
		cost, path, err := us.ShortestPath([]int64{1}, []int64{9})
		require.NoError(t, err)
		assert.True(t, math.IsInf(cost, 1))
		assert.Nil(t, path)
	})

	t.Run("unknown vertex", func(t *testing.T) {
		_, _, err := us.ShortestPath([]int64{1}, []int64{42})
		assert.ErrorIs(t, err, da.ErrVertexNotFound)
	})

	t.Run("shortest path tree", func(t *testing.T) {
		costs, err := us.ShortestPathTree(1)
		require.NoError(t, err)
		for id := int64(1); id <= 5; id++ {
			u, _ := g.IndexOf(id)
			assert.InDelta(t, float64(id-1), costs[u], 1e-9)
		}
		u, _ := g.IndexOf(9)
		assert.True(t, math.IsInf(costs[u], 1))
	})
}

func TestToEdgePairs(t *testing.T) {
	assert.Equal(t, []da.EdgePair{{From: 1, To: 2}, {From: 2, To: 3}}, ToEdgePairs([]int64{1, 2, 3}))
	assert.Empty(t, ToEdgePairs(nil))
}
