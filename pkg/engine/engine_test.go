package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/pici/pkg/config"
	"github.com/lintang-b-s/pici/pkg/datastructure"
	"github.com/lintang-b-s/pici/pkg/engine/routing"
	"github.com/lintang-b-s/pici/pkg/osmparser"
	"github.com/lintang-b-s/pici/pkg/scorer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Area:      "Testville",
		Threshold: 0.5,
		Strategies: map[string]bool{
			"overall":     true,
			"centretown":  true,
			"centrelocal": true,
			"existing":    true,
		},
		BoundingBox: config.BoundingBox{NodeID: 0, South: 0, West: 0, North: 1, East: 1},
		TownCentre:  &config.Point{Lon: 0.3, Lat: 0.5},
		WeightedTags: scorer.TagWeights{
			"highway": {Weight: 1, Values: map[string]float64{"cycleway": 1, "primary": 0.1}},
		},
	}
}

// two cycleways, 0-1 and 2-3, joined by a primary road between 1 and 3.
func testMapData(withLink bool) *osmparser.MapData {
	data := osmparser.NewMapData()
	for _, n := range []osmparser.NodeRef{
		osmparser.NewNodeRef(0, 0.5, 0.7),
		osmparser.NewNodeRef(1, 0.4, 0.3),
		osmparser.NewNodeRef(2, 0.2, 0.1),
		osmparser.NewNodeRef(3, 0.3, 0.2),
		osmparser.NewNodeRef(99, 5, 5),
	} {
		data.Nodes[n.ID] = n
	}
	data.Ways = append(data.Ways,
		osmparser.NewWay(10, []int64{0, 1}, map[string]string{"highway": "cycleway"}),
		osmparser.NewWay(11, []int64{2, 3}, map[string]string{"highway": "cycleway"}),
	)
	if withLink {
		data.Ways = append(data.Ways,
			osmparser.NewWay(12, []int64{1, 3}, map[string]string{"highway": "primary"}))
	}
	return data
}

func TestBuildNetwork(t *testing.T) {
	network, err := BuildNetwork(testConfig(), testMapData(true), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 3, network.Complete.NumberOfEdges())
	assert.True(t, network.Complete.HasEdge(1, 3))
	assert.Equal(t, 2, network.Friendly.NumberOfEdges())
	assert.False(t, network.Friendly.HasEdge(1, 3))
	assert.Equal(t, 0.5, network.Centre.Lat)
	assert.Equal(t, 0.3, network.Centre.Lon)
}

func TestBuildNetworkCentreFromNode(t *testing.T) {
	cfg := testConfig()
	cfg.TownCentre = nil

	network, err := BuildNetwork(cfg, testMapData(true), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 0.5, network.Centre.Lat)
	assert.Equal(t, 0.7, network.Centre.Lon)

	cfg.BoundingBox.NodeID = 1234
	_, err = BuildNetwork(cfg, testMapData(true), zap.NewNop())
	assert.ErrorIs(t, err, config.ErrConfiguration)
}

func TestEngineRun(t *testing.T) {
	network, err := BuildNetwork(testConfig(), testMapData(true), zap.NewNop())
	require.NoError(t, err)

	e, err := NewEngine(testConfig(), network, 2, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, e.GetRoutingEngine())

	report, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Testville", report.Area)
	require.Len(t, report.Regions, 2)
	assert.Equal(t, 1, report.Regions[0].Rank)
	assert.Equal(t, 2, report.Regions[0].Vertices)
	assert.InDelta(t, 0.4*0.1, report.Regions[0].Area, 1e-12)
	assert.Empty(t, report.Failures)

	require.Len(t, report.Suggestions, 4)
	for i, strategy := range routing.Strategies() {
		s := report.Suggestions[i]
		assert.Equal(t, strategy, s.Strategy)
		assert.Equal(t, []datastructure.EdgePair{{From: 1, To: 3}}, s.Path)
		assert.Greater(t, s.Distance, 0.0)
	}
}

func TestEngineSuggestCache(t *testing.T) {
	network, err := BuildNetwork(testConfig(), testMapData(true), zap.NewNop())
	require.NoError(t, err)
	e, err := NewEngine(testConfig(), network, 1, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 0, e.cache.Len())

	first, err := e.Suggest(routing.STRATEGY_CENTRE_LOCAL)
	require.NoError(t, err)
	assert.Equal(t, 1, e.cache.Len())

	second, err := e.Suggest(routing.STRATEGY_CENTRE_LOCAL)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, e.cache.Len())

	report, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(routing.Strategies()), e.cache.Len())
	assert.Same(t, first, report.Suggestions[2])
}

func TestEngineDisabledStrategies(t *testing.T) {
	cfg := testConfig()
	cfg.Strategies = map[string]bool{"overall": false, "existing": true}

	network, err := BuildNetwork(cfg, testMapData(true), zap.NewNop())
	require.NoError(t, err)
	e, err := NewEngine(cfg, network, 1, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []routing.Strategy{routing.STRATEGY_EXISTING_PATHS}, e.EnabledStrategies())

	report, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Suggestions, 1)
	assert.Equal(t, routing.STRATEGY_EXISTING_PATHS, report.Suggestions[0].Strategy)
}

func TestEngineNoSuggestedPath(t *testing.T) {
	network, err := BuildNetwork(testConfig(), testMapData(false), zap.NewNop())
	require.NoError(t, err)
	e, err := NewEngine(testConfig(), network, 1, zap.NewNop())
	require.NoError(t, err)

	report, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Suggestions)
	assert.Len(t, report.Failures, 4)

	_, err = e.Suggest(routing.STRATEGY_OVERALL)
	assert.ErrorIs(t, err, routing.ErrNoSuggestedPath)
	assert.Equal(t, 0, e.cache.Len())
}

func TestEngineSingleRegion(t *testing.T) {
	data := testMapData(false)
	data.Ways = data.Ways[:1]

	network, err := BuildNetwork(testConfig(), data, zap.NewNop())
	require.NoError(t, err)
	e, err := NewEngine(testConfig(), network, 1, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, e.GetRoutingEngine())

	report, err := e.Run(context.Background())
	assert.ErrorIs(t, err, routing.ErrNoPathAvailable)
	require.NotNil(t, report)
	assert.Len(t, report.Regions, 1)

	_, err = e.Suggest(routing.STRATEGY_CENTRE_TOWN)
	assert.ErrorIs(t, err, routing.ErrNoPathAvailable)
}

func TestRegionSummariesLimit(t *testing.T) {
	network, err := BuildNetwork(testConfig(), testMapData(false), zap.NewNop())
	require.NoError(t, err)
	e, err := NewEngine(testConfig(), network, 1, zap.NewNop())
	require.NoError(t, err)

	assert.Len(t, e.RegionSummaries(1), 1)
	assert.Len(t, e.RegionSummaries(0), 2)
	assert.Len(t, e.RegionSummaries(10), 2)
}

func TestNetworkRoundTrip(t *testing.T) {
	network, err := BuildNetwork(testConfig(), testMapData(true), zap.NewNop())
	require.NoError(t, err)

	filename := filepath.Join(t.TempDir(), "testville.network.bz2")
	require.NoError(t, WriteNetwork(filename, network))

	got, err := ReadNetwork(filename)
	require.NoError(t, err)
	assert.Equal(t, network.Centre, got.Centre)
	assert.Equal(t, network.Complete.Edges(), got.Complete.Edges())
	assert.Equal(t, network.Friendly.Edges(), got.Friendly.Edges())
	assert.Equal(t, network.Friendly.NumberOfVertices(), got.Friendly.NumberOfVertices())

	_, err = ReadNetwork(filepath.Join(t.TempDir(), "missing.bz2"))
	assert.Error(t, err)

	err = WriteNetwork(filepath.Join(t.TempDir(), "missing", "testville.network.bz2"), network)
	assert.Error(t, err)
}
