package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lintang-b-s/pici/pkg/config"
	"github.com/lintang-b-s/pici/pkg/engine"
	"github.com/lintang-b-s/pici/pkg/http/usecases"
	"github.com/lintang-b-s/pici/pkg/osmparser"
	"github.com/lintang-b-s/pici/pkg/scorer"
	"github.com/lintang-b-s/pici/pkg/spatialindex"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func newTestHandler(t *testing.T, withLink, useRateLimit bool) http.Handler {
	cfg := &config.Config{
		Area:      "Testville",
		Threshold: 0.5,
		Strategies: map[string]bool{
			"overall": true, "centretown": true, "centrelocal": true, "existing": true,
		},
		BoundingBox: config.BoundingBox{South: 0, West: 0, North: 1, East: 1},
		TownCentre:  &config.Point{Lon: 0.3, Lat: 0.5},
		WeightedTags: scorer.TagWeights{
			"highway": {Weight: 1, Values: map[string]float64{"cycleway": 1}},
		},
	}

	data := osmparser.NewMapData()
	for _, n := range []osmparser.NodeRef{
		osmparser.NewNodeRef(0, 0.5, 0.7),
		osmparser.NewNodeRef(1, 0.4, 0.3),
		osmparser.NewNodeRef(2, 0.2, 0.1),
		osmparser.NewNodeRef(3, 0.3, 0.2),
	} {
		data.Nodes[n.ID] = n
	}
	data.Ways = []osmparser.Way{
		osmparser.NewWay(10, []int64{0, 1}, map[string]string{"highway": "cycleway"}),
		osmparser.NewWay(11, []int64{2, 3}, map[string]string{"highway": "cycleway"}),
	}
	if withLink {
		data.Ways = append(data.Ways, osmparser.NewWay(12, []int64{1, 3}, map[string]string{"highway": "primary"}))
	}

	log := zap.NewNop()
	network, err := engine.BuildNetwork(cfg, data, log)
	require.NoError(t, err)
	eng, err := engine.NewEngine(cfg, network, 1, log)
	require.NoError(t, err)

	rt := spatialindex.NewRtree()
	rt.Build(network.Friendly, log)

	svc := usecases.NewPlannerService(log, eng, rt, 0.05)
	return NewAPI(log).Handler(log, useRateLimit, svc)
}

type body struct {
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func get(t *testing.T, h http.Handler, target string) (int, body) {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var b body
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	}
	return rec.Code, b
}

func TestHeartbeat(t *testing.T) {
	h := newTestHandler(t, true, false)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ".", rec.Body.String())
}

func TestRegionsEndpoint(t *testing.T) {
	h := newTestHandler(t, true, false)

	testCases := []struct {
		name       string
		target     string
		wantStatus int
		wantLen    int
	}{
		{name: "default limit", target: "/api/regions", wantStatus: http.StatusOK, wantLen: 2},
		{name: "limit", target: "/api/regions?limit=1", wantStatus: http.StatusOK, wantLen: 1},
		{name: "not a number", target: "/api/regions?limit=abc", wantStatus: http.StatusBadRequest},
		{name: "zero", target: "/api/regions?limit=0", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			status, b := get(t, h, tt.target)
			require.Equal(t, tt.wantStatus, status)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, "BAD_REQUEST", b.Error.Code)
				return
			}
			var regions []regionJSON
			require.NoError(t, json.Unmarshal(b.Data, &regions))
			require.Len(t, regions, tt.wantLen)
			assert.Equal(t, 1, regions[0].Rank)
			assert.Equal(t, 2, regions[0].Vertices)
		})
	}
}

type regionJSON struct {
	Rank     int     `json:"rank"`
	Vertices int     `json:"vertices"`
	Area     float64 `json:"area"`
}

func TestNearestRegionEndpoint(t *testing.T) {
	h := newTestHandler(t, true, false)

	status, b := get(t, h, "/api/regions/nearest?lat=0.21&lon=0.11")
	require.Equal(t, http.StatusOK, status)
	var region regionJSON
	require.NoError(t, json.Unmarshal(b.Data, &region))
	assert.Equal(t, 2, region.Rank)

	status, b = get(t, h, "/api/regions/nearest?lat=10&lon=10")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", b.Error.Code)

	status, _ = get(t, h, "/api/regions/nearest?lat=91&lon=10")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = get(t, h, "/api/regions/nearest?lon=10")
	assert.Equal(t, http.StatusBadRequest, status)
}

type suggestionJSON struct {
	Strategy string  `json:"strategy"`
	Source   int64   `json:"source"`
	Target   int64   `json:"target"`
	Distance float64 `json:"distance"`
	Path     []struct {
		From int64 `json:"from"`
		To   int64 `json:"to"`
	} `json:"path"`
	Polyline string `json:"polyline"`
}

func TestSuggestionEndpoint(t *testing.T) {
	h := newTestHandler(t, true, false)

	for _, strategy := range []string{"overall", "centreTown", "centreLocal", "existingPaths"} {
		t.Run(strategy, func(t *testing.T) {
			status, b := get(t, h, "/api/suggestions/"+strategy)
			require.Equal(t, http.StatusOK, status)

			var s suggestionJSON
			require.NoError(t, json.Unmarshal(b.Data, &s))
			assert.Equal(t, strategy, s.Strategy)
			assert.Equal(t, int64(1), s.Source)
			assert.Equal(t, int64(3), s.Target)
			require.Len(t, s.Path, 1)
			assert.Greater(t, s.Distance, 0.0)
			assert.NotEmpty(t, s.Polyline)
		})
	}

	status, b := get(t, h, "/api/suggestions/fastest")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, b.Error.Message, "validation error")
}

func TestSuggestionsEndpoint(t *testing.T) {
	h := newTestHandler(t, true, false)

	status, b := get(t, h, "/api/suggestions")
	require.Equal(t, http.StatusOK, status)

	var resp struct {
		Area        string           `json:"area"`
		Suggestions []suggestionJSON `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(b.Data, &resp))
	assert.Equal(t, "Testville", resp.Area)
	assert.Len(t, resp.Suggestions, 4)
}

func TestSuggestionNotFound(t *testing.T) {
	h := newTestHandler(t, false, false)

	status, b := get(t, h, "/api/suggestions/overall")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", b.Error.Code)
}

func TestRateLimit(t *testing.T) {
	viper.Set("RATE_LIMIT_RPS", 0.001)
	viper.Set("RATE_LIMIT_BURST", 2)
	t.Cleanup(func() {
		viper.Set("RATE_LIMIT_RPS", 10)
		viper.Set("RATE_LIMIT_BURST", 20)
	})

	h := newTestHandler(t, true, true)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		status, _ := get(t, h, "/api/regions")
		codes = append(codes, status)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestClientLimitersBounded(t *testing.T) {
	testCases := []struct {
		name    string
		size    int
		clients []string
		wantLen int
	}{
		{name: "evicts least recent", size: 2, clients: []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}, wantLen: 2},
		{name: "same client", size: 2, clients: []string{"10.0.0.1", "10.0.0.1"}, wantLen: 1},
		{name: "size clamped", size: 0, clients: []string{"10.0.0.1", "10.0.0.2"}, wantLen: 1},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			cl := newClientLimiters(rate.Limit(1), 1, tt.size)
			for _, ip := range tt.clients {
				cl.get(ip)
			}
			assert.Equal(t, tt.wantLen, cl.limiters.Len())
		})
	}

	t.Run("limiter kept while tracked", func(t *testing.T) {
		cl := newClientLimiters(rate.Limit(0.001), 1, 2)
		assert.True(t, cl.get("10.0.0.1").Allow())
		assert.False(t, cl.get("10.0.0.1").Allow())

		cl.get("10.0.0.2")
		cl.get("10.0.0.3")
		assert.False(t, cl.limiters.Contains("10.0.0.1"))
		assert.True(t, cl.get("10.0.0.1").Allow())
	})
}
