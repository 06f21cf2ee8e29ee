package pkg

const (
	INF_WEIGHT float64 = 1e15
)

// defaults used when the configuration file leaves a value out
const (
	DEFAULT_THRESHOLD     = 0.5
	DEFAULT_REGIONS_LIMIT = 10
)

const (
	SUGGESTION_CACHE_SIZE = 16
	RATE_LIMIT_CLIENTS    = 10000
)
