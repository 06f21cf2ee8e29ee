package routing

import "errors"

type Strategy string

const (
	STRATEGY_OVERALL        Strategy = "overall"
	STRATEGY_CENTRE_TOWN    Strategy = "centreTown"
	STRATEGY_CENTRE_LOCAL   Strategy = "centreLocal"
	STRATEGY_EXISTING_PATHS Strategy = "existingPaths"
)

var (
	ErrNoPathAvailable = errors.New("graph is fully connected, no paths suggested")
	ErrNoSuggestedPath = errors.New("no suggested path between regions")
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// Strategies lists every strategy in report order.
func Strategies() []Strategy {
	return []Strategy{STRATEGY_OVERALL, STRATEGY_CENTRE_TOWN, STRATEGY_CENTRE_LOCAL, STRATEGY_EXISTING_PATHS}
}

func ParseStrategy(name string) (Strategy, error) {
	for _, s := range Strategies() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", ErrUnknownStrategy
}
