package routing

// Router suggests a path for one strategy. implemented by *Planner.
type Router interface {
	Suggest(strategy Strategy) (*Suggestion, error)
}

var _ Router = (*Planner)(nil)
