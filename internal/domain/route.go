package domain

// DummyRouteWeight is the time and cost assigned to padding routes inserted
// by World.RouteMatrix so every ordered shop pair carries the same route
// count. A minimizing objective never selects a dummy route.
const DummyRouteWeight = 120 * 10000

// A directed connection between two shops. Multiple routes may exist for the
// same ordered pair with distinct time/cost trade-offs. A zero-cost route
// ("walking") exists for every ordered pair of distinct shops and is the
// fallback connector used by heuristics.
type Route struct {
	ShopFrom string
	ShopTo   string
	Time     float64
	Cost     float64
}

// IsWalking reports whether this is the zero-cost fallback route.
func (r Route) IsWalking() bool { return r.Cost == 0 && !r.IsDummy() }

// IsDummy reports whether this is a padding route that no optimal or
// near-optimal schedule may use.
func (r Route) IsDummy() bool { return r.Time >= DummyRouteWeight && r.Cost >= DummyRouteWeight }

// An ordered (from, to) shop pair used as a key into route tables.
type RoutePair struct {
	From string
	To   string
}
