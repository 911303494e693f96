package domain

// A purchase event: quantity units of one item bought at one shop.
// Quantity is 1 for formulations without quantity variables.
type ShopDecision struct {
	Item     *Item
	Shop     *Shop
	Quantity int
}

// A traversal event: one route taken between two shops.
type TravelDecision struct {
	Route Route
}

// Schedule is the shared result type produced by the heuristic schedulers and
// the tour decoder. It holds the purchase and travel decision streams of one
// closed tour and contains no side effects.
type Schedule struct {
	Origin          Coordinates
	ShopDecisions   []ShopDecision
	TravelDecisions []TravelDecision
}

// NewSchedule returns an empty schedule with freshly allocated decision
// slices. Decision storage is never shared between schedules.
func NewSchedule(origin Coordinates) *Schedule {
	return &Schedule{
		Origin:          origin,
		ShopDecisions:   []ShopDecision{},
		TravelDecisions: []TravelDecision{},
	}
}

func (s *Schedule) AddPurchase(item *Item, shop *Shop, quantity int) {
	s.ShopDecisions = append(s.ShopDecisions, ShopDecision{Item: item, Shop: shop, Quantity: quantity})
}

func (s *Schedule) AddTravel(route Route) {
	s.TravelDecisions = append(s.TravelDecisions, TravelDecision{Route: route})
}

// Cost returns the schedule's total monetary cost: quantity-weighted purchase
// prices plus travel costs.
func (s *Schedule) Cost() float64 {
	total := 0.0
	for _, d := range s.ShopDecisions {
		if price, ok := d.Shop.Price(d.Item.Name); ok {
			total += price * float64(d.Quantity)
		}
	}
	for _, t := range s.TravelDecisions {
		total += t.Route.Cost
	}
	return total
}

// Duration returns the total travel time of the schedule.
func (s *Schedule) Duration() float64 {
	total := 0.0
	for _, t := range s.TravelDecisions {
		total += t.Route.Time
	}
	return total
}

// ItemSet returns the set of purchased item names.
func (s *Schedule) ItemSet() map[string]bool {
	set := make(map[string]bool, len(s.ShopDecisions))
	for _, d := range s.ShopDecisions {
		set[d.Item.Name] = true
	}
	return set
}

// ItemQuantities returns the purchased quantity per item name, summed over
// all shops.
func (s *Schedule) ItemQuantities() map[string]int {
	quantities := make(map[string]int, len(s.ShopDecisions))
	for _, d := range s.ShopDecisions {
		quantities[d.Item.Name] += d.Quantity
	}
	return quantities
}

type DecisionKind int

const (
	DecisionTravel DecisionKind = iota
	DecisionPurchase
)

// One record of the merged chronological decision stream.
type Decision struct {
	Kind     DecisionKind
	Travel   *TravelDecision
	Purchase *ShopDecision
}

// Merged interleaves travel and purchase decisions into one chronological
// stream: each travel decision is followed by the purchases made at its
// destination shop. The stream is computed once per call; no cursor state
// survives between calls.
func (s *Schedule) Merged() []Decision {
	consumed := make([]bool, len(s.ShopDecisions))
	stream := make([]Decision, 0, len(s.ShopDecisions)+len(s.TravelDecisions))

	for i := range s.TravelDecisions {
		travel := &s.TravelDecisions[i]
		stream = append(stream, Decision{Kind: DecisionTravel, Travel: travel})
		for j := range s.ShopDecisions {
			if consumed[j] || s.ShopDecisions[j].Shop.Name != travel.Route.ShopTo {
				continue
			}
			consumed[j] = true
			stream = append(stream, Decision{Kind: DecisionPurchase, Purchase: &s.ShopDecisions[j]})
		}
	}

	// Purchases at shops no travel decision reaches (malformed schedules)
	// are still reported, at the end of the stream.
	for j := range s.ShopDecisions {
		if !consumed[j] {
			stream = append(stream, Decision{Kind: DecisionPurchase, Purchase: &s.ShopDecisions[j]})
		}
	}
	return stream
}
