package milp

// Weights scale the two KPI terms of every formulation's objective:
// Cost multiplies monetary terms (purchases plus travel cost), Distance
// multiplies travel time.
type Weights struct {
	Cost     float64
	Distance float64
}

func DefaultWeights() Weights { return Weights{Cost: 1, Distance: 1} }

// Tuning holds the two large formulation constants. They serve unrelated
// purposes and are configured independently.
type Tuning struct {
	// PriceSentinel marks an invalid (item, shop) pairing in the price
	// table. Bounding each item's total spend strictly below the sentinel
	// forbids purchases at shops that do not offer the item.
	PriceSentinel float64

	// VisitGuard couples a shop's purchase count to its visit indicator.
	// It must be at least the number of list items; builders raise it to
	// that floor when the configured value is too small for the instance.
	VisitGuard float64
}

func DefaultTuning() Tuning {
	return Tuning{
		PriceSentinel: 120 * 10000,
		VisitGuard:    1000,
	}
}

// visitGuardFor returns the coupling coefficient for an instance with the
// given item count. The guard has to dominate the largest possible purchase
// count at one shop or the coupling constraint would cut off valid tours.
func (t Tuning) visitGuardFor(numItems int) float64 {
	if float64(numItems) > t.VisitGuard {
		return float64(numItems)
	}
	return t.VisitGuard
}
