// Package validate is an independent battery of rule checks over a finished
// schedule. Each check is a pure predicate of (world, schedule); no check
// short-circuits another, no check mutates the schedule, and failures are
// reported per check so a caller can see exactly which property broke.
package validate

import "shopping-tour-service/internal/domain"

// Check is one named predicate over a world and a schedule.
type Check struct {
	Name string
	Fn   func(*domain.World, *domain.Schedule) bool
}

// Result is the PASS/FAIL outcome of one check.
type Result struct {
	Name string `json:"name"`
	Pass bool   `json:"pass"`
}

type Report []Result

// Passed reports whether every check in the report passed.
func (r Report) Passed() bool {
	for _, res := range r {
		if !res.Pass {
			return false
		}
	}
	return true
}

// Checks is the canonical suite, in reporting order.
func Checks() []Check {
	return []Check{
		{Name: "AllItemsArePurchased", Fn: AllItemsArePurchased},
		{Name: "AllPurchasesAreItems", Fn: AllPurchasesAreItems},
		{Name: "AllPurchasesAreOffered", Fn: AllPurchasesAreOffered},
		{Name: "ShopsAreVisitedOnce", Fn: ShopsAreVisitedOnce},
		{Name: "TourIsClosedWalk", Fn: TourIsClosedWalk},
		{Name: "StockIsRespected", Fn: StockIsRespected},
	}
}

// Run evaluates the full suite. Every check runs regardless of earlier
// failures.
func Run(w *domain.World, s *domain.Schedule) Report {
	checks := Checks()
	report := make(Report, 0, len(checks))
	for _, c := range checks {
		report = append(report, Result{Name: c.Name, Pass: c.Fn(w, s)})
	}
	return report
}

// AllItemsArePurchased checks that every demanded item appears in the
// purchased item set. The forcing item is exempt: it exists only to pin the
// tour to the origin.
func AllItemsArePurchased(w *domain.World, s *domain.Schedule) bool {
	purchased := s.ItemSet()
	for _, item := range w.Items {
		if item.Name == domain.ForcingProduct {
			continue
		}
		if !purchased[item.Name] {
			return false
		}
	}
	return true
}

// AllPurchasesAreItems checks that every purchased item was on the list.
func AllPurchasesAreItems(w *domain.World, s *domain.Schedule) bool {
	listed := make(map[string]bool, len(w.Items))
	for _, item := range w.Items {
		listed[item.Name] = true
	}
	for name := range s.ItemSet() {
		if !listed[name] {
			return false
		}
	}
	return true
}

// AllPurchasesAreOffered checks that every purchase happened at a shop that
// actually offers the item.
func AllPurchasesAreOffered(_ *domain.World, s *domain.Schedule) bool {
	for _, d := range s.ShopDecisions {
		if !d.Shop.Offers(d.Item.Name) {
			return false
		}
	}
	return true
}

// ShopsAreVisitedOnce checks that purchase decisions at one shop form a
// single contiguous run, i.e. no shop is revisited for later purchases.
func ShopsAreVisitedOnce(_ *domain.World, s *domain.Schedule) bool {
	visited := make(map[string]bool)
	previous := ""
	for _, d := range s.ShopDecisions {
		name := d.Shop.Name
		if name == previous {
			continue
		}
		if visited[name] {
			return false
		}
		visited[name] = true
		previous = name
	}
	return true
}

// TourIsClosedWalk checks that travel decisions chain from the origin back
// to the origin with every leg starting where the previous one ended, and
// that no non-origin shop is entered twice.
func TourIsClosedWalk(_ *domain.World, s *domain.Schedule) bool {
	if len(s.TravelDecisions) == 0 {
		return len(s.ShopDecisions) == 0
	}

	current := domain.OriginShopName
	entered := make(map[string]bool)
	for _, t := range s.TravelDecisions {
		if t.Route.ShopFrom != current {
			return false
		}
		to := t.Route.ShopTo
		if to != domain.OriginShopName {
			if entered[to] {
				return false
			}
			entered[to] = true
		}
		current = to
	}
	return current == domain.OriginShopName
}

// StockIsRespected checks that no item's purchased quantity at a shop
// exceeds that shop's stock.
func StockIsRespected(_ *domain.World, s *domain.Schedule) bool {
	type key struct{ shop, item string }
	totals := make(map[key]int)
	for _, d := range s.ShopDecisions {
		k := key{shop: d.Shop.Name, item: d.Item.Name}
		totals[k] += d.Quantity
		if totals[k] > d.Shop.Stock(d.Item.Name) {
			return false
		}
	}
	return true
}
