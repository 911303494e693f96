package domain

import (
	"errors"
	"fmt"
)

// World is the aggregate input of one optimization run: the tour origin, the
// shop list (origin shop first), the shopping list, and the travel network.
// It is immutable after NewWorld; the only mutation performed during assembly
// is patching the origin shop's location to the supplied origin coordinate.
type World struct {
	Origin Coordinates
	Shops  []*Shop
	Items  []*Item
	Routes []Route
}

// NewWorld assembles a world from loaded records.
//
// Assembly guarantees the structural invariants the formulations and the
// decoder rely on:
//   - the origin shop exists, sits at index 0, is located at origin, and
//     offers the forcing product at negligible price with stock 1;
//   - the shopping list contains the forcing product as a quantity-1 item;
//   - a walking route (cost 0, time = straight-line distance) exists for
//     every ordered pair of distinct shops.
//
// A route referencing an unknown shop is a load-time inconsistency and fails
// assembly immediately.
func NewWorld(origin Coordinates, shops []*Shop, items []*Item, routes []Route) (*World, error) {
	byName := make(map[string]*Shop, len(shops))
	for _, s := range shops {
		if _, dup := byName[s.Name]; dup {
			return nil, fmt.Errorf("new world: duplicate shop name %q", s.Name)
		}
		byName[s.Name] = s
	}

	originShop, ok := byName[OriginShopName]
	if !ok {
		originShop = NewShop(OriginShopName, origin)
		byName[OriginShopName] = originShop
		shops = append(shops, originShop)
	}

	// The origin row in shop data carries a placeholder location; the real
	// start/end point is supplied by the caller.
	originShop.Location = origin
	originShop.PriceByProduct[ForcingProduct] = ForcingProductPrice
	originShop.StockByProduct[ForcingProduct] = 1

	ordered := make([]*Shop, 0, len(shops))
	ordered = append(ordered, originShop)
	for _, s := range shops {
		if s.Name != OriginShopName {
			ordered = append(ordered, s)
		}
	}

	for _, r := range routes {
		if _, ok := byName[r.ShopFrom]; !ok {
			return nil, fmt.Errorf("new world: route references unknown shop %q", r.ShopFrom)
		}
		if _, ok := byName[r.ShopTo]; !ok {
			return nil, fmt.Errorf("new world: route references unknown shop %q", r.ShopTo)
		}
		if r.ShopFrom == r.ShopTo {
			return nil, fmt.Errorf("new world: self route at shop %q", r.ShopFrom)
		}
	}

	hasForcing := false
	for _, it := range items {
		if it.Name == ForcingProduct {
			hasForcing = true
		}
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("new world: item %q has non-positive quantity %d", it.Name, it.Quantity)
		}
	}
	allItems := make([]*Item, 0, len(items)+1)
	allItems = append(allItems, items...)
	if !hasForcing {
		allItems = append(allItems, &Item{Name: ForcingProduct, Quantity: 1})
	}

	w := &World{
		Origin: origin,
		Shops:  ordered,
		Items:  allItems,
		Routes: append([]Route(nil), routes...),
	}
	w.Routes = append(w.Routes, w.missingWalkingRoutes()...)
	return w, nil
}

// missingWalkingRoutes synthesizes the zero-cost connector for every ordered
// shop pair that does not already have one.
func (w *World) missingWalkingRoutes() []Route {
	walking := make(map[RoutePair]bool, len(w.Routes))
	for _, r := range w.Routes {
		if r.IsWalking() {
			walking[RoutePair{r.ShopFrom, r.ShopTo}] = true
		}
	}

	var added []Route
	for _, from := range w.Shops {
		for _, to := range w.Shops {
			if from.Name == to.Name || walking[RoutePair{from.Name, to.Name}] {
				continue
			}
			added = append(added, Route{
				ShopFrom: from.Name,
				ShopTo:   to.Name,
				Time:     from.Location.DistanceTo(to.Location),
				Cost:     0,
			})
		}
	}
	return added
}

// UserItems returns the shopping list without the forcing item, for
// user-facing reporting.
func (w *World) UserItems() []*Item {
	items := make([]*Item, 0, len(w.Items))
	for _, it := range w.Items {
		if it.Name != ForcingProduct {
			items = append(items, it)
		}
	}
	return items
}

// UnavailableItems returns list items that no shop offers. A formulation over
// a world with unavailable items is infeasible by construction.
func (w *World) UnavailableItems() []*Item {
	var missing []*Item
	for _, it := range w.Items {
		offered := false
		for _, s := range w.Shops {
			if s.Offers(it.Name) {
				offered = true
				break
			}
		}
		if !offered {
			missing = append(missing, it)
		}
	}
	return missing
}

// ShopIndex returns the position of a shop in the canonical ordering
// (origin first), or -1 when unknown.
func (w *World) ShopIndex(name string) int {
	for i, s := range w.Shops {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// Distances returns the symmetric pairwise straight-line distance table,
// keyed by ordered shop pair and including the zero diagonal.
func (w *World) Distances() map[RoutePair]float64 {
	distances := make(map[RoutePair]float64, len(w.Shops)*len(w.Shops))
	for _, a := range w.Shops {
		for _, b := range w.Shops {
			if _, ok := distances[RoutePair{a.Name, b.Name}]; ok {
				continue
			}
			d := a.Location.DistanceTo(b.Location)
			distances[RoutePair{a.Name, b.Name}] = d
			distances[RoutePair{b.Name, a.Name}] = d
		}
	}
	return distances
}

// MaxRoutes returns the largest route count over all ordered shop pairs.
func (w *World) MaxRoutes() int {
	counts := make(map[RoutePair]int, len(w.Routes))
	max := 0
	for _, r := range w.Routes {
		p := RoutePair{r.ShopFrom, r.ShopTo}
		counts[p]++
		if counts[p] > max {
			max = counts[p]
		}
	}
	return max
}

// RouteMatrix groups routes by ordered shop pair, preserving input order
// within a pair. With padEqual set, every pair of distinct shops is padded
// with dummy routes up to MaxRoutes so variable blocks stay rectangular;
// padding an already rectangular matrix is a no-op.
func (w *World) RouteMatrix(padEqual bool) map[RoutePair][]Route {
	matrix := make(map[RoutePair][]Route, len(w.Shops)*len(w.Shops))
	for _, r := range w.Routes {
		p := RoutePair{r.ShopFrom, r.ShopTo}
		matrix[p] = append(matrix[p], r)
	}
	if !padEqual {
		return matrix
	}

	max := w.MaxRoutes()
	for _, from := range w.Shops {
		for _, to := range w.Shops {
			if from.Name == to.Name {
				continue
			}
			p := RoutePair{from.Name, to.Name}
			for len(matrix[p]) < max {
				matrix[p] = append(matrix[p], Route{
					ShopFrom: from.Name,
					ShopTo:   to.Name,
					Time:     DummyRouteWeight,
					Cost:     DummyRouteWeight,
				})
			}
		}
	}
	return matrix
}

// WalkingRoute returns the zero-cost route for an ordered shop pair.
func (w *World) WalkingRoute(from, to string) (Route, error) {
	for _, r := range w.Routes {
		if r.ShopFrom == from && r.ShopTo == to && r.IsWalking() {
			return r, nil
		}
	}
	return Route{}, errors.New("walking route: no zero-cost route from " + from + " to " + to)
}
