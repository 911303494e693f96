package domain

import (
	"strings"
	"testing"
)

func testShops() []*Shop {
	alpha := NewShop("alpha", Coordinates{X: 10, Y: 13})
	alpha.PriceByProduct["milk"] = 2.5
	alpha.StockByProduct["milk"] = 4

	beta := NewShop("beta", Coordinates{X: 14, Y: 13})
	beta.PriceByProduct["milk"] = 1.5
	beta.StockByProduct["milk"] = 2
	beta.PriceByProduct["bread"] = 3.0
	beta.StockByProduct["bread"] = 10

	return []*Shop{alpha, beta}
}

func TestNewWorldSynthesizesOrigin(t *testing.T) {
	origin := Coordinates{X: 10, Y: 10}
	w, err := NewWorld(origin, testShops(), []*Item{{Name: "milk", Quantity: 1}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if w.Shops[0].Name != OriginShopName {
		t.Fatalf("expected origin shop at index 0, got %q", w.Shops[0].Name)
	}
	if w.Shops[0].Location != origin {
		t.Fatalf("origin shop location = %v, want %v", w.Shops[0].Location, origin)
	}
	if price, ok := w.Shops[0].Price(ForcingProduct); !ok || price != ForcingProductPrice {
		t.Fatalf("forcing product price = %v (ok=%v), want %v", price, ok, ForcingProductPrice)
	}

	last := w.Items[len(w.Items)-1]
	if last.Name != ForcingProduct || last.Quantity != 1 {
		t.Fatalf("expected forcing item appended, got %+v", last)
	}
	if len(w.UserItems()) != 1 || w.UserItems()[0].Name != "milk" {
		t.Fatalf("user items = %+v, want just milk", w.UserItems())
	}
}

func TestNewWorldPatchesExistingOriginRow(t *testing.T) {
	shops := testShops()
	shops = append(shops, NewShop(OriginShopName, Coordinates{X: 999, Y: 999}))

	origin := Coordinates{X: 10, Y: 10}
	w, err := NewWorld(origin, shops, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.Shops) != 3 {
		t.Fatalf("expected 3 shops, got %d", len(w.Shops))
	}
	if w.Shops[0].Name != OriginShopName || w.Shops[0].Location != origin {
		t.Fatalf("origin row not reordered and patched: %+v", w.Shops[0])
	}
}

func TestNewWorldRejectsBadInput(t *testing.T) {
	origin := Coordinates{X: 0, Y: 0}

	dup := []*Shop{NewShop("a", origin), NewShop("a", origin)}
	if _, err := NewWorld(origin, dup, nil, nil); err == nil || !strings.Contains(err.Error(), "duplicate shop") {
		t.Fatalf("expected duplicate shop error, got %v", err)
	}

	if _, err := NewWorld(origin, testShops(), nil, []Route{{ShopFrom: "alpha", ShopTo: "nowhere", Time: 1, Cost: 1}}); err == nil {
		t.Fatal("expected unknown shop route error")
	}

	if _, err := NewWorld(origin, testShops(), nil, []Route{{ShopFrom: "alpha", ShopTo: "alpha", Time: 1, Cost: 1}}); err == nil {
		t.Fatal("expected self route error")
	}

	if _, err := NewWorld(origin, testShops(), []*Item{{Name: "milk", Quantity: 0}}, nil); err == nil {
		t.Fatal("expected non-positive quantity error")
	}
}

func TestWalkingNetworkIsComplete(t *testing.T) {
	w, err := NewWorld(Coordinates{X: 10, Y: 10}, testShops(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 3 shops, every ordered pair gets a walking connector.
	for _, from := range w.Shops {
		for _, to := range w.Shops {
			if from.Name == to.Name {
				continue
			}
			route, err := w.WalkingRoute(from.Name, to.Name)
			if err != nil {
				t.Fatalf("missing walking route %s -> %s: %v", from.Name, to.Name, err)
			}
			if route.Cost != 0 {
				t.Fatalf("walking route has cost %v", route.Cost)
			}
			if want := from.Location.DistanceTo(to.Location); route.Time != want {
				t.Fatalf("walking time %s -> %s = %v, want %v", from.Name, to.Name, route.Time, want)
			}
		}
	}

	if _, err := w.WalkingRoute("alpha", "alpha"); err == nil {
		t.Fatal("expected error for self pair")
	}
}

func TestDistancesAreSymmetric(t *testing.T) {
	w, err := NewWorld(Coordinates{X: 10, Y: 10}, testShops(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := w.Distances()
	if got := d[RoutePair{From: OriginShopName, To: "alpha"}]; got != 3 {
		t.Fatalf("origin-alpha distance = %v, want 3", got)
	}
	for _, a := range w.Shops {
		for _, b := range w.Shops {
			ab := d[RoutePair{From: a.Name, To: b.Name}]
			ba := d[RoutePair{From: b.Name, To: a.Name}]
			if ab != ba {
				t.Fatalf("asymmetric distance %s/%s: %v vs %v", a.Name, b.Name, ab, ba)
			}
		}
	}
	if d[RoutePair{From: "alpha", To: "alpha"}] != 0 {
		t.Fatal("diagonal distance must be 0")
	}
}

func TestRouteMatrixPadding(t *testing.T) {
	extra := []Route{
		{ShopFrom: "alpha", ShopTo: "beta", Time: 2, Cost: 5},
		{ShopFrom: "alpha", ShopTo: "beta", Time: 1, Cost: 9},
	}
	w, err := NewWorld(Coordinates{X: 10, Y: 10}, testShops(), nil, extra)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Two bus routes plus the synthesized walking connector.
	if got := w.MaxRoutes(); got != 3 {
		t.Fatalf("MaxRoutes = %d, want 3", got)
	}

	padded := w.RouteMatrix(true)
	for _, from := range w.Shops {
		for _, to := range w.Shops {
			if from.Name == to.Name {
				continue
			}
			routes := padded[RoutePair{From: from.Name, To: to.Name}]
			if len(routes) != 3 {
				t.Fatalf("pair %s -> %s has %d routes, want 3", from.Name, to.Name, len(routes))
			}
		}
	}

	// Sparse pairs are filled with dummies that nothing should ever select.
	filler := padded[RoutePair{From: "beta", To: "alpha"}]
	if !filler[1].IsDummy() || !filler[2].IsDummy() {
		t.Fatalf("expected dummy padding, got %+v", filler[1:])
	}
	if filler[0].IsDummy() {
		t.Fatal("walking connector must not be a dummy")
	}

	// Padding a rectangular matrix changes nothing.
	again := w.RouteMatrix(true)
	for pair, routes := range padded {
		if len(again[pair]) != len(routes) {
			t.Fatalf("padding is not idempotent for pair %v", pair)
		}
	}
}

func TestUnavailableItems(t *testing.T) {
	items := []*Item{
		{Name: "milk", Quantity: 1},
		{Name: "caviar", Quantity: 2},
	}
	w, err := NewWorld(Coordinates{X: 10, Y: 10}, testShops(), items, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missing := w.UnavailableItems()
	if len(missing) != 1 || missing[0].Name != "caviar" {
		t.Fatalf("unavailable items = %+v, want caviar", missing)
	}
}

func TestShopIndex(t *testing.T) {
	w, err := NewWorld(Coordinates{X: 10, Y: 10}, testShops(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := w.ShopIndex(OriginShopName); got != 0 {
		t.Fatalf("origin index = %d, want 0", got)
	}
	if got := w.ShopIndex("beta"); got != 2 {
		t.Fatalf("beta index = %d, want 2", got)
	}
	if got := w.ShopIndex("nowhere"); got != -1 {
		t.Fatalf("unknown shop index = %d, want -1", got)
	}
}
