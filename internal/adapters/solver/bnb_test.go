package solver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopping-tour-service/internal/domain"
	"shopping-tour-service/internal/milp"
	"shopping-tour-service/internal/services"
	"shopping-tour-service/internal/validate"
)

type offer struct {
	price float64
	stock int
}

func addOffers(s *domain.Shop, offers map[string]offer) *domain.Shop {
	for product, o := range offers {
		s.PriceByProduct[product] = o.price
		s.StockByProduct[product] = o.stock
	}
	return s
}

func TestSolveMinimizesTinyProblem(t *testing.T) {
	p := milp.NewProblem("tiny")
	x := p.AddBinary(milp.VisitVar(0))
	y := p.AddBinary(milp.VisitVar(1))
	p.Objective = []milp.Term{{Var: x, Coef: 1}, {Var: y, Coef: 2}}
	p.AddConstraint([]milp.Term{{Var: x, Coef: 1}, {Var: y, Coef: 1}}, milp.GreaterEq, 1)

	sol, err := NewBranchAndBound(Options{}).Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 1.0, sol.Objective)
	assert.Equal(t, 1.0, sol.Values[x])
	assert.Equal(t, 0.0, sol.Values[y])
}

func TestSolveReportsInfeasibility(t *testing.T) {
	p := milp.NewProblem("contradiction")
	x := p.AddBinary(milp.VisitVar(0))
	p.AddConstraint([]milp.Term{{Var: x, Coef: 1}}, milp.GreaterEq, 1)
	p.AddConstraint([]milp.Term{{Var: x, Coef: 1}}, milp.LessEq, 0)

	_, err := NewBranchAndBound(Options{}).Solve(context.Background(), p)
	require.ErrorIs(t, err, milp.ErrInfeasible)
}

func TestSolveRejectsMalformedProblems(t *testing.T) {
	bnb := NewBranchAndBound(Options{})

	_, err := bnb.Solve(context.Background(), nil)
	require.Error(t, err)

	_, err = bnb.Solve(context.Background(), milp.NewProblem("empty"))
	require.Error(t, err)

	bad := milp.NewProblem("bad-domain")
	bad.AddVar(milp.VisitVar(0), 2, 1)
	_, err = bnb.Solve(context.Background(), bad)
	require.Error(t, err)
}

func TestSolveIntegerQuantities(t *testing.T) {
	// Minimize 2a + 3b with a + b >= 4, a <= 3: optimum a=3, b=1, obj 9.
	p := milp.NewProblem("quantities")
	a := p.AddVar(milp.PurchaseVar(0, 0), 0, 3)
	b := p.AddVar(milp.PurchaseVar(0, 1), 0, 10)
	p.Objective = []milp.Term{{Var: a, Coef: 2}, {Var: b, Coef: 3}}
	p.AddConstraint([]milp.Term{{Var: a, Coef: 1}, {Var: b, Coef: 1}}, milp.GreaterEq, 4)

	sol, err := NewBranchAndBound(Options{}).Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 9.0, sol.Objective)
	assert.Equal(t, 3.0, sol.Values[a])
	assert.Equal(t, 1.0, sol.Values[b])
}

func TestSolveFixedDistanceEndToEnd(t *testing.T) {
	alpha := addOffers(domain.NewShop("alpha", domain.Coordinates{X: 10, Y: 13}), map[string]offer{
		"milk": {price: 2.5, stock: 4},
	})
	beta := addOffers(domain.NewShop("beta", domain.Coordinates{X: 14, Y: 13}), map[string]offer{
		"milk":  {price: 1.5, stock: 2},
		"bread": {price: 3.0, stock: 10},
	})
	items := []*domain.Item{
		{Name: "milk", Quantity: 1},
		{Name: "bread", Quantity: 1},
	}
	w, err := domain.NewWorld(domain.Coordinates{X: 10, Y: 10}, []*domain.Shop{alpha, beta}, items, nil)
	require.NoError(t, err)

	p := milp.BuildFixedDistance(w, milp.DefaultWeights(), milp.DefaultTuning())
	sol, err := NewBranchAndBound(Options{TimeLimit: 30 * time.Second}).Solve(context.Background(), p)
	require.NoError(t, err)

	schedule, err := services.DecodeSchedule(w, sol)
	require.NoError(t, err)

	report := validate.Run(w, schedule)
	assert.True(t, report.Passed(), "validation report: %+v", report)

	// Everything is cheapest at beta once travel distance is paid either way,
	// and the single-stop tour beats visiting both shops.
	assert.ElementsMatch(t, []string{"milk", "bread"}, keys(schedule.ItemSet()))
}

func TestSolveStockedSplitsDemandAcrossShops(t *testing.T) {
	// Neither shop stocks the full demand of 3, so the optimum must split.
	alpha := addOffers(domain.NewShop("alpha", domain.Coordinates{X: 10, Y: 13}), map[string]offer{
		"milk": {price: 1.0, stock: 2},
	})
	beta := addOffers(domain.NewShop("beta", domain.Coordinates{X: 14, Y: 13}), map[string]offer{
		"milk": {price: 1.2, stock: 2},
	})
	items := []*domain.Item{{Name: "milk", Quantity: 3}}
	w, err := domain.NewWorld(domain.Coordinates{X: 10, Y: 10}, []*domain.Shop{alpha, beta}, items, nil)
	require.NoError(t, err)

	p := milp.BuildStocked(w, milp.DefaultWeights(), milp.DefaultTuning())
	sol, err := NewBranchAndBound(Options{TimeLimit: 30 * time.Second}).Solve(context.Background(), p)
	require.NoError(t, err)

	schedule, err := services.DecodeSchedule(w, sol)
	require.NoError(t, err)

	report := validate.Run(w, schedule)
	assert.True(t, report.Passed(), "validation report: %+v", report)
	assert.Equal(t, 3, schedule.ItemQuantities()["milk"])

	// The cheap shop is drained first: 2 units at 1.0, 1 unit at 1.2.
	perShop := map[string]int{}
	for _, d := range schedule.ShopDecisions {
		if d.Item.Name == "milk" {
			perShop[d.Shop.Name] += d.Quantity
		}
	}
	assert.Equal(t, 2, perShop["alpha"])
	assert.Equal(t, 1, perShop["beta"])
}

func TestSolveMultiRoutePicksParallelRouteByWeights(t *testing.T) {
	// One shop, reachable by a fast expensive bus or the free 3-unit walk.
	alpha := addOffers(domain.NewShop("alpha", domain.Coordinates{X: 10, Y: 13}), map[string]offer{
		"milk": {price: 2.0, stock: 4},
	})
	items := []*domain.Item{{Name: "milk", Quantity: 1}}
	routes := []domain.Route{
		{ShopFrom: domain.OriginShopName, ShopTo: "alpha", Time: 1, Cost: 10},
		{ShopFrom: "alpha", ShopTo: domain.OriginShopName, Time: 1, Cost: 10},
	}
	w, err := domain.NewWorld(domain.Coordinates{X: 10, Y: 10}, []*domain.Shop{alpha}, items, routes)
	require.NoError(t, err)

	legs := func(weights milp.Weights) []domain.Route {
		p := milp.BuildMultiRoute(w, weights, milp.DefaultTuning())
		sol, err := NewBranchAndBound(Options{TimeLimit: 30 * time.Second}).Solve(context.Background(), p)
		require.NoError(t, err)

		schedule, err := services.DecodeSchedule(w, sol)
		require.NoError(t, err)

		report := validate.Run(w, schedule)
		assert.True(t, report.Passed(), "validation report: %+v", report)

		out := make([]domain.Route, 0, len(schedule.TravelDecisions))
		for _, d := range schedule.TravelDecisions {
			out = append(out, d.Route)
		}
		return out
	}

	// Cost-heavy weights walk both legs; time-heavy weights ride the bus.
	for _, leg := range legs(milp.Weights{Cost: 1, Distance: 0.01}) {
		assert.True(t, leg.IsWalking(), "leg %+v", leg)
	}
	for _, leg := range legs(milp.Weights{Cost: 0.0001, Distance: 1}) {
		assert.Equal(t, 1.0, leg.Time, "leg %+v", leg)
		assert.Equal(t, 10.0, leg.Cost, "leg %+v", leg)
	}
}

func TestSolveUnavailableItemIsInfeasible(t *testing.T) {
	alpha := addOffers(domain.NewShop("alpha", domain.Coordinates{X: 10, Y: 13}), map[string]offer{
		"milk": {price: 2.5, stock: 4},
	})
	items := []*domain.Item{
		{Name: "milk", Quantity: 1},
		{Name: "caviar", Quantity: 1},
	}
	w, err := domain.NewWorld(domain.Coordinates{X: 10, Y: 10}, []*domain.Shop{alpha}, items, nil)
	require.NoError(t, err)
	require.Len(t, w.UnavailableItems(), 1)

	p := milp.BuildFixedDistance(w, milp.DefaultWeights(), milp.DefaultTuning())
	_, err = NewBranchAndBound(Options{TimeLimit: 30 * time.Second}).Solve(context.Background(), p)
	require.ErrorIs(t, err, milp.ErrInfeasible)
}

func TestSolveStopsOnCancelledContext(t *testing.T) {
	// Large enough that the search cannot finish before the first sparse
	// deadline check.
	shops := make([]*domain.Shop, 0, 8)
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	products := []string{"p0", "p1", "p2", "p3", "p4", "p5"}
	for i, name := range names {
		offers := map[string]offer{}
		for k, product := range products {
			offers[product] = offer{price: float64(1 + (i+k)%7), stock: 3}
		}
		shops = append(shops, addOffers(domain.NewShop(name, domain.Coordinates{X: float64(i * 3), Y: float64(i % 4)}), offers))
	}
	items := make([]*domain.Item, 0, len(products))
	for _, product := range products {
		items = append(items, &domain.Item{Name: product, Quantity: 1})
	}
	w, err := domain.NewWorld(domain.Coordinates{X: 0, Y: 0}, shops, items, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := milp.BuildFixedDistance(w, milp.DefaultWeights(), milp.DefaultTuning())
	_, err = NewBranchAndBound(Options{}).Solve(ctx, p)
	require.ErrorIs(t, err, ErrTimeLimit)
}

func TestSolveIsDeterministic(t *testing.T) {
	p1 := milp.NewProblem("det")
	a := p1.AddBinary(milp.VisitVar(0))
	b := p1.AddBinary(milp.VisitVar(1))
	p1.Objective = []milp.Term{{Var: a, Coef: 1}, {Var: b, Coef: 1}}
	p1.AddConstraint([]milp.Term{{Var: a, Coef: 1}, {Var: b, Coef: 1}}, milp.GreaterEq, 1)

	first, err := NewBranchAndBound(Options{}).Solve(context.Background(), p1)
	require.NoError(t, err)
	second, err := NewBranchAndBound(Options{}).Solve(context.Background(), p1)
	require.NoError(t, err)
	assert.Equal(t, first.Values, second.Values)
	assert.Equal(t, first.Objective, second.Objective)
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
