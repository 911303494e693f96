package milp

import "shopping-tour-service/internal/domain"

// BuildStocked is the richest formulation: purchase variables are integer
// quantities, every item's demand must be met exactly against per-shop stock,
// and a purchase at an unvisited shop or beyond stock is infeasible. Routes
// are the padded multi-route tables.
func BuildStocked(w *domain.World, weights Weights, tuning Tuning) *Problem {
	numShops := len(w.Shops)
	numItems := len(w.Items)
	prices := priceTable(w, tuning.PriceSentinel)
	times, costs, numRoutes := routeTables(w)

	// stock[i][j]: purchasable stock of item i at shop j, 0 for invalid pairings.
	stock := make([][]int, numItems)
	for i, item := range w.Items {
		stock[i] = make([]int, numShops)
		for j, shop := range w.Shops {
			stock[i][j] = shop.Stock(item.Name)
		}
	}

	p := NewProblem("stocked")
	p.NumShops = numShops
	p.NumItems = numItems
	p.NumRoutes = numRoutes
	p.QuantityPurchases = true

	// Buying more than demanded never lowers a minimizing objective, so the
	// demand is a safe upper bound on each purchase variable.
	x := make([][]int, numItems)
	for i, item := range w.Items {
		x[i] = make([]int, numShops)
		for j := range w.Shops {
			x[i][j] = p.AddVar(PurchaseVar(i, j), 0, float64(item.Quantity))
		}
	}
	s := make([]int, numShops)
	for j := range w.Shops {
		s[j] = p.AddBinary(VisitVar(j))
	}
	e := addRouteEdgeVars(p, numShops, numRoutes)
	u := make([]int, numShops)
	for j := range w.Shops {
		u[j] = p.AddVar(OrderVar(j), 0, float64(numShops-1))
	}

	var objective []Term
	for i := range w.Items {
		for j := range w.Shops {
			objective = append(objective, Term{Var: x[i][j], Coef: weights.Cost * prices[i][j]})
		}
	}
	objective = append(objective, routeObjectiveTerms(e, times, costs, weights)...)
	p.Objective = objective

	// Every item's purchased quantity covers its demand.
	for i, item := range w.Items {
		terms := make([]Term, 0, numShops)
		for j := range w.Shops {
			terms = append(terms, Term{Var: x[i][j], Coef: 1})
		}
		p.AddConstraint(terms, GreaterEq, float64(item.Quantity))
	}

	for i := range w.Items {
		terms := make([]Term, 0, numShops)
		for j := range w.Shops {
			terms = append(terms, Term{Var: x[i][j], Coef: prices[i][j]})
		}
		p.AddConstraint(terms, LessEq, tuning.PriceSentinel-1)
	}

	// Stock bound doubling as the visit coupling: x_ij <= stock_ij * s_j.
	for i := range w.Items {
		for j := range w.Shops {
			terms := []Term{
				{Var: x[i][j], Coef: 1},
				{Var: s[j], Coef: -float64(stock[i][j])},
			}
			p.AddConstraint(terms, LessEq, 0)
		}
	}

	addTourConstraints(p, s, func(k, j int) []int { return e[k][j] }, u, numShops)

	return p
}
