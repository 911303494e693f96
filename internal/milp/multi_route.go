package milp

import "shopping-tour-service/internal/domain"

// routeTables returns the per-route time and cost tables over the padded
// route matrix: t[k][j][r] and c[k][j][r] for ordered shop pair (k, j) and
// route index r. Diagonal entries stay nil.
func routeTables(w *domain.World) (times, costs [][][]float64, numRoutes int) {
	numShops := len(w.Shops)
	numRoutes = w.MaxRoutes()
	matrix := w.RouteMatrix(true)

	times = make([][][]float64, numShops)
	costs = make([][][]float64, numShops)
	for k, from := range w.Shops {
		times[k] = make([][]float64, numShops)
		costs[k] = make([][]float64, numShops)
		for j, to := range w.Shops {
			if k == j {
				continue
			}
			routes := matrix[domain.RoutePair{From: from.Name, To: to.Name}]
			times[k][j] = make([]float64, numRoutes)
			costs[k][j] = make([]float64, numRoutes)
			for r := 0; r < numRoutes; r++ {
				times[k][j][r] = routes[r].Time
				costs[k][j][r] = routes[r].Cost
			}
		}
	}
	return times, costs, numRoutes
}

// BuildMultiRoute extends the fixed-distance formulation with one edge
// variable per parallel route, so the tour can trade travel time against
// travel cost per leg. Quantities and stock are still ignored.
func BuildMultiRoute(w *domain.World, weights Weights, tuning Tuning) *Problem {
	numShops := len(w.Shops)
	numItems := len(w.Items)
	prices := priceTable(w, tuning.PriceSentinel)
	times, costs, numRoutes := routeTables(w)

	p := NewProblem("multi-route")
	p.NumShops = numShops
	p.NumItems = numItems
	p.NumRoutes = numRoutes

	x := make([][]int, numItems)
	for i := range w.Items {
		x[i] = make([]int, numShops)
		for j := range w.Shops {
			x[i][j] = p.AddBinary(PurchaseVar(i, j))
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

	for i := range w.Items {
		terms := make([]Term, 0, numShops)
		for j := range w.Shops {
			terms = append(terms, Term{Var: x[i][j], Coef: 1})
		}
		p.AddConstraint(terms, GreaterEq, 1)
	}

	for i := range w.Items {
		terms := make([]Term, 0, numShops)
		for j := range w.Shops {
			terms = append(terms, Term{Var: x[i][j], Coef: prices[i][j]})
		}
		p.AddConstraint(terms, LessEq, tuning.PriceSentinel-1)
	}

	guard := tuning.visitGuardFor(numItems)
	for j := range w.Shops {
		terms := make([]Term, 0, numItems+1)
		for i := range w.Items {
			terms = append(terms, Term{Var: x[i][j], Coef: 1})
		}
		terms = append(terms, Term{Var: s[j], Coef: -guard})
		p.AddConstraint(terms, LessEq, 0)
	}

	addTourConstraints(p, s, func(k, j int) []int { return e[k][j] }, u, numShops)

	return p
}

// addRouteEdgeVars declares one binary edge variable per ordered shop pair
// and route index; e[k][j] is nil on the diagonal.
func addRouteEdgeVars(p *Problem, numShops, numRoutes int) [][][]int {
	e := make([][][]int, numShops)
	for k := 0; k < numShops; k++ {
		e[k] = make([][]int, numShops)
		for j := 0; j < numShops; j++ {
			if k == j {
				continue
			}
			e[k][j] = make([]int, numRoutes)
			for r := 0; r < numRoutes; r++ {
				e[k][j][r] = p.AddBinary(RouteEdgeVar(k, j, r))
			}
		}
	}
	return e
}

// routeObjectiveTerms weights each route edge by its travel time (distance
// KPI) and travel cost (cost KPI).
func routeObjectiveTerms(e [][][]int, times, costs [][][]float64, weights Weights) []Term {
	var terms []Term
	for k := range e {
		for j := range e[k] {
			for r, ev := range e[k][j] {
				coef := weights.Distance*times[k][j][r] + weights.Cost*costs[k][j][r]
				terms = append(terms, Term{Var: ev, Coef: coef})
			}
		}
	}
	return terms
}
