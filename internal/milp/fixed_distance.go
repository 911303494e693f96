package milp

import "shopping-tour-service/internal/domain"

// priceTable returns p[i][j]: the price of item i at shop j, or the sentinel
// when the pairing is invalid (shop does not offer the item).
func priceTable(w *domain.World, sentinel float64) [][]float64 {
	p := make([][]float64, len(w.Items))
	for i, item := range w.Items {
		p[i] = make([]float64, len(w.Shops))
		for j, shop := range w.Shops {
			if price, ok := shop.Price(item.Name); ok {
				p[i][j] = price
			} else {
				p[i][j] = sentinel
			}
		}
	}
	return p
}

// BuildFixedDistance produces the simplest tour formulation: binary purchase
// variables, one implicit walking edge per shop pair, and the symmetric
// straight-line distance table as the travel term. Quantities and stock are
// ignored.
func BuildFixedDistance(w *domain.World, weights Weights, tuning Tuning) *Problem {
	numShops := len(w.Shops)
	numItems := len(w.Items)
	distances := w.Distances()
	prices := priceTable(w, tuning.PriceSentinel)

	p := NewProblem("fixed-distance")
	p.NumShops = numShops
	p.NumItems = numItems

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
	e := make([][]int, numShops)
	for k := range w.Shops {
		e[k] = make([]int, numShops)
		for j := range w.Shops {
			if k == j {
				e[k][j] = -1
				continue
			}
			e[k][j] = p.AddBinary(EdgeVar(k, j))
		}
	}
	u := make([]int, numShops)
	for j := range w.Shops {
		u[j] = p.AddVar(OrderVar(j), 0, float64(numShops-1))
	}

	// Objective: purchase prices weighted by the cost KPI; the single scalar
	// edge weight (distance) carries the distance KPI.
	var objective []Term
	for i := range w.Items {
		for j := range w.Shops {
			objective = append(objective, Term{Var: x[i][j], Coef: weights.Cost * prices[i][j]})
		}
	}
	for k, from := range w.Shops {
		for j, to := range w.Shops {
			if k == j {
				continue
			}
			d := distances[domain.RoutePair{From: from.Name, To: to.Name}]
			objective = append(objective, Term{Var: e[k][j], Coef: weights.Distance * d})
		}
	}
	p.Objective = objective

	// Every item is purchased somewhere.
	for i := range w.Items {
		terms := make([]Term, 0, numShops)
		for j := range w.Shops {
			terms = append(terms, Term{Var: x[i][j], Coef: 1})
		}
		p.AddConstraint(terms, GreaterEq, 1)
	}

	// No item's spend reaches the sentinel, forbidding invalid pairings.
	for i := range w.Items {
		terms := make([]Term, 0, numShops)
		for j := range w.Shops {
			terms = append(terms, Term{Var: x[i][j], Coef: prices[i][j]})
		}
		p.AddConstraint(terms, LessEq, tuning.PriceSentinel-1)
	}

	// A shop with any purchase assigned to it is marked visited.
	guard := tuning.visitGuardFor(numItems)
	for j := range w.Shops {
		terms := make([]Term, 0, numItems+1)
		for i := range w.Items {
			terms = append(terms, Term{Var: x[i][j], Coef: 1})
		}
		terms = append(terms, Term{Var: s[j], Coef: -guard})
		p.AddConstraint(terms, LessEq, 0)
	}

	addTourConstraints(p, s, func(k, j int) []int {
		if e[k][j] < 0 {
			return nil
		}
		return []int{e[k][j]}
	}, u, numShops)

	return p
}

// addTourConstraints emits the degree and Miller–Tucker–Zemlin ordering
// constraints shared by all three formulations. edgeVars returns the variable
// indices of every parallel edge from shop k to shop j (nil when k == j).
func addTourConstraints(p *Problem, s []int, edgeVars func(k, j int) []int, u []int, numShops int) {
	// A visited shop has at least one incoming edge.
	for j := 0; j < numShops; j++ {
		var terms []Term
		for k := 0; k < numShops; k++ {
			for _, ev := range edgeVars(k, j) {
				terms = append(terms, Term{Var: ev, Coef: 1})
			}
		}
		terms = append(terms, Term{Var: s[j], Coef: -1})
		p.AddConstraint(terms, GreaterEq, 0)
	}

	// An unvisited shop has no outgoing edge; a visited one has at most one.
	for k := 0; k < numShops; k++ {
		var terms []Term
		for j := 0; j < numShops; j++ {
			for _, ev := range edgeVars(k, j) {
				terms = append(terms, Term{Var: ev, Coef: 1})
			}
		}
		terms = append(terms, Term{Var: s[k], Coef: -1})
		p.AddConstraint(terms, LessEq, 0)
	}

	// MTZ ordering: u_k - u_j + 1 <= (numShops-2)(1 - e_kj) for every edge
	// leaving a non-origin shop. Forbids closed loops that exclude shop 0.
	for k := 1; k < numShops; k++ {
		for j := 0; j < numShops; j++ {
			for _, ev := range edgeVars(k, j) {
				terms := []Term{
					{Var: u[k], Coef: 1},
					{Var: u[j], Coef: -1},
					{Var: ev, Coef: float64(numShops - 2)},
				}
				p.AddConstraint(terms, LessEq, float64(numShops-2)-1)
			}
		}
	}
}
