package services

import (
	"errors"
	"fmt"
	"math"

	"shopping-tour-service/internal/domain"
	"shopping-tour-service/internal/milp"
)

// ErrDecode is returned when a solver assignment does not encode a closed
// tour. Given the formulations' ordering constraints this indicates a solver
// or formulation bug; it is never retried.
var ErrDecode = errors.New("decode: assignment does not close into a tour at the origin")

// DecodeSchedule walks a solved assignment back into an ordered schedule.
//
// Starting at shop index 0 it repeatedly collects the purchases assigned to
// the current shop and follows the unique selected outgoing edge, scanning
// destinations (and route indices) in ascending order so decoding is
// deterministic. The loop runs at most numShops+1 times; failing to return
// to the origin within that budget is a fatal decode error.
func DecodeSchedule(w *domain.World, sol *milp.Solution) (*domain.Schedule, error) {
	problem := sol.Problem
	numShops := problem.NumShops
	numItems := problem.NumItems

	var matrix map[domain.RoutePair][]domain.Route
	if problem.NumRoutes > 0 {
		matrix = w.RouteMatrix(true)
	}

	schedule := domain.NewSchedule(w.Origin)
	current := 0

	for step := 0; step <= numShops; step++ {
		if current != 0 {
			for i := 0; i < numItems; i++ {
				quantity := int(math.Round(sol.Value(milp.PurchaseVar(i, current))))
				if quantity <= 0 {
					continue
				}
				if !problem.QuantityPurchases {
					quantity = 1
				}
				schedule.AddPurchase(w.Items[i], w.Shops[current], quantity)
			}
		}

		next, route, err := selectedEdge(w, sol, matrix, current)
		if err != nil {
			return nil, err
		}
		schedule.AddTravel(route)
		current = next

		if current == 0 && len(schedule.TravelDecisions) > 0 {
			return schedule, nil
		}
	}
	return nil, ErrDecode
}

// selectedEdge finds the outgoing edge with value 1 at the current shop and
// resolves it to its route: the walking connector for single-edge
// formulations, an indexed lookup into the padded route matrix otherwise.
func selectedEdge(
	w *domain.World,
	sol *milp.Solution,
	matrix map[domain.RoutePair][]domain.Route,
	current int,
) (int, domain.Route, error) {
	problem := sol.Problem

	for next := 0; next < problem.NumShops; next++ {
		if next == current {
			continue
		}

		if problem.NumRoutes == 0 {
			if math.Round(sol.Value(milp.EdgeVar(current, next))) != 1 {
				continue
			}
			route, err := w.WalkingRoute(w.Shops[current].Name, w.Shops[next].Name)
			if err != nil {
				return 0, domain.Route{}, fmt.Errorf("decode: resolve edge: %w", err)
			}
			return next, route, nil
		}

		for r := 0; r < problem.NumRoutes; r++ {
			if math.Round(sol.Value(milp.RouteEdgeVar(current, next, r))) != 1 {
				continue
			}
			pair := domain.RoutePair{From: w.Shops[current].Name, To: w.Shops[next].Name}
			routes := matrix[pair]
			if r >= len(routes) {
				return 0, domain.Route{}, fmt.Errorf("decode: route index %d out of range for pair %v", r, pair)
			}
			return next, routes[r], nil
		}
	}
	return 0, domain.Route{}, fmt.Errorf("%w: no outgoing edge selected at shop %q", ErrDecode, w.Shops[current].Name)
}
