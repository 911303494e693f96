package services

import (
	"context"
	"fmt"

	"shopping-tour-service/internal/domain"
	"shopping-tour-service/internal/milp"
	"shopping-tour-service/internal/platform/obs"
	"shopping-tour-service/internal/ports"
)

// Strategy selects how a tour is produced: two greedy heuristics that never
// touch the solver, and three solver-backed formulations of escalating
// fidelity.
type Strategy string

const (
	StrategyBasic         Strategy = "basic"
	StrategyBestPrice     Strategy = "bestprice"
	StrategyFixedDistance Strategy = "fixed"
	StrategyMultiRoute    Strategy = "multiroute"
	StrategyStocked       Strategy = "stocked"
)

// ParseStrategy validates a strategy name from an external request.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyBasic, StrategyBestPrice, StrategyFixedDistance, StrategyMultiRoute, StrategyStocked:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("parse strategy: unknown strategy %q", s)
}

// UsesSolver reports whether the strategy needs the solver boundary.
func (s Strategy) UsesSolver() bool {
	return s == StrategyFixedDistance || s == StrategyMultiRoute || s == StrategyStocked
}

type PlanTourRequest struct {
	Strategy Strategy
	Weights  milp.Weights
	Tuning   milp.Tuning
}

// PlanTour produces one closed tour for the world using the requested
// strategy. Solver-backed strategies build their formulation, hand it to the
// solver boundary, and decode the assignment; milp.ErrInfeasible propagates
// unchanged so callers can distinguish infeasibility from a zero-cost tour.
func PlanTour(ctx context.Context, w *domain.World, req PlanTourRequest, solver ports.Solver) (_ *domain.Schedule, err error) {
	defer obs.Time(ctx, "services.PlanTour."+string(req.Strategy))(&err)

	switch req.Strategy {
	case StrategyBasic:
		return BasicSchedule(w)
	case StrategyBestPrice:
		return BestPriceSchedule(w)
	}

	var problem *milp.Problem
	switch req.Strategy {
	case StrategyFixedDistance:
		problem = milp.BuildFixedDistance(w, req.Weights, req.Tuning)
	case StrategyMultiRoute:
		problem = milp.BuildMultiRoute(w, req.Weights, req.Tuning)
	case StrategyStocked:
		problem = milp.BuildStocked(w, req.Weights, req.Tuning)
	default:
		return nil, fmt.Errorf("plan tour: unknown strategy %q", req.Strategy)
	}

	solution, err := solver.Solve(ctx, problem)
	if err != nil {
		return nil, fmt.Errorf("plan tour: solve %s: %w", problem.Name, err)
	}

	schedule, err := DecodeSchedule(w, solution)
	if err != nil {
		return nil, fmt.Errorf("plan tour: %w", err)
	}
	return schedule, nil
}
