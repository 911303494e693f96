package services

import (
	"context"
	"errors"
	"testing"

	"shopping-tour-service/internal/milp"
)

type stubSolver struct {
	err      error
	lastName string
}

func (s *stubSolver) Solve(_ context.Context, p *milp.Problem) (*milp.Solution, error) {
	s.lastName = p.Name
	if s.err != nil {
		return nil, s.err
	}
	return &milp.Solution{Problem: p, Values: make([]float64, len(p.Vars))}, nil
}

func TestParseStrategy(t *testing.T) {
	for _, name := range []string{"basic", "bestprice", "fixed", "multiroute", "stocked"} {
		if _, err := ParseStrategy(name); err != nil {
			t.Fatalf("strategy %q rejected: %v", name, err)
		}
	}
	if _, err := ParseStrategy("annealing"); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestUsesSolver(t *testing.T) {
	if StrategyBasic.UsesSolver() || StrategyBestPrice.UsesSolver() {
		t.Fatal("heuristics must not use the solver")
	}
	if !StrategyFixedDistance.UsesSolver() || !StrategyMultiRoute.UsesSolver() || !StrategyStocked.UsesSolver() {
		t.Fatal("formulation strategies must use the solver")
	}
}

func TestPlanTourHeuristicsSkipSolver(t *testing.T) {
	w := testWorld(t)

	// A nil solver proves the heuristic paths never touch the boundary.
	s, err := PlanTour(context.Background(), w, PlanTourRequest{
		Strategy: StrategyBestPrice,
		Weights:  milp.DefaultWeights(),
		Tuning:   milp.DefaultTuning(),
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.ShopDecisions) == 0 {
		t.Fatal("expected purchases")
	}
}

func TestPlanTourPropagatesInfeasibility(t *testing.T) {
	w := testWorld(t)
	solver := &stubSolver{err: milp.ErrInfeasible}

	_, err := PlanTour(context.Background(), w, PlanTourRequest{
		Strategy: StrategyFixedDistance,
		Weights:  milp.DefaultWeights(),
		Tuning:   milp.DefaultTuning(),
	}, solver)
	if !errors.Is(err, milp.ErrInfeasible) {
		t.Fatalf("expected ErrInfeasible to propagate, got %v", err)
	}
	if solver.lastName != "fixed-distance" {
		t.Fatalf("solved formulation = %q, want fixed-distance", solver.lastName)
	}
}

func TestPlanTourDispatchesFormulation(t *testing.T) {
	w := testWorld(t)

	cases := []struct {
		strategy Strategy
		name     string
	}{
		{StrategyFixedDistance, "fixed-distance"},
		{StrategyMultiRoute, "multi-route"},
		{StrategyStocked, "stocked"},
	}
	for _, tc := range cases {
		solver := &stubSolver{err: milp.ErrInfeasible}
		_, _ = PlanTour(context.Background(), w, PlanTourRequest{
			Strategy: tc.strategy,
			Weights:  milp.DefaultWeights(),
			Tuning:   milp.DefaultTuning(),
		}, solver)
		if solver.lastName != tc.name {
			t.Fatalf("strategy %q built %q, want %q", tc.strategy, solver.lastName, tc.name)
		}
	}
}
