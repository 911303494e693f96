package ports

import (
	"context"
	"errors"

	"shopping-tour-service/internal/milp"
)

// ErrTimeLimit reports that the latency budget elapsed before the search
// finished. Callers needing bounded latency treat it like infeasibility.
var ErrTimeLimit = errors.New("solver: time budget exceeded")

// Port: the boundary to the external mixed-integer solver.
//
// A solver either returns an assignment covering every declared variable or
// the milp.ErrInfeasible sentinel; it never returns an empty assignment for
// an infeasible formulation. Solving is NP-hard and may run for a long time,
// so the caller's latency budget travels in ctx; implementations treat an
// exceeded budget as infeasibility.
type Solver interface {
	Solve(ctx context.Context, problem *milp.Problem) (*milp.Solution, error)
}
