// Package solver implements the ports.Solver boundary with an exact
// depth-first branch-and-bound search over the integer variables of a
// milp.Problem.
//
// The search fixes variables in declaration order and prunes on two fronts:
//   - bound pruning: the objective so far plus the minimum possible
//     contribution of the unfixed variables already meets the incumbent;
//   - constraint pruning: a constraint can no longer be satisfied by any
//     completion, tracked incrementally per constraint as variables are
//     fixed.
//
// Reaching a leaf therefore implies feasibility, and exhausting the tree
// without an incumbent proves infeasibility. Runtime is exponential in the
// worst case (the underlying tour problem is NP-hard); a soft time budget is
// enforced through rare deadline checks so pruning hot loops stay cheap.
package solver

import (
	"context"
	"fmt"
	"math"
	"time"

	"shopping-tour-service/internal/milp"
	"shopping-tour-service/internal/ports"
)

// ErrTimeLimit is returned when the time budget runs out before the search
// completes.
var ErrTimeLimit = ports.ErrTimeLimit

// tol absorbs floating-point drift in constraint feasibility checks.
const tol = 1e-6

type Options struct {
	// TimeLimit bounds one Solve call; 0 means no limit beyond ctx.
	TimeLimit time.Duration
	// Eps is the minimum objective improvement for a new incumbent.
	Eps float64
}

// BranchAndBound is the built-in exact solver behind the solver boundary.
type BranchAndBound struct {
	opts Options
}

func NewBranchAndBound(opts Options) *BranchAndBound {
	if opts.Eps < 0 {
		opts.Eps = 0
	}
	return &BranchAndBound{opts: opts}
}

// consRef ties a variable to one constraint it appears in.
type consRef struct {
	cons int
	coef float64
}

// bnbEngine holds all search state. A dedicated engine struct keeps the
// hot-path state predictable and the search testable.
type bnbEngine struct {
	problem *milp.Problem
	n       int
	eps     float64

	// Aggregated objective coefficient per variable.
	objCoef []float64

	// Per-constraint incremental state: fixed contribution plus the minimum
	// and maximum achievable contribution of the still-unfixed variables.
	lhs     []float64
	minRem  []float64
	maxRem  []float64
	varCons [][]consRef

	// Current partial assignment.
	values    []float64
	objSoFar  float64
	objMinRem float64

	// Incumbent.
	best    []float64
	bestObj float64
	found   bool

	// Soft deadline, checked sparsely.
	ctx         context.Context
	useDeadline bool
	deadline    time.Time
	steps       int
	stopped     bool
}

func minContribution(coef, lower, upper float64) float64 {
	if coef >= 0 {
		return coef * lower
	}
	return coef * upper
}

func maxContribution(coef, lower, upper float64) float64 {
	if coef >= 0 {
		return coef * upper
	}
	return coef * lower
}

func (e *bnbEngine) init(p *milp.Problem) {
	e.problem = p
	e.n = len(p.Vars)
	e.values = make([]float64, e.n)
	e.best = make([]float64, e.n)
	e.bestObj = math.Inf(1)

	e.objCoef = make([]float64, e.n)
	for _, t := range p.Objective {
		e.objCoef[t.Var] += t.Coef
	}
	for v, variable := range p.Vars {
		e.objMinRem += minContribution(e.objCoef[v], variable.Lower, variable.Upper)
	}

	e.lhs = make([]float64, len(p.Constraints))
	e.minRem = make([]float64, len(p.Constraints))
	e.maxRem = make([]float64, len(p.Constraints))
	e.varCons = make([][]consRef, e.n)
	for ci, c := range p.Constraints {
		for _, t := range c.Terms {
			variable := p.Vars[t.Var]
			e.minRem[ci] += minContribution(t.Coef, variable.Lower, variable.Upper)
			e.maxRem[ci] += maxContribution(t.Coef, variable.Lower, variable.Upper)
			e.varCons[t.Var] = append(e.varCons[t.Var], consRef{cons: ci, coef: t.Coef})
		}
	}
}

// deadlineCheck performs a rare time test (every 4096 node events).
func (e *bnbEngine) deadlineCheck() bool {
	e.steps++
	if e.steps&4095 != 0 {
		return e.stopped
	}
	if e.ctx.Err() != nil {
		e.stopped = true
	}
	if e.useDeadline && time.Now().After(e.deadline) {
		e.stopped = true
	}
	return e.stopped
}

// fix commits variable v to val, updating the objective and every constraint
// it appears in, and reports whether any completion can still be feasible.
func (e *bnbEngine) fix(v int, val float64) bool {
	variable := e.problem.Vars[v]
	e.values[v] = val
	e.objSoFar += e.objCoef[v] * val
	e.objMinRem -= minContribution(e.objCoef[v], variable.Lower, variable.Upper)

	feasible := true
	for _, ref := range e.varCons[v] {
		e.lhs[ref.cons] += ref.coef * val
		e.minRem[ref.cons] -= minContribution(ref.coef, variable.Lower, variable.Upper)
		e.maxRem[ref.cons] -= maxContribution(ref.coef, variable.Lower, variable.Upper)

		c := e.problem.Constraints[ref.cons]
		switch c.Sense {
		case milp.LessEq:
			if e.lhs[ref.cons]+e.minRem[ref.cons] > c.RHS+tol {
				feasible = false
			}
		case milp.GreaterEq:
			if e.lhs[ref.cons]+e.maxRem[ref.cons] < c.RHS-tol {
				feasible = false
			}
		}
	}
	return feasible
}

// unfix reverses a fix.
func (e *bnbEngine) unfix(v int, val float64) {
	variable := e.problem.Vars[v]
	e.objSoFar -= e.objCoef[v] * val
	e.objMinRem += minContribution(e.objCoef[v], variable.Lower, variable.Upper)
	for _, ref := range e.varCons[v] {
		e.lhs[ref.cons] -= ref.coef * val
		e.minRem[ref.cons] += minContribution(ref.coef, variable.Lower, variable.Upper)
		e.maxRem[ref.cons] += maxContribution(ref.coef, variable.Lower, variable.Upper)
	}
}

func (e *bnbEngine) dfs(v int) {
	if e.deadlineCheck() {
		return
	}

	// Bound pruning: no completion of this partial assignment can beat the
	// incumbent.
	if e.objSoFar+e.objMinRem >= e.bestObj-e.eps {
		return
	}

	// Leaf: constraint pruning kept every constraint satisfiable, and with
	// all variables fixed "satisfiable" means satisfied.
	if v == e.n {
		copy(e.best, e.values)
		e.bestObj = e.objSoFar
		e.found = true
		return
	}

	variable := e.problem.Vars[v]
	for val := variable.Lower; val <= variable.Upper; val++ {
		if e.fix(v, val) {
			e.dfs(v + 1)
		}
		e.unfix(v, val)
		if e.stopped {
			return
		}
	}
}

// Solve runs the search. It returns milp.ErrInfeasible when the full tree is
// exhausted without a feasible leaf, ErrTimeLimit when the time budget ran
// out first, and the optimal assignment otherwise.
func (b *BranchAndBound) Solve(ctx context.Context, problem *milp.Problem) (*milp.Solution, error) {
	if problem == nil || len(problem.Vars) == 0 {
		return nil, fmt.Errorf("branch and bound: empty problem")
	}
	for _, variable := range problem.Vars {
		if variable.Lower > variable.Upper {
			return nil, fmt.Errorf("branch and bound: variable %v has empty domain", variable.Key)
		}
	}

	var e bnbEngine
	e.init(problem)
	e.eps = b.opts.Eps
	e.ctx = ctx
	if b.opts.TimeLimit > 0 {
		e.useDeadline = true
		e.deadline = time.Now().Add(b.opts.TimeLimit)
	}
	if ctxDeadline, ok := ctx.Deadline(); ok && (!e.useDeadline || ctxDeadline.Before(e.deadline)) {
		e.useDeadline = true
		e.deadline = ctxDeadline
	}

	e.dfs(0)

	if e.stopped {
		return nil, ErrTimeLimit
	}
	if !e.found {
		return nil, milp.ErrInfeasible
	}
	return &milp.Solution{
		Problem:   problem,
		Values:    e.best,
		Objective: e.bestObj,
	}, nil
}
