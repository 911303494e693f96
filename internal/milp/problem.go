// Package milp holds the mixed-integer formulation types shared by the
// formulation builders, the solver boundary, and the tour decoder.
//
// Variables are addressed by structured VarKey indices (kind + small integer
// tuple) rather than by generated name strings, so the decoder and any solver
// implementation share one indexing contract with no textual coupling.
package milp

import "errors"

// ErrInfeasible is reported by a solver when a formulation admits no
// assignment. It is always distinguishable from a solved zero-cost tour.
var ErrInfeasible = errors.New("milp: formulation is infeasible")

type VarKind int

const (
	// VarPurchase is x_ij: item I purchased at shop J (binary or quantity).
	VarPurchase VarKind = iota
	// VarVisit is s_j: shop J is visited.
	VarVisit
	// VarEdge is e_kjr: shop J follows shop I, over route R (R is -1 for
	// single-edge formulations).
	VarEdge
	// VarOrder is u_j: the tour position of shop J, used for sub-tour
	// elimination.
	VarOrder
)

// VarKey is the structural index of one variable. Fields that do not apply
// to a kind are -1.
type VarKey struct {
	Kind VarKind
	I    int // purchase: item index; edge: from-shop index
	J    int // shop index; edge: to-shop index
	R    int // edge: route index, -1 when the formulation has one edge per pair
}

func PurchaseVar(item, shop int) VarKey { return VarKey{Kind: VarPurchase, I: item, J: shop, R: -1} }
func VisitVar(shop int) VarKey          { return VarKey{Kind: VarVisit, I: -1, J: shop, R: -1} }
func EdgeVar(from, to int) VarKey       { return VarKey{Kind: VarEdge, I: from, J: to, R: -1} }
func RouteEdgeVar(from, to, route int) VarKey {
	return VarKey{Kind: VarEdge, I: from, J: to, R: route}
}
func OrderVar(shop int) VarKey { return VarKey{Kind: VarOrder, I: -1, J: shop, R: -1} }

// Variable is one integer decision variable with inclusive bounds.
// Binary variables are modeled as [0, 1].
type Variable struct {
	Key   VarKey
	Lower float64
	Upper float64
}

// Term is one coefficient in a linear expression.
type Term struct {
	Var  int
	Coef float64
}

type Sense int

const (
	LessEq Sense = iota
	GreaterEq
)

// Constraint is a linear inequality over the problem's variables.
type Constraint struct {
	Terms []Term
	Sense Sense
	RHS   float64
}

// Problem is one complete minimization formulation: variables, a linear
// objective, and linear constraints, plus the structural metadata the tour
// decoder needs to walk a solution back into a schedule.
type Problem struct {
	Name        string
	Vars        []Variable
	Objective   []Term
	Constraints []Constraint

	// Decoding metadata, filled by the formulation builders.
	NumShops          int
	NumItems          int
	NumRoutes         int  // 0: single implicit walking edge per pair
	QuantityPurchases bool // purchase variables carry quantities, not flags

	index map[VarKey]int
}

func NewProblem(name string) *Problem {
	return &Problem{Name: name, index: map[VarKey]int{}}
}

// AddVar declares a variable and returns its dense index.
func (p *Problem) AddVar(key VarKey, lower, upper float64) int {
	idx := len(p.Vars)
	p.Vars = append(p.Vars, Variable{Key: key, Lower: lower, Upper: upper})
	p.index[key] = idx
	return idx
}

// AddBinary declares a 0/1 variable and returns its dense index.
func (p *Problem) AddBinary(key VarKey) int { return p.AddVar(key, 0, 1) }

// Lookup resolves a structural key to its dense variable index.
func (p *Problem) Lookup(key VarKey) (int, bool) {
	idx, ok := p.index[key]
	return idx, ok
}

func (p *Problem) AddConstraint(terms []Term, sense Sense, rhs float64) {
	p.Constraints = append(p.Constraints, Constraint{Terms: terms, Sense: sense, RHS: rhs})
}

// Solution is a solver assignment over a problem's variables.
type Solution struct {
	Problem   *Problem
	Values    []float64
	Objective float64
}

// Value returns the assigned value of the variable at a structural key,
// or 0 when the formulation declared no such variable.
func (s *Solution) Value(key VarKey) float64 {
	idx, ok := s.Problem.Lookup(key)
	if !ok {
		return 0
	}
	return s.Values[idx]
}
