// Package exact provides a pure-Go reference solver for the [mip.Solver]
// interface.
//
// The solver is complete and optimal for the model class it supports:
// objectives over binary variables, and constraints in which at most two
// continuous variables appear, each with coefficient +1 or -1. Once all
// binaries are fixed, every such constraint is a difference constraint
// (x - y <= c), so continuous feasibility reduces to negative-cycle
// detection with Bellman-Ford. Binary assignments are enumerated by
// branch-and-bound with unit propagation over all-binary constraints and
// pruning against the incumbent objective.
//
// This class covers disjunctive big-M orderings and one-hot selector models.
// Models outside it are rejected with [ErrUnsupportedModel] instead of being
// answered incorrectly.
package exact

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/matzehuels/rankforge/pkg/mip"
)

var (
	// ErrUnsupportedModel is returned when a constraint cannot be reduced to
	// difference-logic form (more than two continuous terms, or a continuous
	// coefficient other than +1/-1).
	ErrUnsupportedModel = errors.New("model is not in difference-logic form")

	// ErrNoIncumbent is returned when the time budget or context expired
	// before any feasible assignment was found.
	ErrNoIncumbent = errors.New("interrupted before a feasible assignment was found")
)

// eps absorbs floating-point drift; all model data here is small integers.
const eps = 1e-6

// Solver is an exact branch-and-bound solver for difference-logic models.
//
// The zero value solves without a time budget. A Solver is stateless across
// calls and safe for concurrent use by multiple goroutines.
type Solver struct {
	// TimeLimit bounds a single Solve call. Zero means no limit. When the
	// limit expires after a feasible point was found, Solve returns a
	// StatusBestEffort result instead of an error.
	TimeLimit time.Duration
}

// New creates a solver without a time budget.
func New() *Solver { return &Solver{} }

// normalized is a constraint rewritten as sum <= rhs with the continuous
// part split out: pos - neg + sum(binTerms) <= rhs.
type normalized struct {
	name     string
	pos, neg int // continuous var handles, -1 if absent
	binTerms []mip.Term
	rhs      float64
}

// Solve runs branch-and-bound to a proven optimum, the time budget, or
// context expiry.
func (s *Solver) Solve(ctx context.Context, m *mip.Model) (mip.Result, error) {
	if s.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.TimeLimit)
		defer cancel()
	}

	st, err := newSearch(m)
	if err != nil {
		return mip.Result{}, err
	}

	if err := st.run(ctx); err != nil {
		if st.best != nil && errors.Is(err, context.DeadlineExceeded) {
			return mip.Result{
				Status:        mip.StatusBestEffort,
				Assignment:    st.best,
				Objective:     m.Objective(st.best),
				ProvenOptimal: false,
			}, nil
		}
		if st.best == nil && errors.Is(err, context.DeadlineExceeded) {
			return mip.Result{}, fmt.Errorf("%w: %v", ErrNoIncumbent, err)
		}
		return mip.Result{}, err
	}

	if st.best == nil {
		return mip.Result{Status: mip.StatusInfeasible}, nil
	}
	return mip.Result{
		Status:        mip.StatusOptimal,
		Assignment:    st.best,
		Objective:     m.Objective(st.best),
		ProvenOptimal: true,
	}, nil
}

// search holds the per-call state of one branch-and-bound run.
type search struct {
	model     *mip.Model
	binaries  []mip.Var    // branch order
	contIndex map[int]int  // var handle -> dense continuous index
	contVars  []mip.Var    // dense index -> var handle
	constrs   []normalized // mixed and continuous constraints
	binOnly   []normalized // all-binary constraints, checked by propagation
	values    []int8       // per var handle: 0, 1, or -1 (unset), binaries only
	unfixed   int
	bestObj   float64
	best      []float64
	nodes     int
}

func newSearch(m *mip.Model) (*search, error) {
	st := &search{
		model:     m,
		contIndex: make(map[int]int),
		values:    make([]int8, m.NumVars()),
		bestObj:   math.Inf(1),
	}
	for i := range st.values {
		st.values[i] = -1
	}

	for v, def := range m.Vars() {
		switch def.Kind {
		case mip.Binary:
			st.binaries = append(st.binaries, mip.Var(v))
		case mip.Continuous:
			st.contIndex[v] = len(st.contVars)
			st.contVars = append(st.contVars, mip.Var(v))
		}
	}
	st.unfixed = len(st.binaries)

	for _, c := range m.Constraints() {
		if err := st.normalize(c); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// normalize rewrites a constraint into one or two <= forms and files it by
// whether it touches continuous variables.
func (st *search) normalize(c mip.Constraint) error {
	add := func(terms []mip.Term, rhs float64, flip bool) error {
		n := normalized{name: c.Name, pos: -1, neg: -1, rhs: rhs}
		for _, t := range terms {
			coeff := t.Coeff
			if flip {
				coeff = -coeff
			}
			if st.model.Var(t.Var).Kind == mip.Binary {
				n.binTerms = append(n.binTerms, mip.Term{Coeff: coeff, Var: t.Var})
				continue
			}
			switch {
			case coeff == 1 && n.pos == -1:
				n.pos = int(t.Var)
			case coeff == -1 && n.neg == -1:
				n.neg = int(t.Var)
			default:
				return fmt.Errorf("%w: constraint %q", ErrUnsupportedModel, c.Name)
			}
		}
		if n.pos == -1 && n.neg == -1 {
			st.binOnly = append(st.binOnly, n)
		} else {
			st.constrs = append(st.constrs, n)
		}
		return nil
	}

	switch c.Sense {
	case mip.LessEq:
		return add(c.Terms, c.RHS, false)
	case mip.GreaterEq:
		return add(c.Terms, -c.RHS, true)
	case mip.Equal:
		if err := add(c.Terms, c.RHS, false); err != nil {
			return err
		}
		return add(c.Terms, -c.RHS, true)
	}
	return fmt.Errorf("%w: constraint %q has unknown sense", ErrUnsupportedModel, c.Name)
}

func (st *search) run(ctx context.Context) error {
	return st.branch(ctx, 0)
}

func (st *search) branch(ctx context.Context, depth int) error {
	st.nodes++
	if st.nodes%64 == 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if st.lowerBound() >= st.bestObj-eps {
		return nil
	}
	if st.unfixed == 0 {
		st.evaluateLeaf()
		return nil
	}

	v := st.nextUnfixed(depth)
	for _, val := range [2]int8{0, 1} {
		trail := st.assign(v, val)
		if trail != nil {
			if err := st.branch(ctx, depth+1); err != nil {
				st.undo(trail)
				return err
			}
		}
		st.undo(trail)
	}
	return nil
}

func (st *search) nextUnfixed(depth int) mip.Var {
	// Branch in declaration order, skipping variables fixed by propagation.
	for _, v := range st.binaries[depth:] {
		if st.values[v] == -1 {
			return v
		}
	}
	for _, v := range st.binaries {
		if st.values[v] == -1 {
			return v
		}
	}
	panic("exact: no unfixed binary")
}

// assign fixes v and runs unit propagation over all-binary constraints.
// It returns the trail of variables fixed (for undo), or nil when the
// assignment is inconsistent, in which case everything is already undone.
func (st *search) assign(v mip.Var, val int8) []mip.Var {
	trail := []mip.Var{v}
	st.values[v] = val
	st.unfixed--

	for changed := true; changed; {
		changed = false
		for _, c := range st.binOnly {
			lo, forced := st.propagate(c)
			if lo > c.rhs+eps {
				st.undo(trail)
				return nil
			}
			for _, f := range forced {
				st.values[f.v] = f.val
				st.unfixed--
				trail = append(trail, f.v)
				changed = true
			}
		}
	}
	return trail
}

type forcedVar struct {
	v   mip.Var
	val int8
}

// propagate computes the minimum achievable LHS of an all-binary constraint
// and any variables whose value is forced to keep the constraint satisfiable.
func (st *search) propagate(c normalized) (float64, []forcedVar) {
	lo := 0.0
	for _, t := range c.binTerms {
		switch st.values[t.Var] {
		case -1:
			lo += math.Min(0, t.Coeff)
		default:
			lo += t.Coeff * float64(st.values[t.Var])
		}
	}

	var forced []forcedVar
	for _, t := range c.binTerms {
		if st.values[t.Var] != -1 {
			continue
		}
		// Taking the non-minimal value must not break the constraint.
		if lo-math.Min(0, t.Coeff)+math.Max(0, t.Coeff) > c.rhs+eps {
			val := int8(0)
			if t.Coeff < 0 {
				val = 1
			}
			forced = append(forced, forcedVar{v: t.Var, val: val})
		}
	}
	return lo, forced
}

func (st *search) undo(trail []mip.Var) {
	for _, v := range trail {
		st.values[v] = -1
		st.unfixed++
	}
}

// lowerBound is the objective lower bound for the current partial
// assignment: fixed contributions plus the best case of each unfixed binary.
func (st *search) lowerBound() float64 {
	lb := st.model.ObjectiveConst()
	for _, v := range st.binaries {
		c := st.model.ObjectiveCoeff(v)
		if c == 0 {
			continue
		}
		if st.values[v] == -1 {
			lb += math.Min(0, c)
		} else {
			lb += c * float64(st.values[v])
		}
	}
	return lb
}

// evaluateLeaf checks continuous feasibility for a full binary assignment
// and updates the incumbent when the leaf is feasible and improving.
func (st *search) evaluateLeaf() {
	cont, ok := st.solveDifferences()
	if !ok {
		return
	}

	assignment := make([]float64, st.model.NumVars())
	for _, v := range st.binaries {
		assignment[v] = float64(st.values[v])
	}
	for i, v := range st.contVars {
		assignment[v] = cont[i]
	}

	obj := st.model.Objective(assignment)
	if obj < st.bestObj-eps {
		st.bestObj = obj
		st.best = assignment
	}
}

// solveDifferences solves the difference-constraint system left after fixing
// all binaries. Nodes are the continuous variables plus a virtual origin
// pinned at 0; each constraint x - y <= c is the edge y -> x with weight c.
// Bellman-Ford from a uniform zero initialization finds a satisfying
// potential or proves a negative cycle (infeasibility).
func (st *search) solveDifferences() ([]float64, bool) {
	n := len(st.contVars)
	origin := n

	type edge struct {
		from, to int
		weight   float64
	}
	var edges []edge

	for i, v := range st.contVars {
		def := st.model.Var(v)
		if !math.IsInf(def.Upper, 1) {
			edges = append(edges, edge{origin, i, def.Upper}) // x <= U
		}
		if !math.IsInf(def.Lower, -1) {
			edges = append(edges, edge{i, origin, -def.Lower}) // x >= L
		}
	}

	for _, c := range st.constrs {
		rhs := c.rhs
		for _, t := range c.binTerms {
			rhs -= t.Coeff * float64(st.values[t.Var])
		}
		switch {
		case c.pos != -1 && c.neg != -1:
			edges = append(edges, edge{st.contIndex[c.neg], st.contIndex[c.pos], rhs})
		case c.pos != -1:
			edges = append(edges, edge{origin, st.contIndex[c.pos], rhs})
		default:
			edges = append(edges, edge{st.contIndex[c.neg], origin, rhs})
		}
	}

	dist := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		var relaxed bool
		for _, e := range edges {
			if d := dist[e.from] + e.weight; d < dist[e.to]-eps {
				dist[e.to] = d
				relaxed = true
			}
		}
		if !relaxed {
			break
		}
		if i == n {
			return nil, false // negative cycle: differences are inconsistent
		}
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = dist[i] - dist[origin]
	}
	return out, true
}
