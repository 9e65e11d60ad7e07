package mip

import "context"

// Status reports the quality of a solver result.
type Status int

const (
	// StatusOptimal means the assignment is proven optimal.
	StatusOptimal Status = iota
	// StatusInfeasible means no assignment satisfies the constraints.
	StatusInfeasible
	// StatusBestEffort means a feasible assignment was found but optimality
	// was not proven, typically because a time budget expired. Callers must
	// surface this distinctly rather than treating it as optimal.
	StatusBestEffort
)

// String returns a short label for the status.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusBestEffort:
		return "best-effort"
	}
	return "unknown"
}

// Result is the outcome of a solve call.
//
// Assignment is indexed by [Var] handle and is only populated for
// StatusOptimal and StatusBestEffort.
type Result struct {
	Status        Status
	Assignment    []float64
	Objective     float64
	ProvenOptimal bool
}

// Value returns the assigned value of v.
func (r Result) Value(v Var) float64 { return r.Assignment[v] }

// Bool reads a binary variable with a 0.5 threshold, tolerating the slight
// numeric drift a floating-point engine may introduce.
func (r Result) Bool(v Var) bool { return r.Assignment[v] > 0.5 }

// Solver is the capability interface to an opaque MILP engine.
//
// Solve blocks until a result is available, the context is cancelled, or the
// engine's own time budget expires. Engines with a time budget return
// StatusBestEffort with their incumbent rather than failing.
type Solver interface {
	Solve(ctx context.Context, m *Model) (Result, error)
}
