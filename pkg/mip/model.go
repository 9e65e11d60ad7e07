// Package mip defines a small mixed-integer linear programming model and the
// capability interface used to solve it.
//
// The model is deliberately generic: real-valued and binary variables, linear
// (in)equality constraints, and a single linear minimization objective. Any
// MILP engine can sit behind the [Solver] interface; the repository ships an
// exact reference implementation in mip/exact for models whose continuous
// structure reduces to difference constraints.
package mip

import "fmt"

// VarKind distinguishes continuous from binary decision variables.
type VarKind int

const (
	// Continuous is a real-valued variable bounded by [Lower, Upper].
	Continuous VarKind = iota
	// Binary is an integer variable restricted to {0, 1}.
	Binary
)

// Var is an opaque handle to a model variable.
// Handles are only valid for the model that created them.
type Var int

// VarDef describes a single decision variable.
type VarDef struct {
	Name  string
	Kind  VarKind
	Lower float64 // ignored for Binary (always 0)
	Upper float64 // ignored for Binary (always 1)
}

// Term is one coefficient-variable product in a linear expression.
type Term struct {
	Coeff float64
	Var   Var
}

// Sense is the comparison operator of a linear constraint.
type Sense int

const (
	// LessEq constrains the expression to be at most RHS.
	LessEq Sense = iota
	// Equal constrains the expression to equal RHS.
	Equal
	// GreaterEq constrains the expression to be at least RHS.
	GreaterEq
)

// Constraint is a linear constraint: sum(Terms) Sense RHS.
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Model is a mixed-integer linear program under construction.
//
// The zero value is not usable; use [NewModel]. Model is not safe for
// concurrent use. Once handed to a solver it must not be mutated.
type Model struct {
	name      string
	vars      []VarDef
	constrs   []Constraint
	objCoeffs map[Var]float64
	objConst  float64
}

// NewModel creates an empty model with a diagnostic name.
func NewModel(name string) *Model {
	return &Model{name: name, objCoeffs: make(map[Var]float64)}
}

// Name returns the model's diagnostic name.
func (m *Model) Name() string { return m.name }

// AddContinuous adds a real-valued variable with the given bounds and
// returns its handle.
func (m *Model) AddContinuous(name string, lower, upper float64) Var {
	m.vars = append(m.vars, VarDef{Name: name, Kind: Continuous, Lower: lower, Upper: upper})
	return Var(len(m.vars) - 1)
}

// AddBinary adds a {0,1} variable and returns its handle.
func (m *Model) AddBinary(name string) Var {
	m.vars = append(m.vars, VarDef{Name: name, Kind: Binary, Lower: 0, Upper: 1})
	return Var(len(m.vars) - 1)
}

// AddConstraint appends a linear constraint to the model.
func (m *Model) AddConstraint(c Constraint) {
	m.constrs = append(m.constrs, c)
}

// AddObjectiveTerm adds coeff*v to the minimization objective.
// Repeated calls for the same variable accumulate.
func (m *Model) AddObjectiveTerm(v Var, coeff float64) {
	m.objCoeffs[v] += coeff
}

// AddObjectiveConst adds a constant offset to the objective value.
func (m *Model) AddObjectiveConst(c float64) {
	m.objConst += c
}

// Vars returns the definitions of all variables, indexed by handle.
func (m *Model) Vars() []VarDef { return m.vars }

// Var returns the definition of a single variable.
func (m *Model) Var(v Var) VarDef { return m.vars[v] }

// Constraints returns all constraints in insertion order.
func (m *Model) Constraints() []Constraint { return m.constrs }

// ObjectiveCoeff returns the objective coefficient of v (0 if absent).
func (m *Model) ObjectiveCoeff(v Var) float64 { return m.objCoeffs[v] }

// ObjectiveConst returns the constant offset of the objective.
func (m *Model) ObjectiveConst() float64 { return m.objConst }

// NumVars returns the total number of variables.
func (m *Model) NumVars() int { return len(m.vars) }

// NumBinaries returns the number of binary variables.
func (m *Model) NumBinaries() int {
	n := 0
	for _, v := range m.vars {
		if v.Kind == Binary {
			n++
		}
	}
	return n
}

// NumConstraints returns the number of constraints.
func (m *Model) NumConstraints() int { return len(m.constrs) }

// Objective evaluates the objective for a full assignment.
func (m *Model) Objective(assignment []float64) float64 {
	total := m.objConst
	for v, c := range m.objCoeffs {
		total += c * assignment[v]
	}
	return total
}

// String summarizes the model size for logging.
func (m *Model) String() string {
	return fmt.Sprintf("%s: %d vars (%d binary), %d constraints",
		m.name, m.NumVars(), m.NumBinaries(), m.NumConstraints())
}
