package rank

import (
	"fmt"
	"math"

	"github.com/matzehuels/rankforge/pkg/mip"
	"github.com/matzehuels/rankforge/pkg/relation"
)

// selector holds the decision variables of one comparison.
//
// In the zero-band variant only ge is used: ge=1 realizes GE, ge=0 realizes
// LE. In the equal-band variant le/eq/ge form a one-hot triple. cost is the
// indicator charged when the realized relation differs from the requested
// one; comparisons at the free-choice point carry no cost variable.
type selector struct {
	cmp       relation.Comparison
	requested relation.Rel
	free      bool
	band      bool // one-hot le/eq/ge triple instead of the single ge binary

	ge, le, eq mip.Var
	cost       mip.Var
	hasCost    bool
}

// modelVars maps model structure back to the domain: one rank variable per
// item and one selector per comparison, aligned with Set.Comparisons order.
type modelVars struct {
	ranks     []mip.Var
	selectors []selector
}

// buildModel translates a comparison set into a MILP whose optimal solution
// is a minimum-cost consistent relation assignment.
//
// Every comparison contributes a disjunctive big-M block: the chosen branch
// pins the rank variables of its two items one unit apart (or exactly equal
// for EQ), the unchosen branches are slackened by M. Rank variables are
// shared across comparisons, which couples everything into one joint model;
// M = n+1 dominates the largest feasible rank spread so an inactive branch
// can never bind.
func buildModel(set *relation.Set, cfg Config) (*mip.Model, *modelVars) {
	n := set.ItemCount()
	bigM := float64(n + 1)

	m := mip.NewModel("ranking-repair")
	vars := &modelVars{ranks: make([]mip.Var, n)}
	for i := 0; i < n; i++ {
		vars.ranks[i] = m.AddContinuous(fmt.Sprintf("r_%d", i), 0, float64(n))
	}

	for _, cmp := range set.Comparisons() {
		sel := selector{
			cmp:       cmp,
			requested: relation.Requested(cmp.Value, cfg.EqualBand),
			free:      relation.FreeChoice(cmp.Value, cfg.EqualBand),
		}
		if cfg.EqualBand > 0 {
			buildBandSelector(m, vars, &sel, bigM)
		} else {
			buildBinarySelector(m, vars, &sel, bigM)
		}
		if sel.hasCost {
			m.AddObjectiveTerm(sel.cost, costWeight(cmp.Value, cfg))
		}
		vars.selectors = append(vars.selectors, sel)
	}

	return m, vars
}

// buildBinarySelector encodes the zero-band disjunction: one binary chooses
// LE (ge=0) or GE (ge=1) and exactly the chosen direction is tight.
func buildBinarySelector(m *mip.Model, vars *modelVars, sel *selector, bigM float64) {
	i, j := sel.cmp.I, sel.cmp.J
	ri, rj := vars.ranks[i], vars.ranks[j]
	sel.ge = m.AddBinary(fmt.Sprintf("ge_%d_%d", i, j))

	// ge=1: r_i >= r_j + 1, slack M otherwise.
	m.AddConstraint(mip.Constraint{
		Name:  fmt.Sprintf("order_ge_%d_%d", i, j),
		Terms: []mip.Term{{Coeff: 1, Var: ri}, {Coeff: -1, Var: rj}, {Coeff: -bigM, Var: sel.ge}},
		Sense: mip.GreaterEq,
		RHS:   1 - bigM,
	})
	// ge=0: r_j >= r_i + 1, slack M otherwise.
	m.AddConstraint(mip.Constraint{
		Name:  fmt.Sprintf("order_le_%d_%d", i, j),
		Terms: []mip.Term{{Coeff: 1, Var: rj}, {Coeff: -1, Var: ri}, {Coeff: bigM, Var: sel.ge}},
		Sense: mip.GreaterEq,
		RHS:   1,
	})

	if sel.free {
		return // direction choice at the cutoff point is costless
	}

	sel.cost = m.AddBinary(fmt.Sprintf("f_%d_%d", i, j))
	sel.hasCost = true
	switch sel.requested {
	case relation.LE:
		// cost = ge
		m.AddConstraint(mip.Constraint{
			Name:  fmt.Sprintf("cost_%d_%d", i, j),
			Terms: []mip.Term{{Coeff: 1, Var: sel.cost}, {Coeff: -1, Var: sel.ge}},
			Sense: mip.Equal,
			RHS:   0,
		})
	case relation.GE:
		// cost = 1 - ge
		m.AddConstraint(mip.Constraint{
			Name:  fmt.Sprintf("cost_%d_%d", i, j),
			Terms: []mip.Term{{Coeff: 1, Var: sel.cost}, {Coeff: 1, Var: sel.ge}},
			Sense: mip.Equal,
			RHS:   1,
		})
	}
}

// buildBandSelector encodes the three-way disjunction of the equal-band
// variant: mutually exclusive binaries for LE, EQ, and GE, with the EQ
// branch enforcing exact rank equality.
func buildBandSelector(m *mip.Model, vars *modelVars, sel *selector, bigM float64) {
	i, j := sel.cmp.I, sel.cmp.J
	ri, rj := vars.ranks[i], vars.ranks[j]
	sel.band = true
	sel.le = m.AddBinary(fmt.Sprintf("le_%d_%d", i, j))
	sel.eq = m.AddBinary(fmt.Sprintf("eq_%d_%d", i, j))
	sel.ge = m.AddBinary(fmt.Sprintf("ge_%d_%d", i, j))

	// Exactly one outcome is realized.
	m.AddConstraint(mip.Constraint{
		Name:  fmt.Sprintf("onehot_%d_%d", i, j),
		Terms: []mip.Term{{Coeff: 1, Var: sel.le}, {Coeff: 1, Var: sel.eq}, {Coeff: 1, Var: sel.ge}},
		Sense: mip.Equal,
		RHS:   1,
	})

	// ge=1: r_i >= r_j + 1.
	m.AddConstraint(mip.Constraint{
		Name:  fmt.Sprintf("order_ge_%d_%d", i, j),
		Terms: []mip.Term{{Coeff: 1, Var: ri}, {Coeff: -1, Var: rj}, {Coeff: -bigM, Var: sel.ge}},
		Sense: mip.GreaterEq,
		RHS:   1 - bigM,
	})
	// le=1: r_j >= r_i + 1.
	m.AddConstraint(mip.Constraint{
		Name:  fmt.Sprintf("order_le_%d_%d", i, j),
		Terms: []mip.Term{{Coeff: 1, Var: rj}, {Coeff: -1, Var: ri}, {Coeff: -bigM, Var: sel.le}},
		Sense: mip.GreaterEq,
		RHS:   1 - bigM,
	})
	// eq=1: r_i = r_j, via a slackened pair of opposite inequalities.
	m.AddConstraint(mip.Constraint{
		Name:  fmt.Sprintf("equal_hi_%d_%d", i, j),
		Terms: []mip.Term{{Coeff: 1, Var: ri}, {Coeff: -1, Var: rj}, {Coeff: bigM, Var: sel.eq}},
		Sense: mip.LessEq,
		RHS:   bigM,
	})
	m.AddConstraint(mip.Constraint{
		Name:  fmt.Sprintf("equal_lo_%d_%d", i, j),
		Terms: []mip.Term{{Coeff: 1, Var: rj}, {Coeff: -1, Var: ri}, {Coeff: bigM, Var: sel.eq}},
		Sense: mip.LessEq,
		RHS:   bigM,
	})

	// cost = 1 - <selector of the requested outcome>
	requested := sel.ge
	switch sel.requested {
	case relation.LE:
		requested = sel.le
	case relation.EQ:
		requested = sel.eq
	}
	sel.cost = m.AddBinary(fmt.Sprintf("f_%d_%d", i, j))
	sel.hasCost = true
	m.AddConstraint(mip.Constraint{
		Name:  fmt.Sprintf("cost_%d_%d", i, j),
		Terms: []mip.Term{{Coeff: 1, Var: sel.cost}, {Coeff: 1, Var: requested}},
		Sense: mip.Equal,
		RHS:   1,
	})
}

// costWeight returns the objective coefficient of one repair: unit cost by
// default, or the comparison's distance from indifference when confidence
// weighting is enabled.
func costWeight(value float64, cfg Config) float64 {
	if !cfg.WeightByConfidence {
		return 1
	}
	return 2 * math.Abs(value-0.5)
}
