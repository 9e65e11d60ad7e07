// Package rank derives numeric rankings from noisy pairwise comparisons.
//
// The repair problem is a disguised minimum-feedback-arc-set instance: the
// requested relations may be cyclic, and the minimum-cost set of reversals
// restoring consistency is found by encoding the choice per comparison as a
// big-M disjunction and handing the resulting MILP to an opaque solving
// engine. The solved assignment is decoded into an acyclic relation graph
// with equality contraction, and longest-path layering turns that graph into
// concrete rank values.
//
// The whole procedure is synchronous and allocates all state per call; the
// solver invocation is the only potentially long-running step.
package rank

import (
	"context"

	"github.com/matzehuels/rankforge/pkg/errors"
	"github.com/matzehuels/rankforge/pkg/mip"
	"github.com/matzehuels/rankforge/pkg/mip/exact"
	"github.com/matzehuels/rankforge/pkg/relation"
	"github.com/matzehuels/rankforge/pkg/relgraph"
)

// Ranking is the result of a repair-and-rank run.
type Ranking struct {
	// Ranks holds one numeric rank per item, indexed by item id. Equal items
	// share the identical value; every directed chain of strict relations is
	// strictly increasing by at least one unit per hop.
	Ranks []float64

	// Cost is the solver's objective: the number (or, with confidence
	// weighting, the weighted sum) of comparisons whose realized relation
	// differs from the requested one.
	Cost float64

	// ProvenOptimal is false when the solver returned a best-effort result
	// under a time budget; the ranking is then consistent but its cost may
	// not be minimal.
	ProvenOptimal bool

	// Outcome records the realized relation of every compared pair.
	Outcome *relation.Outcome

	// Graph is the resolved relation graph the ranks were layered from.
	Graph *relgraph.Graph

	// Flipped lists the compared pairs whose direction the repair reversed.
	Flipped [][2]int
}

// FindRanking computes the minimum-cost consistent ranking for a comparison
// set.
//
// The model is built from the validated set, solved by cfg.Solver (the exact
// reference solver when nil), decoded into a resolved relation graph, and
// layered into rank values. An empty set yields an empty ranking at cost 0.
//
// The models constructed here are always feasible - realizing the opposite
// of every request is a finite-cost assignment - so an infeasible answer
// from the solver indicates a builder defect and surfaces as an
// INTERNAL_ERROR, not a validation failure. A best-effort answer from a
// time-budgeted solver is passed through via Ranking.ProvenOptimal.
func FindRanking(ctx context.Context, set *relation.Set, cfg Config) (*Ranking, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		n := set.ItemCount()
		return &Ranking{
			Ranks:         make([]float64, n),
			ProvenOptimal: true,
			Outcome:       relation.NewOutcome(),
			Graph:         relgraph.New(n),
		}, nil
	}

	model, vars := buildModel(set, cfg)

	solver := cfg.Solver
	if solver == nil {
		solver = exact.New()
	}
	res, err := solver.Solve(ctx, model)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSolver, err, "solve %s", model)
	}
	if res.Status == mip.StatusInfeasible {
		return nil, errors.New(errors.ErrCodeInternal,
			"solver reported %s infeasible; repair models are feasible by construction", model)
	}

	g, outcome, flipped := extract(set, vars, res)
	layers, err := g.Layers()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "layer resolved relation graph")
	}

	ranks := make([]float64, len(layers))
	for i, l := range layers {
		ranks[i] = float64(l)
	}
	return &Ranking{
		Ranks:         ranks,
		Cost:          res.Objective,
		ProvenOptimal: res.Status == mip.StatusOptimal && res.ProvenOptimal,
		Outcome:       outcome,
		Graph:         g,
		Flipped:       flipped,
	}, nil
}
