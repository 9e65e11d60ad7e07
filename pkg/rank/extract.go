package rank

import (
	"github.com/matzehuels/rankforge/pkg/mip"
	"github.com/matzehuels/rankforge/pkg/relation"
	"github.com/matzehuels/rankforge/pkg/relgraph"
)

// extract decodes a solved assignment into the resolved relation graph and
// the per-comparison outcome record.
//
// For each comparison the realized outcome is read from its selector
// variables: strict outcomes add a directed edge from the lower item to the
// higher one, equal outcomes merge the two items into one equivalence class.
// It also collects the pairs whose realized relation contradicts the
// requested one (the repairs actually paid for).
func extract(set *relation.Set, vars *modelVars, res mip.Result) (*relgraph.Graph, *relation.Outcome, [][2]int) {
	g := relgraph.New(set.ItemCount())
	outcome := relation.NewOutcome()
	var flipped [][2]int

	for _, sel := range vars.selectors {
		realized := realizedRel(sel, res)
		outcome.Record(sel.cmp.I, sel.cmp.J, realized)

		switch realized {
		case relation.LE:
			_ = g.AddEdge(sel.cmp.I, sel.cmp.J) // ids come from the validated set
		case relation.GE:
			_ = g.AddEdge(sel.cmp.J, sel.cmp.I)
		case relation.EQ:
			_ = g.Merge(sel.cmp.I, sel.cmp.J)
		}

		if !sel.free && realized != sel.requested {
			flipped = append(flipped, [2]int{sel.cmp.I, sel.cmp.J})
		}
	}
	return g, outcome, flipped
}

func realizedRel(sel selector, res mip.Result) relation.Rel {
	if sel.band {
		switch {
		case res.Bool(sel.eq):
			return relation.EQ
		case res.Bool(sel.ge):
			return relation.GE
		default:
			return relation.LE
		}
	}
	if res.Bool(sel.ge) {
		return relation.GE
	}
	return relation.LE
}
