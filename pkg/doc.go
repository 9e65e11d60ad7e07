// Package pkg provides the core libraries for Rankforge ranking derivation.
//
// # Overview
//
// Rankforge turns a set of noisy, possibly contradictory pairwise comparisons
// into a consistent numeric ranking by finding the minimum-cost set of
// comparison reversals that restores consistency. The pkg directory is
// organized into four main areas:
//
//  1. Domain logic - comparisons, the repair model, and the resolved graph
//  2. Solving - a generic MILP model with a pluggable engine
//  3. I/O - comparison import and ranking export
//  4. Orchestration - the cached pipeline shared by CLI and API
//
// # Architecture
//
// The typical data flow through Rankforge:
//
//	Comparison file / API request
//	         ↓
//	    [relation] package (validate + canonicalize)
//	         ↓
//	    [rank] package (big-M repair model → [mip] / [mip/exact])
//	         ↓
//	    [relgraph] package (equality contraction + longest-path layers)
//	         ↓
//	    Ranks, cost, resolved graph
//
// # Quick Start
//
// Compute a ranking from raw comparisons:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/rankforge/pkg/rank"
//	    "github.com/matzehuels/rankforge/pkg/relation"
//	)
//
//	set := relation.NewSet()
//	_ = set.Add(0, 2, 0.0) // item 0 before item 2
//	_ = set.Add(1, 2, 1.0) // item 2 before item 1
//
//	r, _ := rank.FindRanking(context.Background(), set, rank.Config{})
//	fmt.Println(r.Ranks) // [0 2 1]
//
// # Main Packages
//
// [relation] - Comparison sets in canonical unordered-pair form, requested
// relation decoding (strict versus equal band), and realized outcome records.
//
// [rank] - The repair model: one big-M disjunction per comparison, solved to
// a minimum-cost consistent assignment and decoded into ranks.
//
// [relgraph] - The resolved relation graph: union-find equality classes,
// strict edges, cycle validation, longest-path layering, and DOT/SVG export.
//
// [mip] - Generic mixed-integer model and the engine interface.
// [mip/exact] - Pure-Go branch-and-bound reference engine for the
// difference-logic model class the builder emits.
//
// [cmpio] - JSON and TOML comparison import, JSON ranking export.
//
// [pipeline] - Validate → solve → layer orchestration with content-addressed
// caching, used by both the CLI and the HTTP API.
//
// [cache] - Cache backends (file, Redis, null) and key derivation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/rank/...     # Specific package
//	go test -run Example       # Examples only
//
// [relation]: https://pkg.go.dev/github.com/matzehuels/rankforge/pkg/relation
// [rank]: https://pkg.go.dev/github.com/matzehuels/rankforge/pkg/rank
// [relgraph]: https://pkg.go.dev/github.com/matzehuels/rankforge/pkg/relgraph
// [mip]: https://pkg.go.dev/github.com/matzehuels/rankforge/pkg/mip
// [mip/exact]: https://pkg.go.dev/github.com/matzehuels/rankforge/pkg/mip/exact
// [cmpio]: https://pkg.go.dev/github.com/matzehuels/rankforge/pkg/cmpio
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/rankforge/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/rankforge/pkg/cache
package pkg
