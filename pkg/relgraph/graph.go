// Package relgraph provides the resolved relation graph: a directed graph
// over integer items with equality contraction.
//
// After the repair step every comparison is realized as either a strict
// order (a directed edge from the lower item to the higher one) or an
// equality (a union of the two items into one equivalence class). The graph
// stores both, answers queries on the contracted class level, and computes
// longest-path layers that turn the order into numeric ranks.
package relgraph

import (
	"errors"
	"sort"
)

var (
	// ErrItemOutOfRange is returned when an item id is negative or at least
	// the item count the graph was created with.
	ErrItemOutOfRange = errors.New("item id out of range")

	// ErrGraphHasCycle is returned by [Graph.Validate] and [Graph.Layers]
	// when the contracted graph contains a directed cycle, including a
	// strict edge between two items of the same equivalence class.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Graph is a directed graph over items [0, n) with an equivalence class
// structure. Strict edges are recorded between items; all traversal happens
// between the classes obtained by contracting merged items.
//
// The zero value is not usable - use New. Graph is not safe for concurrent
// use without external synchronization.
type Graph struct {
	parent []int
	size   []int
	edges  [][2]int
}

// New creates a graph over n items, each initially its own singleton class
// with no edges.
func New(n int) *Graph {
	g := &Graph{
		parent: make([]int, n),
		size:   make([]int, n),
	}
	for i := range g.parent {
		g.parent[i] = i
		g.size[i] = 1
	}
	return g
}

// ItemCount returns the number of items the graph was created with.
func (g *Graph) ItemCount() int { return len(g.parent) }

// EdgeCount returns the number of recorded strict edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Find returns the canonical representative of the class containing item i.
// Path compression keeps amortized lookups near constant.
func (g *Graph) Find(i int) int {
	for g.parent[i] != i {
		g.parent[i] = g.parent[g.parent[i]]
		i = g.parent[i]
	}
	return i
}

// Merge unions the classes of i and j (an equality outcome).
// Merging items already in the same class is a no-op.
func (g *Graph) Merge(i, j int) error {
	if err := g.check(i, j); err != nil {
		return err
	}
	ri, rj := g.Find(i), g.Find(j)
	if ri == rj {
		return nil
	}
	if g.size[ri] < g.size[rj] {
		ri, rj = rj, ri
	}
	g.parent[rj] = ri
	g.size[ri] += g.size[rj]
	return nil
}

// AddEdge records the strict relation "from ranks below to".
// Edges are stored between items; contraction to classes happens at
// traversal time, so the order of Merge and AddEdge calls does not matter.
func (g *Graph) AddEdge(from, to int) error {
	if err := g.check(from, to); err != nil {
		return err
	}
	g.edges = append(g.edges, [2]int{from, to})
	return nil
}

// Edges returns the recorded strict edges between items, in insertion order.
func (g *Graph) Edges() [][2]int {
	out := make([][2]int, len(g.edges))
	copy(out, g.edges)
	return out
}

// Classes returns every equivalence class as a sorted slice of its members,
// ordered by smallest member. Singleton classes are included.
func (g *Graph) Classes() [][]int {
	members := make(map[int][]int)
	for i := range g.parent {
		r := g.Find(i)
		members[r] = append(members[r], i)
	}
	out := make([][]int, 0, len(members))
	for _, m := range members {
		sort.Ints(m)
		out = append(out, m)
	}
	sort.Slice(out, func(a, b int) bool { return out[a][0] < out[b][0] })
	return out
}

// ClassEdges returns the deduplicated strict edges of the contracted graph,
// as pairs of class representatives. A strict edge between two items of the
// same class is returned as a self-loop; Validate reports it as a cycle.
func (g *Graph) ClassEdges() [][2]int {
	seen := make(map[[2]int]bool)
	var out [][2]int
	for _, e := range g.edges {
		ce := [2]int{g.Find(e[0]), g.Find(e[1])}
		if !seen[ce] {
			seen[ce] = true
			out = append(out, ce)
		}
	}
	return out
}

// Validate checks that the contracted graph is acyclic and returns nil if
// so. Cycle detection runs in O(N+E) using depth-first search with
// white/gray/black coloring over class representatives.
func (g *Graph) Validate() error {
	const (
		white = iota
		gray
		black
	)

	adjacency := make(map[int][]int)
	for _, e := range g.ClassEdges() {
		if e[0] == e[1] {
			return ErrGraphHasCycle
		}
		adjacency[e[0]] = append(adjacency[e[0]], e[1])
	}

	color := make(map[int]int)
	var hasCycle bool

	var dfs func(id int)
	dfs = func(id int) {
		color[id] = gray
		for _, child := range adjacency[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for i := range g.parent {
		r := g.Find(i)
		if color[r] == white {
			dfs(r)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

func (g *Graph) check(ids ...int) error {
	for _, id := range ids {
		if id < 0 || id >= len(g.parent) {
			return ErrItemOutOfRange
		}
	}
	return nil
}
