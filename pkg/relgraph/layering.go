package relgraph

// Layers computes an integer level for every item via longest-path layering
// of the contracted graph.
//
// Layers uses a topological traversal (Kahn's algorithm) over equivalence
// classes. Each class is placed at one plus the maximum level of any of its
// direct predecessors, ensuring that:
//   - Classes with no incoming edges are at level 0
//   - Every strict edge increases the level by at least one
//   - Each class is pushed exactly as deep as its longest incoming chain
//
// Every item inherits the level of its class, so equal items always share a
// level. Items that appear in no comparison form singleton source classes
// and land at level 0 without affecting any other item.
//
// The returned slice is indexed by item id. Layers returns
// [ErrGraphHasCycle] if the contracted graph is cyclic; the repair model
// never produces such a graph, so this signals a caller-side defect.
//
// Time complexity is O(V + E) in the number of classes and contracted edges.
func (g *Graph) Layers() ([]int, error) {
	adjacency := make(map[int][]int)
	inDegree := make(map[int]int)
	classes := 0
	for i := range g.parent {
		if g.Find(i) == i {
			classes++
			inDegree[i] = 0
		}
	}
	for _, e := range g.ClassEdges() {
		if e[0] == e[1] {
			return nil, ErrGraphHasCycle
		}
		adjacency[e[0]] = append(adjacency[e[0]], e[1])
		inDegree[e[1]]++
	}

	queue := make([]int, 0, classes)
	for r, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, r)
		}
	}

	level := make(map[int]int, classes)
	processed := 0
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		processed++

		for _, child := range adjacency[curr] {
			if l := level[curr] + 1; l > level[child] {
				level[child] = l
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	if processed < classes {
		return nil, ErrGraphHasCycle
	}

	out := make([]int, len(g.parent))
	for i := range out {
		out[i] = level[g.Find(i)]
	}
	return out, nil
}
