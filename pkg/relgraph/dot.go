package relgraph

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
)

// DOTOptions configures resolved-graph rendering.
type DOTOptions struct {
	// Levels annotates each class with its layer, as returned by
	// [Graph.Layers]. When nil, labels show only class members.
	Levels []int

	// Flipped marks item pairs whose realized direction contradicts the
	// requested comparison; the corresponding edges render dashed and red.
	Flipped [][2]int
}

// ToDOT converts the contracted graph to Graphviz DOT format.
// Each node is one equivalence class labeled with its members; strict class
// edges point from lower to higher rank. The resulting string can be
// rendered with [RenderSVG].
func ToDOT(g *Graph, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph ranking {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, class := range g.Classes() {
		rep := g.Find(class[0])
		fmt.Fprintf(&buf, "  %d [label=%q];\n", rep, classLabel(class, opts.Levels))
	}

	flipped := make(map[[2]int]bool, len(opts.Flipped))
	for _, p := range opts.Flipped {
		flipped[[2]int{g.Find(p[0]), g.Find(p[1])}] = true
		flipped[[2]int{g.Find(p[1]), g.Find(p[0])}] = true
	}

	buf.WriteString("\n")
	for _, e := range g.ClassEdges() {
		if flipped[e] {
			fmt.Fprintf(&buf, "  %d -> %d [style=dashed, color=red];\n", e[0], e[1])
			continue
		}
		fmt.Fprintf(&buf, "  %d -> %d;\n", e[0], e[1])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func classLabel(members []int, levels []int) string {
	strs := make([]string, len(members))
	for i, m := range members {
		strs[i] = strconv.Itoa(m)
	}
	label := strings.Join(strs, ", ")
	if len(members) > 1 {
		label = "{" + label + "}"
	}
	if levels != nil {
		label += fmt.Sprintf("\nlevel: %d", levels[members[0]])
	}
	return label
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
