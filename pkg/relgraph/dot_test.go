package relgraph

import (
	"strings"
	"testing"
)

func TestToDOT(t *testing.T) {
	g := New(4)
	if err := g.Merge(1, 2); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	for _, e := range [][2]int{{0, 1}, {2, 3}} {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("AddEdge(%v) failed: %v", e, err)
		}
	}
	levels, err := g.Layers()
	if err != nil {
		t.Fatalf("Layers() failed: %v", err)
	}

	dot := ToDOT(g, DOTOptions{Levels: levels})

	if !strings.HasPrefix(dot, "digraph ranking {") {
		t.Error("missing digraph header")
	}
	if !strings.Contains(dot, "{1, 2}") {
		t.Error("merged class label {1, 2} not rendered")
	}
	if !strings.Contains(dot, "level: 1") {
		t.Error("level annotation not rendered")
	}
	if strings.Contains(dot, "dashed") {
		t.Error("dashed edge rendered without flipped pairs")
	}
}

func TestToDOTFlipped(t *testing.T) {
	g := New(2)
	if err := g.AddEdge(0, 1); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}

	dot := ToDOT(g, DOTOptions{Flipped: [][2]int{{0, 1}}})
	if !strings.Contains(dot, "style=dashed, color=red") {
		t.Error("flipped edge not highlighted")
	}
}

func TestToDOTNoLevels(t *testing.T) {
	g := New(2)
	dot := ToDOT(g, DOTOptions{})
	if strings.Contains(dot, "level:") {
		t.Error("level annotation rendered without levels")
	}
}
