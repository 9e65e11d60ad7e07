package rank

import (
	"context"
	"math"
	"testing"

	"github.com/matzehuels/rankforge/pkg/errors"
	"github.com/matzehuels/rankforge/pkg/relation"
)

func mustSet(t *testing.T, m map[[2]int]float64) *relation.Set {
	t.Helper()
	s := relation.NewSet()
	if err := s.AddMap(m); err != nil {
		t.Fatalf("build comparison set: %v", err)
	}
	return s
}

func ranksEqual(got []float64, want []float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			return false
		}
	}
	return true
}

// checkConsistent verifies that the ranks realize every recorded outcome:
// strict relations strictly ordered, equal relations at identical rank.
func checkConsistent(t *testing.T, r *Ranking) {
	t.Helper()
	if err := r.Graph.Validate(); err != nil {
		t.Errorf("resolved graph is not acyclic: %v", err)
	}
	for _, pair := range r.Outcome.Pairs() {
		ri, rj := r.Ranks[pair.I], r.Ranks[pair.J]
		switch pair.Rel {
		case relation.LE:
			if ri >= rj {
				t.Errorf("pair (%d,%d) realized <= but ranks are %g, %g", pair.I, pair.J, ri, rj)
			}
		case relation.GE:
			if ri <= rj {
				t.Errorf("pair (%d,%d) realized >= but ranks are %g, %g", pair.I, pair.J, ri, rj)
			}
		case relation.EQ:
			if ri != rj {
				t.Errorf("pair (%d,%d) realized == but ranks are %g, %g", pair.I, pair.J, ri, rj)
			}
		}
	}
}

func TestFindRankingConsistentChain(t *testing.T) {
	// 0 before 2, 2 before 1: already consistent, nothing to repair.
	set := mustSet(t, map[[2]int]float64{
		{0, 2}: 0.0,
		{1, 2}: 1.0,
	})

	r, err := FindRanking(context.Background(), set, Config{})
	if err != nil {
		t.Fatalf("FindRanking failed: %v", err)
	}
	if r.Cost != 0 {
		t.Errorf("Cost = %g, want 0", r.Cost)
	}
	if !r.ProvenOptimal {
		t.Error("ProvenOptimal = false for an exhaustive solve")
	}
	if !ranksEqual(r.Ranks, []float64{0, 2, 1}) {
		t.Errorf("Ranks = %v, want [0 2 1]", r.Ranks)
	}
	if len(r.Flipped) != 0 {
		t.Errorf("Flipped = %v, want none", r.Flipped)
	}
	checkConsistent(t, r)
}

func TestFindRankingEqualBand(t *testing.T) {
	// With a band, 0.5 requests a tie: 1 and 2 share a rank above 0.
	set := mustSet(t, map[[2]int]float64{
		{0, 2}: 0.0,
		{1, 2}: 0.5,
	})

	r, err := FindRanking(context.Background(), set, Config{EqualBand: 0.1})
	if err != nil {
		t.Fatalf("FindRanking failed: %v", err)
	}
	if r.Cost != 0 {
		t.Errorf("Cost = %g, want 0", r.Cost)
	}
	if !ranksEqual(r.Ranks, []float64{0, 1, 1}) {
		t.Errorf("Ranks = %v, want [0 1 1]", r.Ranks)
	}
	if rel, ok := r.Outcome.Realized(1, 2); !ok || rel != relation.EQ {
		t.Errorf("Realized(1, 2) = %v, %v; want ==, true", rel, ok)
	}
	checkConsistent(t, r)
}

func TestFindRankingZeroBandFreeChoice(t *testing.T) {
	// Without a band, 0.5 is a costless direction choice: either strict
	// direction for (1, 2) is a valid zero-cost answer.
	set := mustSet(t, map[[2]int]float64{
		{0, 2}: 0.0,
		{1, 2}: 0.5,
	})

	r, err := FindRanking(context.Background(), set, Config{})
	if err != nil {
		t.Fatalf("FindRanking failed: %v", err)
	}
	if r.Cost != 0 {
		t.Errorf("Cost = %g, want 0 for a free-choice midpoint", r.Cost)
	}
	if len(r.Flipped) != 0 {
		t.Errorf("Flipped = %v, free choices are never repairs", r.Flipped)
	}
	rel, ok := r.Outcome.Realized(1, 2)
	if !ok || rel == relation.EQ {
		t.Errorf("Realized(1, 2) = %v, %v; want a strict direction", rel, ok)
	}
	checkConsistent(t, r)
}

func TestFindRankingBreaksCycle(t *testing.T) {
	// 0 -> 1 -> 2 -> 0 is contradictory; exactly one reversal repairs it.
	set := mustSet(t, map[[2]int]float64{
		{0, 1}: 0.0,
		{1, 2}: 0.0,
		{0, 2}: 1.0, // item 2 before item 0
	})

	r, err := FindRanking(context.Background(), set, Config{})
	if err != nil {
		t.Fatalf("FindRanking failed: %v", err)
	}
	if r.Cost != 1 {
		t.Errorf("Cost = %g, want 1", r.Cost)
	}
	if len(r.Flipped) != 1 {
		t.Errorf("Flipped = %v, want exactly one pair", r.Flipped)
	}
	checkConsistent(t, r)
}

func TestFindRankingWeightedPicksCheapestFlip(t *testing.T) {
	// Same cycle, but the request closest to indifference costs least to
	// reverse: 2|0.6-0.5| = 0.2 versus 0.8 for the confident ones.
	set := mustSet(t, map[[2]int]float64{
		{0, 1}: 0.1,
		{1, 2}: 0.1,
		{0, 2}: 0.6,
	})

	r, err := FindRanking(context.Background(), set, Config{WeightByConfidence: true})
	if err != nil {
		t.Fatalf("FindRanking failed: %v", err)
	}
	if math.Abs(r.Cost-0.2) > 1e-6 {
		t.Errorf("Cost = %g, want 0.2", r.Cost)
	}
	if len(r.Flipped) != 1 || r.Flipped[0] != [2]int{0, 2} {
		t.Errorf("Flipped = %v, want [[0 2]]", r.Flipped)
	}
	checkConsistent(t, r)
}

func TestFindRankingUnweightedTreatsConfidenceEqually(t *testing.T) {
	// Without weighting the same instance has three cost-1 optima; any
	// single reversal is acceptable.
	set := mustSet(t, map[[2]int]float64{
		{0, 1}: 0.1,
		{1, 2}: 0.1,
		{0, 2}: 0.6,
	})

	r, err := FindRanking(context.Background(), set, Config{})
	if err != nil {
		t.Fatalf("FindRanking failed: %v", err)
	}
	if r.Cost != 1 {
		t.Errorf("Cost = %g, want 1", r.Cost)
	}
	checkConsistent(t, r)
}

func TestFindRankingEqualBandCycle(t *testing.T) {
	// In the band variant a cycle can also be repaired by realizing a tie.
	set := mustSet(t, map[[2]int]float64{
		{0, 1}: 0.0,
		{1, 2}: 0.0,
		{0, 2}: 1.0,
	})

	r, err := FindRanking(context.Background(), set, Config{EqualBand: 0.1})
	if err != nil {
		t.Fatalf("FindRanking failed: %v", err)
	}
	if r.Cost != 1 {
		t.Errorf("Cost = %g, want 1", r.Cost)
	}
	checkConsistent(t, r)
}

func TestFindRankingIsolatedItems(t *testing.T) {
	// Items 0 and 1 are never compared; they rank at the bottom level
	// without affecting the compared pair.
	set := mustSet(t, map[[2]int]float64{
		{2, 3}: 0.0,
	})

	r, err := FindRanking(context.Background(), set, Config{})
	if err != nil {
		t.Fatalf("FindRanking failed: %v", err)
	}
	if !ranksEqual(r.Ranks, []float64{0, 0, 0, 1}) {
		t.Errorf("Ranks = %v, want [0 0 0 1]", r.Ranks)
	}
	checkConsistent(t, r)
}

func TestFindRankingEmptySet(t *testing.T) {
	r, err := FindRanking(context.Background(), relation.NewSet(), Config{})
	if err != nil {
		t.Fatalf("FindRanking failed: %v", err)
	}
	if len(r.Ranks) != 0 {
		t.Errorf("Ranks = %v, want empty", r.Ranks)
	}
	if r.Cost != 0 || !r.ProvenOptimal {
		t.Errorf("empty set: cost %g, proven %v; want 0, true", r.Cost, r.ProvenOptimal)
	}
}

func TestFindRankingDeterministic(t *testing.T) {
	set := mustSet(t, map[[2]int]float64{
		{0, 1}: 0.2,
		{1, 2}: 0.3,
		{0, 3}: 0.9,
		{2, 3}: 0.5,
	})

	first, err := FindRanking(context.Background(), set, Config{EqualBand: 0.05})
	if err != nil {
		t.Fatalf("FindRanking failed: %v", err)
	}
	second, err := FindRanking(context.Background(), set, Config{EqualBand: 0.05})
	if err != nil {
		t.Fatalf("repeated FindRanking failed: %v", err)
	}
	if !ranksEqual(first.Ranks, second.Ranks) {
		t.Errorf("ranks differ across runs: %v vs %v", first.Ranks, second.Ranks)
	}
	if first.Cost != second.Cost {
		t.Errorf("costs differ across runs: %g vs %g", first.Cost, second.Cost)
	}
}

func TestFindRankingInvalidConfig(t *testing.T) {
	for _, band := range []float64{-0.1, 0.5, 0.7} {
		_, err := FindRanking(context.Background(), relation.NewSet(), Config{EqualBand: band})
		if !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("band %g: err = %v, want INVALID_CONFIG", band, err)
		}
	}
}

func TestFindRankingStrictChainSpacing(t *testing.T) {
	// A long strict chain must increase by at least one unit per hop and,
	// with longest-path layering, by exactly one.
	set := mustSet(t, map[[2]int]float64{
		{0, 1}: 0.0,
		{1, 2}: 0.0,
		{2, 3}: 0.0,
		{3, 4}: 0.0,
	})

	r, err := FindRanking(context.Background(), set, Config{})
	if err != nil {
		t.Fatalf("FindRanking failed: %v", err)
	}
	if !ranksEqual(r.Ranks, []float64{0, 1, 2, 3, 4}) {
		t.Errorf("Ranks = %v, want [0 1 2 3 4]", r.Ranks)
	}
	checkConsistent(t, r)
}
