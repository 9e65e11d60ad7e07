package pipeline

import (
	"context"
	"testing"

	"github.com/matzehuels/rankforge/pkg/cache"
	"github.com/matzehuels/rankforge/pkg/errors"
	"github.com/matzehuels/rankforge/pkg/relation"
)

func testSet(t *testing.T, m map[[2]int]float64) *relation.Set {
	t.Helper()
	s := relation.NewSet()
	if err := s.AddMap(m); err != nil {
		t.Fatalf("build comparison set: %v", err)
	}
	return s
}

func TestOptionsValidate(t *testing.T) {
	opts := Options{EqualBand: 0.2}
	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if opts.Logger == nil {
		t.Error("Validate did not default the logger")
	}

	for _, band := range []float64{-0.1, 0.5} {
		bad := Options{EqualBand: band}
		if err := bad.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("band %g: err = %v, want INVALID_CONFIG", band, err)
		}
	}
}

func TestSetHashStableUnderInsertionOrder(t *testing.T) {
	a := relation.NewSet()
	for _, c := range [][3]float64{{0, 1, 0.2}, {1, 2, 0.8}} {
		if err := a.Add(int(c[0]), int(c[1]), c[2]); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	b := relation.NewSet()
	// Reversed insertion order and swapped pair orientation.
	for _, c := range [][3]float64{{2, 1, 0.2}, {1, 0, 0.8}} {
		if err := b.Add(int(c[0]), int(c[1]), c[2]); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	if SetHash(a) != SetHash(b) {
		t.Error("logically identical sets hash differently")
	}

	c := relation.NewSet()
	if err := c.Add(0, 1, 0.3); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if SetHash(a) == SetHash(c) {
		t.Error("different sets share a hash")
	}
}

func TestRunnerExecute(t *testing.T) {
	runner := NewRunner(cache.NewNullCache(), nil, nil)
	defer runner.Close()

	set := testSet(t, map[[2]int]float64{
		{0, 2}: 0.0,
		{1, 2}: 1.0,
	})
	res, err := runner.Execute(context.Background(), set, Options{})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if res.RunID == "" {
		t.Error("RunID is empty")
	}
	if res.CacheHit {
		t.Error("CacheHit = true with the null cache")
	}
	if res.SetHash != SetHash(set) {
		t.Error("SetHash does not match the input set")
	}
	if res.Stats.Items != 3 || res.Stats.Comparisons != 2 {
		t.Errorf("Stats = %+v, want 3 items, 2 comparisons", res.Stats)
	}
	if got := res.Ranking.Ranks; len(got) != 3 || got[0] != 0 || got[1] != 2 || got[2] != 1 {
		t.Errorf("Ranks = %v, want [0 2 1]", got)
	}
}

func TestRunnerCacheRoundTrip(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache failed: %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	set := testSet(t, map[[2]int]float64{
		{0, 1}: 0.0,
		{1, 2}: 0.0,
		{0, 2}: 1.0, // cycle: one repair needed
	})

	first, err := runner.Execute(context.Background(), set, Options{})
	if err != nil {
		t.Fatalf("first Execute failed: %v", err)
	}
	if first.CacheHit {
		t.Error("first run reported a cache hit")
	}

	second, err := runner.Execute(context.Background(), set, Options{})
	if err != nil {
		t.Fatalf("second Execute failed: %v", err)
	}
	if !second.CacheHit {
		t.Fatal("second run missed the cache")
	}

	// The restored ranking must match the computed one in full.
	if second.Ranking.Cost != first.Ranking.Cost {
		t.Errorf("restored cost %g, computed %g", second.Ranking.Cost, first.Ranking.Cost)
	}
	if !second.Ranking.ProvenOptimal {
		t.Error("restored ranking not marked proven optimal")
	}
	for i := range first.Ranking.Ranks {
		if first.Ranking.Ranks[i] != second.Ranking.Ranks[i] {
			t.Errorf("restored ranks %v differ from computed %v",
				second.Ranking.Ranks, first.Ranking.Ranks)
			break
		}
	}
	if second.Ranking.Outcome.Len() != first.Ranking.Outcome.Len() {
		t.Error("restored outcome record incomplete")
	}
	if err := second.Ranking.Graph.Validate(); err != nil {
		t.Errorf("restored graph invalid: %v", err)
	}
	if len(second.Ranking.Flipped) != len(first.Ranking.Flipped) {
		t.Error("restored flipped pairs incomplete")
	}
}

func TestRunnerRefreshSkipsCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache failed: %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	set := testSet(t, map[[2]int]float64{{0, 1}: 0.0})

	if _, err := runner.Execute(context.Background(), set, Options{}); err != nil {
		t.Fatalf("first Execute failed: %v", err)
	}
	res, err := runner.Execute(context.Background(), set, Options{Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute failed: %v", err)
	}
	if res.CacheHit {
		t.Error("Refresh run still hit the cache")
	}
}

func TestRunnerDistinctOptionsDistinctEntries(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache failed: %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	set := testSet(t, map[[2]int]float64{{0, 1}: 0.5})

	if _, err := runner.Execute(context.Background(), set, Options{}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	// Same set, different band: must not reuse the zero-band entry.
	res, err := runner.Execute(context.Background(), set, Options{EqualBand: 0.1})
	if err != nil {
		t.Fatalf("Execute with band failed: %v", err)
	}
	if res.CacheHit {
		t.Error("band run reused the zero-band cache entry")
	}
	if res.Ranking.Ranks[0] != res.Ranking.Ranks[1] {
		t.Errorf("Ranks = %v, want a tie with the band", res.Ranking.Ranks)
	}
}

func TestRunnerInvalidOptions(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	_, err := runner.Execute(context.Background(), relation.NewSet(), Options{EqualBand: 0.9})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestRunnerNilDefaults(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	res, err := runner.Execute(context.Background(), testSet(t, map[[2]int]float64{{0, 1}: 0.0}), Options{})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.CacheHit {
		t.Error("nil cache must behave as a null cache")
	}
}
