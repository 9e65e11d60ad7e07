// Package relation models items, pairwise comparisons, and relation outcomes.
//
// A comparison expresses a soft directional preference between two items as a
// value in [0, 1]: values below the cutoff request "i before j" (LE), values
// above request "j before i" (GE), and values inside the equal band request a
// tie (EQ). Comparisons are stored in canonical form so that each unordered
// pair has exactly one record.
package relation

import (
	"sort"

	"github.com/matzehuels/rankforge/pkg/errors"
)

// Rel identifies the relation between the two items of a comparison,
// read in canonical pair order (smaller item id first).
type Rel int

const (
	// LE means the first item ranks no higher than the second.
	LE Rel = iota
	// EQ means both items share the same rank.
	EQ
	// GE means the first item ranks no lower than the second.
	GE
)

// String returns the conventional symbol for the relation.
func (r Rel) String() string {
	switch r {
	case LE:
		return "<="
	case EQ:
		return "=="
	case GE:
		return ">="
	}
	return "?"
}

// Inverse returns the relation as seen from the swapped pair order.
// LE and GE swap; EQ is its own inverse.
func (r Rel) Inverse() Rel {
	switch r {
	case LE:
		return GE
	case GE:
		return LE
	}
	return EQ
}

// Comparison is a single pairwise preference in canonical form (I < J).
// Value is the preference strength for "I ranks above J": 0 requests I
// strictly before J, 1 requests J strictly before I, 0.5 is indifferent.
type Comparison struct {
	I, J  int
	Value float64
}

// Requested returns the relation a value asks for, given the equal-band
// half-width. With band == 0 the equal band collapses to the single point
// 0.5, which [FreeChoice] treats as a costless direction choice.
func Requested(value, band float64) Rel {
	switch {
	case value < 0.5-band:
		return LE
	case value > 0.5+band:
		return GE
	default:
		return EQ
	}
}

// FreeChoice reports whether a value sits exactly on the collapsed cutoff
// point, where either direction is acceptable at no repair cost. This only
// occurs in the zero-band variant.
func FreeChoice(value, band float64) bool {
	return band == 0 && value == 0.5
}

// Set is a validated collection of pairwise comparisons.
//
// Comparisons are keyed by canonical unordered pair: adding (j, i, v) with
// j > i stores (i, j, 1-v), mirroring the preference. At most one comparison
// may exist per unordered pair. The zero value is not usable; use NewSet.
type Set struct {
	comps map[[2]int]float64
	maxID int
}

// NewSet creates an empty comparison set.
func NewSet() *Set {
	return &Set{comps: make(map[[2]int]float64), maxID: -1}
}

// Add registers a comparison between items i and j with the given value.
//
// It returns a structured error (pkg/errors codes) when i == j, the value is
// outside [0, 1], or the unordered pair was already registered, naming the
// offending pair in the message.
func (s *Set) Add(i, j int, value float64) error {
	if i == j {
		return errors.New(errors.ErrCodeInvalidComparison, "comparison (%d,%d): items must differ", i, j)
	}
	if i < 0 || j < 0 {
		return errors.New(errors.ErrCodeInvalidComparison, "comparison (%d,%d): item ids must be non-negative", i, j)
	}
	if value < 0 || value > 1 {
		return errors.New(errors.ErrCodeInvalidValue, "comparison (%d,%d): value %g outside [0,1]", i, j, value)
	}

	key, v := canonical(i, j, value)
	if _, exists := s.comps[key]; exists {
		return errors.New(errors.ErrCodeDuplicatePair, "comparison (%d,%d): unordered pair already registered", i, j)
	}
	s.comps[key] = v

	if i > s.maxID {
		s.maxID = i
	}
	if j > s.maxID {
		s.maxID = j
	}
	return nil
}

// AddMap registers every comparison from a pair-keyed map.
// Pairs are processed in sorted order so validation errors are deterministic.
func (s *Set) AddMap(m map[[2]int]float64) error {
	keys := make([][2]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a][0] != keys[b][0] {
			return keys[a][0] < keys[b][0]
		}
		return keys[a][1] < keys[b][1]
	})
	for _, k := range keys {
		if err := s.Add(k[0], k[1], m[k]); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of registered comparisons.
func (s *Set) Len() int { return len(s.comps) }

// ItemCount returns one plus the maximum item id seen in any comparison,
// or 0 for an empty set. Item ids are assumed contiguous from 0; items never
// compared still participate in ranking as isolated singletons.
func (s *Set) ItemCount() int { return s.maxID + 1 }

// Comparisons returns all comparisons in canonical form, sorted by pair.
// The order is deterministic, which keeps model construction and cache keys
// stable across runs.
func (s *Set) Comparisons() []Comparison {
	out := make([]Comparison, 0, len(s.comps))
	for k, v := range s.comps {
		out = append(out, Comparison{I: k[0], J: k[1], Value: v})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].I != out[b].I {
			return out[a].I < out[b].I
		}
		return out[a].J < out[b].J
	})
	return out
}

func canonical(i, j int, value float64) ([2]int, float64) {
	if i < j {
		return [2]int{i, j}, value
	}
	return [2]int{j, i}, 1 - value
}

// Outcome records the realized relation of every comparison after solving.
// It answers queries in either pair order by inverting the stored relation.
type Outcome struct {
	rel map[[2]int]Rel
}

// NewOutcome creates an empty outcome record.
func NewOutcome() *Outcome {
	return &Outcome{rel: make(map[[2]int]Rel)}
}

// Record stores the realized relation for the pair (i, j).
// The relation is interpreted in the (i, j) order given and canonicalized.
func (o *Outcome) Record(i, j int, r Rel) {
	if i < j {
		o.rel[[2]int{i, j}] = r
		return
	}
	o.rel[[2]int{j, i}] = r.Inverse()
}

// Realized returns the relation between i and j as resolved by the repair,
// in the (i, j) order given. The second result is false when the pair was
// never compared.
func (o *Outcome) Realized(i, j int) (Rel, bool) {
	if i < j {
		r, ok := o.rel[[2]int{i, j}]
		return r, ok
	}
	r, ok := o.rel[[2]int{j, i}]
	return r.Inverse(), ok
}

// Len returns the number of recorded outcomes.
func (o *Outcome) Len() int { return len(o.rel) }

// RealizedPair is one recorded outcome in canonical pair order.
type RealizedPair struct {
	I, J int
	Rel  Rel
}

// Pairs returns all recorded outcomes sorted by pair, for serialization and
// deterministic iteration.
func (o *Outcome) Pairs() []RealizedPair {
	out := make([]RealizedPair, 0, len(o.rel))
	for k, r := range o.rel {
		out = append(out, RealizedPair{I: k[0], J: k[1], Rel: r})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].I != out[b].I {
			return out[a].I < out[b].I
		}
		return out[a].J < out[b].J
	})
	return out
}
