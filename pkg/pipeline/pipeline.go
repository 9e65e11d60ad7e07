// Package pipeline provides the core ranking pipeline for rankforge.
//
// This package implements the validate → build → solve → extract → layer
// flow used by both the CLI and the HTTP API. Centralizing it here keeps
// caching and logging behavior identical across entry points.
//
// # Architecture
//
// A [Runner] wraps the core [rank.FindRanking] procedure with
// content-addressed caching: the cache key is derived from the normalized
// comparison set and the configuration, so identical requests are answered
// from cache without touching the solving engine. Only proven-optimal
// results are cached; best-effort results under a time budget are always
// recomputed.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, set, pipeline.Options{EqualBand: 0.1})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Ranking.Ranks)
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rankforge/pkg/cache"
	"github.com/matzehuels/rankforge/pkg/errors"
	"github.com/matzehuels/rankforge/pkg/mip"
	"github.com/matzehuels/rankforge/pkg/rank"
	"github.com/matzehuels/rankforge/pkg/relation"
)

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// EqualBand is the equal-band half-width passed to the model builder.
	EqualBand float64 `json:"equal_band,omitempty"`

	// WeightByConfidence enables confidence-weighted repair cost.
	WeightByConfidence bool `json:"weight_by_confidence,omitempty"`

	// Refresh bypasses the cache and recomputes the ranking.
	Refresh bool `json:"refresh,omitempty"`

	// TimeLimit bounds the solver call. Zero means no limit. Results
	// truncated by the limit are marked ProvenOptimal=false and not cached.
	TimeLimit time.Duration `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	Solver mip.Solver  `json:"-"`
}

// Validate checks option ranges and applies defaults.
func (o *Options) Validate() error {
	if o.EqualBand < 0 || o.EqualBand >= 0.5 {
		return errors.New(errors.ErrCodeInvalidConfig, "equal band half-width %g outside [0, 0.5)", o.EqualBand)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// KeyOpts returns the cache key options for this configuration.
func (o *Options) KeyOpts() cache.RankingKeyOpts {
	return cache.RankingKeyOpts{
		EqualBand:          o.EqualBand,
		WeightByConfidence: o.WeightByConfidence,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this pipeline invocation in logs and
	// exported documents.
	RunID string

	// Ranking is the computed (or cache-restored) ranking.
	Ranking *rank.Ranking

	// SetHash is the content hash of the normalized comparison set.
	SetHash string

	// CacheHit reports whether the ranking came from cache.
	CacheHit bool

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Items       int
	Comparisons int
	SolveTime   time.Duration
}

// SetHash computes the content hash of a comparison set from its canonical
// comparison order, so logically identical inputs share cache entries.
func SetHash(set *relation.Set) string {
	data, _ := json.Marshal(set.Comparisons())
	return cache.Hash(data)
}

// payload is the cached form of a ranking result. The resolved graph and
// outcome record are rebuilt from the realized relations on restore.
type payload struct {
	Ranks   []float64      `json:"ranks"`
	Cost    float64        `json:"cost"`
	Flipped [][2]int       `json:"flipped,omitempty"`
	Rels    []realizedPair `json:"rels"`
}

type realizedPair struct {
	I   int          `json:"i"`
	J   int          `json:"j"`
	Rel relation.Rel `json:"rel"`
}
