package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/rankforge/pkg/cache"
	"github.com/matzehuels/rankforge/pkg/mip"
	"github.com/matzehuels/rankforge/pkg/mip/exact"
	"github.com/matzehuels/rankforge/pkg/rank"
	"github.com/matzehuels/rankforge/pkg/relation"
	"github.com/matzehuels/rankforge/pkg/relgraph"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options, provided the cache backend is itself safe.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete validate → solve → layer pipeline with caching.
func (r *Runner) Execute(ctx context.Context, set *relation.Set, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}

	result := &Result{
		RunID:   uuid.NewString(),
		SetHash: SetHash(set),
		Stats: Stats{
			Items:       set.ItemCount(),
			Comparisons: set.Len(),
		},
	}
	cacheKey := r.Keyer.RankingKey(result.SetHash, opts.KeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if ranking, err := restore(data); err == nil {
				result.Ranking = ranking
				result.CacheHit = true
				logger.Debug("ranking from cache",
					"run_id", result.RunID, "hash", result.SetHash[:12])
				return result, nil
			}
			// Undecodable entry: fall through and recompute.
		}
	}

	solveStart := time.Now()
	ranking, err := rank.FindRanking(ctx, set, rank.Config{
		EqualBand:          opts.EqualBand,
		WeightByConfidence: opts.WeightByConfidence,
		Solver:             r.solverFor(opts),
	})
	if err != nil {
		return nil, err
	}
	result.Ranking = ranking
	result.Stats.SolveTime = time.Since(solveStart)

	logger.Info("computed ranking",
		"run_id", result.RunID,
		"items", result.Stats.Items,
		"comparisons", result.Stats.Comparisons,
		"cost", ranking.Cost,
		"proven_optimal", ranking.ProvenOptimal,
		"duration", result.Stats.SolveTime)

	// Best-effort results may be improvable, so only optima are cached.
	if ranking.ProvenOptimal {
		if data, err := persist(ranking); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLRanking)
		}
	}
	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// solverFor picks the solving engine for a run: the caller-supplied one, or
// the exact reference solver configured with the run's time budget.
func (r *Runner) solverFor(opts Options) mip.Solver {
	if opts.Solver != nil {
		return opts.Solver
	}
	return &exact.Solver{TimeLimit: opts.TimeLimit}
}

// persist serializes a proven-optimal ranking for caching.
func persist(ranking *rank.Ranking) ([]byte, error) {
	p := payload{
		Ranks:   ranking.Ranks,
		Cost:    ranking.Cost,
		Flipped: ranking.Flipped,
	}
	for _, pair := range ranking.Outcome.Pairs() {
		p.Rels = append(p.Rels, realizedPair{I: pair.I, J: pair.J, Rel: pair.Rel})
	}
	return json.Marshal(p)
}

// restore rebuilds a full ranking (including the resolved graph and outcome
// record) from its cached form.
func restore(data []byte) (*rank.Ranking, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	g := relgraph.New(len(p.Ranks))
	outcome := relation.NewOutcome()
	for _, pair := range p.Rels {
		outcome.Record(pair.I, pair.J, pair.Rel)
		switch pair.Rel {
		case relation.LE:
			if err := g.AddEdge(pair.I, pair.J); err != nil {
				return nil, err
			}
		case relation.GE:
			if err := g.AddEdge(pair.J, pair.I); err != nil {
				return nil, err
			}
		case relation.EQ:
			if err := g.Merge(pair.I, pair.J); err != nil {
				return nil, err
			}
		}
	}

	return &rank.Ranking{
		Ranks:         p.Ranks,
		Cost:          p.Cost,
		ProvenOptimal: true, // only optima are persisted
		Outcome:       outcome,
		Graph:         g,
		Flipped:       p.Flipped,
	}, nil
}
