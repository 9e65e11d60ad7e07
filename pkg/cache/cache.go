// Package cache provides content-addressed caching of ranking results.
//
// Ranking runs are deterministic functions of the normalized comparison set
// and the configuration, so results can be cached under a key derived from
// both. Backends include a file cache for CLI use, a Redis cache for server
// deployments, and a null cache for disabling caching entirely.
package cache

import (
	"context"
	"time"
)

// TTL values for cached data.
const (
	// TTLRanking is how long solved rankings are kept. Results are pure
	// functions of their key, so the TTL only bounds disk usage.
	TTLRanking = 30 * 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves the value for key. The second result is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key with a time-to-live. A TTL of 0 means the
	// entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes the value for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// RankingKeyOpts are the configuration inputs that shape a ranking result.
// Two runs with the same comparison hash and the same opts are
// interchangeable.
type RankingKeyOpts struct {
	EqualBand          float64
	WeightByConfidence bool
}

// Keyer generates cache keys for ranking results.
type Keyer interface {
	// RankingKey generates a key from the hash of a normalized comparison
	// set and the configuration options.
	RankingKey(setHash string, opts RankingKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RankingKey generates a key for a solved ranking.
func (k *DefaultKeyer) RankingKey(setHash string, opts RankingKeyOpts) string {
	return hashKey("ranking", setHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, e.g. when
// several configurations share one Redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// RankingKey generates a prefixed key for a solved ranking.
func (k *ScopedKeyer) RankingKey(setHash string, opts RankingKeyOpts) string {
	return k.prefix + k.inner.RankingKey(setHash, opts)
}
