// Package cache provides pluggable byte caches and cache key builders
// for layout results.
//
// Layout computation is deterministic: the same score and configuration
// always serialize to the same bytes. That makes cached layouts safe to
// serve indefinitely when keyed by content hash, which is what the
// Keyer produces. Backends cover local CLI usage (FileCache), shared
// deployments (RedisCache), and disabled caching (NullCache).
package cache

import (
	"context"
	"time"
)

// Cache TTLs per entry kind. Layout entries are content-addressed, so
// their lifetime is bounded only by storage pressure; score entries key
// on mutable ids and expire quickly.
const (
	TTLLayout = 7 * 24 * time.Hour
	TTLScore  = time.Hour
)

// Cache is a byte store with expiration. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present; an absent key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl stores without expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys for the domain's cacheable artifacts.
// Implementations must be deterministic: equal inputs yield equal keys.
type Keyer interface {
	// LayoutKey keys a computed layout by the content hash of its score
	// and the layout options that shaped it.
	LayoutKey(scoreHash string, opts LayoutKeyOpts) string

	// ScoreKey keys a serialized score by its id.
	ScoreKey(scoreID string) string
}

// LayoutKeyOpts are the layout configuration values that change the
// computed geometry. Two layouts of one score with different options
// must cache under different keys.
type LayoutKeyOpts struct {
	MaxSystemWidth float64 `json:"max_system_width"`
	UnitsPerSpace  float64 `json:"units_per_space"`
	SystemSpacing  float64 `json:"system_spacing"`
	SystemHeight   float64 `json:"system_height"`
}

// DefaultKeyer is the standard key builder.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key builder.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(scoreHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", scoreHash, opts)
}

// ScoreKey generates a key for serialized score caching.
func (k *DefaultKeyer) ScoreKey(scoreID string) string {
	return "score:" + scoreID
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
