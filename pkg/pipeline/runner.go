package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/notationkit/stave/pkg/cache"
	"github.com/notationkit/stave/pkg/errors"
	"github.com/notationkit/stave/pkg/layout"
	"github.com/notationkit/stave/pkg/observability"
	"github.com/notationkit/stave/pkg/score"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
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
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete validate → layout pipeline with caching.
func (r *Runner) Execute(ctx context.Context, sc *score.Score, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Validate
	validateStart := time.Now()
	if err := r.Validate(ctx, sc); err != nil {
		return nil, err
	}
	result.Stats.ValidateTime = time.Since(validateStart)
	result.Stats.NoteCount = sc.NoteCount()

	// Compute score hash for cache keys and API responses
	if data, err := json.Marshal(sc); err == nil {
		result.ScoreHash = cache.Hash(data)
	}

	r.Logger.Info("validated score",
		"score", sc.ID,
		"notes", result.Stats.NoteCount,
		"duration", result.Stats.ValidateTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, sc, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.SystemCount = len(l.Systems)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"systems", len(l.Systems),
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// Validate checks the score invariants.
func (r *Runner) Validate(ctx context.Context, sc *score.Score) error {
	var scoreID string
	if sc != nil {
		scoreID = sc.ID
	}
	observability.Pipeline().OnValidateStart(ctx, scoreID)
	start := time.Now()

	var err error
	if sc == nil {
		err = errors.New(errors.ErrCodeInvalidScore, "score is nil")
	} else {
		err = sc.Validate()
	}

	observability.Pipeline().OnValidateComplete(ctx, scoreID, time.Since(start), err)
	return err
}

// ComputeLayoutWithCacheInfo computes a layout with caching and returns
// cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, sc *score.Score, opts Options) (*layout.GlobalLayout, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from score content
	var cacheKey string
	if data, err := json.Marshal(sc); err == nil {
		cacheKey = r.Keyer.LayoutKey(cache.Hash(data), opts.LayoutKeyOpts())
	}

	// Try cache first (unless refresh requested)
	if !opts.Refresh && cacheKey != "" {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.GlobalLayout
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return &cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	// Compute layout
	var scoreID string
	var noteCount int
	if sc != nil {
		scoreID = sc.ID
		noteCount = sc.NoteCount()
	}
	observability.Pipeline().OnLayoutStart(ctx, scoreID, noteCount)
	start := time.Now()

	l, err := layout.Compute(sc, opts.LayoutConfig())

	var systemCount int
	if l != nil {
		systemCount = len(l.Systems)
	}
	observability.Pipeline().OnLayoutComplete(ctx, scoreID, systemCount, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if cacheKey != "" {
		if data, err := json.Marshal(l); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return l, false, nil // Cache miss
}

// ComputeLayout is a convenience wrapper that calls
// ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, sc *score.Score, opts Options) (*layout.GlobalLayout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, sc, opts)
	return l, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
