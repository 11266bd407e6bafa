// Package pipeline runs the validate → layout stages behind one entry
// point shared by the CLI and the HTTP server. By centralizing this
// logic, both hosts get identical caching and instrumentation behavior.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Validate: check score invariants before any layout work
//  2. Layout: compute engraving geometry for the full score
//
// Layout is deterministic, so results are cached by content hash: the
// same score bytes with the same options always produce the same
// geometry, and a cached layout can be served without recomputation.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, sc, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data, _ := json.Marshal(result.Layout)
//
// Run the layout stage directly with an already validated score:
//
//	l, err := runner.ComputeLayout(ctx, sc, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/notationkit/stave/pkg/cache"
	"github.com/notationkit/stave/pkg/layout"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options, in logical units. Zero values take the layout
	// package defaults.
	MaxSystemWidth float64 `json:"max_system_width,omitempty"`
	UnitsPerSpace  float64 `json:"units_per_space,omitempty"`
	SystemSpacing  float64 `json:"system_spacing,omitempty"`
	SystemHeight   float64 `json:"system_height,omitempty"`

	// Refresh forces layout recomputation even when a cached result
	// exists.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks the layout options and fills zero values
// with defaults. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	cfg, err := o.LayoutConfig().Validated()
	if err != nil {
		return err
	}
	o.MaxSystemWidth = cfg.MaxSystemWidth
	o.UnitsPerSpace = cfg.UnitsPerSpace
	o.SystemSpacing = cfg.SystemSpacing
	o.SystemHeight = cfg.SystemHeight

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// LayoutConfig returns the layout engine configuration for these options.
func (o *Options) LayoutConfig() layout.Config {
	return layout.Config{
		MaxSystemWidth: o.MaxSystemWidth,
		UnitsPerSpace:  o.UnitsPerSpace,
		SystemSpacing:  o.SystemSpacing,
		SystemHeight:   o.SystemHeight,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
// Options must be validated first so that zero values and their filled
// defaults key identically.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		MaxSystemWidth: o.MaxSystemWidth,
		UnitsPerSpace:  o.UnitsPerSpace,
		SystemSpacing:  o.SystemSpacing,
		SystemHeight:   o.SystemHeight,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the computed engraving geometry.
	Layout *layout.GlobalLayout

	// ScoreHash is the content hash of the serialized score.
	ScoreHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NoteCount    int
	SystemCount  int
	ValidateTime time.Duration
	LayoutTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
}
