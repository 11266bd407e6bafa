package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/notationkit/stave/pkg/cache"
	"github.com/notationkit/stave/pkg/errors"
	"github.com/notationkit/stave/pkg/layout"
	"github.com/notationkit/stave/pkg/observability"
	"github.com/notationkit/stave/pkg/score"
)

func testScore(t *testing.T) *score.Score {
	t.Helper()
	sc := score.New()
	note, err := score.NewNote(0, 960, 60)
	if err != nil {
		t.Fatal(err)
	}
	if err := sc.Instruments[0].Staves[0].Voices[0].AddNote(note); err != nil {
		t.Fatal(err)
	}
	return sc
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}

	if opts.MaxSystemWidth != layout.DefaultMaxSystemWidth {
		t.Errorf("MaxSystemWidth should be %v, got %v", layout.DefaultMaxSystemWidth, opts.MaxSystemWidth)
	}
	if opts.UnitsPerSpace != layout.DefaultUnitsPerSpace {
		t.Errorf("UnitsPerSpace should be %v, got %v", layout.DefaultUnitsPerSpace, opts.UnitsPerSpace)
	}
	if opts.SystemSpacing != layout.DefaultSystemSpacing {
		t.Errorf("SystemSpacing should be %v, got %v", layout.DefaultSystemSpacing, opts.SystemSpacing)
	}
	if opts.SystemHeight != layout.DefaultSystemHeight {
		t.Errorf("SystemHeight should be %v, got %v", layout.DefaultSystemHeight, opts.SystemHeight)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidateRejectsInvalid(t *testing.T) {
	opts := Options{UnitsPerSpace: -1}
	err := opts.ValidateAndSetDefaults()
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("negative units error = %v, want ErrCodeInvalidConfig", err)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{MaxSystemWidth: 400}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	originalWidth := opts.MaxSystemWidth
	originalUnits := opts.UnitsPerSpace

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.MaxSystemWidth != originalWidth {
		t.Error("MaxSystemWidth changed on second call")
	}
	if opts.UnitsPerSpace != originalUnits {
		t.Error("UnitsPerSpace changed on second call")
	}
}

func TestOptionsLayoutKeyOptsAfterDefaults(t *testing.T) {
	zero := Options{}
	if err := zero.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	explicit := Options{
		MaxSystemWidth: layout.DefaultMaxSystemWidth,
		UnitsPerSpace:  layout.DefaultUnitsPerSpace,
		SystemSpacing:  layout.DefaultSystemSpacing,
		SystemHeight:   layout.DefaultSystemHeight,
	}
	if err := explicit.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	// Zero options and explicit defaults must compute the same cache key.
	if zero.LayoutKeyOpts() != explicit.LayoutKeyOpts() {
		t.Errorf("key opts differ: %+v vs %+v", zero.LayoutKeyOpts(), explicit.LayoutKeyOpts())
	}
}

func TestRunnerExecute(t *testing.T) {
	runner := NewRunner(nil, nil, discardLogger())
	sc := testScore(t)

	result, err := runner.Execute(context.Background(), sc, Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Layout == nil {
		t.Fatal("Execute() returned nil layout")
	}
	if len(result.Layout.Systems) != 1 {
		t.Errorf("systems = %d, want 1", len(result.Layout.Systems))
	}
	if result.ScoreHash == "" {
		t.Error("ScoreHash should be set")
	}
	if result.Stats.NoteCount != 1 {
		t.Errorf("NoteCount = %d, want 1", result.Stats.NoteCount)
	}
	if result.Stats.SystemCount != 1 {
		t.Errorf("SystemCount = %d, want 1", result.Stats.SystemCount)
	}
	if result.CacheInfo.LayoutHit {
		t.Error("first run with a null cache should not hit")
	}
}

func TestRunnerExecuteInvalidScore(t *testing.T) {
	runner := NewRunner(nil, nil, discardLogger())
	ctx := context.Background()

	if _, err := runner.Execute(ctx, nil, Options{}); !errors.Is(err, errors.ErrCodeInvalidScore) {
		t.Errorf("nil score error = %v, want ErrCodeInvalidScore", err)
	}

	sc := score.New()
	sc.Instruments[0].Staves = nil
	if _, err := runner.Execute(ctx, sc, Options{}); !errors.Is(err, errors.ErrCodeInvalidScore) {
		t.Errorf("staveless score error = %v, want ErrCodeInvalidScore", err)
	}
}

func TestRunnerLayoutCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, discardLogger())
	sc := testScore(t)
	ctx := context.Background()

	first, hit, err := runner.ComputeLayoutWithCacheInfo(ctx, sc, Options{})
	if err != nil {
		t.Fatalf("first compute error = %v", err)
	}
	if hit {
		t.Error("first compute should miss the cache")
	}

	second, hit, err := runner.ComputeLayoutWithCacheInfo(ctx, sc, Options{})
	if err != nil {
		t.Fatalf("second compute error = %v", err)
	}
	if !hit {
		t.Error("second compute should hit the cache")
	}

	firstJSON, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}
	secondJSON, err := json.Marshal(second)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(firstJSON, secondJSON) {
		t.Error("cached layout differs from computed layout")
	}

	// Refresh bypasses the cached entry.
	_, hit, err = runner.ComputeLayoutWithCacheInfo(ctx, sc, Options{Refresh: true})
	if err != nil {
		t.Fatalf("refresh compute error = %v", err)
	}
	if hit {
		t.Error("refresh should not hit the cache")
	}
}

func TestRunnerLayoutCacheCorruptEntry(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, discardLogger())
	sc := testScore(t)
	ctx := context.Background()

	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(sc)
	if err != nil {
		t.Fatal(err)
	}
	key := runner.Keyer.LayoutKey(cache.Hash(data), opts.LayoutKeyOpts())
	if err := runner.Cache.Set(ctx, key, []byte("{not json"), cache.TTLLayout); err != nil {
		t.Fatal(err)
	}

	l, hit, err := runner.ComputeLayoutWithCacheInfo(ctx, sc, opts)
	if err != nil {
		t.Fatalf("compute with corrupt entry error = %v", err)
	}
	if hit {
		t.Error("corrupt entry should not count as a hit")
	}
	if l == nil || len(l.Systems) != 1 {
		t.Error("compute should fall through to a fresh layout")
	}
}

func TestRunnerClose(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, discardLogger())
	if err := runner.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

// countingHooks records pipeline and cache events for assertions.
type countingHooks struct {
	mu             sync.Mutex
	validateStart  int
	validateDone   int
	layoutStart    int
	layoutDone     int
	lastNoteCount  int
	lastSystemCnt  int
	cacheHits      int
	cacheMisses    int
	cacheSets      int
}

func (h *countingHooks) OnValidateStart(_ context.Context, _ string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.validateStart++
}

func (h *countingHooks) OnValidateComplete(_ context.Context, _ string, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.validateDone++
}

func (h *countingHooks) OnLayoutStart(_ context.Context, _ string, noteCount int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.layoutStart++
	h.lastNoteCount = noteCount
}

func (h *countingHooks) OnLayoutComplete(_ context.Context, _ string, systemCount int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.layoutDone++
	h.lastSystemCnt = systemCount
}

func (h *countingHooks) OnExportStart(_ context.Context, _ string) {}

func (h *countingHooks) OnExportComplete(_ context.Context, _ string, _ time.Duration, _ error) {}

func (h *countingHooks) OnCacheHit(_ context.Context, _ string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cacheHits++
}

func (h *countingHooks) OnCacheMiss(_ context.Context, _ string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cacheMisses++
}

func (h *countingHooks) OnCacheSet(_ context.Context, _ string, _ int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cacheSets++
}

func TestRunnerEmitsHooks(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, discardLogger())
	sc := testScore(t)
	ctx := context.Background()

	if _, err := runner.Execute(ctx, sc, Options{}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if hooks.validateStart != 1 || hooks.validateDone != 1 {
		t.Errorf("validate hooks = %d/%d, want 1/1", hooks.validateStart, hooks.validateDone)
	}
	if hooks.layoutStart != 1 || hooks.layoutDone != 1 {
		t.Errorf("layout hooks = %d/%d, want 1/1", hooks.layoutStart, hooks.layoutDone)
	}
	if hooks.lastNoteCount != 1 {
		t.Errorf("note count seen by hook = %d, want 1", hooks.lastNoteCount)
	}
	if hooks.lastSystemCnt != 1 {
		t.Errorf("system count seen by hook = %d, want 1", hooks.lastSystemCnt)
	}
	if hooks.cacheMisses != 1 || hooks.cacheSets != 1 {
		t.Errorf("cache miss/set = %d/%d, want 1/1", hooks.cacheMisses, hooks.cacheSets)
	}

	// Second run serves the layout from cache without recomputing.
	if _, err := runner.Execute(ctx, sc, Options{}); err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if hooks.cacheHits != 1 {
		t.Errorf("cache hits = %d, want 1", hooks.cacheHits)
	}
	if hooks.layoutStart != 1 {
		t.Errorf("layout recomputed on cache hit: starts = %d, want 1", hooks.layoutStart)
	}
}
