package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/notationkit/stave/pkg/errors"
	"github.com/notationkit/stave/pkg/layout"
	"github.com/notationkit/stave/pkg/pipeline"
)

type layoutResponse struct {
	ScoreID   string               `json:"score_id"`
	ScoreHash string               `json:"score_hash"`
	CacheHit  bool                 `json:"cache_hit"`
	Layout    *layout.GlobalLayout `json:"layout"`
}

type visibleSystemsResponse struct {
	ScoreID        string          `json:"score_id"`
	ViewportY      float64         `json:"viewport_y"`
	ViewportHeight float64         `json:"viewport_height"`
	Systems        []layout.System `json:"systems"`
}

// parseFloatQuery reads an optional float query parameter. The second
// return reports whether the parameter was present.
func parseFloatQuery(q url.Values, name string) (float64, bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, errors.New(errors.ErrCodeInvalidInput,
			"invalid %s: %q", name, raw)
	}
	return v, true, nil
}

// parseLayoutOptions reads layout config and refresh params from the
// query. Absent params keep their zero value and take the layout
// defaults downstream.
func parseLayoutOptions(r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options
	q := r.URL.Query()

	fields := []struct {
		name string
		dst  *float64
	}{
		{"max_system_width", &opts.MaxSystemWidth},
		{"units_per_space", &opts.UnitsPerSpace},
		{"system_spacing", &opts.SystemSpacing},
		{"system_height", &opts.SystemHeight},
	}
	for _, f := range fields {
		v, ok, err := parseFloatQuery(q, f.name)
		if err != nil {
			return opts, err
		}
		if ok {
			*f.dst = v
		}
	}

	if raw := q.Get("refresh"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput,
				"invalid refresh: %q", raw)
		}
		opts.Refresh = v
	}
	return opts, nil
}

// handleLayout computes the layout for a stored score, serving a cached
// result when the score and options are unchanged.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := parseLayoutOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}

	sc, err := s.repo.Get(r.Context(), chi.URLParam(r, "scoreID"))
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), sc, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, layoutResponse{
		ScoreID:   sc.ID,
		ScoreHash: result.ScoreHash,
		CacheHit:  result.CacheInfo.LayoutHit,
		Layout:    result.Layout,
	})
}

// handleVisibleSystems returns the systems intersecting a vertical
// viewport, for clients that render only what is on screen.
func (s *Server) handleVisibleSystems(w http.ResponseWriter, r *http.Request) {
	opts, err := parseLayoutOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	viewportY, _, err := parseFloatQuery(q, "viewport_y")
	if err != nil {
		writeError(w, err)
		return
	}
	viewportHeight, ok, err := parseFloatQuery(q, "viewport_height")
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, errors.New(errors.ErrCodeInvalidInput,
			"viewport_height is required"))
		return
	}

	sc, err := s.repo.Get(r.Context(), chi.URLParam(r, "scoreID"))
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), sc, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	systems := result.Layout.VisibleSystems(viewportY, viewportHeight)
	if systems == nil {
		systems = []layout.System{}
	}
	writeJSON(w, http.StatusOK, visibleSystemsResponse{
		ScoreID:        sc.ID,
		ViewportY:      viewportY,
		ViewportHeight: viewportHeight,
		Systems:        systems,
	})
}
