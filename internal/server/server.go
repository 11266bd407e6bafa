// Package server implements the stave HTTP API.
//
// The API exposes score CRUD, staged score building (instruments,
// staves, voices, notes, structural events), and layout computation
// over REST. Scores live in a [scorestore.Repository]; layouts are
// computed through the shared [pipeline.Runner] so the server gets the
// same caching behavior as the CLI.
//
// # Routes
//
// All routes are versioned under /api/v1:
//
//	POST   /scores                           create a score
//	GET    /scores                           list score ids
//	GET    /scores/{id}                      fetch a score
//	DELETE /scores/{id}                      delete a score
//	GET    /scores/{id}/layout               compute (or serve cached) layout
//	GET    /scores/{id}/layout/systems       systems visible in a viewport
//	POST   /scores/{id}/instruments          add an instrument
//	POST   .../instruments/{iid}/staves      add a staff
//	POST   .../staves/{sid}/voices           add a voice
//	POST   .../voices/{vid}/notes            add a note
//	POST   /scores/{id}/structural-events/tempo
//	POST   /scores/{id}/structural-events/time-signature
//	POST   .../staves/{sid}/structural-events/clef
//	POST   .../staves/{sid}/structural-events/key-signature
//
// Errors are returned as {"error": code, "message": text} with the
// HTTP status derived from the error code.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/notationkit/stave/pkg/pipeline"
	"github.com/notationkit/stave/pkg/scorestore"
)

const shutdownTimeout = 10 * time.Second

// Server hosts the score API over HTTP.
type Server struct {
	repo   scorestore.Repository
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server backed by the given repository and pipeline
// runner. A nil runner gets a cache-less default; a nil logger falls
// back to log.Default.
func New(repo scorestore.Repository, runner *pipeline.Runner, logger *log.Logger) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{repo: repo, runner: runner, logger: logger}
}

// Router builds the chi handler with all API routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1/scores", func(r chi.Router) {
		r.Post("/", s.handleCreateScore)
		r.Get("/", s.handleListScores)

		r.Route("/{scoreID}", func(r chi.Router) {
			r.Get("/", s.handleGetScore)
			r.Delete("/", s.handleDeleteScore)
			r.Get("/layout", s.handleLayout)
			r.Get("/layout/systems", s.handleVisibleSystems)

			r.Post("/structural-events/tempo", s.handleAddTempoEvent)
			r.Post("/structural-events/time-signature", s.handleAddTimeSignatureEvent)

			r.Post("/instruments", s.handleAddInstrument)
			r.Route("/instruments/{instrumentID}/staves", func(r chi.Router) {
				r.Post("/", s.handleAddStaff)
				r.Route("/{staffID}", func(r chi.Router) {
					r.Post("/voices", s.handleAddVoice)
					r.Post("/voices/{voiceID}/notes", s.handleAddNote)
					r.Post("/structural-events/clef", s.handleAddClefEvent)
					r.Post("/structural-events/key-signature", s.handleAddKeySignatureEvent)
				})
			})
		})
	})

	return r
}

// ListenAndServe serves the API on addr until ctx is canceled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
