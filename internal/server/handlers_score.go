package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/notationkit/stave/pkg/score"
)

type createScoreRequest struct {
	Name string `json:"name,omitempty"`
}

type scoreListResponse struct {
	Scores []string `json:"scores"`
}

// handleCreateScore creates a score with the standard defaults and
// stores it. The optional request body is accepted for forward
// compatibility; its fields do not change the created score.
func (s *Server) handleCreateScore(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > 0 {
		var req createScoreRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	sc := score.New()
	if err := s.repo.Put(r.Context(), sc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sc)
}

// handleListScores returns the ids of all stored scores.
func (s *Server) handleListScores(w http.ResponseWriter, r *http.Request) {
	scores, err := s.repo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	ids := make([]string, len(scores))
	for i, sc := range scores {
		ids[i] = sc.ID
	}
	writeJSON(w, http.StatusOK, scoreListResponse{Scores: ids})
}

// handleGetScore returns one score with resolved staff clefs.
func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	sc, err := s.repo.Get(r.Context(), chi.URLParam(r, "scoreID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newScoreResponse(sc))
}

// handleDeleteScore removes a score.
func (s *Server) handleDeleteScore(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Delete(r.Context(), chi.URLParam(r, "scoreID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
