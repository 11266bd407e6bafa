package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/notationkit/stave/pkg/errors"
	"github.com/notationkit/stave/pkg/score"
)

type addInstrumentRequest struct {
	Name string `json:"name"`
}

type addNoteRequest struct {
	StartTick     uint32 `json:"start_tick"`
	DurationTicks uint32 `json:"duration_ticks"`
	Pitch         int    `json:"pitch"`
}

type addTempoEventRequest struct {
	Tick uint32 `json:"tick"`
	BPM  uint16 `json:"bpm"`
}

type addTimeSignatureEventRequest struct {
	Tick        uint32 `json:"tick"`
	Numerator   int    `json:"numerator"`
	Denominator int    `json:"denominator"`
}

type addClefEventRequest struct {
	Tick uint32 `json:"tick"`
	Clef string `json:"clef"`
}

type addKeySignatureEventRequest struct {
	Tick   uint32 `json:"tick"`
	Sharps int    `json:"sharps"`
}

// findStaff resolves the instrument and staff path params on a loaded
// score.
func findStaff(sc *score.Score, r *http.Request) (*score.Staff, error) {
	inst, err := sc.InstrumentByID(chi.URLParam(r, "instrumentID"))
	if err != nil {
		return nil, err
	}
	return inst.StaffByID(chi.URLParam(r, "staffID"))
}

// handleAddInstrument appends a new instrument to a score.
func (s *Server) handleAddInstrument(w http.ResponseWriter, r *http.Request) {
	var req addInstrumentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "instrument name is required"))
		return
	}

	sc, err := s.repo.Get(r.Context(), chi.URLParam(r, "scoreID"))
	if err != nil {
		writeError(w, err)
		return
	}

	inst := score.NewInstrument(req.Name)
	sc.AddInstrument(inst)

	if err := s.repo.Put(r.Context(), sc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inst)
}

// handleAddStaff appends a new staff to an instrument.
func (s *Server) handleAddStaff(w http.ResponseWriter, r *http.Request) {
	sc, err := s.repo.Get(r.Context(), chi.URLParam(r, "scoreID"))
	if err != nil {
		writeError(w, err)
		return
	}
	inst, err := sc.InstrumentByID(chi.URLParam(r, "instrumentID"))
	if err != nil {
		writeError(w, err)
		return
	}

	staff := score.NewStaff()
	inst.AddStaff(staff)

	if err := s.repo.Put(r.Context(), sc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, staff)
}

// handleAddVoice appends a new voice to a staff.
func (s *Server) handleAddVoice(w http.ResponseWriter, r *http.Request) {
	sc, err := s.repo.Get(r.Context(), chi.URLParam(r, "scoreID"))
	if err != nil {
		writeError(w, err)
		return
	}
	staff, err := findStaff(sc, r)
	if err != nil {
		writeError(w, err)
		return
	}

	voice := score.NewVoice()
	staff.AddVoice(voice)

	if err := s.repo.Put(r.Context(), sc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, voice)
}

// handleAddNote appends a note to a voice.
func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	var req addNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	sc, err := s.repo.Get(r.Context(), chi.URLParam(r, "scoreID"))
	if err != nil {
		writeError(w, err)
		return
	}
	staff, err := findStaff(sc, r)
	if err != nil {
		writeError(w, err)
		return
	}
	voice, err := staff.VoiceByID(chi.URLParam(r, "voiceID"))
	if err != nil {
		writeError(w, err)
		return
	}

	note, err := score.NewNote(score.Tick(req.StartTick), req.DurationTicks, req.Pitch)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := voice.AddNote(note); err != nil {
		writeError(w, err)
		return
	}

	if err := s.repo.Put(r.Context(), sc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// handleAddTempoEvent appends a global tempo change.
func (s *Server) handleAddTempoEvent(w http.ResponseWriter, r *http.Request) {
	var req addTempoEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	sc, err := s.repo.Get(r.Context(), chi.URLParam(r, "scoreID"))
	if err != nil {
		writeError(w, err)
		return
	}

	tick := score.Tick(req.Tick)
	bpm := score.BPM(req.BPM)
	if err := sc.AddTempoEvent(tick, bpm); err != nil {
		writeError(w, err)
		return
	}

	if err := s.repo.Put(r.Context(), sc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, score.NewTempoEvent(tick, bpm))
}

// handleAddTimeSignatureEvent appends a global meter change.
func (s *Server) handleAddTimeSignatureEvent(w http.ResponseWriter, r *http.Request) {
	var req addTimeSignatureEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	sc, err := s.repo.Get(r.Context(), chi.URLParam(r, "scoreID"))
	if err != nil {
		writeError(w, err)
		return
	}

	ts, err := score.NewTimeSignature(req.Numerator, req.Denominator)
	if err != nil {
		writeError(w, err)
		return
	}
	tick := score.Tick(req.Tick)
	if err := sc.AddTimeSignatureEvent(tick, ts); err != nil {
		writeError(w, err)
		return
	}

	if err := s.repo.Put(r.Context(), sc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, score.NewTimeSignatureEvent(tick, ts))
}

// handleAddClefEvent appends a clef change to a staff.
func (s *Server) handleAddClefEvent(w http.ResponseWriter, r *http.Request) {
	var req addClefEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	sc, err := s.repo.Get(r.Context(), chi.URLParam(r, "scoreID"))
	if err != nil {
		writeError(w, err)
		return
	}
	staff, err := findStaff(sc, r)
	if err != nil {
		writeError(w, err)
		return
	}

	tick := score.Tick(req.Tick)
	clef := score.Clef(strings.ToLower(req.Clef))
	if err := staff.AddClefEvent(tick, clef); err != nil {
		writeError(w, err)
		return
	}

	if err := s.repo.Put(r.Context(), sc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, score.NewClefEvent(tick, clef))
}

// handleAddKeySignatureEvent appends a key change to a staff.
func (s *Server) handleAddKeySignatureEvent(w http.ResponseWriter, r *http.Request) {
	var req addKeySignatureEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	sc, err := s.repo.Get(r.Context(), chi.URLParam(r, "scoreID"))
	if err != nil {
		writeError(w, err)
		return
	}
	staff, err := findStaff(sc, r)
	if err != nil {
		writeError(w, err)
		return
	}

	key, err := score.NewKeySignature(req.Sharps)
	if err != nil {
		writeError(w, err)
		return
	}
	tick := score.Tick(req.Tick)
	if err := staff.AddKeySignatureEvent(tick, key); err != nil {
		writeError(w, err)
		return
	}

	if err := s.repo.Put(r.Context(), sc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, score.NewKeySignatureEvent(tick, key))
}
