package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/notationkit/stave/pkg/cache"
	"github.com/notationkit/stave/pkg/errors"
	"github.com/notationkit/stave/pkg/pipeline"
	"github.com/notationkit/stave/pkg/score"
	"github.com/notationkit/stave/pkg/scorestore"
)

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func newTestServer(t *testing.T, c cache.Cache) (http.Handler, *scorestore.MemoryStore) {
	t.Helper()
	store := scorestore.NewMemoryStore()
	runner := pipeline.NewRunner(c, nil, discardLogger())
	srv := New(store, runner, discardLogger())
	return srv.Router(), store
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) errors.Code {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v (body %s)", err, rr.Body.String())
	}
	return resp.Error
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t, nil)
	rr := doRequest(t, h, http.MethodGet, "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestCreateScore(t *testing.T) {
	h, store := newTestServer(t, nil)

	rr := doRequest(t, h, http.MethodPost, "/api/v1/scores", nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rr.Code, rr.Body.String())
	}

	var sc score.Score
	if err := json.Unmarshal(rr.Body.Bytes(), &sc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if sc.ID == "" {
		t.Error("created score has no id")
	}
	if len(sc.Instruments) != 1 {
		t.Errorf("instruments = %d, want 1", len(sc.Instruments))
	}

	stored, err := store.Get(context.Background(), sc.ID)
	if err != nil {
		t.Fatalf("score was not stored: %v", err)
	}
	if stored.ID != sc.ID {
		t.Errorf("stored ID = %s, want %s", stored.ID, sc.ID)
	}
}

func TestGetScore(t *testing.T) {
	h, _ := newTestServer(t, nil)

	created := createScore(t, h)
	rr := doRequest(t, h, http.MethodGet, "/api/v1/scores/"+created.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp scoreResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SchemaVersion != scoreSchemaVersion {
		t.Errorf("schema_version = %d, want %d", resp.SchemaVersion, scoreSchemaVersion)
	}
	if len(resp.Instruments) != 1 || len(resp.Instruments[0].Staves) != 1 {
		t.Fatalf("unexpected instrument shape: %+v", resp.Instruments)
	}
	if resp.Instruments[0].Staves[0].ActiveClef != score.ClefTreble {
		t.Errorf("active_clef = %s, want treble", resp.Instruments[0].Staves[0].ActiveClef)
	}
}

func TestGetScoreNotFound(t *testing.T) {
	h, _ := newTestServer(t, nil)

	rr := doRequest(t, h, http.MethodGet, "/api/v1/scores/absent", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if code := errorCode(t, rr); code != errors.ErrCodeScoreNotFound {
		t.Errorf("error code = %s, want %s", code, errors.ErrCodeScoreNotFound)
	}
}

func TestListScores(t *testing.T) {
	h, _ := newTestServer(t, nil)

	first := createScore(t, h)
	second := createScore(t, h)

	rr := doRequest(t, h, http.MethodGet, "/api/v1/scores", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp scoreListResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Scores) != 2 {
		t.Fatalf("scores = %d, want 2", len(resp.Scores))
	}
	got := map[string]bool{resp.Scores[0]: true, resp.Scores[1]: true}
	if !got[first.ID] || !got[second.ID] {
		t.Errorf("listed ids %v missing created ids %s, %s", resp.Scores, first.ID, second.ID)
	}
}

func TestDeleteScore(t *testing.T) {
	h, _ := newTestServer(t, nil)

	created := createScore(t, h)
	rr := doRequest(t, h, http.MethodDelete, "/api/v1/scores/"+created.ID, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}

	rr = doRequest(t, h, http.MethodGet, "/api/v1/scores/"+created.ID, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rr.Code)
	}

	rr = doRequest(t, h, http.MethodDelete, "/api/v1/scores/"+created.ID, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rr.Code)
	}
}

func TestBuildWorkflow(t *testing.T) {
	h, store := newTestServer(t, nil)

	created := createScore(t, h)
	base := "/api/v1/scores/" + created.ID

	// Add a second instrument.
	rr := doRequest(t, h, http.MethodPost, base+"/instruments", addInstrumentRequest{Name: "Violin"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add instrument status = %d (body %s)", rr.Code, rr.Body.String())
	}
	var inst score.Instrument
	if err := json.Unmarshal(rr.Body.Bytes(), &inst); err != nil {
		t.Fatal(err)
	}
	if inst.Name != "Violin" {
		t.Errorf("instrument name = %s, want Violin", inst.Name)
	}

	// Add a staff to it.
	stavesPath := fmt.Sprintf("%s/instruments/%s/staves", base, inst.ID)
	rr = doRequest(t, h, http.MethodPost, stavesPath, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add staff status = %d (body %s)", rr.Code, rr.Body.String())
	}
	var staff score.Staff
	if err := json.Unmarshal(rr.Body.Bytes(), &staff); err != nil {
		t.Fatal(err)
	}

	// Add a voice to the staff.
	voicesPath := fmt.Sprintf("%s/%s/voices", stavesPath, staff.ID)
	rr = doRequest(t, h, http.MethodPost, voicesPath, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add voice status = %d (body %s)", rr.Code, rr.Body.String())
	}
	var voice score.Voice
	if err := json.Unmarshal(rr.Body.Bytes(), &voice); err != nil {
		t.Fatal(err)
	}

	// Add a note to the voice.
	notesPath := fmt.Sprintf("%s/%s/notes", voicesPath, voice.ID)
	rr = doRequest(t, h, http.MethodPost, notesPath, addNoteRequest{
		StartTick: 0, DurationTicks: 960, Pitch: 60,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add note status = %d (body %s)", rr.Code, rr.Body.String())
	}
	var note score.Note
	if err := json.Unmarshal(rr.Body.Bytes(), &note); err != nil {
		t.Fatal(err)
	}
	if note.Pitch != 60 {
		t.Errorf("note pitch = %d, want 60", note.Pitch)
	}

	// The stored score reflects the whole build.
	stored, err := store.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored.Instruments) != 2 {
		t.Errorf("instruments = %d, want 2", len(stored.Instruments))
	}
	if stored.NoteCount() != 1 {
		t.Errorf("NoteCount() = %d, want 1", stored.NoteCount())
	}
	violin, err := stored.InstrumentByID(inst.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(violin.Staves) != 2 {
		t.Errorf("violin staves = %d, want 2", len(violin.Staves))
	}
}

func TestAddInstrumentValidation(t *testing.T) {
	h, _ := newTestServer(t, nil)
	created := createScore(t, h)
	base := "/api/v1/scores/" + created.ID

	rr := doRequest(t, h, http.MethodPost, base+"/instruments", addInstrumentRequest{Name: "  "})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("blank name status = %d, want 400", rr.Code)
	}

	rr = doRequest(t, h, http.MethodPost, "/api/v1/scores/absent/instruments",
		addInstrumentRequest{Name: "Violin"})
	if rr.Code != http.StatusNotFound {
		t.Errorf("absent score status = %d, want 404", rr.Code)
	}
}

func TestAddNoteValidation(t *testing.T) {
	h, _ := newTestServer(t, nil)
	created := createScore(t, h)

	inst := created.Instruments[0]
	staff := inst.Staves[0]
	voice := staff.Voices[0]
	notesPath := fmt.Sprintf("/api/v1/scores/%s/instruments/%s/staves/%s/voices/%s/notes",
		created.ID, inst.ID, staff.ID, voice.ID)

	// Out of range pitch.
	rr := doRequest(t, h, http.MethodPost, notesPath, addNoteRequest{
		StartTick: 0, DurationTicks: 960, Pitch: 200,
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad pitch status = %d, want 400", rr.Code)
	}

	// Overlapping note at the same pitch.
	ok := doRequest(t, h, http.MethodPost, notesPath, addNoteRequest{
		StartTick: 0, DurationTicks: 960, Pitch: 60,
	})
	if ok.Code != http.StatusCreated {
		t.Fatalf("first note status = %d (body %s)", ok.Code, ok.Body.String())
	}
	rr = doRequest(t, h, http.MethodPost, notesPath, addNoteRequest{
		StartTick: 480, DurationTicks: 960, Pitch: 60,
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("overlap status = %d, want 400", rr.Code)
	}
	if code := errorCode(t, rr); code != errors.ErrCodeConstraintViolation {
		t.Errorf("overlap code = %s, want %s", code, errors.ErrCodeConstraintViolation)
	}

	// Unknown voice.
	badPath := fmt.Sprintf("/api/v1/scores/%s/instruments/%s/staves/%s/voices/absent/notes",
		created.ID, inst.ID, staff.ID)
	rr = doRequest(t, h, http.MethodPost, badPath, addNoteRequest{
		StartTick: 0, DurationTicks: 960, Pitch: 64,
	})
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown voice status = %d, want 404", rr.Code)
	}
}

func TestAddTempoEventDuplicate(t *testing.T) {
	h, _ := newTestServer(t, nil)
	created := createScore(t, h)

	// New scores already carry a tempo event at tick 0.
	rr := doRequest(t, h, http.MethodPost, "/api/v1/scores/"+created.ID+"/structural-events/tempo",
		addTempoEventRequest{Tick: 0, BPM: 90})
	if rr.Code != http.StatusConflict {
		t.Errorf("duplicate tempo status = %d, want 409", rr.Code)
	}

	rr = doRequest(t, h, http.MethodPost, "/api/v1/scores/"+created.ID+"/structural-events/tempo",
		addTempoEventRequest{Tick: 3840, BPM: 90})
	if rr.Code != http.StatusCreated {
		t.Errorf("new tempo status = %d (body %s)", rr.Code, rr.Body.String())
	}
}

func TestAddStructuralEvents(t *testing.T) {
	h, store := newTestServer(t, nil)
	created := createScore(t, h)
	base := "/api/v1/scores/" + created.ID

	inst := created.Instruments[0]
	staff := inst.Staves[0]
	staffBase := fmt.Sprintf("%s/instruments/%s/staves/%s", base, inst.ID, staff.ID)

	rr := doRequest(t, h, http.MethodPost, base+"/structural-events/time-signature",
		addTimeSignatureEventRequest{Tick: 3840, Numerator: 3, Denominator: 4})
	if rr.Code != http.StatusCreated {
		t.Errorf("time signature status = %d (body %s)", rr.Code, rr.Body.String())
	}

	// Clef names are case-insensitive.
	rr = doRequest(t, h, http.MethodPost, staffBase+"/structural-events/clef",
		addClefEventRequest{Tick: 960, Clef: "Bass"})
	if rr.Code != http.StatusCreated {
		t.Errorf("clef status = %d (body %s)", rr.Code, rr.Body.String())
	}
	rr = doRequest(t, h, http.MethodPost, staffBase+"/structural-events/clef",
		addClefEventRequest{Tick: 1920, Clef: "baritone"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("unknown clef status = %d, want 400", rr.Code)
	}

	rr = doRequest(t, h, http.MethodPost, staffBase+"/structural-events/key-signature",
		addKeySignatureEventRequest{Tick: 3840, Sharps: 2})
	if rr.Code != http.StatusCreated {
		t.Errorf("key signature status = %d (body %s)", rr.Code, rr.Body.String())
	}
	rr = doRequest(t, h, http.MethodPost, staffBase+"/structural-events/key-signature",
		addKeySignatureEventRequest{Tick: 7680, Sharps: 9})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("out of range sharps status = %d, want 400", rr.Code)
	}

	stored, err := store.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	storedStaff := stored.Instruments[0].Staves[0]
	if got := storedStaff.ClefAt(960); got != score.ClefBass {
		t.Errorf("ClefAt(960) = %s, want bass", got)
	}
	if got := storedStaff.KeyAt(3840); got != 2 {
		t.Errorf("KeyAt(3840) = %d, want 2", got)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	h, store := newTestServer(t, fc)

	sc := score.New()
	note, err := score.NewNote(0, 960, 60)
	if err != nil {
		t.Fatal(err)
	}
	if err := sc.Instruments[0].Staves[0].Voices[0].AddNote(note); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(context.Background(), sc); err != nil {
		t.Fatal(err)
	}

	rr := doRequest(t, h, http.MethodGet, "/api/v1/scores/"+sc.ID+"/layout", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rr.Code, rr.Body.String())
	}
	var resp layoutResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ScoreID != sc.ID {
		t.Errorf("score_id = %s, want %s", resp.ScoreID, sc.ID)
	}
	if resp.ScoreHash == "" {
		t.Error("score_hash should be set")
	}
	if resp.CacheHit {
		t.Error("first layout should not be a cache hit")
	}
	if resp.Layout == nil || len(resp.Layout.Systems) != 1 {
		t.Fatalf("unexpected layout in response: %+v", resp.Layout)
	}

	// Second request serves the cached layout.
	rr = doRequest(t, h, http.MethodGet, "/api/v1/scores/"+sc.ID+"/layout", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("second status = %d", rr.Code)
	}
	var cached layoutResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &cached); err != nil {
		t.Fatal(err)
	}
	if !cached.CacheHit {
		t.Error("second layout should be a cache hit")
	}

	// Refresh forces recomputation.
	rr = doRequest(t, h, http.MethodGet, "/api/v1/scores/"+sc.ID+"/layout?refresh=true", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("refresh status = %d", rr.Code)
	}
	var refreshed layoutResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &refreshed); err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheHit {
		t.Error("refresh should not be a cache hit")
	}
}

func TestLayoutEndpointErrors(t *testing.T) {
	h, store := newTestServer(t, nil)

	rr := doRequest(t, h, http.MethodGet, "/api/v1/scores/absent/layout", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("absent score status = %d, want 404", rr.Code)
	}

	sc := score.New()
	if err := store.Put(context.Background(), sc); err != nil {
		t.Fatal(err)
	}
	rr = doRequest(t, h, http.MethodGet, "/api/v1/scores/"+sc.ID+"/layout?units_per_space=abc", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("malformed param status = %d, want 400", rr.Code)
	}
	rr = doRequest(t, h, http.MethodGet, "/api/v1/scores/"+sc.ID+"/layout?units_per_space=-1", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("negative units status = %d, want 400", rr.Code)
	}
}

func TestVisibleSystemsEndpoint(t *testing.T) {
	h, store := newTestServer(t, nil)

	// Eight quarter notes force two systems at a narrow width.
	sc := score.New()
	voice := sc.Instruments[0].Staves[0].Voices[0]
	for i := 0; i < 8; i++ {
		note, err := score.NewNote(score.Tick(uint32(i)*960), 960, 60)
		if err != nil {
			t.Fatal(err)
		}
		if err := voice.AddNote(note); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Put(context.Background(), sc); err != nil {
		t.Fatal(err)
	}

	base := "/api/v1/scores/" + sc.ID + "/layout/systems"
	query := "?max_system_width=200&units_per_space=10&system_spacing=150&system_height=200"

	rr := doRequest(t, h, http.MethodGet, base+query+"&viewport_y=0&viewport_height=300", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rr.Code, rr.Body.String())
	}
	var resp visibleSystemsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Systems) != 1 {
		t.Fatalf("visible systems = %d, want 1", len(resp.Systems))
	}
	if resp.Systems[0].Index != 0 {
		t.Errorf("visible system index = %d, want 0", resp.Systems[0].Index)
	}

	// A viewport below all systems sees nothing.
	rr = doRequest(t, h, http.MethodGet, base+query+"&viewport_y=5000&viewport_height=300", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var empty visibleSystemsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &empty); err != nil {
		t.Fatal(err)
	}
	if len(empty.Systems) != 0 {
		t.Errorf("visible systems = %d, want 0", len(empty.Systems))
	}

	// viewport_height is required.
	rr = doRequest(t, h, http.MethodGet, base+query+"&viewport_y=0", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing viewport_height status = %d, want 400", rr.Code)
	}
}

// createScore creates a score over the API and returns it.
func createScore(t *testing.T, h http.Handler) *score.Score {
	t.Helper()
	rr := doRequest(t, h, http.MethodPost, "/api/v1/scores", nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create score status = %d (body %s)", rr.Code, rr.Body.String())
	}
	var sc score.Score
	if err := json.Unmarshal(rr.Body.Bytes(), &sc); err != nil {
		t.Fatal(err)
	}
	return &sc
}
