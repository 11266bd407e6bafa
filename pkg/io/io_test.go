package io

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/notationkit/stave/pkg/errors"
	"github.com/notationkit/stave/pkg/layout"
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

func TestScoreRoundTrip(t *testing.T) {
	sc := testScore(t)

	var buf bytes.Buffer
	if err := WriteScore(sc, &buf); err != nil {
		t.Fatalf("WriteScore() error = %v", err)
	}

	got, err := ReadScore(&buf)
	if err != nil {
		t.Fatalf("ReadScore() error = %v", err)
	}
	if got.ID != sc.ID {
		t.Errorf("ID = %s, want %s", got.ID, sc.ID)
	}
	if got.NoteCount() != 1 {
		t.Errorf("NoteCount() = %d, want 1", got.NoteCount())
	}

	// Round-tripped scores serialize identically.
	want, err := json.Marshal(sc)
	if err != nil {
		t.Fatal(err)
	}
	have, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(want, have) {
		t.Error("round trip changed the score serialization")
	}
}

func TestScoreFileRoundTrip(t *testing.T) {
	sc := testScore(t)
	path := filepath.Join(t.TempDir(), "score.json")

	if err := ExportScore(sc, path); err != nil {
		t.Fatalf("ExportScore() error = %v", err)
	}
	got, err := ImportScore(path)
	if err != nil {
		t.Fatalf("ImportScore() error = %v", err)
	}
	if got.ID != sc.ID {
		t.Errorf("ID = %s, want %s", got.ID, sc.ID)
	}
}

func TestImportScoreMissingFile(t *testing.T) {
	_, err := ImportScore(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportScore() error = %v, want ErrCodeFileNotFound", err)
	}
}

func TestReadScoreMalformed(t *testing.T) {
	_, err := ReadScore(strings.NewReader("{not json"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ReadScore() error = %v, want ErrCodeInvalidFormat", err)
	}
}

func TestReadScoreInvalidScore(t *testing.T) {
	// Well-formed JSON, but the instrument has no staves.
	raw := `{
		"id": "s1",
		"global_structural_events": [
			{"type": "tempo", "tick": 0, "bpm": 120},
			{"type": "time_signature", "tick": 0,
			 "time_signature": {"numerator": 4, "denominator": 4}}
		],
		"instruments": [
			{"id": "i1", "name": "Piano", "instrument_type": "piano", "staves": []}
		]
	}`
	_, err := ReadScore(strings.NewReader(raw))
	if !errors.Is(err, errors.ErrCodeInvalidScore) {
		t.Errorf("ReadScore() error = %v, want ErrCodeInvalidScore", err)
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	sc := testScore(t)
	l, err := layout.Compute(sc, layout.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := ExportLayout(l, path); err != nil {
		t.Fatalf("ExportLayout() error = %v", err)
	}
	got, err := ImportLayout(path)
	if err != nil {
		t.Fatalf("ImportLayout() error = %v", err)
	}

	want, err := json.Marshal(l)
	if err != nil {
		t.Fatal(err)
	}
	have, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(want, have) {
		t.Error("round trip changed the layout serialization")
	}
}

func TestWriteNil(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteScore(nil, &buf); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("WriteScore(nil) error = %v, want ErrCodeInvalidInput", err)
	}
	if err := WriteLayout(nil, &buf); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("WriteLayout(nil) error = %v, want ErrCodeInvalidInput", err)
	}
}
