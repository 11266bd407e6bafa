// Package score defines the symbolic score model the layout engine consumes.
//
// A score is a tree: Score → Instrument → Staff → Voice → Note, plus
// tick-tagged structural events at two scopes. Global events (tempo and time
// signature changes) hang off the Score and drive barline placement and
// measure numbering; staff events (clef and key signature changes) hang off
// each Staff and drive pitch positioning and accidental spelling.
//
// # Time Model
//
// All positions are absolute [Tick] values at 960 ticks per quarter note.
// Notes are interval events: a start tick plus a duration in ticks. Ticks
// say nothing about wall-clock time; tempo events exist for consumers, not
// for this engine.
//
// # Core Types
//
//   - [Score]: aggregate root; instruments plus global events
//   - [Instrument]: named group of one or two staves
//   - [Staff]: clef/key state plus voices
//   - [Voice]: ordered notes, non-overlapping per pitch
//   - [Note]: start tick, duration, MIDI pitch
//
// # Building
//
// Constructors mint uuid identifiers and install the defaults every score
// carries (120 BPM and 4/4 at tick 0; treble clef and C major at tick 0 per
// staff):
//
//	s := score.New()
//	inst := score.NewInstrument("Piano")
//	staff := inst.Staves[0]
//	note, _ := score.NewNote(0, 960, 60)
//	staff.Voices[0].AddNote(note)
//	s.AddInstrument(inst)
//
// Add* methods enforce the structural rules (duplicate event ticks,
// same-pitch overlaps) at insertion time; [Score.Validate] re-checks the
// whole tree, which matters for scores deserialized from JSON or BSON.
//
// # State Resolution
//
// Structural state at a tick is the last event at or before it:
//
//	clef := staff.ClefAt(1920)
//	ts := s.TimeSignatureAt(0)
//
// # Serialization
//
// All types carry json and bson tags; the JSON form is the wire format of
// the HTTP API and the on-disk score format.
package score
