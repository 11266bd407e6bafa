package score

import (
	"github.com/notationkit/stave/pkg/errors"
)

// =============================================================================
// Note
// =============================================================================

// Note is an interval event: a pitch sounding from StartTick for
// DurationTicks.
type Note struct {
	ID            string `json:"id" bson:"id"`
	StartTick     Tick   `json:"start_tick" bson:"start_tick"`
	DurationTicks uint32 `json:"duration_ticks" bson:"duration_ticks"`
	Pitch         Pitch  `json:"pitch" bson:"pitch"`
}

// NewNote validates and builds a note. Duration must be positive and pitch
// within MIDI range.
func NewNote(start Tick, durationTicks uint32, pitch int) (Note, error) {
	if durationTicks == 0 {
		return Note{}, errors.New(errors.ErrCodeInvalidScore, "note duration must be greater than 0")
	}
	p, err := NewPitch(pitch)
	if err != nil {
		return Note{}, err
	}
	return Note{
		ID:            NewID(),
		StartTick:     start,
		DurationTicks: durationTicks,
		Pitch:         p,
	}, nil
}

// EndTick returns the first tick after the note stops sounding.
func (n Note) EndTick() Tick {
	return n.StartTick.Add(n.DurationTicks)
}

// OverlapsWith reports whether two notes overlap in time. Touching
// boundaries (one ends exactly where the other starts) do not overlap.
func (n Note) OverlapsWith(other Note) bool {
	return n.StartTick < other.EndTick() && other.StartTick < n.EndTick()
}

// =============================================================================
// Voice
// =============================================================================

// Voice is an ordered sequence of notes within a staff. Notes of the same
// pitch may not overlap in time; different pitches may sound together.
type Voice struct {
	ID    string `json:"id" bson:"id"`
	Notes []Note `json:"interval_events" bson:"interval_events"`
}

// NewVoice builds an empty voice.
func NewVoice() *Voice {
	return &Voice{ID: NewID()}
}

// AddNote appends a note, rejecting same-pitch overlaps.
func (v *Voice) AddNote(note Note) error {
	for _, existing := range v.Notes {
		if existing.Pitch == note.Pitch && existing.OverlapsWith(note) {
			return errors.New(errors.ErrCodeConstraintViolation,
				"note with pitch %d overlaps an existing note at the same pitch", note.Pitch)
		}
	}
	v.Notes = append(v.Notes, note)
	return nil
}

// =============================================================================
// Staff
// =============================================================================

// Staff holds clef/key state and the voices drawn on one five-line staff.
type Staff struct {
	ID     string       `json:"id" bson:"id"`
	Events []StaffEvent `json:"staff_structural_events" bson:"staff_structural_events"`
	Voices []*Voice     `json:"voices" bson:"voices"`
}

// NewStaff builds a staff with the default state every staff carries:
// treble clef and C major at tick 0, and one empty voice.
func NewStaff() *Staff {
	return &Staff{
		ID: NewID(),
		Events: []StaffEvent{
			NewClefEvent(0, ClefTreble),
			NewKeySignatureEvent(0, 0),
		},
		Voices: []*Voice{NewVoice()},
	}
}

// AddClefEvent appends a clef change, rejecting a second clef event at the
// same tick.
func (s *Staff) AddClefEvent(tick Tick, clef Clef) error {
	if !clef.Valid() {
		return errors.New(errors.ErrCodeInvalidScore, "unknown clef %q", clef)
	}
	for _, e := range s.Events {
		if e.IsClef() && e.Tick == tick {
			return errors.New(errors.ErrCodeDuplicateEvent,
				"clef event already exists at tick %d", tick)
		}
	}
	s.Events = append(s.Events, NewClefEvent(tick, clef))
	return nil
}

// AddKeySignatureEvent appends a key change, rejecting a second key event
// at the same tick.
func (s *Staff) AddKeySignatureEvent(tick Tick, key KeySignature) error {
	if !key.Valid() {
		return errors.New(errors.ErrCodeInvalidScore,
			"key signature out of range: %d", key)
	}
	for _, e := range s.Events {
		if e.IsKeySignature() && e.Tick == tick {
			return errors.New(errors.ErrCodeDuplicateEvent,
				"key signature event already exists at tick %d", tick)
		}
	}
	s.Events = append(s.Events, NewKeySignatureEvent(tick, key))
	return nil
}

// AddVoice appends a voice to the staff.
func (s *Staff) AddVoice(v *Voice) {
	s.Voices = append(s.Voices, v)
}

// VoiceByID finds a voice by identifier.
func (s *Staff) VoiceByID(id string) (*Voice, error) {
	for _, v := range s.Voices {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "voice %s not found", id)
}

// ClefAt resolves the clef in effect at a tick: the clef event with the
// greatest tick at or before the query. Falls back to treble when the staff
// has no clef event (deserialized input may omit the defaults).
func (s *Staff) ClefAt(tick Tick) Clef {
	clef := ClefTreble
	var best Tick
	found := false
	for _, e := range s.Events {
		if e.IsClef() && e.Tick <= tick && (!found || e.Tick >= best) {
			clef = e.Clef
			best = e.Tick
			found = true
		}
	}
	return clef
}

// KeyAt resolves the key signature in effect at a tick, C major when the
// staff has no key event at or before it.
func (s *Staff) KeyAt(tick Tick) KeySignature {
	var key KeySignature
	var best Tick
	found := false
	for _, e := range s.Events {
		if e.IsKeySignature() && e.Tick <= tick && (!found || e.Tick >= best) {
			key = *e.KeySignature
			best = e.Tick
			found = true
		}
	}
	return key
}

// =============================================================================
// Instrument
// =============================================================================

// Instrument is a named group of one or two staves. Grand-staff instruments
// (piano, harp) carry two; most others carry one.
type Instrument struct {
	ID     string   `json:"id" bson:"id"`
	Name   string   `json:"name" bson:"name"`
	Kind   string   `json:"instrument_type" bson:"instrument_type"`
	Staves []*Staff `json:"staves" bson:"staves"`
}

// NewInstrument builds an instrument with one default staff.
func NewInstrument(name string) *Instrument {
	return &Instrument{
		ID:     NewID(),
		Name:   name,
		Kind:   "piano",
		Staves: []*Staff{NewStaff()},
	}
}

// AddStaff appends a staff to the instrument.
func (i *Instrument) AddStaff(s *Staff) {
	i.Staves = append(i.Staves, s)
}

// StaffByID finds a staff by identifier.
func (i *Instrument) StaffByID(id string) (*Staff, error) {
	for _, s := range i.Staves {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "staff %s not found", id)
}

// =============================================================================
// Score
// =============================================================================

// Score is the aggregate root: ordered instruments plus global structural
// events.
type Score struct {
	ID          string        `json:"id" bson:"_id"`
	Events      []GlobalEvent `json:"global_structural_events" bson:"global_structural_events"`
	Instruments []*Instrument `json:"instruments" bson:"instruments"`
}

// New builds a score with the defaults every score carries: 120 BPM and
// 4/4 time at tick 0, and a default piano instrument.
func New() *Score {
	return &Score{
		ID: NewID(),
		Events: []GlobalEvent{
			NewTempoEvent(0, 120),
			NewTimeSignatureEvent(0, TimeSignature{Numerator: 4, Denominator: 4}),
		},
		Instruments: []*Instrument{NewInstrument("Default Piano")},
	}
}

// Empty builds a score with default events but no instruments, for callers
// assembling the instrument list themselves.
func Empty() *Score {
	s := New()
	s.Instruments = nil
	return s
}

// AddInstrument appends an instrument to the score.
func (s *Score) AddInstrument(inst *Instrument) {
	s.Instruments = append(s.Instruments, inst)
}

// InstrumentByID finds an instrument by identifier.
func (s *Score) InstrumentByID(id string) (*Instrument, error) {
	for _, inst := range s.Instruments {
		if inst.ID == id {
			return inst, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "instrument %s not found", id)
}

// AddTempoEvent appends a tempo change, rejecting a second tempo event at
// the same tick.
func (s *Score) AddTempoEvent(tick Tick, bpm BPM) error {
	if !bpm.Valid() {
		return errors.New(errors.ErrCodeInvalidScore,
			"bpm out of range: %d", bpm)
	}
	for _, e := range s.Events {
		if e.IsTempo() && e.Tick == tick {
			return errors.New(errors.ErrCodeDuplicateEvent,
				"tempo event already exists at tick %d", tick)
		}
	}
	s.Events = append(s.Events, NewTempoEvent(tick, bpm))
	return nil
}

// AddTimeSignatureEvent appends a meter change, rejecting a second time
// signature event at the same tick.
func (s *Score) AddTimeSignatureEvent(tick Tick, ts TimeSignature) error {
	if !ts.Valid() {
		return errors.New(errors.ErrCodeInvalidScore,
			"invalid time signature %s", ts)
	}
	for _, e := range s.Events {
		if e.IsTimeSignature() && e.Tick == tick {
			return errors.New(errors.ErrCodeDuplicateEvent,
				"time signature event already exists at tick %d", tick)
		}
	}
	s.Events = append(s.Events, NewTimeSignatureEvent(tick, ts))
	return nil
}

// RemoveTempoEvent deletes the tempo change at a tick. The tick 0 event is
// required and cannot be removed.
func (s *Score) RemoveTempoEvent(tick Tick) error {
	if tick == 0 {
		return errors.New(errors.ErrCodeConstraintViolation,
			"cannot delete required tempo event at tick 0")
	}
	for idx, e := range s.Events {
		if e.IsTempo() && e.Tick == tick {
			s.Events = append(s.Events[:idx], s.Events[idx+1:]...)
			return nil
		}
	}
	return errors.New(errors.ErrCodeNotFound,
		"tempo event not found at tick %d", tick)
}

// RemoveTimeSignatureEvent deletes the meter change at a tick. The tick 0
// event is required and cannot be removed.
func (s *Score) RemoveTimeSignatureEvent(tick Tick) error {
	if tick == 0 {
		return errors.New(errors.ErrCodeConstraintViolation,
			"cannot delete required time signature event at tick 0")
	}
	for idx, e := range s.Events {
		if e.IsTimeSignature() && e.Tick == tick {
			s.Events = append(s.Events[:idx], s.Events[idx+1:]...)
			return nil
		}
	}
	return errors.New(errors.ErrCodeNotFound,
		"time signature event not found at tick %d", tick)
}

// TempoAt resolves the tempo in effect at a tick, 120 BPM when the score
// has no tempo event at or before it.
func (s *Score) TempoAt(tick Tick) BPM {
	bpm := BPM(120)
	var best Tick
	found := false
	for _, e := range s.Events {
		if e.IsTempo() && e.Tick <= tick && (!found || e.Tick >= best) {
			bpm = e.BPM
			best = e.Tick
			found = true
		}
	}
	return bpm
}

// TimeSignatureAt resolves the meter in effect at a tick, 4/4 when the
// score has no time signature event at or before it.
func (s *Score) TimeSignatureAt(tick Tick) TimeSignature {
	ts := TimeSignature{Numerator: 4, Denominator: 4}
	var best Tick
	found := false
	for _, e := range s.Events {
		if e.IsTimeSignature() && e.Tick <= tick && (!found || e.Tick >= best) {
			ts = *e.TimeSignature
			best = e.Tick
			found = true
		}
	}
	return ts
}

// EventsInRange returns global events with start <= tick <= end, in
// storage order.
func (s *Score) EventsInRange(start, end Tick) []GlobalEvent {
	var out []GlobalEvent
	for _, e := range s.Events {
		if e.Tick >= start && e.Tick <= end {
			out = append(out, e)
		}
	}
	return out
}

// LastTick returns the largest note end tick in the score, 0 for a score
// with no notes.
func (s *Score) LastTick() Tick {
	var last Tick
	for _, inst := range s.Instruments {
		for _, staff := range inst.Staves {
			for _, voice := range staff.Voices {
				for _, note := range voice.Notes {
					if end := note.EndTick(); end > last {
						last = end
					}
				}
			}
		}
	}
	return last
}

// NoteCount returns the total number of notes across all voices.
func (s *Score) NoteCount() int {
	var n int
	for _, inst := range s.Instruments {
		for _, staff := range inst.Staves {
			for _, voice := range staff.Voices {
				n += len(voice.Notes)
			}
		}
	}
	return n
}
