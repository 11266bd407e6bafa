package score

import (
	"github.com/notationkit/stave/pkg/errors"
)

// Validate checks the whole score tree against the structural rules and
// returns the first violation found. The Add* methods enforce the same
// rules at insertion time; Validate matters for scores that arrived through
// deserialization, where nothing ran those methods.
//
// Rules:
//   - every instrument has 1 or 2 staves
//   - every staff has at least one voice
//   - pitches, tempos, key signatures, time signatures in range
//   - note durations positive
//   - no two same-pitch notes overlap within one voice
//   - no duplicate structural event ticks per event kind and scope
func (s *Score) Validate() error {
	if err := validateGlobalEvents(s.Events); err != nil {
		return err
	}

	for ii, inst := range s.Instruments {
		if inst == nil {
			return errors.New(errors.ErrCodeInvalidScore,
				"instrument %d is nil", ii)
		}
		if len(inst.Staves) == 0 {
			return errors.New(errors.ErrCodeInvalidScore,
				"instrument %q has no staves", inst.Name)
		}
		if len(inst.Staves) > 2 {
			return errors.New(errors.ErrCodeInvalidScore,
				"instrument %q has %d staves, at most 2 supported", inst.Name, len(inst.Staves))
		}
		for si, staff := range inst.Staves {
			if staff == nil {
				return errors.New(errors.ErrCodeInvalidScore,
					"instrument %q staff %d is nil", inst.Name, si)
			}
			if err := validateStaff(inst, si, staff); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateGlobalEvents(events []GlobalEvent) error {
	tempoTicks := make(map[Tick]bool)
	timeSigTicks := make(map[Tick]bool)

	for _, e := range events {
		switch e.Type {
		case GlobalTempo:
			if !e.BPM.Valid() {
				return errors.New(errors.ErrCodeInvalidScore,
					"tempo event at tick %d has bpm %d outside %d-%d", e.Tick, e.BPM, MinBPM, MaxBPM)
			}
			if tempoTicks[e.Tick] {
				return errors.New(errors.ErrCodeInvalidScore,
					"duplicate tempo event at tick %d", e.Tick)
			}
			tempoTicks[e.Tick] = true
		case GlobalTimeSignature:
			if e.TimeSignature == nil || !e.TimeSignature.Valid() {
				return errors.New(errors.ErrCodeInvalidScore,
					"time signature event at tick %d is invalid", e.Tick)
			}
			if timeSigTicks[e.Tick] {
				return errors.New(errors.ErrCodeInvalidScore,
					"duplicate time signature event at tick %d", e.Tick)
			}
			timeSigTicks[e.Tick] = true
		default:
			return errors.New(errors.ErrCodeInvalidScore,
				"unknown global event type %q at tick %d", e.Type, e.Tick)
		}
	}
	return nil
}

func validateStaff(inst *Instrument, staffIndex int, staff *Staff) error {
	clefTicks := make(map[Tick]bool)
	keyTicks := make(map[Tick]bool)

	for _, e := range staff.Events {
		switch e.Type {
		case StaffClef:
			if !e.Clef.Valid() {
				return errors.New(errors.ErrCodeInvalidScore,
					"staff %d of %q has unknown clef %q at tick %d", staffIndex, inst.Name, e.Clef, e.Tick)
			}
			if clefTicks[e.Tick] {
				return errors.New(errors.ErrCodeInvalidScore,
					"staff %d of %q has duplicate clef event at tick %d", staffIndex, inst.Name, e.Tick)
			}
			clefTicks[e.Tick] = true
		case StaffKeySignature:
			if e.KeySignature == nil || !e.KeySignature.Valid() {
				return errors.New(errors.ErrCodeInvalidScore,
					"staff %d of %q has invalid key signature at tick %d", staffIndex, inst.Name, e.Tick)
			}
			if keyTicks[e.Tick] {
				return errors.New(errors.ErrCodeInvalidScore,
					"staff %d of %q has duplicate key signature event at tick %d", staffIndex, inst.Name, e.Tick)
			}
			keyTicks[e.Tick] = true
		default:
			return errors.New(errors.ErrCodeInvalidScore,
				"staff %d of %q has unknown event type %q at tick %d", staffIndex, inst.Name, e.Type, e.Tick)
		}
	}

	if len(staff.Voices) == 0 {
		return errors.New(errors.ErrCodeInvalidScore,
			"staff %d of %q has no voices", staffIndex, inst.Name)
	}

	for vi, voice := range staff.Voices {
		if voice == nil {
			return errors.New(errors.ErrCodeInvalidScore,
				"staff %d of %q voice %d is nil", staffIndex, inst.Name, vi)
		}
		if err := validateVoice(inst, staffIndex, vi, voice); err != nil {
			return err
		}
	}
	return nil
}

func validateVoice(inst *Instrument, staffIndex, voiceIndex int, voice *Voice) error {
	for ni, note := range voice.Notes {
		if note.DurationTicks == 0 {
			return errors.New(errors.ErrCodeInvalidScore,
				"note %d in voice %d of %q staff %d has zero duration", ni, voiceIndex, inst.Name, staffIndex)
		}
		if !note.Pitch.Valid() {
			return errors.New(errors.ErrCodeInvalidScore,
				"note %d in voice %d of %q staff %d has pitch %d outside MIDI range", ni, voiceIndex, inst.Name, staffIndex, note.Pitch)
		}
		for _, prior := range voice.Notes[:ni] {
			if prior.Pitch == note.Pitch && prior.OverlapsWith(note) {
				return errors.New(errors.ErrCodeInvalidScore,
					"overlapping notes at pitch %d in voice %d of %q staff %d", note.Pitch, voiceIndex, inst.Name, staffIndex)
			}
		}
	}
	return nil
}
