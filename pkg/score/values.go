package score

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/notationkit/stave/pkg/errors"
)

// TicksPerQuarter is the tick resolution: 960 pulses per quarter note.
const TicksPerQuarter = 960

// Tick is a discrete time position at 960 PPQ resolution.
type Tick uint32

// Add returns the tick advanced by a duration.
func (t Tick) Add(duration uint32) Tick {
	return t + Tick(duration)
}

// BPM is a tempo in beats per minute.
type BPM uint16

// BPM bounds accepted by [NewBPM].
const (
	MinBPM BPM = 20
	MaxBPM BPM = 400
)

// NewBPM validates a tempo value.
func NewBPM(value int) (BPM, error) {
	if value < int(MinBPM) || value > int(MaxBPM) {
		return 0, errors.New(errors.ErrCodeInvalidScore,
			"bpm must be in range %d-%d, got %d", MinBPM, MaxBPM, value)
	}
	return BPM(value), nil
}

// Valid reports whether the tempo is within range.
func (b BPM) Valid() bool {
	return b >= MinBPM && b <= MaxBPM
}

// Pitch is a MIDI pitch number, 0-127. Middle C is 60; A440 is 69.
type Pitch uint8

// MaxPitch is the highest valid MIDI pitch.
const MaxPitch Pitch = 127

// NewPitch validates a MIDI pitch value.
func NewPitch(value int) (Pitch, error) {
	if value < 0 || value > int(MaxPitch) {
		return 0, errors.New(errors.ErrCodeInvalidScore,
			"pitch must be in range 0-%d, got %d", MaxPitch, value)
	}
	return Pitch(value), nil
}

// Valid reports whether the pitch is within MIDI range.
func (p Pitch) Valid() bool {
	return p <= MaxPitch
}

// Class returns the pitch class 0-11 (C=0, C#=1, ... B=11).
func (p Pitch) Class() uint8 {
	return uint8(p) % 12
}

// Clef selects the pitch-to-staff-position mapping for a staff.
type Clef string

// Supported clefs.
const (
	ClefTreble Clef = "treble"
	ClefBass   Clef = "bass"
	ClefAlto   Clef = "alto"
	ClefTenor  Clef = "tenor"
)

// Valid reports whether the clef is one of the supported values.
func (c Clef) Valid() bool {
	switch c {
	case ClefTreble, ClefBass, ClefAlto, ClefTenor:
		return true
	}
	return false
}

// KeySignature is a count of sharps (positive) or flats (negative), -7..+7.
// Zero is C major / A minor.
type KeySignature int8

// NewKeySignature validates a sharps/flats count.
func NewKeySignature(sharps int) (KeySignature, error) {
	if sharps < -7 || sharps > 7 {
		return 0, errors.New(errors.ErrCodeInvalidScore,
			"key signature must be in range -7 to 7, got %d", sharps)
	}
	return KeySignature(sharps), nil
}

// Valid reports whether the count is within -7..+7.
func (k KeySignature) Valid() bool {
	return k >= -7 && k <= 7
}

// Sharps returns the signed accidental count.
func (k KeySignature) Sharps() int {
	return int(k)
}

// AccidentalCount returns the number of accidental glyphs the signature
// draws at the staff start.
func (k KeySignature) AccidentalCount() int {
	if k < 0 {
		return int(-k)
	}
	return int(k)
}

// TimeSignature is a meter: numerator beats per measure over a denominator
// note value.
type TimeSignature struct {
	Numerator   uint8 `json:"numerator" bson:"numerator"`
	Denominator uint8 `json:"denominator" bson:"denominator"`
}

// NewTimeSignature validates a meter. The denominator must be a power of
// two between 1 and 32.
func NewTimeSignature(numerator, denominator int) (TimeSignature, error) {
	if numerator < 1 || numerator > 32 {
		return TimeSignature{}, errors.New(errors.ErrCodeInvalidScore,
			"time signature numerator must be in range 1-32, got %d", numerator)
	}
	switch denominator {
	case 1, 2, 4, 8, 16, 32:
	default:
		return TimeSignature{}, errors.New(errors.ErrCodeInvalidScore,
			"time signature denominator must be a power of two 1-32, got %d", denominator)
	}
	return TimeSignature{Numerator: uint8(numerator), Denominator: uint8(denominator)}, nil
}

// Valid reports whether the meter satisfies the [NewTimeSignature] rules.
func (ts TimeSignature) Valid() bool {
	_, err := NewTimeSignature(int(ts.Numerator), int(ts.Denominator))
	return err == nil
}

// MeasureTicks returns the measure length in ticks: numerator whole-note
// fractions at 960 PPQ (4/4 = 3840, 6/8 = 2880, 3/2 = 5760).
func (ts TimeSignature) MeasureTicks() uint32 {
	return uint32(ts.Numerator) * (4 * TicksPerQuarter / uint32(ts.Denominator))
}

func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.Numerator, ts.Denominator)
}

// NewID mints a random identifier for a score entity.
func NewID() string {
	return uuid.NewString()
}
