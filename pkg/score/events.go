package score

// =============================================================================
// Global Events (score scope)
// =============================================================================

// GlobalEventType discriminates [GlobalEvent] variants.
type GlobalEventType string

const (
	GlobalTempo         GlobalEventType = "tempo"
	GlobalTimeSignature GlobalEventType = "time_signature"
)

// GlobalEvent is a tick-tagged structural event at score scope.
//
// This is a discriminated union: check Type to determine which payload field
// is populated.
//
//	Tempo ("tempo"):           BPM
//	TimeSignature ("time_signature"): TimeSignature
type GlobalEvent struct {
	Type GlobalEventType `json:"type" bson:"type"`
	Tick Tick            `json:"tick" bson:"tick"`

	// Tempo-specific
	BPM BPM `json:"bpm,omitempty" bson:"bpm,omitempty"`

	// TimeSignature-specific
	TimeSignature *TimeSignature `json:"time_signature,omitempty" bson:"time_signature,omitempty"`
}

// NewTempoEvent builds a tempo change event.
func NewTempoEvent(tick Tick, bpm BPM) GlobalEvent {
	return GlobalEvent{Type: GlobalTempo, Tick: tick, BPM: bpm}
}

// NewTimeSignatureEvent builds a time signature change event.
func NewTimeSignatureEvent(tick Tick, ts TimeSignature) GlobalEvent {
	return GlobalEvent{Type: GlobalTimeSignature, Tick: tick, TimeSignature: &ts}
}

// IsTempo returns true for tempo change events.
func (e GlobalEvent) IsTempo() bool { return e.Type == GlobalTempo }

// IsTimeSignature returns true for time signature change events.
func (e GlobalEvent) IsTimeSignature() bool { return e.Type == GlobalTimeSignature }

// =============================================================================
// Staff Events (staff scope)
// =============================================================================

// StaffEventType discriminates [StaffEvent] variants.
type StaffEventType string

const (
	StaffClef         StaffEventType = "clef"
	StaffKeySignature StaffEventType = "key_signature"
)

// StaffEvent is a tick-tagged structural event at staff scope.
//
// Discriminated union like [GlobalEvent]:
//
//	Clef ("clef"):                  Clef
//	KeySignature ("key_signature"): KeySignature
type StaffEvent struct {
	Type StaffEventType `json:"type" bson:"type"`
	Tick Tick           `json:"tick" bson:"tick"`

	// Clef-specific
	Clef Clef `json:"clef,omitempty" bson:"clef,omitempty"`

	// KeySignature-specific
	KeySignature *KeySignature `json:"key_signature,omitempty" bson:"key_signature,omitempty"`
}

// NewClefEvent builds a clef change event.
func NewClefEvent(tick Tick, clef Clef) StaffEvent {
	return StaffEvent{Type: StaffClef, Tick: tick, Clef: clef}
}

// NewKeySignatureEvent builds a key signature change event.
func NewKeySignatureEvent(tick Tick, key KeySignature) StaffEvent {
	return StaffEvent{Type: StaffKeySignature, Tick: tick, KeySignature: &key}
}

// IsClef returns true for clef change events.
func (e StaffEvent) IsClef() bool { return e.Type == StaffClef }

// IsKeySignature returns true for key signature change events.
func (e StaffEvent) IsKeySignature() bool { return e.Type == StaffKeySignature }
