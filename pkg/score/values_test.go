package score

import "testing"

func TestNewBPM(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"lower bound", 20, false},
		{"upper bound", 400, false},
		{"typical", 120, false},
		{"too slow", 19, true},
		{"too fast", 401, true},
		{"zero", 0, true},
		{"negative", -5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpm, err := NewBPM(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewBPM(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && int(bpm) != tt.value {
				t.Errorf("NewBPM(%d) = %d", tt.value, bpm)
			}
		})
	}
}

func TestNewPitch(t *testing.T) {
	if _, err := NewPitch(60); err != nil {
		t.Errorf("NewPitch(60) unexpected error: %v", err)
	}
	if _, err := NewPitch(128); err == nil {
		t.Error("NewPitch(128) should fail")
	}
	if _, err := NewPitch(-1); err == nil {
		t.Error("NewPitch(-1) should fail")
	}
}

func TestPitchClass(t *testing.T) {
	tests := []struct {
		pitch Pitch
		class uint8
	}{
		{60, 0},  // C4
		{61, 1},  // C#4
		{69, 9},  // A4
		{71, 11}, // B4
		{72, 0},  // C5
	}
	for _, tt := range tests {
		if got := tt.pitch.Class(); got != tt.class {
			t.Errorf("Pitch(%d).Class() = %d, want %d", tt.pitch, got, tt.class)
		}
	}
}

func TestNewKeySignature(t *testing.T) {
	for _, sharps := range []int{-7, -1, 0, 1, 7} {
		if _, err := NewKeySignature(sharps); err != nil {
			t.Errorf("NewKeySignature(%d) unexpected error: %v", sharps, err)
		}
	}
	for _, sharps := range []int{-8, 8} {
		if _, err := NewKeySignature(sharps); err == nil {
			t.Errorf("NewKeySignature(%d) should fail", sharps)
		}
	}
}

func TestKeySignatureAccidentalCount(t *testing.T) {
	if got := KeySignature(3).AccidentalCount(); got != 3 {
		t.Errorf("3 sharps: AccidentalCount() = %d, want 3", got)
	}
	if got := KeySignature(-4).AccidentalCount(); got != 4 {
		t.Errorf("4 flats: AccidentalCount() = %d, want 4", got)
	}
	if got := KeySignature(0).AccidentalCount(); got != 0 {
		t.Errorf("C major: AccidentalCount() = %d, want 0", got)
	}
}

func TestNewTimeSignature(t *testing.T) {
	tests := []struct {
		name     string
		num, den int
		wantErr  bool
	}{
		{"common time", 4, 4, false},
		{"waltz", 3, 4, false},
		{"compound", 6, 8, false},
		{"cut time", 2, 2, false},
		{"zero numerator", 0, 4, true},
		{"non power of two", 4, 3, true},
		{"denominator too large", 4, 64, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTimeSignature(tt.num, tt.den)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewTimeSignature(%d, %d) error = %v, wantErr %v", tt.num, tt.den, err, tt.wantErr)
			}
		})
	}
}

func TestMeasureTicks(t *testing.T) {
	tests := []struct {
		ts    TimeSignature
		ticks uint32
	}{
		{TimeSignature{4, 4}, 3840},
		{TimeSignature{3, 4}, 2880},
		{TimeSignature{6, 8}, 2880},
		{TimeSignature{2, 2}, 3840},
		{TimeSignature{7, 8}, 3360},
		{TimeSignature{5, 8}, 2400},
	}
	for _, tt := range tests {
		if got := tt.ts.MeasureTicks(); got != tt.ticks {
			t.Errorf("%s MeasureTicks() = %d, want %d", tt.ts, got, tt.ticks)
		}
	}
}

func TestTickAdd(t *testing.T) {
	if got := Tick(960).Add(480); got != 1440 {
		t.Errorf("Tick(960).Add(480) = %d, want 1440", got)
	}
}

func TestClefValid(t *testing.T) {
	for _, c := range []Clef{ClefTreble, ClefBass, ClefAlto, ClefTenor} {
		if !c.Valid() {
			t.Errorf("%s should be valid", c)
		}
	}
	if Clef("Soprano").Valid() {
		t.Error("unsupported clef should be invalid")
	}
}
