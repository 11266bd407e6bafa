package smufl

import (
	"math"
	"testing"
)

func TestGlyphBBoxKnownGlyphs(t *testing.T) {
	tests := []struct {
		name   string
		glyph  string
		width  float64
		height float64
	}{
		{"black notehead", "noteheadBlack", 1.18, 1.0},
		{"whole notehead", "noteheadWhole", 1.688, 1.0},
		{"g clef", "gClef", 2.684, 7.024},
		{"sharp", "accidentalSharp", 0.996, 2.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bbox := GlyphBBox(tt.glyph)
			if math.Abs(bbox.Width-tt.width) > 1e-9 {
				t.Errorf("width = %v, want %v", bbox.Width, tt.width)
			}
			if math.Abs(bbox.Height-tt.height) > 1e-9 {
				t.Errorf("height = %v, want %v", bbox.Height, tt.height)
			}
		})
	}
}

func TestGlyphBBoxUnknownReturnsDefault(t *testing.T) {
	bbox := GlyphBBox("noSuchGlyph")
	want := BBox{X: 0, Y: -0.5, Width: 1, Height: 1}
	if bbox != want {
		t.Errorf("GlyphBBox(unknown) = %+v, want %+v", bbox, want)
	}
}

func TestCodepointBBox(t *testing.T) {
	byName := GlyphBBox("noteheadBlack")
	byCodepoint := CodepointBBox(NoteheadBlack)
	if byName != byCodepoint {
		t.Errorf("CodepointBBox(NoteheadBlack) = %+v, want %+v", byCodepoint, byName)
	}

	// Unnamed codepoints use the same fallback as unknown names.
	if got := CodepointBBox(0xF123); got != GlyphBBox("") {
		t.Errorf("CodepointBBox(unmapped) = %+v, want default", got)
	}
}

func TestEngravingDefaults(t *testing.T) {
	e := Engraving()

	if e.StaffLineThickness != 0.13 {
		t.Errorf("StaffLineThickness = %v, want 0.13", e.StaffLineThickness)
	}
	if e.ThinBarlineThickness != 0.16 {
		t.Errorf("ThinBarlineThickness = %v, want 0.16", e.ThinBarlineThickness)
	}
	if e.ThickBarlineThickness != 0.5 {
		t.Errorf("ThickBarlineThickness = %v, want 0.5", e.ThickBarlineThickness)
	}
	if e.BeamThickness != 0.5 {
		t.Errorf("BeamThickness = %v, want 0.5", e.BeamThickness)
	}
}

func TestBraceIsTallAndThin(t *testing.T) {
	// The brace glyph renders at a tiny natural width; layout stretches it
	// vertically to span staff groups, so its metrics must be nonzero.
	bbox := GlyphBBox("brace")
	if bbox.Width <= 0 || bbox.Height <= 0 {
		t.Fatalf("brace bbox must have positive extent, got %+v", bbox)
	}
	if bbox.Height < bbox.Width {
		t.Errorf("brace should be taller than wide, got %+v", bbox)
	}
}
