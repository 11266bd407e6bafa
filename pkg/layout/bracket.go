package layout

import (
	"github.com/notationkit/stave/pkg/score"
	"github.com/notationkit/stave/pkg/smufl"
)

// Brackets join the staves of a multi-staff instrument: keyboard
// instruments get a brace, other instruments a bracket. The glyph is
// vertically stretched from its natural height to the exact staff span.

// bracketGapX is the room between the glyph's right edge and the staff
// line start, in spaces.
const bracketGapX = 0.25

// keyboardKinds name the instrument types drawn with a grand-staff
// brace.
var keyboardKinds = map[string]bool{
	"piano":       true,
	"organ":       true,
	"harpsichord": true,
	"celesta":     true,
	"keyboard":    true,
	"harp":        true,
}

// bracketTypeFor picks the bracket style for an instrument. Single
// staves have none.
func bracketTypeFor(inst *score.Instrument) string {
	if len(inst.Staves) < 2 {
		return BracketNone
	}
	if keyboardKinds[inst.Kind] {
		return BracketBrace
	}
	return BracketBracket
}

// buildBracketGlyph positions the brace or bracket glyph for a staff
// group spanning topY to bottomY. The glyph anchors at the vertical
// midpoint and scales so its natural height covers the span exactly;
// the bounding box is that scaled extent, so its top edge is the top
// staff line.
func buildBracketGlyph(bracketType string, topY, bottomY, ups float64) *BracketGlyph {
	cp := smufl.Brace
	if bracketType == BracketBracket {
		cp = smufl.Bracket
	}
	bb := smufl.CodepointBBox(cp)
	span := bottomY - topY
	x := -(bb.Width + bracketGapX) * ups
	return &BracketGlyph{
		Position:  Point{X: x, Y: topY + span/2},
		ScaleY:    span / (bb.Height * ups),
		Codepoint: string(cp),
		BoundingBox: BoundingBox{
			X:      x + bb.X*ups,
			Y:      topY,
			Width:  bb.Width * ups,
			Height: span,
		},
	}
}
