package layout

import (
	"math"

	"github.com/notationkit/stave/pkg/score"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Bracket types for multi-staff instrument groups.
const (
	BracketBrace   = "brace"
	BracketBracket = "bracket"
	BracketNone    = "none"
)

// Bar line types.
const (
	BarSingle = "single"
	BarDouble = "double"
	BarFinal  = "final"
)

// Stem directions.
const (
	StemUp   = "up"
	StemDown = "down"
)

// =============================================================================
// GlobalLayout - Root Document
// =============================================================================

// GlobalLayout is the fully positioned, renderer-ready form of a score.
// It is produced in one pass and never mutated afterwards; a new layout
// call returns a wholly new document sharing nothing with previous calls.
//
// All coordinates are logical units with the y axis growing downward.
// One staff space equals UnitsPerSpace logical units.
type GlobalLayout struct {
	Systems       []System `json:"systems" bson:"systems"`
	TotalWidth    float64  `json:"total_width" bson:"total_width"`
	TotalHeight   float64  `json:"total_height" bson:"total_height"`
	UnitsPerSpace float64  `json:"units_per_space" bson:"units_per_space"`
}

// System is one horizontal band of measures. Its bounding box is in
// document coordinates; everything inside it is system-local, offset by
// the box origin when drawn.
type System struct {
	Index         int            `json:"index" bson:"index"`
	BoundingBox   BoundingBox    `json:"bounding_box" bson:"bounding_box"`
	StaffGroups   []StaffGroup   `json:"staff_groups" bson:"staff_groups"`
	TickRange     TickRange      `json:"tick_range" bson:"tick_range"`
	MeasureNumber *MeasureNumber `json:"measure_number,omitempty" bson:"measure_number,omitempty"`
}

// StaffGroup is the geometry for one instrument within a system: one
// staff for monophonic instruments, two for grand-staff instruments,
// joined by a brace or bracket.
type StaffGroup struct {
	InstrumentID string        `json:"instrument_id" bson:"instrument_id"`
	Staves       []Staff       `json:"staves" bson:"staves"`
	BracketType  string        `json:"bracket_type" bson:"bracket_type"`
	BracketGlyph *BracketGlyph `json:"bracket_glyph,omitempty" bson:"bracket_glyph,omitempty"`
}

// Staff is the drawable geometry of one staff: exactly five lines,
// batched glyph runs for tick-anchored symbols, structural glyphs for
// clefs, key signatures and time signatures, and bar lines.
type Staff struct {
	StaffLines       []StaffLine `json:"staff_lines" bson:"staff_lines"`
	GlyphRuns        []GlyphRun  `json:"glyph_runs" bson:"glyph_runs"`
	StructuralGlyphs []Glyph     `json:"structural_glyphs" bson:"structural_glyphs"`
	BarLines         []BarLine   `json:"bar_lines" bson:"bar_lines"`
	Stems            []Stem      `json:"stems,omitempty" bson:"stems,omitempty"`
	Beams            []Beam      `json:"beams,omitempty" bson:"beams,omitempty"`
}

// StaffLine is one horizontal staff line.
type StaffLine struct {
	YPosition float64 `json:"y_position" bson:"y_position"`
	StartX    float64 `json:"start_x" bson:"start_x"`
	EndX      float64 `json:"end_x" bson:"end_x"`
}

// =============================================================================
// Glyphs
// =============================================================================

// GlyphRun is a maximal left-to-right run of glyphs sharing one set of
// drawing attributes, so a renderer can issue them as a single text call.
type GlyphRun struct {
	Glyphs     []Glyph `json:"glyphs" bson:"glyphs"`
	FontFamily string  `json:"font_family" bson:"font_family"`
	FontSize   float64 `json:"font_size" bson:"font_size"`
	Color      Color   `json:"color" bson:"color"`
	Opacity    float64 `json:"opacity" bson:"opacity"`
}

// Glyph is one positioned symbol. Position is the glyph origin in the
// font's coordinate convention (left edge, vertical anchor on the staff
// position); the bounding box is the hit-test region, widened to ledger
// line extent for notes outside the staff.
type Glyph struct {
	Position        Point           `json:"position" bson:"position"`
	BoundingBox     BoundingBox     `json:"bounding_box" bson:"bounding_box"`
	Codepoint       string          `json:"codepoint" bson:"codepoint"`
	SourceReference SourceReference `json:"source_reference" bson:"source_reference"`
}

// SourceReference links a glyph back to the score element it was
// produced from. It is a plain lookup key (ids and indices), resolved by
// the consumer against its own copy of the score; the engine never uses
// it to reach back into the input.
//
// VoiceIndex and EventIndex are -1 when the dimension does not apply:
// clef and key glyphs carry the staff event index with VoiceIndex -1,
// time signature glyphs carry the global event index with VoiceIndex -1,
// and state-derived glyphs at a system start carry -1 for both.
type SourceReference struct {
	InstrumentID string `json:"instrument_id" bson:"instrument_id"`
	StaffIndex   int    `json:"staff_index" bson:"staff_index"`
	VoiceIndex   int    `json:"voice_index" bson:"voice_index"`
	EventIndex   int    `json:"event_index" bson:"event_index"`
}

// BracketGlyph is the brace or bracket drawn across a multi-staff group,
// vertically stretched to span from the top staff's top line to the
// bottom staff's bottom line.
type BracketGlyph struct {
	Position    Point       `json:"position" bson:"position"`
	ScaleY      float64     `json:"scale_y" bson:"scale_y"`
	BoundingBox BoundingBox `json:"bounding_box" bson:"bounding_box"`
	Codepoint   string      `json:"codepoint" bson:"codepoint"`
}

// MeasureNumber is the 1-based number of a system's first measure,
// positioned above the topmost staff.
type MeasureNumber struct {
	Number   int   `json:"number" bson:"number"`
	Position Point `json:"position" bson:"position"`
}

// =============================================================================
// Bar Lines, Stems, Beams
// =============================================================================

// BarLine is one bar line, drawn as one or two vertical strokes
// depending on its type.
type BarLine struct {
	Type     string           `json:"type" bson:"type"`
	Segments []BarLineSegment `json:"segments" bson:"segments"`
}

// BarLineSegment is a single vertical stroke; XPosition is the stroke
// centerline.
type BarLineSegment struct {
	XPosition   float64 `json:"x_position" bson:"x_position"`
	YStart      float64 `json:"y_start" bson:"y_start"`
	YEnd        float64 `json:"y_end" bson:"y_end"`
	StrokeWidth float64 `json:"stroke_width" bson:"stroke_width"`
}

// Stem is a note stem; XPosition is the stroke centerline and YEnd is
// the flag/beam end.
type Stem struct {
	XPosition float64 `json:"x_position" bson:"x_position"`
	YStart    float64 `json:"y_start" bson:"y_start"`
	YEnd      float64 `json:"y_end" bson:"y_end"`
	Direction string  `json:"direction" bson:"direction"`
	Thickness float64 `json:"thickness" bson:"thickness"`
}

// Beam is one beam stroke connecting stems of a beamed note group.
// Level 1 is the primary beam; higher levels subdivide shorter
// durations. A hook is a short stub attached to a single stem.
type Beam struct {
	XStart    float64 `json:"x_start" bson:"x_start"`
	YStart    float64 `json:"y_start" bson:"y_start"`
	XEnd      float64 `json:"x_end" bson:"x_end"`
	YEnd      float64 `json:"y_end" bson:"y_end"`
	Thickness float64 `json:"thickness" bson:"thickness"`
	Level     int     `json:"level" bson:"level"`
	IsHook    bool    `json:"is_hook" bson:"is_hook"`
}

// =============================================================================
// Geometry Primitives
// =============================================================================

// Point is a position in logical units.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// BoundingBox is an axis-aligned rectangle in logical units.
type BoundingBox struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Right returns the x coordinate of the right edge.
func (b BoundingBox) Right() float64 { return b.X + b.Width }

// Bottom returns the y coordinate of the bottom edge.
func (b BoundingBox) Bottom() float64 { return b.Y + b.Height }

// Contains reports whether the point lies inside the box. Edges count
// as inside.
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.X && x <= b.Right() && y >= b.Y && y <= b.Bottom()
}

// Intersects reports whether the two boxes overlap. Boxes that merely
// touch at an edge do not intersect.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return b.X < other.Right() && other.X < b.Right() &&
		b.Y < other.Bottom() && other.Y < b.Bottom()
}

// TickRange is a half-open tick interval [Start, End).
type TickRange struct {
	Start score.Tick `json:"start_tick" bson:"start_tick"`
	End   score.Tick `json:"end_tick" bson:"end_tick"`
}

// Contains reports whether the tick falls inside the range.
func (r TickRange) Contains(t score.Tick) bool {
	return t >= r.Start && t < r.End
}

// Color is an RGBA color with 8-bit channels.
type Color struct {
	R uint8 `json:"r" bson:"r"`
	G uint8 `json:"g" bson:"g"`
	B uint8 `json:"b" bson:"b"`
	A uint8 `json:"a" bson:"a"`
}

// Black is the default glyph color.
var Black = Color{R: 0, G: 0, B: 0, A: 255}

// =============================================================================
// Coordinate Rounding
// =============================================================================

// round2 rounds to two decimal places, half away from zero. Every
// coordinate in a finished layout passes through this so that equal
// inputs serialize to byte-identical output regardless of intermediate
// arithmetic.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (p *Point) round() {
	p.X = round2(p.X)
	p.Y = round2(p.Y)
}

func (b *BoundingBox) round() {
	b.X = round2(b.X)
	b.Y = round2(b.Y)
	b.Width = round2(b.Width)
	b.Height = round2(b.Height)
}

// roundAll normalizes every coordinate in the document to two decimals.
// Called once after assembly, before the layout is handed to the caller.
func (l *GlobalLayout) roundAll() {
	l.TotalWidth = round2(l.TotalWidth)
	l.TotalHeight = round2(l.TotalHeight)
	l.UnitsPerSpace = round2(l.UnitsPerSpace)
	for si := range l.Systems {
		sys := &l.Systems[si]
		sys.BoundingBox.round()
		if sys.MeasureNumber != nil {
			sys.MeasureNumber.Position.round()
		}
		for gi := range sys.StaffGroups {
			group := &sys.StaffGroups[gi]
			if bg := group.BracketGlyph; bg != nil {
				bg.Position.round()
				bg.BoundingBox.round()
				bg.ScaleY = round2(bg.ScaleY)
			}
			for sti := range group.Staves {
				staff := &group.Staves[sti]
				for i := range staff.StaffLines {
					line := &staff.StaffLines[i]
					line.YPosition = round2(line.YPosition)
					line.StartX = round2(line.StartX)
					line.EndX = round2(line.EndX)
				}
				for ri := range staff.GlyphRuns {
					run := &staff.GlyphRuns[ri]
					run.FontSize = round2(run.FontSize)
					run.Opacity = round2(run.Opacity)
					for i := range run.Glyphs {
						run.Glyphs[i].Position.round()
						run.Glyphs[i].BoundingBox.round()
					}
				}
				for i := range staff.StructuralGlyphs {
					staff.StructuralGlyphs[i].Position.round()
					staff.StructuralGlyphs[i].BoundingBox.round()
				}
				for bi := range staff.BarLines {
					for i := range staff.BarLines[bi].Segments {
						seg := &staff.BarLines[bi].Segments[i]
						seg.XPosition = round2(seg.XPosition)
						seg.YStart = round2(seg.YStart)
						seg.YEnd = round2(seg.YEnd)
						seg.StrokeWidth = round2(seg.StrokeWidth)
					}
				}
				for i := range staff.Stems {
					st := &staff.Stems[i]
					st.XPosition = round2(st.XPosition)
					st.YStart = round2(st.YStart)
					st.YEnd = round2(st.YEnd)
					st.Thickness = round2(st.Thickness)
				}
				for i := range staff.Beams {
					bm := &staff.Beams[i]
					bm.XStart = round2(bm.XStart)
					bm.YStart = round2(bm.YStart)
					bm.XEnd = round2(bm.XEnd)
					bm.YEnd = round2(bm.YEnd)
					bm.Thickness = round2(bm.Thickness)
				}
			}
		}
	}
}
