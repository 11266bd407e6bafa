package layout

import (
	"math"

	"github.com/notationkit/stave/pkg/smufl"
)

// Glyph batching. Positioned glyphs are grouped into maximal
// left-to-right runs sharing one set of drawing attributes so renderers
// can draw each run with a single text call. Batching never reorders or
// repositions glyphs; callers hand over glyphs already sorted by x.

// styleEpsilon tolerates float noise when comparing sizes and
// opacities.
const styleEpsilon = 0.01

// glyphStyle is the set of drawing attributes a run shares.
type glyphStyle struct {
	fontFamily string
	fontSize   float64
	color      Color
	opacity    float64
}

// defaultStyle is the engine's uniform glyph style: the reference music
// font at the size that maps one em to four staff spaces.
func defaultStyle(ups float64) glyphStyle {
	return glyphStyle{
		fontFamily: smufl.FontName,
		fontSize:   smufl.EmSpaces * ups,
		color:      Black,
		opacity:    1,
	}
}

func (s glyphStyle) equal(other glyphStyle) bool {
	return s.fontFamily == other.fontFamily &&
		s.color == other.color &&
		math.Abs(s.fontSize-other.fontSize) < styleEpsilon &&
		math.Abs(s.opacity-other.opacity) < styleEpsilon
}

// styledGlyph pairs a glyph with its drawing attributes for batching.
type styledGlyph struct {
	glyph Glyph
	style glyphStyle
}

// batchGlyphs groups consecutive glyphs with matching styles into runs,
// preserving order. A lone dissimilar glyph starts its own run; runs
// are never empty.
func batchGlyphs(in []styledGlyph) []GlyphRun {
	runs := []GlyphRun{}
	for i, sg := range in {
		if i == 0 || !sg.style.equal(in[i-1].style) {
			runs = append(runs, GlyphRun{
				FontFamily: sg.style.fontFamily,
				FontSize:   sg.style.fontSize,
				Color:      sg.style.color,
				Opacity:    sg.style.opacity,
			})
		}
		last := &runs[len(runs)-1]
		last.Glyphs = append(last.Glyphs, sg.glyph)
	}
	return runs
}
