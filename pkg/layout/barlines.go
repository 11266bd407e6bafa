package layout

import (
	"github.com/notationkit/stave/pkg/smufl"
)

// Bar lines. Each measure ends in one: a single thin stroke normally, a
// double thin pair before a key or time signature change, and a
// thin-thick pair closing the score. Stroke dimensions come from the
// font's engraving defaults; x positions are stroke centerlines with
// the measure boundary as the right reference edge.

// buildBarLines renders one staff's bar lines for a system's measures,
// one per measure at the precomputed boundary positions.
func buildBarLines(ms []measure, barX []float64, staffTop, ups float64) []BarLine {
	eng := smufl.Engraving()
	yTop := staffTop
	yBottom := staffTop + staffHeightSpaces*ups

	out := make([]BarLine, 0, len(ms))
	for i := range ms {
		x := barX[i]
		thin := BarLineSegment{
			XPosition:   x,
			YStart:      yTop,
			YEnd:        yBottom,
			StrokeWidth: eng.ThinBarlineThickness * ups,
		}
		switch {
		case ms[i].final:
			thick := BarLineSegment{
				XPosition:   x - eng.ThickBarlineThickness/2*ups,
				YStart:      yTop,
				YEnd:        yBottom,
				StrokeWidth: eng.ThickBarlineThickness * ups,
			}
			thin.XPosition = thick.XPosition -
				(eng.ThickBarlineThickness/2+eng.BarlineSeparation+eng.ThinBarlineThickness/2)*ups
			out = append(out, BarLine{Type: BarFinal, Segments: []BarLineSegment{thin, thick}})
		case ms[i].doubleAtEnd:
			lead := thin
			lead.XPosition = x - eng.BarlineSeparation*ups
			out = append(out, BarLine{Type: BarDouble, Segments: []BarLineSegment{lead, thin}})
		default:
			out = append(out, BarLine{Type: BarSingle, Segments: []BarLineSegment{thin}})
		}
	}
	return out
}
