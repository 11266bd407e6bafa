package layout

import (
	"github.com/notationkit/stave/pkg/score"
	"github.com/notationkit/stave/pkg/smufl"
)

// Horizontal spacing constants, in staff spaces. Durations widen a slot
// proportionally; short durations pay a surcharge for their flag or
// beam, and nothing may sit closer to its neighbor than minSpacing.
const (
	baseSpacing     = 1.0  // floor for any tick slot
	durationFactor  = 2.0  // additional spaces per quarter note of duration
	minSpacing      = 1.0  // smallest gap between adjacent anchors
	eighthSurcharge = 0.75 // durations under a quarter
	sixteenthExtra  = 1.0  // durations under an eighth
	measurePadding  = 2.5  // trailing room before the bar line
	emptyMeasure    = 10.0 // width of a measure with no events
	structuralGap   = 0.5  // room after an inline clef/key/time glyph
)

// accidentalAdvance is the horizontal room an accidental needs left of
// its notehead, in spaces.
const accidentalAdvance = 1.45

// Staff-start margin: room for the clef plus the key signature row.
const (
	marginBase     = 8.5  // clef and time signature region
	keyAccidental  = 0.75 // per key signature accidental
	clefInsetX     = 1.0  // clef glyph x
	keyRowX        = 4.0  // key signature row start x
	timeSigGap     = 1.0  // gap between key signature row and time signature
	measureNumRise = 2.0  // measure number height above the top line
)

// noteSlotSpacing returns the width in spaces a tick slot contributes
// to its measure, from the shortest duration sounding at that tick.
func noteSlotSpacing(minDuration uint32) float64 {
	w := baseSpacing + float64(minDuration)/float64(score.TicksPerQuarter)*durationFactor
	if w < minSpacing {
		w = minSpacing
	}
	switch {
	case minDuration < score.TicksPerQuarter/2:
		w += sixteenthExtra
	case minDuration < score.TicksPerQuarter:
		w += eighthSurcharge
	}
	return w
}

// glyphAdvance returns the horizontal extent of a glyph in spaces,
// measured from its origin to its right edge.
func glyphAdvance(cp rune) float64 {
	bb := smufl.CodepointBBox(cp)
	return bb.X + bb.Width
}

// timeSigRowWidth returns the width in spaces of the wider digit row of
// a time signature.
func timeSigRowWidth(ts score.TimeSignature) float64 {
	num := digitRowWidth(int(ts.Numerator))
	den := digitRowWidth(int(ts.Denominator))
	if den > num {
		return den
	}
	return num
}

// digitRowWidth returns the width in spaces of a number rendered as a
// row of time signature digits.
func digitRowWidth(n int) float64 {
	var w float64
	for _, d := range digitsOf(n) {
		w += glyphAdvance(smufl.TimeSigDigit(d))
	}
	return w
}

// digitsOf splits a non-negative number into decimal digits, most
// significant first.
func digitsOf(n int) []int {
	if n < 10 {
		return []int{n}
	}
	return append(digitsOf(n/10), n%10)
}

// structuralReserve returns the width in spaces an inline structural
// slot occupies for its glyphs.
func (s *slot) structuralReserve(sc *score.Score) float64 {
	var w float64
	for _, ev := range s.events {
		var need float64
		switch {
		case ev.isGlobal:
			gev := sc.Events[ev.eventIndex]
			if gev.TimeSignature != nil {
				need = timeSigRowWidth(*gev.TimeSignature)
			}
		default:
			sev := sc.Instruments[ev.instIndex].Staves[ev.staffIndex].Events[ev.eventIndex]
			switch sev.Type {
			case score.StaffClef:
				need = glyphAdvance(clefCodepoint(sev.Clef))
			case score.StaffKeySignature:
				if sev.KeySignature != nil {
					need = keyAccidental * float64(sev.KeySignature.AccidentalCount())
				}
			}
		}
		if need > w {
			w = need
		}
	}
	if w > 0 {
		w += structuralGap
	}
	return w
}

// clefCodepoint maps a clef to its glyph.
func clefCodepoint(c score.Clef) rune {
	switch c {
	case score.ClefBass:
		return smufl.FClef
	case score.ClefAlto:
		return smufl.CClef
	case score.ClefTenor:
		return smufl.CClef8vb
	default:
		return smufl.GClef
	}
}
