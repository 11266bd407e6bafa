package layout

import (
	"github.com/notationkit/stave/pkg/score"
)

// Vertical placement maps MIDI pitch to a diatonic step index (C=0, D=1,
// ... B=6 plus 7 per octave) and measures the distance from the clef's
// top-line reference step. Adjacent steps are half a staff space apart.

// diatonicPositions maps a pitch class to its diatonic step within the
// octave. Black keys share the step of their natural (sharp spelling).
var diatonicPositions = [12]int{0, 0, 1, 1, 2, 3, 3, 4, 4, 5, 5, 6}

// topLineStep is the diatonic step index sitting on the top staff line
// for each clef: F5 (treble), A3 (bass), G4 (alto), E4 (tenor).
var topLineStep = map[score.Clef]int{
	score.ClefTreble: 45,
	score.ClefBass:   33,
	score.ClefAlto:   39,
	score.ClefTenor:  37,
}

// clefAnchorPitch is the pitch whose staff line anchors the clef glyph:
// the G curl line, the F dot line, or the C gap line.
var clefAnchorPitch = map[score.Clef]score.Pitch{
	score.ClefTreble: 67, // G4
	score.ClefBass:   53, // F3
	score.ClefAlto:   60, // C4
	score.ClefTenor:  60, // C4
}

// diatonicStep returns the absolute diatonic step index of a pitch.
func diatonicStep(p score.Pitch) int {
	return int(p)/12*7 + diatonicPositions[p.Class()]
}

// pitchY returns the y coordinate of a pitch on a staff whose top line
// sits at staffTop, for the given clef. Steps below the reference line
// move down by half a space each.
func pitchY(p score.Pitch, clef score.Clef, staffTop, ups float64) float64 {
	ref, ok := topLineStep[clef]
	if !ok {
		ref = topLineStep[score.ClefTreble]
	}
	return staffTop + float64(ref-diatonicStep(p))*0.5*ups
}

// clefY returns the y coordinate of the clef glyph origin: the staff
// line the clef symbol wraps.
func clefY(clef score.Clef, staffTop, ups float64) float64 {
	p, ok := clefAnchorPitch[clef]
	if !ok {
		p = clefAnchorPitch[score.ClefTreble]
	}
	return pitchY(p, clef, staffTop, ups)
}

// onLedgerLine reports whether a pitch sits on or beyond a ledger line
// for the clef, i.e. at least one full space outside the five lines.
func onLedgerLine(p score.Pitch, clef score.Clef) bool {
	ref, ok := topLineStep[clef]
	if !ok {
		ref = topLineStep[score.ClefTreble]
	}
	offset := ref - diatonicStep(p) // half-spaces below the top line
	return offset <= -2 || offset >= 10
}

// Key signature accidentals are placed at conventional octaves per clef,
// in circle-of-fifths order: sharps F C G D A E B, flats B E A D G C F.
var (
	sharpRowPitches = map[score.Clef][7]score.Pitch{
		score.ClefTreble: {77, 72, 79, 74, 69, 76, 71},
		score.ClefBass:   {53, 48, 55, 50, 45, 52, 47},
		score.ClefAlto:   {65, 60, 67, 62, 57, 64, 59},
		score.ClefTenor:  {53, 60, 55, 62, 57, 64, 59},
	}
	flatRowPitches = map[score.Clef][7]score.Pitch{
		score.ClefTreble: {71, 76, 69, 74, 67, 72, 65},
		score.ClefBass:   {47, 52, 45, 50, 43, 48, 41},
		score.ClefAlto:   {59, 64, 57, 62, 55, 60, 53},
		score.ClefTenor:  {59, 64, 57, 62, 55, 60, 53},
	}
)

// keyRowPitch returns the pitch that positions the i-th key signature
// accidental for the clef.
func keyRowPitch(clef score.Clef, sharps bool, i int) score.Pitch {
	rows, ok := sharpRowPitches[clef]
	if !sharps {
		rows, ok = flatRowPitches[clef]
	}
	if !ok {
		if sharps {
			rows = sharpRowPitches[score.ClefTreble]
		} else {
			rows = flatRowPitches[score.ClefTreble]
		}
	}
	return rows[i]
}
