package layout

import (
	"sort"

	"github.com/notationkit/stave/pkg/score"
	"github.com/notationkit/stave/pkg/smufl"
)

// Accidental placement. The key signature decides which pitch classes
// sound without an accidental; everything else gets a sharp, flat, or
// natural. Within one measure an accidental already stated for a pitch
// class is not repeated.

// Circle-of-fifths orders as natural pitch classes: the i-th entry is
// the natural degree altered by the i-th sharp or flat of the key.
var (
	sharpOrderPC = [7]uint8{5, 0, 7, 2, 9, 4, 11} // F C G D A E B
	flatOrderPC  = [7]uint8{11, 4, 9, 2, 7, 0, 5} // B E A D G C F
)

// chromaticAlteration marks the pitch classes that have no natural
// spelling (the black keys).
var chromaticAlteration = [12]int{0, 1, 0, 1, 0, 0, 1, 0, 1, 0, 1, 0}

// noteKey addresses one note within a staff.
type noteKey struct {
	voice int
	event int
}

// accidentalPlan maps a staff's notes to the accidental each one
// carries, if any.
type accidentalPlan map[noteKey]rune

// accidentalFor returns the accidental a sounding pitch class needs
// under a key signature, or 0 for none.
func accidentalFor(pc uint8, key score.KeySignature) rune {
	sharps := key.Sharps()
	switch {
	case sharps > 0:
		inKey, altered := false, false
		for i := 0; i < sharps; i++ {
			nat := sharpOrderPC[i]
			if (nat+1)%12 == pc {
				inKey = true
			}
			if nat == pc {
				altered = true
			}
		}
		if chromaticAlteration[pc] == 1 {
			if inKey {
				return 0
			}
			return smufl.AccidentalSharp
		}
		if altered {
			return smufl.AccidentalNatural
		}
		return 0
	case sharps < 0:
		inKey, altered := false, false
		for i := 0; i < -sharps; i++ {
			nat := flatOrderPC[i]
			if (nat+11)%12 == pc {
				inKey = true
			}
			if nat == pc {
				altered = true
			}
		}
		if chromaticAlteration[pc] == 1 {
			if inKey {
				return 0
			}
			return smufl.AccidentalFlat
		}
		if altered {
			return smufl.AccidentalNatural
		}
		return 0
	default:
		if chromaticAlteration[pc] == 1 {
			return smufl.AccidentalSharp
		}
		return 0
	}
}

// planAccidentals walks every staff in tick order and decides which
// notes carry accidentals. Plans are indexed [instrument][staff]; the
// returned tick set marks ticks where any staff shows an accidental,
// used by the spacer to clear room.
func planAccidentals(sc *score.Score, ms []measure) ([][]accidentalPlan, map[score.Tick]bool) {
	plans := make([][]accidentalPlan, len(sc.Instruments))
	accTicks := make(map[score.Tick]bool)

	for ii, inst := range sc.Instruments {
		plans[ii] = make([]accidentalPlan, len(inst.Staves))
		for si, staff := range inst.Staves {
			plan := make(accidentalPlan)
			plans[ii][si] = plan

			type placed struct {
				tick  score.Tick
				pitch score.Pitch
				key   noteKey
			}
			var notes []placed
			for vi, voice := range staff.Voices {
				for ei, n := range voice.Notes {
					notes = append(notes, placed{n.StartTick, n.Pitch, noteKey{vi, ei}})
				}
			}
			sort.Slice(notes, func(i, j int) bool {
				if notes[i].tick != notes[j].tick {
					return notes[i].tick < notes[j].tick
				}
				if notes[i].key.voice != notes[j].key.voice {
					return notes[i].key.voice < notes[j].key.voice
				}
				return notes[i].key.event < notes[j].key.event
			})

			stated := make(map[uint8]rune)
			currentMeasure := -1
			for _, n := range notes {
				if mi := measureIndexFor(ms, n.tick); mi != currentMeasure {
					currentMeasure = mi
					stated = make(map[uint8]rune)
				}
				acc := accidentalFor(n.pitch.Class(), staff.KeyAt(n.tick))
				if acc == 0 || stated[n.pitch.Class()] == acc {
					continue
				}
				stated[n.pitch.Class()] = acc
				plan[n.key] = acc
				accTicks[n.tick] = true
			}
		}
	}
	return plans, accTicks
}
