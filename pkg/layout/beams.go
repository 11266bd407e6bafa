package layout

import (
	"github.com/notationkit/stave/pkg/score"
	"github.com/notationkit/stave/pkg/smufl"
)

// Beaming. Eighth notes and shorter beam together within one beat of
// their measure; sixteenths add a second beam level. Beam coordinates
// are stroke centerlines.
const (
	beamableMax  = score.TicksPerQuarter / 2 // longest beamable duration
	secondaryMax = score.TicksPerQuarter / 4 // durations drawn with two beams

	beamHookLength = 0.75 // spaces
	maxBeamRise    = 0.5  // spaces of total slope over a group
)

// beatBoundaries returns the tick offsets where beats begin within one
// measure of the given meter. Compound and asymmetric eighth meters
// group in threes and twos; simple meters beat per quarter note.
func beatBoundaries(ts score.TimeSignature) []uint32 {
	const quarter = score.TicksPerQuarter
	const dottedQuarter = quarter * 3 / 2
	if ts.Denominator == 8 {
		switch ts.Numerator {
		case 3:
			return []uint32{0}
		case 6:
			return []uint32{0, dottedQuarter}
		case 9:
			return []uint32{0, dottedQuarter, 2 * dottedQuarter}
		case 12:
			return []uint32{0, dottedQuarter, 2 * dottedQuarter, 3 * dottedQuarter}
		case 5: // 3+2
			return []uint32{0, dottedQuarter}
		case 7: // 2+2+3
			return []uint32{0, quarter, 2 * quarter}
		}
	}
	bounds := make([]uint32, ts.Numerator)
	for i := range bounds {
		bounds[i] = uint32(i) * quarter
	}
	return bounds
}

// beatIndexAt returns which beat of its measure a tick falls in.
func beatIndexAt(tickInMeasure uint32, ts score.TimeSignature) int {
	idx := 0
	for i, b := range beatBoundaries(ts) {
		if tickInMeasure >= b {
			idx = i
		}
	}
	return idx
}

// beamGroups splits a voice's notes into beamed groups: maximal runs of
// beamable durations sharing one beat of one measure. Runs of a single
// note are not beamed and keep their flagged glyph.
func beamGroups(refs []noteRef, ms []measure) [][]noteRef {
	var groups [][]noteRef
	var current []noteRef
	curMeasure, curBeat := -1, -1

	flush := func() {
		if len(current) >= 2 {
			groups = append(groups, current)
		}
		current = nil
	}

	for _, r := range refs {
		if r.note.DurationTicks > beamableMax {
			flush()
			curMeasure, curBeat = -1, -1
			continue
		}
		mi := measureIndexFor(ms, r.note.StartTick)
		if mi < 0 {
			flush()
			continue
		}
		beat := beatIndexAt(uint32(r.note.StartTick-ms[mi].start), ms[mi].timeSig)
		if mi != curMeasure || beat != curBeat {
			flush()
			curMeasure, curBeat = mi, beat
		}
		current = append(current, r)
	}
	flush()
	return groups
}

// buildBeamedGroup produces the stems and beams for one beamed group.
// The primary beam runs from the first stem to the last with its slope
// clamped; stems stretch or shrink to meet it, and if any would fall
// under the minimum length the whole beam shifts away from the heads.
func buildBeamedGroup(notes []beamedNote, staffTop, ups float64) ([]Stem, []Beam) {
	if len(notes) < 2 {
		return nil, nil
	}
	eng := smufl.Engraving()
	dir := stemDirection(notes, staffTop, ups)
	cols := stemColumns(notes, dir, ups)
	if len(cols) < 2 {
		return nil, nil
	}

	sign := 1.0 // direction the stem grows on screen
	if dir == StemUp {
		sign = -1
	}

	first, last := cols[0], cols[len(cols)-1]
	firstBase := first.anchor + sign*stemLength*ups
	lastBase := last.anchor + sign*stemLength*ups

	slope := 0.0
	if dx := last.x - first.x; dx > 0 {
		slope = (lastBase - firstBase) / dx
		if maxSlope := maxBeamRise * ups / dx; slope > maxSlope {
			slope = maxSlope
		} else if slope < -maxSlope {
			slope = -maxSlope
		}
	}
	beamAt := func(x float64) float64 {
		return firstBase + slope*(x-first.x)
	}

	// Shift the beam away from the heads until every stem reaches the
	// minimum length.
	shift := 0.0
	for _, c := range cols {
		need := sign * (beamAt(c.x) - (c.anchor + sign*minBeamedStem*ups))
		if need < 0 && -need > shift {
			shift = -need
		}
	}
	offsetY := sign * shift

	stems := make([]Stem, len(cols))
	for i, c := range cols {
		stems[i] = Stem{
			XPosition: c.x,
			YStart:    c.anchor,
			YEnd:      beamAt(c.x) + offsetY,
			Direction: dir,
			Thickness: eng.StemThickness * ups,
		}
	}

	thickness := eng.BeamThickness * ups
	beams := []Beam{{
		XStart:    first.x,
		YStart:    beamAt(first.x) + offsetY,
		XEnd:      last.x,
		YEnd:      beamAt(last.x) + offsetY,
		Thickness: thickness,
		Level:     1,
	}}

	// Second beam level: runs of sixteenths get a parallel beam on the
	// notehead side; an isolated sixteenth gets a hook pointing into
	// its group.
	levelOffset := -sign * (thickness + eng.BeamSpacing*ups)
	secondary := func(x float64) float64 {
		return beamAt(x) + offsetY + levelOffset
	}
	for i := 0; i < len(cols); {
		if cols[i].duration > secondaryMax {
			i++
			continue
		}
		j := i
		for j+1 < len(cols) && cols[j+1].duration <= secondaryMax {
			j++
		}
		if j > i {
			beams = append(beams, Beam{
				XStart:    cols[i].x,
				YStart:    secondary(cols[i].x),
				XEnd:      cols[j].x,
				YEnd:      secondary(cols[j].x),
				Thickness: thickness,
				Level:     2,
			})
		} else {
			x0, x1 := cols[i].x, cols[i].x+beamHookLength*ups
			if i > 0 {
				x0, x1 = cols[i].x-beamHookLength*ups, cols[i].x
			}
			beams = append(beams, Beam{
				XStart:    x0,
				YStart:    secondary(x0),
				XEnd:      x1,
				YEnd:      secondary(x1),
				Thickness: thickness,
				Level:     2,
				IsHook:    true,
			})
		}
		i = j + 1
	}
	return stems, beams
}
