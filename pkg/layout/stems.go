package layout

import (
	"github.com/notationkit/stave/pkg/smufl"
)

// Stem geometry, in staff spaces. Beamed stems may shrink from the
// normal length down to the minimum before the whole beam is pushed
// away from the noteheads.
const (
	stemLength    = 3.5
	minBeamedStem = 2.5
)

// beamedNote is a positioned note inside a beamed group.
type beamedNote struct {
	x        float64
	y        float64
	duration uint32
}

// stemDirection picks one direction for a whole group by majority of
// its noteheads: heads below the middle line vote up, heads on or
// above it vote down, and ties stem up.
func stemDirection(notes []beamedNote, staffTop, ups float64) string {
	middle := staffTop + 2*ups
	up := 0
	for _, n := range notes {
		if n.y > middle {
			up++
		}
	}
	if up*2 >= len(notes) {
		return StemUp
	}
	return StemDown
}

// stemColumn is one stem within a beamed group. Chord notes at the same
// x share a column; the stem starts at the notehead farthest from the
// beam and the shortest chord duration governs beam levels.
type stemColumn struct {
	x        float64 // stem centerline
	anchor   float64 // notehead y the stem starts from
	duration uint32
}

// stemColumns collapses a group's notes into stem columns. Notes arrive
// in tick order, so chord members are adjacent and share an x.
func stemColumns(notes []beamedNote, dir string, ups float64) []stemColumn {
	headWidth := smufl.CodepointBBox(smufl.NoteheadBlack).Width * ups
	var cols []stemColumn
	for _, n := range notes {
		stemX := n.x
		if dir == StemUp {
			stemX += headWidth
		}
		if len(cols) > 0 && cols[len(cols)-1].x == stemX {
			last := &cols[len(cols)-1]
			if (dir == StemUp && n.y > last.anchor) || (dir == StemDown && n.y < last.anchor) {
				last.anchor = n.y
			}
			if n.duration < last.duration {
				last.duration = n.duration
			}
			continue
		}
		cols = append(cols, stemColumn{x: stemX, anchor: n.y, duration: n.duration})
	}
	return cols
}
