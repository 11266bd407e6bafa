package layout

import (
	"sort"

	"github.com/notationkit/stave/pkg/score"
)

// measure is one bar of the score: a tick interval, the time signature
// governing it, and the spacing slots of everything sounding inside it.
type measure struct {
	index       int
	start       score.Tick
	end         score.Tick
	timeSig     score.TimeSignature
	keyChange   bool // a key signature event lands on this measure's start
	timeChange  bool // a time signature event lands on this measure's start
	doubleAtEnd bool // the following measure starts a key or time change
	final       bool // last measure of the whole score
	width       float64
	slots       []slot
}

// slotKind orders slots sharing a tick: structural glyphs render before
// the notes they govern.
type slotKind int

const (
	slotStructural slotKind = iota
	slotNotes
)

// slot is one horizontal anchor inside a measure. All staves share the
// same anchors, so simultaneous events across the score line up on one
// x position.
type slot struct {
	tick        score.Tick
	kind        slotKind
	minDuration uint32  // shortest duration starting at this tick
	leftPad     float64 // spaces cleared left of the anchor for accidentals
	spacing     float64 // spaces this slot adds to the measure width
	advance     float64 // spaces occupied right of the anchor by glyphs
	events      []inlineEvent
	x           float64 // logical units, assigned per system
}

// inlineEvent points at a structural event rendered mid-staff: a clef
// or key change on one staff, or a global time signature change drawn
// on every staff.
type inlineEvent struct {
	instIndex  int
	staffIndex int
	eventIndex int
	isGlobal   bool
}

// buildMeasures derives the measure list from the global time signature
// map. A time signature change truncates the measure it interrupts and
// starts a new one at its tick, so changes always sit on bar starts. A
// score with instruments but no notes still yields one empty measure.
func buildMeasures(sc *score.Score) []measure {
	var changeTicks []score.Tick
	for _, ev := range sc.Events {
		if ev.IsTimeSignature() && ev.Tick > 0 {
			changeTicks = append(changeTicks, ev.Tick)
		}
	}
	sort.Slice(changeTicks, func(i, j int) bool { return changeTicks[i] < changeTicks[j] })

	last := sc.LastTick()
	var ms []measure
	start := score.Tick(0)
	for {
		ts := sc.TimeSignatureAt(start)
		end := start.Add(ts.MeasureTicks())
		for _, t := range changeTicks {
			if t > start && t < end {
				end = t
				break
			}
		}
		ms = append(ms, measure{index: len(ms), start: start, end: end, timeSig: ts})
		start = end
		if start >= last {
			break
		}
	}
	return ms
}

// measureIndexFor returns the index of the measure containing the tick.
// Ticks at or beyond the final bar line report -1.
func measureIndexFor(ms []measure, tick score.Tick) int {
	i := sort.Search(len(ms), func(i int) bool { return ms[i].end > tick })
	if i == len(ms) {
		return -1
	}
	return i
}

// collectSlots fills each measure with its tick slots: one notes slot
// per distinct start tick across all staves, and one structural slot
// per tick carrying mid-score clef, key, or time signature changes.
func collectSlots(sc *score.Score, ms []measure) {
	type slotKey struct {
		tick score.Tick
		kind slotKind
	}
	perMeasure := make([]map[slotKey]*slot, len(ms))
	for i := range perMeasure {
		perMeasure[i] = make(map[slotKey]*slot)
	}

	upsert := func(tick score.Tick, kind slotKind) *slot {
		mi := measureIndexFor(ms, tick)
		if mi < 0 {
			return nil
		}
		key := slotKey{tick, kind}
		if s, ok := perMeasure[mi][key]; ok {
			return s
		}
		s := &slot{tick: tick, kind: kind}
		perMeasure[mi][key] = s
		return s
	}

	for gi, ev := range sc.Events {
		if !ev.IsTimeSignature() || ev.Tick == 0 {
			continue
		}
		if mi := measureIndexFor(ms, ev.Tick); mi >= 0 && ms[mi].start == ev.Tick {
			ms[mi].timeChange = true
		}
		if s := upsert(ev.Tick, slotStructural); s != nil {
			s.events = append(s.events, inlineEvent{eventIndex: gi, isGlobal: true})
		}
	}

	for ii, inst := range sc.Instruments {
		for si, staff := range inst.Staves {
			for ei, ev := range staff.Events {
				if ev.Tick == 0 {
					continue
				}
				if ev.IsKeySignature() {
					if mi := measureIndexFor(ms, ev.Tick); mi >= 0 && ms[mi].start == ev.Tick {
						ms[mi].keyChange = true
					}
				}
				if s := upsert(ev.Tick, slotStructural); s != nil {
					s.events = append(s.events, inlineEvent{instIndex: ii, staffIndex: si, eventIndex: ei})
				}
			}
			for _, voice := range staff.Voices {
				for _, note := range voice.Notes {
					s := upsert(note.StartTick, slotNotes)
					if s == nil {
						continue
					}
					if s.minDuration == 0 || note.DurationTicks < s.minDuration {
						s.minDuration = note.DurationTicks
					}
				}
			}
		}
	}

	for mi := range ms {
		slots := make([]slot, 0, len(perMeasure[mi]))
		for _, s := range perMeasure[mi] {
			slots = append(slots, *s)
		}
		sort.Slice(slots, func(i, j int) bool {
			if slots[i].tick != slots[j].tick {
				return slots[i].tick < slots[j].tick
			}
			return slots[i].kind < slots[j].kind
		})
		ms[mi].slots = slots
	}
}

// applyWidths assigns per-slot spacing and per-measure widths in
// logical units. accidentalTicks marks ticks where at least one staff
// needs an accidental, which clears extra room left of the slot.
func applyWidths(sc *score.Score, ms []measure, accidentalTicks map[score.Tick]bool, ups float64) {
	for mi := range ms {
		m := &ms[mi]
		var spaces float64
		for si := range m.slots {
			s := &m.slots[si]
			switch s.kind {
			case slotNotes:
				s.spacing = noteSlotSpacing(s.minDuration)
				if accidentalTicks[s.tick] {
					s.leftPad = accidentalAdvance
				}
			case slotStructural:
				s.spacing = s.structuralReserve(sc)
				s.advance = s.spacing
			}
			spaces += s.leftPad + s.spacing
		}
		if len(m.slots) == 0 {
			m.width = emptyMeasure * ups
			continue
		}
		m.width = (spaces + measurePadding) * ups
	}
}
