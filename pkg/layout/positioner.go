package layout

import (
	"sort"

	"github.com/notationkit/stave/pkg/score"
	"github.com/notationkit/stave/pkg/smufl"
)

// Vertical staff stacking, in staff spaces. Staves occupy rows counted
// across all instruments in score order.
const (
	staffRowStride    = 7.0
	staffHeightSpaces = 4.0
)

// systemBuilder assembles one system: it assigns shared x positions to
// the tick slots of its measures, then produces per-staff geometry.
type systemBuilder struct {
	sc    *score.Score
	cfg   Config
	ups   float64
	index int
	ms    []measure
	plans [][]accidentalPlan

	rng    TickRange
	margin float64
	width  float64
	noteX  map[score.Tick]float64
	barX   []float64
}

// buildSystem lays out one system from a run of measures. The system's
// bounding box y is assigned later by the vertical stacker.
func buildSystem(sc *score.Score, cfg Config, index int, ms []measure, plans [][]accidentalPlan) System {
	b := &systemBuilder{
		sc:      sc,
		cfg:     cfg,
		ups:     cfg.UnitsPerSpace,
		index:   index,
		ms:      ms,
		plans:   plans,
		rng:   TickRange{Start: ms[0].start, End: ms[len(ms)-1].end},
		noteX: make(map[score.Tick]float64),
	}
	b.margin = b.leftMargin()
	b.width = b.systemWidth()
	b.positionSlots()

	sys := System{
		Index:       index,
		BoundingBox: BoundingBox{X: 0, Y: 0, Width: b.width, Height: cfg.SystemHeight},
		TickRange:   b.rng,
		MeasureNumber: &MeasureNumber{
			Number:   ms[0].index + 1,
			Position: Point{X: clefInsetX * b.ups, Y: -measureNumRise * b.ups},
		},
	}

	row := 0
	for ii, inst := range sc.Instruments {
		group := StaffGroup{
			InstrumentID: inst.ID,
			BracketType:  bracketTypeFor(inst),
		}
		firstRow := row
		for si := range inst.Staves {
			group.Staves = append(group.Staves, b.buildStaff(ii, si, row))
			row++
		}
		if group.BracketType != BracketNone {
			top := float64(firstRow) * staffRowStride * b.ups
			bottom := float64(row-1)*staffRowStride*b.ups + staffHeightSpaces*b.ups
			group.BracketGlyph = buildBracketGlyph(group.BracketType, top, bottom, b.ups)
		}
		sys.StaffGroups = append(sys.StaffGroups, group)
	}
	return sys
}

// leftMargin reserves room for the staff-start clef and the widest key
// signature in force at the system start, shared by every staff so all
// staves begin their tick content on the same x.
func (b *systemBuilder) leftMargin() float64 {
	maxAccidentals := 0
	for _, inst := range b.sc.Instruments {
		for _, staff := range inst.Staves {
			if n := staff.KeyAt(b.rng.Start).AccidentalCount(); n > maxAccidentals {
				maxAccidentals = n
			}
		}
	}
	return (marginBase + keyAccidental*float64(maxAccidentals)) * b.ups
}

// systemWidth is the accumulated measure width, but never narrower than
// the margin plus trailing padding so an empty system still has room
// for its structural glyphs and final bar line.
func (b *systemBuilder) systemWidth() float64 {
	var w float64
	for i := range b.ms {
		w += b.ms[i].width
	}
	if min := b.margin + measurePadding*b.ups; w < min {
		w = min
	}
	return w
}

// positionSlots assigns shared x positions to every slot in the system.
// Positions are tick-proportional across the span, clamped so no slot
// sits closer to its predecessor than the minimum spacing plus whatever
// the predecessor's glyphs occupy and the slot's accidentals need.
// Bar line positions fall out of the same pass.
func (b *systemBuilder) positionSlots() {
	span := float64(b.rng.End - b.rng.Start)
	avail := b.width - b.margin
	prevX, prevAdvance := 0.0, 0.0
	first := true

	for mi := range b.ms {
		m := &b.ms[mi]
		lastX, lastAdvance := -1.0, 0.0
		for si := range m.slots {
			s := &m.slots[si]
			x := b.margin + float64(s.tick-b.rng.Start)/span*avail
			if first {
				if min := b.margin + s.leftPad*b.ups; x < min {
					x = min
				}
			} else if min := prevX + (prevAdvance+minSpacing+s.leftPad)*b.ups; x < min {
				x = min
			}
			s.x = x
			if s.kind == slotNotes {
				b.noteX[s.tick] = x
			}
			prevX, prevAdvance, first = x, s.advance, false
			lastX, lastAdvance = x, s.advance
		}

		bx := b.margin + float64(m.end-b.rng.Start)/span*avail
		if lastX >= 0 {
			if min := lastX + (lastAdvance+minSpacing)*b.ups; bx < min {
				bx = min
			}
		}
		if mi > 0 {
			if min := b.barX[mi-1] + minSpacing*b.ups; bx < min {
				bx = min
			}
		}
		b.barX = append(b.barX, bx)
	}
}

// buildStaff produces the geometry for one staff: lines, structural
// glyphs, positioned notes with accidentals, stems and beams for beamed
// groups, and bar lines.
func (b *systemBuilder) buildStaff(ii, si, row int) Staff {
	inst := b.sc.Instruments[ii]
	staff := inst.Staves[si]
	top := float64(row) * staffRowStride * b.ups

	out := Staff{
		StaffLines: make([]StaffLine, 5),
		GlyphRuns:  []GlyphRun{},
	}
	for i := range out.StaffLines {
		out.StaffLines[i] = StaffLine{
			YPosition: top + float64(i)*b.ups,
			StartX:    0,
			EndX:      b.width,
		}
	}

	out.StructuralGlyphs = b.startRow(inst, staff, si, top)
	out.StructuralGlyphs = append(out.StructuralGlyphs, b.inlineGlyphs(inst, staff, ii, si, top)...)

	var tickGlyphs []Glyph
	plan := b.plans[ii][si]
	for vi, voice := range staff.Voices {
		refs := b.systemNotes(voice)
		groups := beamGroups(refs, b.ms)
		beamed := make(map[int]bool)
		for _, g := range groups {
			for _, r := range g {
				beamed[r.event] = true
			}
		}

		for _, r := range refs {
			x := b.noteX[r.note.StartTick]
			clef := staff.ClefAt(r.note.StartTick)
			y := pitchY(r.note.Pitch, clef, top, b.ups)
			ref := SourceReference{
				InstrumentID: inst.ID,
				StaffIndex:   si,
				VoiceIndex:   vi,
				EventIndex:   r.event,
			}
			cp := noteheadFor(r.note.DurationTicks, beamed[r.event])
			tickGlyphs = append(tickGlyphs, b.glyph(cp, x, y, onLedgerLine(r.note.Pitch, clef), ref))
			if acc := plan[noteKey{vi, r.event}]; acc != 0 {
				ax := x - accidentalAdvance*b.ups
				tickGlyphs = append(tickGlyphs, b.glyph(acc, ax, y, false, ref))
			}
		}

		for _, g := range groups {
			placed := make([]beamedNote, len(g))
			for i, r := range g {
				clef := staff.ClefAt(r.note.StartTick)
				placed[i] = beamedNote{
					x:        b.noteX[r.note.StartTick],
					y:        pitchY(r.note.Pitch, clef, top, b.ups),
					duration: r.note.DurationTicks,
				}
			}
			stems, beams := buildBeamedGroup(placed, top, b.ups)
			out.Stems = append(out.Stems, stems...)
			out.Beams = append(out.Beams, beams...)
		}
	}

	sort.SliceStable(tickGlyphs, func(i, j int) bool {
		return tickGlyphs[i].Position.X < tickGlyphs[j].Position.X
	})
	styled := make([]styledGlyph, len(tickGlyphs))
	for i, g := range tickGlyphs {
		styled[i] = styledGlyph{glyph: g, style: defaultStyle(b.ups)}
	}
	out.GlyphRuns = batchGlyphs(styled)

	out.BarLines = buildBarLines(b.ms, b.barX, top, b.ups)
	return out
}

// noteRef pairs a note with its index within its voice, which is what
// source references point at.
type noteRef struct {
	event int
	note  score.Note
}

// systemNotes returns the voice's notes starting inside this system,
// ordered by tick with the voice's own order as tiebreak.
func (b *systemBuilder) systemNotes(voice *score.Voice) []noteRef {
	var refs []noteRef
	for ei, n := range voice.Notes {
		if b.rng.Contains(n.StartTick) {
			refs = append(refs, noteRef{event: ei, note: n})
		}
	}
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].note.StartTick < refs[j].note.StartTick
	})
	return refs
}

// noteheadFor maps a duration to its notehead glyph. Durations of a
// quarter note and shorter use combined note glyphs with a printed
// stem; beamed notes use the bare black notehead since their stems are
// drawn explicitly to meet the beam.
func noteheadFor(duration uint32, isBeamed bool) rune {
	if isBeamed {
		return smufl.NoteheadBlack
	}
	switch {
	case duration >= 4*score.TicksPerQuarter:
		return smufl.NoteheadWhole
	case duration >= 2*score.TicksPerQuarter:
		return smufl.NoteHalfUp
	case duration >= score.TicksPerQuarter:
		return smufl.NoteQuarterUp
	case duration >= score.TicksPerQuarter/2:
		return smufl.Note8thUp
	default:
		return smufl.Note16thUp
	}
}

// glyph builds one positioned glyph with its hit-test box. The box is
// the font bounding box scaled to logical units; noteheads outside the
// staff widen it by the ledger line extension on both sides.
func (b *systemBuilder) glyph(cp rune, x, y float64, ledger bool, ref SourceReference) Glyph {
	bb := smufl.CodepointBBox(cp)
	box := BoundingBox{
		X:      x + bb.X*b.ups,
		Y:      y - (bb.Y+bb.Height)*b.ups,
		Width:  bb.Width * b.ups,
		Height: bb.Height * b.ups,
	}
	if ledger {
		ext := smufl.Engraving().LegerLineExtension * b.ups
		box.X -= ext
		box.Width += 2 * ext
	}
	return Glyph{
		Position:        Point{X: x, Y: y},
		BoundingBox:     box,
		Codepoint:       string(cp),
		SourceReference: ref,
	}
}
