package layout

import (
	"github.com/notationkit/stave/pkg/score"
	"github.com/notationkit/stave/pkg/smufl"
)

// Structural glyphs: the clef, key signature, and time signature rows
// at the staff start, plus inline change glyphs at their tick position.

// startRow renders the staff-start state: the clef in force at the
// system start, its key signature row, and on the first system the
// opening time signature. These reflect resolved state rather than a
// single event, so their references carry -1 indices.
func (b *systemBuilder) startRow(inst *score.Instrument, staff *score.Staff, si int, top float64) []Glyph {
	clef := staff.ClefAt(b.rng.Start)
	ref := SourceReference{InstrumentID: inst.ID, StaffIndex: si, VoiceIndex: -1, EventIndex: -1}

	out := []Glyph{
		b.glyph(clefCodepoint(clef), clefInsetX*b.ups, clefY(clef, top, b.ups), false, ref),
	}
	key := staff.KeyAt(b.rng.Start)
	out = append(out, b.keyRow(key, clef, keyRowX*b.ups, top, ref)...)

	if b.index == 0 {
		ts := b.sc.TimeSignatureAt(b.rng.Start)
		tsX := (keyRowX + keyAccidental*float64(key.AccidentalCount()) + timeSigGap) * b.ups
		out = append(out, b.timeSigRow(ts, tsX, top, ref)...)
	}
	return out
}

// keyRow renders a key signature as a row of sharps or flats at their
// conventional staff positions for the clef.
func (b *systemBuilder) keyRow(key score.KeySignature, clef score.Clef, x, top float64, ref SourceReference) []Glyph {
	count := key.AccidentalCount()
	if count == 0 {
		return nil
	}
	sharps := key.Sharps() > 0
	cp := smufl.AccidentalFlat
	if sharps {
		cp = smufl.AccidentalSharp
	}
	out := make([]Glyph, 0, count)
	for i := 0; i < count; i++ {
		p := keyRowPitch(clef, sharps, i)
		gx := x + float64(i)*keyAccidental*b.ups
		out = append(out, b.glyph(cp, gx, pitchY(p, clef, top, b.ups), false, ref))
	}
	return out
}

// timeSigRow renders a time signature as two digit rows, numerator over
// denominator, each centered in its half of the staff with the narrower
// row centered under the wider.
func (b *systemBuilder) timeSigRow(ts score.TimeSignature, x, top float64, ref SourceReference) []Glyph {
	numW := digitRowWidth(int(ts.Numerator))
	denW := digitRowWidth(int(ts.Denominator))
	wider := numW
	if denW > wider {
		wider = denW
	}
	out := b.digitRow(int(ts.Numerator), x+(wider-numW)/2*b.ups, top+1*b.ups, ref)
	return append(out, b.digitRow(int(ts.Denominator), x+(wider-denW)/2*b.ups, top+3*b.ups, ref)...)
}

// digitRow renders a number as a left-to-right run of time signature
// digit glyphs.
func (b *systemBuilder) digitRow(n int, x, y float64, ref SourceReference) []Glyph {
	digits := digitsOf(n)
	out := make([]Glyph, 0, len(digits))
	for _, d := range digits {
		cp := smufl.TimeSigDigit(d)
		out = append(out, b.glyph(cp, x, y, false, ref))
		x += glyphAdvance(cp) * b.ups
	}
	return out
}

// inlineGlyphs renders mid-score structural changes at their tick slot:
// clef and key changes on their own staff, time signature changes on
// every staff. References carry the originating event index.
func (b *systemBuilder) inlineGlyphs(inst *score.Instrument, staff *score.Staff, ii, si int, top float64) []Glyph {
	var out []Glyph
	for mi := range b.ms {
		for sj := range b.ms[mi].slots {
			s := &b.ms[mi].slots[sj]
			if s.kind != slotStructural {
				continue
			}
			for _, ev := range s.events {
				switch {
				case ev.isGlobal:
					gev := b.sc.Events[ev.eventIndex]
					if gev.TimeSignature == nil {
						continue
					}
					ref := SourceReference{InstrumentID: inst.ID, StaffIndex: si, VoiceIndex: -1, EventIndex: ev.eventIndex}
					out = append(out, b.timeSigRow(*gev.TimeSignature, s.x, top, ref)...)
				case ev.instIndex == ii && ev.staffIndex == si:
					sev := staff.Events[ev.eventIndex]
					ref := SourceReference{InstrumentID: inst.ID, StaffIndex: si, VoiceIndex: -1, EventIndex: ev.eventIndex}
					switch sev.Type {
					case score.StaffClef:
						out = append(out, b.glyph(clefCodepoint(sev.Clef), s.x, clefY(sev.Clef, top, b.ups), false, ref))
					case score.StaffKeySignature:
						if sev.KeySignature != nil {
							clefHere := staff.ClefAt(sev.Tick)
							out = append(out, b.keyRow(*sev.KeySignature, clefHere, s.x, top, ref)...)
						}
					}
				}
			}
		}
	}
	return out
}
