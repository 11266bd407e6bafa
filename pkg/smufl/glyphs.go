package smufl

// SMuFL codepoints placed by the layout engine.
const (
	// Staff brackets (U+E000–U+E00F)
	Brace   rune = 0xE000
	Bracket rune = 0xE002

	// Clefs (U+E050–U+E07F)
	GClef    rune = 0xE050
	CClef    rune = 0xE05C
	CClef8vb rune = 0xE05D
	FClef    rune = 0xE062

	// Time signature digits (U+E080–U+E089), contiguous 0–9
	TimeSig0 rune = 0xE080

	// Noteheads (U+E0A0–U+E0FF)
	NoteheadWhole rune = 0xE0A2
	NoteheadHalf  rune = 0xE0A3
	NoteheadBlack rune = 0xE0A4

	// Individual notes with stems and flags (U+E1D0–U+E1EF)
	NoteHalfUp    rune = 0xE1D3
	NoteQuarterUp rune = 0xE1D5
	Note8thUp     rune = 0xE1D7
	Note16thUp    rune = 0xE1D9

	// Standard accidentals (U+E260–U+E26F)
	AccidentalFlat    rune = 0xE260
	AccidentalNatural rune = 0xE261
	AccidentalSharp   rune = 0xE262
)

// TimeSigDigit returns the codepoint for a single time signature digit 0–9.
// Out-of-range digits return U+0000.
func TimeSigDigit(d int) rune {
	if d < 0 || d > 9 {
		return 0
	}
	return TimeSig0 + rune(d)
}

// names maps codepoints to canonical SMuFL glyph names, used for metrics
// lookup by codepoint.
var names = map[rune]string{
	Brace:             "brace",
	Bracket:           "bracket",
	GClef:             "gClef",
	CClef:             "cClef",
	CClef8vb:          "cClef8vb",
	FClef:             "fClef",
	TimeSig0 + 0:      "timeSig0",
	TimeSig0 + 1:      "timeSig1",
	TimeSig0 + 2:      "timeSig2",
	TimeSig0 + 3:      "timeSig3",
	TimeSig0 + 4:      "timeSig4",
	TimeSig0 + 5:      "timeSig5",
	TimeSig0 + 6:      "timeSig6",
	TimeSig0 + 7:      "timeSig7",
	TimeSig0 + 8:      "timeSig8",
	TimeSig0 + 9:      "timeSig9",
	NoteheadWhole:     "noteheadWhole",
	NoteheadHalf:      "noteheadHalf",
	NoteheadBlack:     "noteheadBlack",
	NoteHalfUp:        "noteHalfUp",
	NoteQuarterUp:     "noteQuarterUp",
	Note8thUp:         "note8thUp",
	Note16thUp:        "note16thUp",
	AccidentalFlat:    "accidentalFlat",
	AccidentalNatural: "accidentalNatural",
	AccidentalSharp:   "accidentalSharp",
}

// Name returns the canonical SMuFL glyph name for a codepoint, or "" if the
// codepoint is not part of the embedded subset.
func Name(cp rune) string {
	return names[cp]
}
